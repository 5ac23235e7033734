package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []QueryEvent
}

func (r *recordingObserver) OnQueryComplete(e QueryEvent) { r.events = append(r.events, e) }

func TestNewClient_MissingCredentials(t *testing.T) {
	_, err := NewClient(Config{AppID: "app", IndexName: "idx"}, nil)
	assert.ErrorIs(t, err, ErrSearchUnavailable)

	_, err = NewClient(Config{APIKey: "k", IndexName: "idx"}, nil)
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestClient_Search_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/1/indexes/catalog/query", r.URL.Path)
		assert.Equal(t, "app", r.Header.Get("X-Algolia-Application-Id"))
		assert.Equal(t, "secured", r.Header.Get("X-Algolia-API-Key"))

		var body queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		params, err := url.ParseQuery(body.Params)
		require.NoError(t, err)
		assert.Equal(t, "python", params.Get("query"))
		assert.Equal(t, "enterprise_customer_uuids:ent-1", params.Get("filters"))
		assert.Equal(t, "25", params.Get("hitsPerPage"))
		assert.Equal(t, "2", params.Get("page"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"hits": []map[string]any{{
				"aggregation_key":   "course:edX+Py",
				"title":             "Python",
				"short_description": "<p>Learn <b>Python</b></p>",
			}},
			"nbHits":  1,
			"nbPages": 1,
			"page":    2,
		})
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c, err := NewClient(Config{AppID: "app", APIKey: "legacy", IndexName: "catalog", BaseURL: srv.URL}, obs)
	require.NoError(t, err)

	res, err := c.WithAPIKey("secured").Search(context.Background(), Query{
		Text:        "python",
		Filters:     "enterprise_customer_uuids:ent-1",
		HitsPerPage: 25,
		Page:        2,
	})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "Learn Python", res.Hits[0].ShortDescription)
	assert.Equal(t, 1, res.NbHits)
	assert.Equal(t, 2, res.Page)

	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, http.StatusOK, obs.events[0].Status)
	assert.Equal(t, 1, obs.events[0].Hits)
}

func TestClient_Search_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid API key"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	c, err := NewClient(Config{AppID: "app", APIKey: "k", IndexName: "idx", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), Query{Text: "x"})
	assert.ErrorIs(t, err, ErrSearchFailed)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_Search_Unreachable(t *testing.T) {
	c, err := NewClient(Config{AppID: "app", APIKey: "k", IndexName: "idx", BaseURL: "http://127.0.0.1:1"}, nil)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), Query{Text: "x"})
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestClient_Search_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c, err := NewClient(Config{AppID: "app", APIKey: "k", IndexName: "idx", BaseURL: srv.URL, TimeoutMs: 30}, nil)
	require.NoError(t, err)

	_, err = c.Search(context.Background(), Query{Text: "x"})
	assert.ErrorIs(t, err, ErrSearchUnavailable)
}

func TestConfig_DefaultHost(t *testing.T) {
	assert.Equal(t, "https://myapp-dsn.algolia.net", Config{AppID: "MYAPP"}.baseURL())
	assert.Equal(t, "http://local:9", Config{AppID: "x", BaseURL: "http://local:9/"}.baseURL())
}
