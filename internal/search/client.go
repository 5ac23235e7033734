package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrSearchUnavailable indicates no search client could be built or the
	// search service could not be reached.
	ErrSearchUnavailable = errors.New("search service unavailable")

	// ErrSearchFailed indicates the search service answered with an error.
	ErrSearchFailed = errors.New("search request failed")
)

// Config holds what the client needs to reach one index.
type Config struct {
	AppID     string
	APIKey    string
	IndexName string
	// BaseURL overrides the default https://<app id>-dsn.algolia.net host.
	BaseURL   string
	TimeoutMs int
}

func (c Config) baseURL() string {
	if c.BaseURL != "" {
		return strings.TrimRight(c.BaseURL, "/")
	}
	return "https://" + strings.ToLower(c.AppID) + "-dsn.algolia.net"
}

// Query is one search request.
type Query struct {
	Text        string
	Filters     string
	HitsPerPage int
	Page        int
}

func (q Query) params() string {
	v := url.Values{}
	v.Set("query", q.Text)
	if q.Filters != "" {
		v.Set("filters", q.Filters)
	}
	if q.HitsPerPage > 0 {
		v.Set("hitsPerPage", strconv.Itoa(q.HitsPerPage))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v.Encode()
}

// Searcher is the read side of the content index.
type Searcher interface {
	Search(ctx context.Context, q Query) (*Result, error)
}

// Client queries the index over its REST API.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewClient validates cfg and returns a client. Missing credentials yield
// ErrSearchUnavailable.
func NewClient(cfg Config, observer Observer) (*Client, error) {
	if cfg.AppID == "" || cfg.APIKey == "" || cfg.IndexName == "" {
		return nil, ErrSearchUnavailable
	}
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 5000
	}
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
		observer: observer,
	}, nil
}

// WithAPIKey returns a copy of the client that authenticates with key.
func (c *Client) WithAPIKey(key string) *Client {
	cp := *c
	cp.cfg.APIKey = key
	return &cp
}

type queryRequest struct {
	Params string `json:"params"`
}

func (c *Client) Search(ctx context.Context, q Query) (*Result, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	res, status, err := c.doQuery(ctx, q)
	event := QueryEvent{
		Index:     c.cfg.IndexName,
		Query:     q.Text,
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if res != nil {
		event.Hits = res.NbHits
	}
	c.observer.OnQueryComplete(event)

	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil || isConnectionError(err) {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	return nil, err
}

func (c *Client) doQuery(ctx context.Context, q Query) (*Result, int, error) {
	data, err := json.Marshal(queryRequest{Params: q.params()})
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling query: %w", err)
	}

	endpoint := c.cfg.baseURL() + "/1/indexes/" + url.PathEscape(c.cfg.IndexName) + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Algolia-Application-Id", c.cfg.AppID)
	req.Header.Set("X-Algolia-API-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("%w: status %d: %s", ErrSearchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	for i := range res.Hits {
		res.Hits[i].ShortDescription = PlainText(res.Hits[i].ShortDescription)
	}
	return &res, resp.StatusCode, nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
