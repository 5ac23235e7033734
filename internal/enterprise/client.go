// Package enterprise is the REST client for the enterprise curation API.
package enterprise

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
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/curator/internal/domain"
)

// Config holds what the client needs to reach the API.
type Config struct {
	BaseURL   string
	Token     string
	TimeoutMs int
}

// Client talks to the curation-config, highlight-sets and secured search key
// endpoints. Every call is a single attempt.
type Client struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

func NewClient(cfg Config, observer Observer) *Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.TimeoutMs <= 0 {
		cfg.TimeoutMs = 10000
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
			},
		},
		observer: observer,
	}
}

// FetchCurationConfigs lists the configurations owned by enterpriseID.
func (c *Client) FetchCurationConfigs(ctx context.Context, enterpriseID string) ([]domain.CurationConfiguration, error) {
	q := url.Values{"enterprise_customer": {enterpriseID}}
	var list curationConfigList
	if err := c.do(ctx, "fetch_curation_config", http.MethodGet, "curation-config?"+q.Encode(), nil, &list, http.StatusOK); err != nil {
		return nil, err
	}
	out := make([]domain.CurationConfiguration, 0, len(list.Results))
	for _, r := range list.Results {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (c *Client) CreateCurationConfig(ctx context.Context, enterpriseID, title string) (domain.CurationConfiguration, error) {
	body := createConfigRequest{EnterpriseCustomer: enterpriseID, Title: title}
	var resp curationConfigJSON
	if err := c.do(ctx, "create_curation_config", http.MethodPost, "curation-config", body, &resp, http.StatusCreated, http.StatusOK); err != nil {
		return domain.CurationConfiguration{}, err
	}
	return resp.toDomain(), nil
}

func (c *Client) UpdateCurationConfig(ctx context.Context, configUUID string, patch ConfigPatch) (domain.CurationConfiguration, error) {
	var resp curationConfigJSON
	if err := c.do(ctx, "update_curation_config", http.MethodPatch, "curation-config/"+url.PathEscape(configUUID), patch, &resp, http.StatusOK); err != nil {
		return domain.CurationConfiguration{}, err
	}
	return resp.toDomain(), nil
}

func (c *Client) CreateHighlightSet(ctx context.Context, in HighlightSetInput) (domain.HighlightSet, error) {
	var resp highlightSetJSON
	if err := c.do(ctx, "create_highlight_set", http.MethodPost, "highlight-sets", in, &resp, http.StatusCreated, http.StatusOK); err != nil {
		return domain.HighlightSet{}, err
	}
	return resp.toDomain(), nil
}

func (c *Client) GetHighlightSet(ctx context.Context, setUUID string) (domain.HighlightSet, error) {
	var resp highlightSetJSON
	if err := c.do(ctx, "get_highlight_set", http.MethodGet, "highlight-sets/"+url.PathEscape(setUUID), nil, &resp, http.StatusOK); err != nil {
		return domain.HighlightSet{}, err
	}
	return resp.toDomain(), nil
}

func (c *Client) DeleteHighlightSet(ctx context.Context, setUUID string) error {
	return c.do(ctx, "delete_highlight_set", http.MethodDelete, "highlight-sets/"+url.PathEscape(setUUID), nil, nil, http.StatusNoContent)
}

func (c *Client) RemoveHighlightedContent(ctx context.Context, setUUID string, contentKeys []string) error {
	body := removeContentRequest{ContentKeys: contentKeys}
	return c.do(ctx, "remove_highlighted_content", http.MethodPost,
		"highlight-sets/"+url.PathEscape(setUUID)+"/remove-content", body, nil, http.StatusCreated)
}

// FetchSecuredSearchKey returns the search credential scoped to the catalogs
// enterpriseID may see.
func (c *Client) FetchSecuredSearchKey(ctx context.Context, enterpriseID string) (SecuredKey, error) {
	q := url.Values{"enterprise_customer": {enterpriseID}}
	var resp securedKeyJSON
	if err := c.do(ctx, "fetch_secured_search_key", http.MethodGet, "enterprise-catalogs/secured-algolia-api-key?"+q.Encode(), nil, &resp, http.StatusOK); err != nil {
		return SecuredKey{}, err
	}
	if resp.Algolia.SecuredAPIKey == "" {
		return SecuredKey{}, &APIError{Op: "fetch_secured_search_key", Status: http.StatusOK, Body: "empty secured_api_key"}
	}
	return SecuredKey{Key: resp.Algolia.SecuredAPIKey, ValidUntil: parseTime(resp.Algolia.ValidUntil)}, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any, want ...int) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	status, err := c.roundTrip(ctx, op, method, path, in, out, want)

	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		Method:    method,
		Path:      stripQuery(path),
		Status:    status,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, in, out any, want []int) (int, error) {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("%s: marshaling request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+"/"+path, reqBody)
	if err != nil {
		return 0, fmt.Errorf("%s: creating request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "JWT "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		var netErr *net.OpError
		if ctx.Err() != nil || errors.As(err, &netErr) {
			return 0, fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%s: reading response: %w", op, err)
	}
	if !slices.Contains(want, resp.StatusCode) {
		return resp.StatusCode, &APIError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil || len(data) == 0 {
		return resp.StatusCode, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("%s: decoding response: %w", op, err)
	}
	return resp.StatusCode, nil
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
