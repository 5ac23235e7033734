package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/alexanderramin/curator/internal/domain"
)

// FakeCall is one request the fake backend received.
type FakeCall struct {
	Method string
	Route  string
	Path   string
	Body   map[string]any
}

// CatalogDoc is one document in the fake search index.
type CatalogDoc struct {
	ContentType string
	Key         string
	Title       string
	Description string
	Partner     string
	Archived    bool
}

func (d CatalogDoc) aggregationKey() string { return d.ContentType + ":" + d.Key }

// FakeBackend emulates the enterprise curation API and the search index
// behind one httptest server. Routes mirror the real paths under /api/v1 and
// /1/indexes.
type FakeBackend struct {
	Server *httptest.Server
	// Token, when set, must arrive as "JWT <token>".
	Token string
	// SecuredKey is returned by the secured key endpoint; empty answers 404.
	SecuredKey      string
	SecuredKeyUntil time.Time
	LegacyKey       string

	mu       sync.Mutex
	configs  map[string]*domain.CurationConfiguration
	catalog  []CatalogDoc
	calls    []FakeCall
	failures map[string][]int
	block    map[string]chan struct{}
}

// NewFakeBackend starts a fake and closes it when t ends.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()
	f := &FakeBackend{
		LegacyKey: "legacy-key",
		configs:   map[string]*domain.CurationConfiguration{},
		failures:  map[string][]int{},
		block:     map[string]chan struct{}{},
	}
	f.Server = httptest.NewServer(f.routes())
	t.Cleanup(f.Server.Close)
	return f
}

// APIURL is the base URL for the enterprise client.
func (f *FakeBackend) APIURL() string { return f.Server.URL + "/api/v1" }

// SearchURL is the base URL for the search client.
func (f *FakeBackend) SearchURL() string { return f.Server.URL }

func (f *FakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(f.requireToken)
		r.Get("/curation-config", f.listConfigs)
		r.Post("/curation-config", f.createConfig)
		r.Patch("/curation-config/{uuid}", f.patchConfig)
		r.Post("/highlight-sets", f.createSet)
		r.Get("/highlight-sets/{uuid}", f.getSet)
		r.Delete("/highlight-sets/{uuid}", f.deleteSet)
		r.Post("/highlight-sets/{uuid}/remove-content", f.removeContent)
		r.Get("/enterprise-catalogs/secured-algolia-api-key", f.securedKey)
	})
	r.Post("/1/indexes/{index}/query", f.query)
	return r
}

// SeedConfig stores cfg as the enterprise's configuration.
func (f *FakeBackend) SeedConfig(cfg domain.CurationConfiguration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := cfg.Clone()
	f.configs[c.EnterpriseCustomer] = &c
}

// Config returns the stored configuration for enterpriseID.
func (f *FakeBackend) Config(enterpriseID string) (domain.CurationConfiguration, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.configs[enterpriseID]
	if !ok {
		return domain.CurationConfiguration{}, false
	}
	return c.Clone(), true
}

// AddCatalog indexes docs for search and for materializing created sets.
func (f *FakeBackend) AddCatalog(docs ...CatalogDoc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalog = append(f.catalog, docs...)
}

// FailNext makes the next calls matching "METHOD /route" answer with the
// given statuses, one per call.
func (f *FakeBackend) FailNext(method, route string, statuses ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := method + " " + route
	f.failures[k] = append(f.failures[k], statuses...)
}

// Block holds the next call matching "METHOD /route" until the returned
// func runs.
func (f *FakeBackend) Block(method, route string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.block[method+" "+route] = ch
	f.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() { close(ch) })
	}
}

// Calls returns every recorded request.
func (f *FakeBackend) Calls() []FakeCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeCall(nil), f.calls...)
}

// CallCount counts recorded requests matching "METHOD /route".
func (f *FakeBackend) CallCount(method, route string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Method == method && c.Route == route {
			n++
		}
	}
	return n
}

func routeKey(r *http.Request) string {
	pattern := chi.RouteContext(r.Context()).RoutePattern()
	return r.Method + " " + strings.TrimPrefix(pattern, "/api/v1")
}

func (f *FakeBackend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if f.Token != "" && r.Header.Get("Authorization") != "JWT "+f.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// begin records the call and applies any queued failure or block. It
// reports false when a failure response was written.
func (f *FakeBackend) begin(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	key := routeKey(r)
	method, route, _ := strings.Cut(key, " ")
	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	f.mu.Lock()
	f.calls = append(f.calls, FakeCall{Method: method, Route: route, Path: r.URL.Path, Body: body})
	gate := f.block[key]
	delete(f.block, key)
	var status int
	if q := f.failures[key]; len(q) > 0 {
		status = q[0]
		f.failures[key] = q[1:]
	}
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if status != 0 {
		writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
		return nil, false
	}
	return body, true
}

func (f *FakeBackend) listConfigs(w http.ResponseWriter, r *http.Request) {
	if _, ok := f.begin(w, r); !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	results := []map[string]any{}
	if c, ok := f.configs[r.URL.Query().Get("enterprise_customer")]; ok {
		results = append(results, configJSON(*c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(results), "results": results})
}

func (f *FakeBackend) createConfig(w http.ResponseWriter, r *http.Request) {
	body, ok := f.begin(w, r)
	if !ok {
		return
	}
	ent, _ := body["enterprise_customer"].(string)
	title, _ := body["title"].(string)
	now := time.Now().UTC()
	c := &domain.CurationConfiguration{
		UUID:                     uuid.New().String(),
		Title:                    title,
		EnterpriseCustomer:       ent,
		IsHighlightFeatureActive: true,
		Created:                  now,
		Modified:                 now,
	}
	f.mu.Lock()
	f.configs[ent] = c
	out := configJSON(*c)
	f.mu.Unlock()
	writeJSON(w, http.StatusCreated, out)
}

func (f *FakeBackend) patchConfig(w http.ResponseWriter, r *http.Request) {
	body, ok := f.begin(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "uuid")
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.configByUUID(id)
	if c == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if v, ok := body["can_only_view_highlight_sets"].(bool); ok {
		c.CanOnlyViewHighlightSets = v
	}
	c.Modified = time.Now().UTC()
	c.Normalize()
	writeJSON(w, http.StatusOK, configJSON(*c))
}

func (f *FakeBackend) createSet(w http.ResponseWriter, r *http.Request) {
	body, ok := f.begin(w, r)
	if !ok {
		return
	}
	ent, _ := body["enterprise_customer"].(string)
	title, _ := body["title"].(string)
	var keys []string
	if raw, ok := body["content_keys"].([]any); ok {
		for _, k := range raw {
			if s, ok := k.(string); ok {
				keys = append(keys, s)
			}
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.configs[ent]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "no curation configuration"})
		return
	}
	if len([]rune(title)) > domain.MaxHighlightTitleLength || len(keys) > domain.MaxContentItemsPerHighlightSet {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "invalid highlight set"})
		return
	}
	set := domain.HighlightSet{
		UUID:               uuid.New().String(),
		Title:              title,
		IsPublished:        true,
		EnterpriseCuration: c.UUID,
	}
	for _, k := range keys {
		item := f.contentFor(k)
		set.HighlightedContent = append(set.HighlightedContent, item)
		set.HighlightedContentUUIDs = append(set.HighlightedContentUUIDs, item.UUID)
	}
	c.HighlightSets = append([]domain.HighlightSet{set}, c.HighlightSets...)
	writeJSON(w, http.StatusCreated, setJSON(set))
}

func (f *FakeBackend) getSet(w http.ResponseWriter, r *http.Request) {
	if _, ok := f.begin(w, r); !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, set := f.setByUUID(chi.URLParam(r, "uuid"))
	if set == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, setJSON(*set))
}

func (f *FakeBackend) deleteSet(w http.ResponseWriter, r *http.Request) {
	if _, ok := f.begin(w, r); !ok {
		return
	}
	id := chi.URLParam(r, "uuid")
	f.mu.Lock()
	defer f.mu.Unlock()
	c, set := f.setByUUID(id)
	if set == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	kept := c.HighlightSets[:0]
	for _, h := range c.HighlightSets {
		if h.UUID != id {
			kept = append(kept, h)
		}
	}
	c.HighlightSets = kept
	c.Normalize()
	w.WriteHeader(http.StatusNoContent)
}

func (f *FakeBackend) removeContent(w http.ResponseWriter, r *http.Request) {
	body, ok := f.begin(w, r)
	if !ok {
		return
	}
	var keys []string
	if raw, ok := body["content_keys"].([]any); ok {
		for _, k := range raw {
			if s, ok := k.(string); ok {
				keys = append(keys, s)
			}
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, set := f.setByUUID(chi.URLParam(r, "uuid"))
	if set == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	for i := range c.HighlightSets {
		if c.HighlightSets[i].UUID == set.UUID {
			c.HighlightSets[i] = c.HighlightSets[i].WithoutContent(keys)
		}
	}
	w.WriteHeader(http.StatusCreated)
}

func (f *FakeBackend) securedKey(w http.ResponseWriter, r *http.Request) {
	if _, ok := f.begin(w, r); !ok {
		return
	}
	if f.SecuredKey == "" {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	resp := map[string]any{"algolia": map[string]string{
		"secured_api_key": f.SecuredKey,
		"valid_until":     f.SecuredKeyUntil.UTC().Format(time.RFC3339),
	}}
	if f.SecuredKeyUntil.IsZero() {
		resp["algolia"] = map[string]string{"secured_api_key": f.SecuredKey}
	}
	writeJSON(w, http.StatusOK, resp)
}

var aggregationClause = regexp.MustCompile(`aggregation_key:'((?:[^'\\]|\\.)*)'`)

func (f *FakeBackend) query(w http.ResponseWriter, r *http.Request) {
	body, ok := f.begin(w, r)
	if !ok {
		return
	}
	key := r.Header.Get("X-Algolia-API-Key")
	if key != f.LegacyKey && (f.SecuredKey == "" || key != f.SecuredKey) {
		writeJSON(w, http.StatusForbidden, map[string]string{"message": "Invalid Application-ID or API key"})
		return
	}

	raw, _ := body["params"].(string)
	params, _ := url.ParseQuery(raw)
	text := strings.ToLower(params.Get("query"))
	filters := params.Get("filters")
	perPage, _ := strconv.Atoi(params.Get("hitsPerPage"))
	if perPage <= 0 {
		perPage = 20
	}
	page, _ := strconv.Atoi(params.Get("page"))

	var wanted map[string]bool
	if strings.Contains(filters, "aggregation_key:") {
		wanted = map[string]bool{}
		for _, m := range aggregationClause.FindAllStringSubmatch(filters, -1) {
			wanted[strings.ReplaceAll(m[1], `\'`, `'`)] = true
		}
	}

	f.mu.Lock()
	var matched []CatalogDoc
	for _, d := range f.catalog {
		if wanted != nil && !wanted[d.aggregationKey()] {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(d.Title), text) {
			continue
		}
		matched = append(matched, d)
	}
	f.mu.Unlock()

	nbPages := (len(matched) + perPage - 1) / perPage
	start := page * perPage
	if start > len(matched) {
		start = len(matched)
	}
	end := start + perPage
	if end > len(matched) {
		end = len(matched)
	}
	hits := make([]map[string]any, 0, end-start)
	for _, d := range matched[start:end] {
		hits = append(hits, map[string]any{
			"objectID":          d.aggregationKey(),
			"aggregation_key":   d.aggregationKey(),
			"content_type":      d.ContentType,
			"key":               d.Key,
			"title":             d.Title,
			"short_description": d.Description,
			"partners":          []map[string]string{{"name": d.Partner}},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hits":        hits,
		"nbHits":      len(matched),
		"nbPages":     nbPages,
		"page":        page,
		"hitsPerPage": perPage,
	})
}

func (f *FakeBackend) configByUUID(id string) *domain.CurationConfiguration {
	for _, c := range f.configs {
		if c.UUID == id {
			return c
		}
	}
	return nil
}

func (f *FakeBackend) setByUUID(id string) (*domain.CurationConfiguration, *domain.HighlightSet) {
	for _, c := range f.configs {
		for i := range c.HighlightSets {
			if c.HighlightSets[i].UUID == id {
				return c, &c.HighlightSets[i]
			}
		}
	}
	return nil, nil
}

func (f *FakeBackend) contentFor(key string) domain.HighlightedContentItem {
	item := NewTestContent(key)
	for _, d := range f.catalog {
		if d.Key != key {
			continue
		}
		item.ContentType = domain.ContentType(d.ContentType)
		item.Title = d.Title
		if d.Archived {
			item.CourseRunStatuses = []string{domain.CourseRunArchived}
		}
		if d.Partner != "" {
			item.AuthoringOrganizations = []domain.Organization{{Name: d.Partner}}
		}
	}
	return item
}

func configJSON(c domain.CurationConfiguration) map[string]any {
	sets := make([]map[string]any, 0, len(c.HighlightSets))
	for _, h := range c.HighlightSets {
		sets = append(sets, setJSON(h))
	}
	return map[string]any{
		"uuid":                         c.UUID,
		"title":                        c.Title,
		"created":                      c.Created.Format(time.RFC3339Nano),
		"modified":                     c.Modified.Format(time.RFC3339Nano),
		"enterprise_customer":          c.EnterpriseCustomer,
		"is_highlight_feature_active":  c.IsHighlightFeatureActive,
		"can_only_view_highlight_sets": c.CanOnlyViewHighlightSets,
		"highlight_sets":               sets,
	}
}

func setJSON(h domain.HighlightSet) map[string]any {
	items := make([]map[string]any, 0, len(h.HighlightedContent))
	for _, c := range h.HighlightedContent {
		orgs := make([]map[string]string, 0, len(c.AuthoringOrganizations))
		for _, o := range c.AuthoringOrganizations {
			orgs = append(orgs, map[string]string{"uuid": o.UUID, "name": o.Name, "logo_image_url": o.LogoURL})
		}
		items = append(items, map[string]any{
			"uuid":                    c.UUID,
			"content_key":             c.ContentKey,
			"content_type":            string(c.ContentType),
			"title":                   c.Title,
			"card_image_url":          c.CardImageURL,
			"authoring_organizations": orgs,
			"course_run_statuses":     c.CourseRunStatuses,
		})
	}
	uuids := h.HighlightedContentUUIDs
	if uuids == nil {
		uuids = []string{}
	}
	return map[string]any{
		"uuid":                      h.UUID,
		"title":                     h.Title,
		"is_published":              h.IsPublished,
		"enterprise_curation":       h.EnterpriseCuration,
		"card_image_url":            h.CardImageURL,
		"highlighted_content_uuids": uuids,
		"highlighted_content":       items,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		panic(fmt.Sprintf("fake backend: encoding response: %v", err))
	}
}
