package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/curator/internal/curation"
	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/enterprise"
	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/testutil"
	"github.com/alexanderramin/curator/internal/toast"
)

const (
	testEnterprise     = "5c0f1d9e-7a0a-4c66-9d3b-2b1f0a1e9c11"
	testEnterpriseName = "Acme Learning"
	testToken          = "test-token"

	testTimeout = 2 * time.Second
	testTick    = 5 * time.Millisecond
)

type harness struct {
	backend  *testutil.FakeBackend
	api      *enterprise.Client
	store    *curation.Store
	toasts   *toast.Queue
	curation CurationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := testutil.NewFakeBackend(t)
	backend.Token = testToken
	api := enterprise.NewClient(enterprise.Config{BaseURL: backend.APIURL(), Token: testToken}, nil)
	store := curation.NewStore()
	toasts := toast.NewQueue()
	return &harness{
		backend:  backend,
		api:      api,
		store:    store,
		toasts:   toasts,
		curation: NewCurationService(api, store, toasts, nil),
	}
}

// seedAndLoad stores cfg on the backend and loads it into the store.
func (h *harness) seedAndLoad(t *testing.T, sets ...domain.HighlightSet) domain.CurationConfiguration {
	t.Helper()
	h.backend.SeedConfig(testutil.NewTestConfig(testEnterprise, sets...))
	cfg, err := h.curation.Load(context.Background(), testEnterprise, testEnterpriseName)
	require.NoError(t, err)
	return cfg
}

func (h *harness) searchClient(t *testing.T) *search.Client {
	t.Helper()
	c, err := search.NewClient(search.Config{
		AppID:     "test-app",
		APIKey:    h.backend.LegacyKey,
		IndexName: "enterprise_catalog",
		BaseURL:   h.backend.SearchURL(),
	}, nil)
	require.NoError(t, err)
	return c
}

func (h *harness) toastTexts() []string {
	var out []string
	for _, t := range h.toasts.All() {
		out = append(out, t.Text)
	}
	return out
}

type recordingCleaner struct{ forgotten []string }

func (r *recordingCleaner) Forget(_ context.Context, setUUID string) error {
	r.forgotten = append(r.forgotten, setUUID)
	return nil
}

func setUUIDs(sets []domain.HighlightSet) []string {
	out := make([]string, 0, len(sets))
	for _, s := range sets {
		out = append(out, s.UUID)
	}
	return out
}
