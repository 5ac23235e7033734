package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/curator/internal/archived"
	"github.com/alexanderramin/curator/internal/auth"
	"github.com/alexanderramin/curator/internal/config"
	"github.com/alexanderramin/curator/internal/testutil"
)

const enterpriseID = "1b6b9c3a-1d43-4a3f-9c35-77d1e0f0b7a2"

func signedToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func testConfig(t *testing.T, backend *testutil.FakeBackend) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.API.URL = backend.APIURL()
	cfg.API.Token = backend.Token
	cfg.Enterprise.ID = enterpriseID
	cfg.Enterprise.Name = "Acme"
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "curator.db")
	cfg.Search.AppID = "app"
	cfg.Search.APIKey = backend.LegacyKey
	cfg.Search.URL = backend.SearchURL()
	return cfg
}

func startSession(t *testing.T, cfg config.Config) *Session {
	t.Helper()
	s, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Start(context.Background()))
	return s
}

func TestSession_StartLoadsConfigAndAlerts(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Token = "opaque-token"
	set := testutil.NewTestHighlightSet("Legacy", testutil.WithContent("live"), testutil.WithArchivedContent("gone"))
	backend.SeedConfig(testutil.NewTestConfig(enterpriseID, set))

	s := startSession(t, testConfig(t, backend))

	ov, err := s.Overview()
	require.NoError(t, err)
	assert.Equal(t, enterpriseID, ov.EnterpriseID)
	require.Len(t, ov.Sets, 1)
	assert.Equal(t, 2, ov.Sets[0].Items)
	assert.Equal(t, 1, ov.Sets[0].Archived)
	assert.Equal(t, []string{"gone"}, ov.Sets[0].NewArchived)
	assert.True(t, ov.NewArchivedCourse)
	assert.Equal(t, 1, ov.NewArchivedCount)
	assert.True(t, s.Search.Available())
}

func TestSession_DismissPersistsPerNamespace(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Token = "opaque-token"
	set := testutil.NewTestHighlightSet("Legacy", testutil.WithArchivedContent("gone"))
	backend.SeedConfig(testutil.NewTestConfig(enterpriseID, set))
	cfg := testConfig(t, backend)

	first := startSession(t, cfg)
	require.NoError(t, first.Dismiss(context.Background(), archived.NamespaceCourse))
	require.NoError(t, first.Close())

	second := startSession(t, cfg)
	ov, err := second.Overview()
	require.NoError(t, err)
	assert.False(t, ov.NewArchivedCourse, "course notice stays dismissed")
	assert.Equal(t, []string{"gone"}, ov.Sets[0].NewArchived, "per-set banner is independent")
}

func TestSession_DismissUnknownNamespace(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Token = "opaque-token"
	set := testutil.NewTestHighlightSet("Legacy", testutil.WithArchivedContent("gone"))
	backend.SeedConfig(testutil.NewTestConfig(enterpriseID, set))
	s := startSession(t, testConfig(t, backend))

	err := s.Dismiss(context.Background(), archived.Namespace("banner"))
	require.ErrorIs(t, err, ErrUnknownNamespace)
	assert.Contains(t, err.Error(), `"banner"`)

	err = s.DismissSet(context.Background(), archived.Namespace("banner"), set.UUID)
	require.ErrorIs(t, err, ErrUnknownNamespace)

	ov, err := s.Overview()
	require.NoError(t, err)
	assert.True(t, ov.NewArchivedCourse)
	assert.Equal(t, []string{"gone"}, ov.Sets[0].NewArchived)
}

func TestSession_DismissSetOnlyTouchesThatSet(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Token = "opaque-token"
	picks := testutil.NewTestHighlightSet("Picks", testutil.WithArchivedContent("old"))
	more := testutil.NewTestHighlightSet("More", testutil.WithArchivedContent("older"))
	backend.SeedConfig(testutil.NewTestConfig(enterpriseID, picks, more))
	cfg := testConfig(t, backend)

	first := startSession(t, cfg)
	require.NoError(t, first.DismissSet(context.Background(), archived.NamespaceHighlightSet, picks.UUID))
	require.NoError(t, first.Close())

	second := startSession(t, cfg)
	ov, err := second.Overview()
	require.NoError(t, err)
	require.Len(t, ov.Sets, 2)
	byUUID := map[string]SetSummary{}
	for _, sum := range ov.Sets {
		byUUID[sum.UUID] = sum
	}
	assert.Empty(t, byUUID[picks.UUID].NewArchived)
	assert.Equal(t, []string{"older"}, byUUID[more.UUID].NewArchived)
	assert.True(t, ov.NewArchivedCourse, "course notice is a separate namespace")
}

func TestSession_DeleteForgetsDismissals(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Token = "opaque-token"
	set := testutil.NewTestHighlightSet("Legacy", testutil.WithArchivedContent("gone"))
	backend.SeedConfig(testutil.NewTestConfig(enterpriseID, set))

	s := startSession(t, testConfig(t, backend))
	require.NoError(t, s.Dismiss(context.Background(), archived.NamespaceHighlightSet))
	require.NoError(t, s.Curation.DeleteHighlightSet(context.Background(), set.UUID))

	ov, err := s.Overview()
	require.NoError(t, err)
	assert.Empty(t, ov.Sets)
	assert.False(t, ov.NewArchivedCourse)
}

func TestOpen_PicksEnterpriseFromToken(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Token = signedToken(t, "s3cret", jwt.MapClaims{
		"user_id": 7,
		"roles":   []string{"enterprise_admin:" + enterpriseID},
	})
	cfg := testConfig(t, backend)
	cfg.Enterprise.ID = ""
	cfg.API.JWTSecret = "s3cret"

	s, err := Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	assert.Equal(t, enterpriseID, s.Config.Enterprise.ID)
	assert.Equal(t, int64(7), s.Identity.UserID)
}

func TestOpen_RejectsForeignEnterprise(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Token = signedToken(t, "s3cret", jwt.MapClaims{
		"roles": []string{"enterprise_admin:someone-else"},
	})
	cfg := testConfig(t, backend)
	cfg.API.JWTSecret = "s3cret"

	_, err := Open(cfg, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOpen_NoEnterprise(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Token = "opaque-token"
	cfg := testConfig(t, backend)
	cfg.Enterprise.ID = ""

	_, err := Open(cfg, nil)
	assert.ErrorIs(t, err, ErrNoEnterprise)
}

func TestOpen_ExpiredToken(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Token = signedToken(t, "s3cret", jwt.MapClaims{"exp": 1000})
	cfg := testConfig(t, backend)
	cfg.API.JWTSecret = "s3cret"

	_, err := Open(cfg, nil)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(config.Config{}, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
