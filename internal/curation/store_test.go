package curation

import (
	"errors"
	"testing"

	"github.com/alexanderramin/curator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedStore(t *testing.T, sets ...domain.HighlightSet) *Store {
	t.Helper()
	s := NewStore()
	s.Dispatch(SetConfig{Config: domain.CurationConfiguration{
		UUID:                     "cfg-1",
		Title:                    "Acme",
		CanOnlyViewHighlightSets: len(sets) > 0,
		HighlightSets:            sets,
	}})
	return s
}

func TestStore_SetConfigForcesVisibilityOffWithoutSets(t *testing.T) {
	s := NewStore()
	s.Dispatch(SetConfig{Config: domain.CurationConfiguration{
		UUID:                     "cfg-1",
		CanOnlyViewHighlightSets: true,
	}})

	cfg, ok := s.Config()
	require.True(t, ok)
	assert.False(t, cfg.CanOnlyViewHighlightSets)
}

func TestStore_AddHighlightSetPrepends(t *testing.T) {
	s := loadedStore(t, domain.HighlightSet{UUID: "old", Title: "Old"})

	s.AddHighlightSet(domain.HighlightSet{UUID: "new", Title: "New"})

	sets := s.HighlightSets()
	require.Len(t, sets, 2)
	assert.Equal(t, "new", sets[0].UUID)
	assert.Equal(t, "old", sets[1].UUID)
}

func TestStore_DeleteLastSetDisablesHighlightOnlyVisibility(t *testing.T) {
	s := loadedStore(t, domain.HighlightSet{UUID: "only"})
	cfg, _ := s.Config()
	require.True(t, cfg.CanOnlyViewHighlightSets)

	s.DeleteHighlightSet("only")

	cfg, _ = s.Config()
	assert.Empty(t, cfg.HighlightSets)
	assert.False(t, cfg.CanOnlyViewHighlightSets)
}

func TestStore_DeleteUnknownSetIsNoop(t *testing.T) {
	s := loadedStore(t, domain.HighlightSet{UUID: "a"})
	calls := 0
	s.Subscribe(func([]domain.HighlightSet) { calls++ })

	s.DeleteHighlightSet("missing")

	assert.Len(t, s.HighlightSets(), 1)
	assert.Equal(t, 0, calls)
}

func TestStore_MutationsBeforeLoadAreIgnored(t *testing.T) {
	s := NewStore()
	s.AddHighlightSet(domain.HighlightSet{UUID: "a"})
	s.StageToast("ignored")

	_, ok := s.Config()
	assert.False(t, ok)
	_, ok = s.TakeToast()
	assert.False(t, ok)
}

func TestStore_TakeToastReadsAndClears(t *testing.T) {
	s := loadedStore(t)
	s.StageToast(`"Spring Picks" added`)

	text, ok := s.TakeToast()
	require.True(t, ok)
	assert.Equal(t, `"Spring Picks" added`, text)

	_, ok = s.TakeToast()
	assert.False(t, ok)
}

func TestStore_RemoveHighlightedContent(t *testing.T) {
	s := loadedStore(t, domain.HighlightSet{
		UUID: "set-1",
		HighlightedContent: []domain.HighlightedContentItem{
			{ContentKey: "a"}, {ContentKey: "b"},
		},
	})

	s.Dispatch(RemoveHighlightedContent{SetUUID: "set-1", ContentKeys: []string{"a"}})

	sets := s.HighlightSets()
	require.Len(t, sets, 1)
	assert.Equal(t, []string{"b"}, sets[0].ContentKeys())
}

func TestStore_SubscribersSeeEverySetChange(t *testing.T) {
	s := NewStore()
	var seen [][]string
	unsubscribe := s.Subscribe(func(sets []domain.HighlightSet) {
		ids := make([]string, 0, len(sets))
		for _, h := range sets {
			ids = append(ids, h.UUID)
		}
		seen = append(seen, ids)
	})

	s.Dispatch(SetConfig{Config: domain.CurationConfiguration{UUID: "cfg"}})
	s.AddHighlightSet(domain.HighlightSet{UUID: "a"})
	s.StageToast("not a set change")
	s.DeleteHighlightSet("a")
	unsubscribe()
	s.AddHighlightSet(domain.HighlightSet{UUID: "b"})

	assert.Equal(t, [][]string{{}, {"a"}, {}}, seen)
}

func TestStore_FetchErrorKeepsPriorConfig(t *testing.T) {
	s := loadedStore(t, domain.HighlightSet{UUID: "a"})
	boom := errors.New("boom")

	s.Dispatch(SetLoading{})
	s.Dispatch(SetFetchError{Err: boom})

	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.ErrorIs(t, snap.FetchErr, boom)
	require.NotNil(t, snap.Config)
	assert.Len(t, snap.Config.HighlightSets, 1)
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	s := loadedStore(t, domain.HighlightSet{UUID: "a", Title: "A"})
	snap := s.Snapshot()
	snap.Config.HighlightSets[0].Title = "mutated"

	assert.Equal(t, "A", s.HighlightSets()[0].Title)
}
