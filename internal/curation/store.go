// Package curation holds the enterprise's curation configuration and its
// highlight sets for one admin session.
package curation

import (
	"sync"

	"github.com/alexanderramin/curator/internal/domain"
)

// Listener is called after a dispatch that changed the highlight-set list.
type Listener func(sets []domain.HighlightSet)

// Store is the single shared mutable view of the curation configuration.
// All mutations funnel through Dispatch.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []Listener
}

// NewStore returns an empty store. The session bootstrap owns it and hands it
// to the components that read or mutate curation state.
func NewStore() *Store {
	return &Store{}
}

// Dispatch applies a to the current state. Listeners run synchronously after
// the state is committed, outside the store lock.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	next, setsChanged := reduce(s.state, a)
	s.state = next
	var listeners []Listener
	var sets []domain.HighlightSet
	if setsChanged {
		listeners = append(listeners, s.listeners...)
		sets = next.Config.Clone().HighlightSets
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(sets)
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Config returns a copy of the loaded configuration, or false before load.
func (s *Store) Config() (domain.CurationConfiguration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Config == nil {
		return domain.CurationConfiguration{}, false
	}
	return s.state.Config.Clone(), true
}

// HighlightSets returns a copy of the current highlight sets.
func (s *Store) HighlightSets() []domain.HighlightSet {
	cfg, ok := s.Config()
	if !ok {
		return nil
	}
	return cfg.HighlightSets
}

// AddHighlightSet prepends set. Callers dispatch it only after the server
// confirmed creation.
func (s *Store) AddHighlightSet(set domain.HighlightSet) {
	s.Dispatch(AddHighlightSet{Set: set})
}

// DeleteHighlightSet removes the set with uuid. Callers dispatch it only after
// the server confirmed deletion.
func (s *Store) DeleteHighlightSet(uuid string) {
	s.Dispatch(DeleteHighlightSet{UUID: uuid})
}

// StageToast stages text for the toast surface.
func (s *Store) StageToast(text string) {
	s.Dispatch(StageToast{Text: text})
}

// TakeToast returns the staged toast text and clears it.
func (s *Store) TakeToast() (string, bool) {
	s.mu.Lock()
	if s.state.Config == nil || s.state.Config.ToastText == nil {
		s.mu.Unlock()
		return "", false
	}
	text := *s.state.Config.ToastText
	s.state, _ = reduce(s.state, ClearToast{})
	s.mu.Unlock()
	return text, true
}

// Subscribe registers fn to be called whenever the highlight-set list changes.
// The returned func unregisters it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.listeners) {
			s.listeners[idx] = func([]domain.HighlightSet) {}
		}
	}
}
