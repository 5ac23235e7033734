package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexanderramin/curator/internal/logger"
	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/stepper"
)

type contentSearch struct {
	base     *search.Client
	keys     SecuredKeyAPI
	observer UseCaseObserver
	log      logger.Logger
	now      func() time.Time

	mu     sync.Mutex
	sc     search.SessionContext
	scoped *search.Client
}

// NewContentSearch scopes queries for enterpriseID. A nil client leaves
// search unavailable; a nil keys API keeps the session on the legacy key.
func NewContentSearch(
	client *search.Client,
	keys SecuredKeyAPI,
	enterpriseID string,
	log logger.Logger,
	observers ...UseCaseObserver,
) ContentSearch {
	if log == nil {
		log = logger.Nop()
	}
	state := search.KeyPending
	if keys == nil {
		state = search.KeyUnavailable
	}
	return &contentSearch{
		base:     client,
		keys:     keys,
		observer: useCaseObserverOrNoop(observers),
		log:      log,
		now:      time.Now,
		sc:       search.SessionContext{EnterpriseID: enterpriseID, KeyState: state},
	}
}

func (s *contentSearch) Available() bool { return s.base != nil }

func (s *contentSearch) Session() search.SessionContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sc
}

func (s *contentSearch) FetchSecuredKey(ctx context.Context) search.SessionContext {
	startedAt := time.Now().UTC()
	s.mu.Lock()
	enterpriseID := s.sc.EnterpriseID
	if s.keys == nil {
		sc := s.sc
		s.mu.Unlock()
		return sc
	}
	s.sc.KeyState = search.KeyPending
	s.mu.Unlock()

	key, err := s.keys.FetchSecuredSearchKey(ctx, enterpriseID)
	observe(ctx, s.observer, "fetch-secured-search-key", startedAt, map[string]any{"enterprise": enterpriseID}, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || s.base == nil {
		if err != nil {
			s.log.Warn("secured_search_key_unavailable", logger.Error(err))
		}
		s.sc = search.SessionContext{EnterpriseID: enterpriseID, KeyState: search.KeyUnavailable}
		s.scoped = nil
		return s.sc
	}
	s.sc = search.SessionContext{
		EnterpriseID: enterpriseID,
		KeyState:     search.KeyAvailable,
		SecuredKey:   key.Key,
		ValidUntil:   key.ValidUntil,
	}
	s.scoped = s.base.WithAPIKey(key.Key)
	return s.sc
}

// current returns the session and the client to query with, refetching the
// secured key once if it has expired.
func (s *contentSearch) current(ctx context.Context) (search.SessionContext, *search.Client) {
	s.mu.Lock()
	sc, scoped := s.sc, s.scoped
	s.mu.Unlock()

	if sc.KeyState == search.KeyAvailable && !sc.Scoped(s.now()) {
		sc = s.FetchSecuredKey(ctx)
		s.mu.Lock()
		scoped = s.scoped
		s.mu.Unlock()
	}
	if sc.KeyState == search.KeyAvailable && scoped != nil {
		return sc, scoped
	}
	return sc, s.base
}

func (s *contentSearch) Browse(ctx context.Context, query string, page int) (*search.Result, error) {
	if s.base == nil {
		return nil, search.ErrSearchUnavailable
	}
	sc, client := s.current(ctx)
	filters := search.BuildBrowseFilters(sc)
	if filters == search.NoResultsFilter {
		return &search.Result{HitsPerPage: search.BrowsePageSize}, nil
	}
	return client.Search(ctx, search.Query{
		Text:        query,
		Filters:     filters,
		HitsPerPage: search.BrowsePageSize,
		Page:        page,
	})
}

func (s *contentSearch) Selected(ctx context.Context, orderedKeys []string) ([]search.Hit, error) {
	if s.base == nil {
		return nil, search.ErrSearchUnavailable
	}
	sc, client := s.current(ctx)
	filters := search.BuildFilters(orderedKeys, sc)
	if filters == search.NoResultsFilter {
		return nil, nil
	}
	res, err := client.Search(ctx, search.Query{
		Filters:     filters,
		HitsPerPage: search.ConfirmPageSize,
	})
	if err != nil {
		return nil, err
	}
	return search.OrderBySelection(res.Hits, orderedKeys), nil
}

func (s *contentSearch) Run(ctx context.Context, eff stepper.SearchEffect) stepper.SearchCompleted {
	done := stepper.SearchCompleted{Generation: eff.Generation}
	switch eff.Step {
	case stepper.StepConfirmContent:
		hits, err := s.Selected(ctx, eff.SelectionKeys)
		done.Err = err
		if err == nil {
			done.Result = &search.Result{Hits: hits, NbHits: len(hits), NbPages: 1, HitsPerPage: search.ConfirmPageSize}
		}
	default:
		done.Result, done.Err = s.Browse(ctx, eff.Query, eff.Page)
	}
	if done.Err != nil && !errors.Is(done.Err, search.ErrSearchUnavailable) {
		s.log.Warn("content_search_failed", logger.String("step", eff.Step.String()), logger.Error(done.Err))
	}
	return done
}
