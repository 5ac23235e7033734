package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/curator/internal/curation"
	"github.com/alexanderramin/curator/internal/enterprise"
	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/stepper"
	"github.com/alexanderramin/curator/internal/toast"
)

// wizardService owns one stepper.Workflow and runs the effects it emits.
// The lock is never held across a remote call, so a search can complete
// while another is in flight and stale results are dropped by generation.
type wizardService struct {
	api          CurationAPI
	store        *curation.Store
	toasts       *toast.Queue
	searcher     ContentSearch
	enterpriseID string
	observer     UseCaseObserver

	mu sync.Mutex
	wf stepper.Workflow
}

func NewWizardService(
	api CurationAPI,
	store *curation.Store,
	toasts *toast.Queue,
	searcher ContentSearch,
	enterpriseID string,
	observers ...UseCaseObserver,
) WizardService {
	return &wizardService{
		api:          api,
		store:        store,
		toasts:       toasts,
		searcher:     searcher,
		enterpriseID: enterpriseID,
		observer:     useCaseObserverOrNoop(observers),
		wf:           stepper.New(),
	}
}

func (s *wizardService) Workflow() stepper.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wf
}

func (s *wizardService) Open() stepper.Workflow {
	wf, _ := s.apply(stepper.Open{})
	return wf
}

func (s *wizardService) Dispatch(ctx context.Context, ev stepper.Event) (stepper.Workflow, error) {
	wf, eff := s.apply(ev)

	switch e := eff.(type) {
	case stepper.PublishEffect:
		return s.publish(ctx, e)
	case stepper.SearchEffect:
		done := s.runSearch(ctx, e)
		wf, _ = s.apply(done)
		return wf, nil
	default:
		return wf, nil
	}
}

func (s *wizardService) apply(ev stepper.Event) (stepper.Workflow, stepper.Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, eff := s.wf.Apply(ev)
	s.wf = next
	return next, eff
}

func (s *wizardService) publish(ctx context.Context, e stepper.PublishEffect) (wf stepper.Workflow, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"title": e.Title, "keys": len(e.ContentKeys)}
	defer func() { observe(ctx, s.observer, "publish-highlight-set", startedAt, fields, err) }()

	set, err := s.api.CreateHighlightSet(ctx, enterprise.HighlightSetInput{
		EnterpriseCustomer: s.enterpriseID,
		Title:              e.Title,
		ContentKeys:        e.ContentKeys,
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrPublish, err)
		wf, _ = s.apply(stepper.PublishFailed{Err: err})
		return wf, err
	}

	wf, _ = s.apply(stepper.PublishSucceeded{Set: set})
	fields["highlight_set"] = set.UUID
	s.store.AddHighlightSet(set)
	s.store.StageToast(toast.Added(set.Title))
	if s.toasts != nil {
		s.toasts.DrainFrom(s.store)
	}
	return wf, nil
}

func (s *wizardService) runSearch(ctx context.Context, e stepper.SearchEffect) stepper.SearchCompleted {
	if s.searcher == nil {
		return stepper.SearchCompleted{Generation: e.Generation, Err: search.ErrSearchUnavailable}
	}
	return s.searcher.Run(ctx, e)
}
