package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/curator/internal/curation"
	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/enterprise"
	"github.com/alexanderramin/curator/internal/logger"
	"github.com/alexanderramin/curator/internal/toast"
)

type curationService struct {
	api      CurationAPI
	store    *curation.Store
	toasts   *toast.Queue
	observer UseCaseObserver
	log      logger.Logger

	mu         sync.Mutex
	cleaners   []DismissalCleaner
	updateSeq  int
	appliedSeq int
}

func NewCurationService(
	api CurationAPI,
	store *curation.Store,
	toasts *toast.Queue,
	log logger.Logger,
	observers ...UseCaseObserver,
) CurationService {
	if log == nil {
		log = logger.Nop()
	}
	return &curationService{
		api:      api,
		store:    store,
		toasts:   toasts,
		observer: useCaseObserverOrNoop(observers),
		log:      log,
	}
}

// AddDismissalCleaner registers c to forget dismissals of deleted sets.
func (s *curationService) AddDismissalCleaner(c DismissalCleaner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleaners = append(s.cleaners, c)
}

func (s *curationService) Store() *curation.Store { return s.store }

func (s *curationService) Load(ctx context.Context, enterpriseID, enterpriseName string) (cfg domain.CurationConfiguration, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"enterprise": enterpriseID}
	defer func() { observe(ctx, s.observer, "load-curation-config", startedAt, fields, err) }()

	s.store.Dispatch(curation.SetLoading{})

	configs, err := s.api.FetchCurationConfigs(ctx, enterpriseID)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrConfigLoad, err)
		s.store.Dispatch(curation.SetFetchError{Err: err})
		return domain.CurationConfiguration{}, err
	}

	if len(configs) > 0 {
		cfg = configs[0]
		fields["created"] = false
	} else {
		cfg, err = s.api.CreateCurationConfig(ctx, enterpriseID, enterpriseName)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrConfigLoad, err)
			s.store.Dispatch(curation.SetFetchError{Err: err})
			return domain.CurationConfiguration{}, err
		}
		fields["created"] = true
	}

	cfg.Normalize()
	fields["highlight_sets"] = len(cfg.HighlightSets)
	s.store.Dispatch(curation.SetConfig{Config: cfg})
	return cfg, nil
}

func (s *curationService) SetVisibility(ctx context.Context, highlightedOnly bool) (cfg domain.CurationConfiguration, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"highlighted_only": highlightedOnly}
	defer func() { observe(ctx, s.observer, "set-visibility", startedAt, fields, err) }()

	current, ok := s.store.Config()
	if !ok {
		return domain.CurationConfiguration{}, ErrNotLoaded
	}
	if highlightedOnly && len(current.HighlightSets) == 0 {
		return domain.CurationConfiguration{}, fmt.Errorf("%w: %w", ErrConfigUpdate, ErrNoHighlightSets)
	}

	s.mu.Lock()
	s.updateSeq++
	seq := s.updateSeq
	s.mu.Unlock()

	cfg, err = s.api.UpdateCurationConfig(ctx, current.UUID, enterprise.ConfigPatch{CanOnlyViewHighlightSets: &highlightedOnly})
	if err != nil {
		return domain.CurationConfiguration{}, fmt.Errorf("%w: %w", ErrConfigUpdate, err)
	}

	s.mu.Lock()
	if seq < s.appliedSeq {
		s.mu.Unlock()
		fields["superseded"] = true
		return cfg, ErrStaleUpdate
	}
	s.appliedSeq = seq
	s.mu.Unlock()

	cfg.Normalize()
	s.store.Dispatch(curation.SetConfig{Config: cfg})
	s.stageToast(toast.Visibility(cfg.CanOnlyViewHighlightSets))
	return cfg, nil
}

func (s *curationService) DeleteHighlightSet(ctx context.Context, setUUID string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"highlight_set": setUUID}
	defer func() { observe(ctx, s.observer, "delete-highlight-set", startedAt, fields, err) }()

	set, err := s.findSet(setUUID)
	if err != nil {
		return err
	}

	if err = s.api.DeleteHighlightSet(ctx, setUUID); err != nil {
		return fmt.Errorf("%w: %w", ErrDelete, err)
	}

	s.store.DeleteHighlightSet(setUUID)
	s.stageToast(toast.Deleted(set.Title))

	s.mu.Lock()
	cleaners := append([]DismissalCleaner(nil), s.cleaners...)
	s.mu.Unlock()
	for _, c := range cleaners {
		if cerr := c.Forget(ctx, setUUID); cerr != nil {
			s.log.Warn("forget_dismissals_failed", logger.String("highlight_set", setUUID), logger.Error(cerr))
		}
	}
	return nil
}

func (s *curationService) RemoveContent(ctx context.Context, setUUID string, contentKeys []string) (set domain.HighlightSet, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"highlight_set": setUUID, "keys": len(contentKeys)}
	defer func() { observe(ctx, s.observer, "remove-content", startedAt, fields, err) }()

	if _, err = s.findSet(setUUID); err != nil {
		return domain.HighlightSet{}, err
	}
	if len(contentKeys) == 0 {
		set, err = s.findSet(setUUID)
		return set, err
	}

	if err = s.api.RemoveHighlightedContent(ctx, setUUID, contentKeys); err != nil {
		return domain.HighlightSet{}, fmt.Errorf("%w: %w", ErrRemoveContent, err)
	}
	s.store.Dispatch(curation.RemoveHighlightedContent{SetUUID: setUUID, ContentKeys: contentKeys})
	return s.findSet(setUUID)
}

func (s *curationService) RemoveArchivedContent(ctx context.Context, setUUID string) (int, error) {
	set, err := s.findSet(setUUID)
	if err != nil {
		return 0, err
	}
	archived := set.ArchivedContent()
	if len(archived) == 0 {
		return 0, nil
	}
	keys := make([]string, 0, len(archived))
	for _, item := range archived {
		keys = append(keys, item.ContentKey)
	}
	if _, err := s.RemoveContent(ctx, setUUID, keys); err != nil {
		return 0, err
	}
	s.stageToast(toast.ArchivedRemoved(len(keys), set.Title))
	return len(keys), nil
}

func (s *curationService) GetHighlightSet(ctx context.Context, setUUID string) (set domain.HighlightSet, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		observe(ctx, s.observer, "get-highlight-set", startedAt, map[string]any{"highlight_set": setUUID}, err)
	}()

	set, err = s.api.GetHighlightSet(ctx, setUUID)
	if err != nil {
		return domain.HighlightSet{}, fmt.Errorf("fetching highlight set %s: %w", setUUID, err)
	}
	return set, nil
}

func (s *curationService) findSet(setUUID string) (domain.HighlightSet, error) {
	cfg, ok := s.store.Config()
	if !ok {
		return domain.HighlightSet{}, ErrNotLoaded
	}
	set, ok := cfg.FindHighlightSet(setUUID)
	if !ok {
		return domain.HighlightSet{}, fmt.Errorf("%w: %s", ErrUnknownSet, setUUID)
	}
	return set, nil
}

// stageToast routes text through the store's staged toast into the queue.
func (s *curationService) stageToast(text string) {
	s.store.StageToast(text)
	if s.toasts != nil {
		s.toasts.DrainFrom(s.store)
	}
}
