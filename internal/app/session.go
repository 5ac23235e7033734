// Package app assembles one admin curation session from configuration: the
// shared store, REST and search clients, dismissal storage, reconcilers and
// services. The CLI holds a *Session and never builds these itself.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alexanderramin/curator/internal/archived"
	"github.com/alexanderramin/curator/internal/auth"
	"github.com/alexanderramin/curator/internal/config"
	"github.com/alexanderramin/curator/internal/curation"
	"github.com/alexanderramin/curator/internal/db"
	"github.com/alexanderramin/curator/internal/enterprise"
	"github.com/alexanderramin/curator/internal/logger"
	"github.com/alexanderramin/curator/internal/repository"
	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/service"
	"github.com/alexanderramin/curator/internal/toast"
)

var (
	ErrNoEnterprise = errors.New("no enterprise selected")
	ErrForbidden    = errors.New("token does not administer this enterprise")

	ErrUnknownNamespace = errors.New("unknown dismissal namespace")
)

type Session struct {
	Config   config.Config
	Log      logger.Logger
	Identity auth.Session

	Store  *curation.Store
	Toasts *toast.Queue

	Curation service.CurationService
	Wizard   service.WizardService
	Search   service.ContentSearch

	// SetAlerts backs the per-set archived banner; CourseAlerts backs the
	// catalog-wide notice. They share storage but never each other's entries.
	SetAlerts    *archived.Reconciler
	CourseAlerts *archived.Reconciler

	closers []func() error
}

// Open wires a session without making any remote call. Call Start to load
// the curation configuration.
func Open(cfg config.Config, log logger.Logger) (*Session, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	identity, err := resolveIdentity(cfg, time.Now())
	if err != nil {
		return nil, err
	}
	if cfg.Enterprise.ID == "" {
		id, ok := identity.DefaultEnterprise()
		if !ok {
			return nil, fmt.Errorf("%w: set CURATOR_ENTERPRISE_ID", ErrNoEnterprise)
		}
		cfg.Enterprise.ID = id
	}
	if identity.Roles != nil && !identity.CanAdminister(cfg.Enterprise.ID) {
		return nil, fmt.Errorf("%w: %s", ErrForbidden, cfg.Enterprise.ID)
	}
	if cfg.Enterprise.Name == "" {
		cfg.Enterprise.Name = cfg.Enterprise.ID
	}

	s := &Session{
		Config:   cfg,
		Log:      log.With(logger.String("enterprise", cfg.Enterprise.ID)),
		Identity: identity,
		Store:    curation.NewStore(),
		Toasts:   toast.NewQueue(),
	}

	repo, err := s.openDismissals()
	if err != nil {
		s.Close()
		return nil, err
	}

	observer := service.NewLogUseCaseObserver(s.Log)
	api := enterprise.NewClient(enterprise.Config{
		BaseURL:   cfg.API.URL,
		Token:     cfg.API.Token,
		TimeoutMs: cfg.API.TimeoutMs,
	}, service.LogCallObserver{Log: s.Log})

	var searchClient *search.Client
	if cfg.Search.Enabled() {
		searchClient, err = search.NewClient(search.Config{
			AppID:     cfg.Search.AppID,
			APIKey:    cfg.Search.APIKey,
			IndexName: cfg.Search.IndexName,
			BaseURL:   cfg.Search.URL,
			TimeoutMs: cfg.API.TimeoutMs,
		}, service.LogQueryObserver{Log: s.Log})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("building search client: %w", err)
		}
	}

	s.SetAlerts = archived.NewReconciler(archived.NamespaceHighlightSet, repo)
	s.CourseAlerts = archived.NewReconciler(archived.NamespaceCourse, repo)
	for _, r := range []*archived.Reconciler{s.SetAlerts, s.CourseAlerts} {
		stop := r.Watch(s.Store)
		s.closers = append(s.closers, func() error { stop(); return nil })
	}

	s.Search = service.NewContentSearch(searchClient, api, cfg.Enterprise.ID, s.Log, observer)
	s.Curation = service.NewCurationService(api, s.Store, s.Toasts, s.Log, observer)
	s.Curation.AddDismissalCleaner(s.SetAlerts)
	s.Curation.AddDismissalCleaner(s.CourseAlerts)
	s.Wizard = service.NewWizardService(api, s.Store, s.Toasts, s.Search, cfg.Enterprise.ID, observer)
	return s, nil
}

// Start loads the configuration, reads both dismissal ledgers and fetches the
// secured search key. Only the configuration load is fatal.
func (s *Session) Start(ctx context.Context) error {
	cfg, err := s.Curation.Load(ctx, s.Config.Enterprise.ID, s.Config.Enterprise.Name)
	if err != nil {
		return err
	}
	for _, r := range []*archived.Reconciler{s.SetAlerts, s.CourseAlerts} {
		if _, err := r.Refresh(ctx, cfg.HighlightSets); err != nil {
			s.Log.Warn("dismissal_refresh_failed", logger.String("namespace", string(r.Namespace())), logger.Error(err))
		}
	}
	if s.Search.Available() {
		sc := s.Search.FetchSecuredKey(ctx)
		s.Log.Debug("search_session", logger.String("key_state", sc.KeyState.String()))
	}
	return nil
}

// Close releases storage handles and stops the reconciler subscriptions.
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	if s.Log != nil {
		_ = s.Log.Sync()
	}
	return errors.Join(errs...)
}

func (s *Session) openDismissals() (repository.DismissalRepo, error) {
	st := s.Config.Storage
	if st.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     st.RedisAddr,
			Password: st.RedisPassword,
			DB:       st.RedisDB,
		})
		s.closers = append(s.closers, client.Close)
		return repository.NewRedisDismissalRepo(client), nil
	}

	database, err := db.OpenDB(st.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening dismissal store: %w", err)
	}
	s.closers = append(s.closers, database.Close)
	return newSQLiteDismissals(database), nil
}

func newSQLiteDismissals(database *sql.DB) repository.DismissalRepo {
	return repository.NewSQLiteDismissalRepo(database, db.NewSQLiteUnitOfWork(database))
}

// resolveIdentity decodes the access token. Opaque tokens that are not JWTs
// yield an empty identity; the API remains the authority on access.
func resolveIdentity(cfg config.Config, now time.Time) (auth.Session, error) {
	var (
		identity auth.Session
		err      error
	)
	if cfg.API.JWTSecret != "" {
		identity, err = auth.VerifyToken(cfg.API.Token, cfg.API.JWTSecret, now)
	} else {
		identity, err = auth.ParseToken(cfg.API.Token, now)
	}
	switch {
	case err == nil:
		return identity, nil
	case errors.Is(err, auth.ErrTokenExpired):
		return auth.Session{}, err
	case cfg.API.JWTSecret == "" && errors.Is(err, auth.ErrInvalidToken):
		return auth.Session{Token: cfg.API.Token}, nil
	default:
		return auth.Session{}, err
	}
}
