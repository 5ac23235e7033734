package service

import (
	"context"

	"github.com/alexanderramin/curator/internal/curation"
	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/enterprise"
	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/stepper"
)

// CurationAPI is the remote side of the curation use cases.
type CurationAPI interface {
	FetchCurationConfigs(ctx context.Context, enterpriseID string) ([]domain.CurationConfiguration, error)
	CreateCurationConfig(ctx context.Context, enterpriseID, title string) (domain.CurationConfiguration, error)
	UpdateCurationConfig(ctx context.Context, configUUID string, patch enterprise.ConfigPatch) (domain.CurationConfiguration, error)
	CreateHighlightSet(ctx context.Context, in enterprise.HighlightSetInput) (domain.HighlightSet, error)
	GetHighlightSet(ctx context.Context, setUUID string) (domain.HighlightSet, error)
	DeleteHighlightSet(ctx context.Context, setUUID string) error
	RemoveHighlightedContent(ctx context.Context, setUUID string, contentKeys []string) error
}

// SecuredKeyAPI issues scoped search credentials.
type SecuredKeyAPI interface {
	FetchSecuredSearchKey(ctx context.Context, enterpriseID string) (enterprise.SecuredKey, error)
}

// DismissalCleaner drops stored alert dismissals for a deleted set.
type DismissalCleaner interface {
	Forget(ctx context.Context, setUUID string) error
}

type CurationService interface {
	// Load fetches the enterprise's configuration, creating one titled
	// enterpriseName only when the fetch succeeds with no results.
	Load(ctx context.Context, enterpriseID, enterpriseName string) (domain.CurationConfiguration, error)
	SetVisibility(ctx context.Context, highlightedOnly bool) (domain.CurationConfiguration, error)
	DeleteHighlightSet(ctx context.Context, setUUID string) error
	RemoveContent(ctx context.Context, setUUID string, contentKeys []string) (domain.HighlightSet, error)
	// RemoveArchivedContent removes every archived item from the set and
	// returns how many were removed.
	RemoveArchivedContent(ctx context.Context, setUUID string) (int, error)
	GetHighlightSet(ctx context.Context, setUUID string) (domain.HighlightSet, error)
	// AddDismissalCleaner registers c to forget alert dismissals of sets
	// deleted through this service.
	AddDismissalCleaner(c DismissalCleaner)
	Store() *curation.Store
}

type WizardService interface {
	Open() stepper.Workflow
	Dispatch(ctx context.Context, ev stepper.Event) (stepper.Workflow, error)
	Workflow() stepper.Workflow
}

type ContentSearch interface {
	// FetchSecuredKey resolves the session's search credential. Failure
	// falls back to the customer-wide key and is not an error.
	FetchSecuredKey(ctx context.Context) search.SessionContext
	Session() search.SessionContext
	Available() bool
	Browse(ctx context.Context, query string, page int) (*search.Result, error)
	Selected(ctx context.Context, orderedKeys []string) ([]search.Hit, error)
	Run(ctx context.Context, eff stepper.SearchEffect) stepper.SearchCompleted
}
