package app

import (
	"context"
	"fmt"

	"github.com/alexanderramin/curator/internal/archived"
	"github.com/alexanderramin/curator/internal/service"
)

type SetSummary struct {
	UUID        string
	Title       string
	Items       int
	Archived    int
	NewArchived []string
}

type Overview struct {
	EnterpriseID    string
	EnterpriseName  string
	HighlightedOnly bool
	Sets            []SetSummary
	// NewArchivedCourse drives the catalog-wide notice.
	NewArchivedCourse bool
	NewArchivedCount  int
}

// Overview summarises the loaded configuration together with the per-set
// archived state.
func (s *Session) Overview() (Overview, error) {
	cfg, ok := s.Store.Config()
	if !ok {
		return Overview{}, service.ErrNotLoaded
	}
	perSet := s.SetAlerts.Result()
	course := s.CourseAlerts.Result()

	out := Overview{
		EnterpriseID:      cfg.EnterpriseCustomer,
		EnterpriseName:    s.Config.Enterprise.Name,
		HighlightedOnly:   cfg.CanOnlyViewHighlightSets,
		NewArchivedCourse: course.IsNewArchivedCourse,
		NewArchivedCount:  course.Count(),
	}
	for _, set := range cfg.HighlightSets {
		out.Sets = append(out.Sets, SetSummary{
			UUID:        set.UUID,
			Title:       set.Title,
			Items:       len(set.HighlightedContent),
			Archived:    len(set.ArchivedContent()),
			NewArchived: perSet.Undismissed[set.UUID],
		})
	}
	return out, nil
}

// Dismiss acknowledges the archived items currently flagged in ns.
func (s *Session) Dismiss(ctx context.Context, ns archived.Namespace) error {
	r, err := s.alerts(ns)
	if err != nil {
		return err
	}
	return r.Acknowledge(ctx)
}

// DismissSet acknowledges the archived items flagged in ns for one set only.
func (s *Session) DismissSet(ctx context.Context, ns archived.Namespace, setUUID string) error {
	r, err := s.alerts(ns)
	if err != nil {
		return err
	}
	return r.AcknowledgeSet(ctx, setUUID)
}

func (s *Session) alerts(ns archived.Namespace) (*archived.Reconciler, error) {
	switch ns {
	case archived.NamespaceHighlightSet:
		return s.SetAlerts, nil
	case archived.NamespaceCourse:
		return s.CourseAlerts, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownNamespace, ns)
	}
}
