package curation

import "github.com/alexanderramin/curator/internal/domain"

// Action is the closed set of state changes a Store accepts. The unexported
// marker method keeps the set closed to this package.
type Action interface {
	curationAction()
}

// SetLoading marks the initial configuration load as in flight.
type SetLoading struct{}

// SetConfig replaces the configuration with a server response.
type SetConfig struct {
	Config domain.CurationConfiguration
}

// SetFetchError records a failed configuration load or create.
type SetFetchError struct {
	Err error
}

// AddHighlightSet prepends a newly created set.
type AddHighlightSet struct {
	Set domain.HighlightSet
}

// DeleteHighlightSet removes a set by UUID.
type DeleteHighlightSet struct {
	UUID string
}

// RemoveHighlightedContent drops content keys from one set.
type RemoveHighlightedContent struct {
	SetUUID     string
	ContentKeys []string
}

// StageToast stages a notification for the next consumer.
type StageToast struct {
	Text string
}

// ClearToast clears any staged notification.
type ClearToast struct{}

func (SetLoading) curationAction()               {}
func (SetConfig) curationAction()                {}
func (SetFetchError) curationAction()            {}
func (AddHighlightSet) curationAction()          {}
func (DeleteHighlightSet) curationAction()       {}
func (RemoveHighlightedContent) curationAction() {}
func (StageToast) curationAction()               {}
func (ClearToast) curationAction()               {}
