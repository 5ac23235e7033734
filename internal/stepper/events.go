package stepper

import (
	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/search"
)

// Event is the closed set of inputs the workflow accepts.
type Event interface {
	stepperEvent()
}

// Open starts a fresh wizard. It is ignored while the wizard is already open.
type Open struct{}

// SetTitle stages the title text and revalidates it.
type SetTitle struct{ Title string }

// Next advances one step when the current step allows it.
type Next struct{}

// Back returns one step. On the title step it asks to close.
type Back struct{}

// ToggleContent adds or removes a selection key on the content step.
type ToggleContent struct{ Key string }

// ClearSelection empties the selection on the content step.
type ClearSelection struct{}

// RequestClose opens the exit confirmation.
type RequestClose struct{}

// ConfirmExit discards the draft and closes the wizard.
type ConfirmExit struct{}

// CancelExit dismisses the exit confirmation and resumes the draft.
type CancelExit struct{}

// Publish submits the draft from the confirm step.
type Publish struct{}

// PublishSucceeded reports the created set.
type PublishSucceeded struct{ Set domain.HighlightSet }

// PublishFailed reports a failed create call.
type PublishFailed struct{ Err error }

// SearchIssued records a new query and bumps the search generation.
type SearchIssued struct {
	Query string
	Page  int
}

// SearchCompleted delivers results tagged with the generation they were
// issued under.
type SearchCompleted struct {
	Generation int
	Result     *search.Result
	Err        error
}

func (Open) stepperEvent()             {}
func (SetTitle) stepperEvent()         {}
func (Next) stepperEvent()             {}
func (Back) stepperEvent()             {}
func (ToggleContent) stepperEvent()    {}
func (ClearSelection) stepperEvent()   {}
func (RequestClose) stepperEvent()     {}
func (ConfirmExit) stepperEvent()      {}
func (CancelExit) stepperEvent()       {}
func (Publish) stepperEvent()          {}
func (PublishSucceeded) stepperEvent() {}
func (PublishFailed) stepperEvent()    {}
func (SearchIssued) stepperEvent()     {}
func (SearchCompleted) stepperEvent()  {}

// Effect is the closed set of side effects Apply asks its caller to run.
type Effect interface {
	stepperEffect()
}

// NoEffect means nothing to run.
type NoEffect struct{}

// PublishEffect asks for exactly one create call.
type PublishEffect struct {
	Title       string
	ContentKeys []string
}

// CloseEffect reports the wizard closed without publishing.
type CloseEffect struct{}

// SearchEffect asks for a query against the step's scope.
type SearchEffect struct {
	Generation int
	Query      string
	Page       int
	Step       Step
	// SelectionKeys is the ordered selection, used by the confirm step scope.
	SelectionKeys []string
}

func (NoEffect) stepperEffect()      {}
func (PublishEffect) stepperEffect() {}
func (CloseEffect) stepperEffect()   {}
func (SearchEffect) stepperEffect()  {}
