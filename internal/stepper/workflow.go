// Package stepper models the highlight-set creation wizard as a pure state
// machine. Workflow values are immutable; Apply returns the next value plus
// the effect the caller must run.
package stepper

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/selection"
)

type Step int

const (
	StepClosed Step = iota
	StepTitle
	StepSelectContent
	StepConfirmContent
	StepPublishing
)

func (s Step) String() string {
	switch s {
	case StepClosed:
		return "closed"
	case StepTitle:
		return "title"
	case StepSelectContent:
		return "select-content"
	case StepConfirmContent:
		return "confirm-content"
	case StepPublishing:
		return "publishing"
	default:
		return "unknown"
	}
}

// TitleTooLongMessage is shown while the staged title exceeds the limit.
var TitleTooLongMessage = fmt.Sprintf("Titles may only be %d characters or less", domain.MaxHighlightTitleLength)

var (
	// ErrTitleRequired blocks leaving the title step with a blank title.
	ErrTitleRequired = errors.New("a title is required")
	// ErrNoContentSelected blocks publishing an empty selection.
	ErrNoContentSelected = errors.New("select at least one item to publish")
)

// Workflow is the wizard's whole state.
type Workflow struct {
	step       Step
	title      string
	titleErr   string
	blockedErr error
	ledger     selection.Ledger
	lastToggle *selection.Outcome
	publishErr error

	confirmingExit bool

	searchGen   int
	searchQuery string
	results     *search.Result
	searchErr   error
}

// New returns a closed workflow.
func New() Workflow {
	return Workflow{step: StepClosed, ledger: selection.New()}
}

func fresh() Workflow {
	return Workflow{step: StepTitle, ledger: selection.New()}
}

func (w Workflow) Step() Step                  { return w.step }
func (w Workflow) IsOpen() bool                { return w.step != StepClosed }
func (w Workflow) Title() string               { return w.title }
func (w Workflow) TitleLength() int            { return utf8.RuneCountInString(w.title) }
func (w Workflow) TitleError() string          { return w.titleErr }
func (w Workflow) Selection() selection.Ledger { return w.ledger }
func (w Workflow) PublishError() error         { return w.publishErr }
func (w Workflow) ConfirmingExit() bool        { return w.confirmingExit }
func (w Workflow) SearchGeneration() int       { return w.searchGen }
func (w Workflow) SearchQuery() string         { return w.searchQuery }
func (w Workflow) SearchError() error          { return w.searchErr }
func (w Workflow) Results() *search.Result     { return w.results }

// BlockedError explains why the last Next or Publish did not advance.
func (w Workflow) BlockedError() error { return w.blockedErr }

// LastToggle reports the outcome of the most recent toggle on this step.
func (w Workflow) LastToggle() (selection.Outcome, bool) {
	if w.lastToggle == nil {
		return 0, false
	}
	return *w.lastToggle, true
}

// CanAdvance reports whether Next would leave the current step.
func (w Workflow) CanAdvance() bool {
	switch w.step {
	case StepTitle:
		return w.titleErr == "" && strings.TrimSpace(w.title) != ""
	case StepSelectContent:
		return true
	default:
		return false
	}
}

// CanPublish reports whether Publish would start a create call.
func (w Workflow) CanPublish() bool {
	return w.step == StepConfirmContent && !w.confirmingExit && w.ledger.Len() > 0
}

// Apply is the only way to move the workflow.
func (w Workflow) Apply(ev Event) (Workflow, Effect) {
	if w.confirmingExit {
		switch ev.(type) {
		case ConfirmExit, CancelExit, SearchCompleted:
		default:
			return w, NoEffect{}
		}
	}

	switch e := ev.(type) {
	case nil:
		return w, NoEffect{}

	case Open:
		if w.IsOpen() {
			return w, NoEffect{}
		}
		return fresh(), NoEffect{}

	case SetTitle:
		if w.step != StepTitle {
			return w, NoEffect{}
		}
		w.title = e.Title
		w.titleErr = validateTitle(e.Title)
		w.blockedErr = nil
		return w, NoEffect{}

	case Next:
		switch w.step {
		case StepTitle:
			w.titleErr = validateTitle(w.title)
			if w.titleErr != "" {
				return w, NoEffect{}
			}
			if strings.TrimSpace(w.title) == "" {
				w.blockedErr = ErrTitleRequired
				return w, NoEffect{}
			}
			return w.enter(StepSelectContent), NoEffect{}
		case StepSelectContent:
			return w.enter(StepConfirmContent), NoEffect{}
		}
		return w, NoEffect{}

	case Back:
		switch w.step {
		case StepTitle:
			return w.Apply(RequestClose{})
		case StepSelectContent:
			return w.enter(StepTitle), NoEffect{}
		case StepConfirmContent:
			return w.enter(StepSelectContent), NoEffect{}
		}
		return w, NoEffect{}

	case ToggleContent:
		if w.step != StepSelectContent || e.Key == "" {
			return w, NoEffect{}
		}
		next, outcome := w.ledger.Toggle(e.Key)
		w.ledger = next
		w.lastToggle = &outcome
		return w, NoEffect{}

	case ClearSelection:
		if w.step != StepSelectContent {
			return w, NoEffect{}
		}
		w.ledger = w.ledger.Clear()
		w.lastToggle = nil
		return w, NoEffect{}

	case RequestClose:
		if !w.IsOpen() || w.step == StepPublishing {
			return w, NoEffect{}
		}
		w.confirmingExit = true
		return w, NoEffect{}

	case ConfirmExit:
		if !w.confirmingExit {
			return w, NoEffect{}
		}
		return New(), CloseEffect{}

	case CancelExit:
		w.confirmingExit = false
		return w, NoEffect{}

	case Publish:
		if w.step != StepConfirmContent {
			return w, NoEffect{}
		}
		if w.ledger.Len() == 0 {
			w.blockedErr = ErrNoContentSelected
			return w, NoEffect{}
		}
		w.step = StepPublishing
		w.publishErr = nil
		w.blockedErr = nil
		w.searchGen++
		keys := w.ledger.OrderedKeys()
		contentKeys := make([]string, len(keys))
		for i, k := range keys {
			contentKeys[i] = search.ContentKeyFromAggregation(k)
		}
		return w, PublishEffect{Title: w.title, ContentKeys: contentKeys}

	case PublishSucceeded:
		if w.step != StepPublishing {
			return w, NoEffect{}
		}
		return New(), NoEffect{}

	case PublishFailed:
		if w.step != StepPublishing {
			return w, NoEffect{}
		}
		w.step = StepConfirmContent
		w.publishErr = e.Err
		return w, NoEffect{}

	case SearchIssued:
		if w.step != StepSelectContent && w.step != StepConfirmContent {
			return w, NoEffect{}
		}
		w.searchGen++
		w.searchQuery = e.Query
		return w, SearchEffect{
			Generation:    w.searchGen,
			Query:         e.Query,
			Page:          e.Page,
			Step:          w.step,
			SelectionKeys: w.ledger.OrderedKeys(),
		}

	case SearchCompleted:
		if !w.IsOpen() || e.Generation != w.searchGen {
			return w, NoEffect{}
		}
		w.results = e.Result
		w.searchErr = e.Err
		return w, NoEffect{}

	default:
		panic(fmt.Sprintf("stepper: unhandled event %T", ev))
	}
}

// enter moves to step and drops interest in in-flight searches.
func (w Workflow) enter(step Step) Workflow {
	w.step = step
	w.searchGen++
	w.results = nil
	w.searchErr = nil
	w.searchQuery = ""
	w.blockedErr = nil
	w.lastToggle = nil
	return w
}

func validateTitle(title string) string {
	if utf8.RuneCountInString(title) > domain.MaxHighlightTitleLength {
		return TitleTooLongMessage
	}
	return ""
}
