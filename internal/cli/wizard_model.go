package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/alexanderramin/curator/internal/cli/formatter"
	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/selection"
	"github.com/alexanderramin/curator/internal/service"
	"github.com/alexanderramin/curator/internal/stepper"
)

type wizardFocus int

const (
	focusQuery wizardFocus = iota
	focusResults
)

type (
	searchTickMsg  struct{ at time.Time }
	searchDoneMsg  struct{ err error }
	publishDoneMsg struct{ err error }
)

type wizardOutcome int

const (
	outcomeOpen wizardOutcome = iota
	outcomePublished
	outcomeDiscarded
)

var wizardKeys = struct {
	Toggle, Clear, NextPage, PrevPage, SwitchFocus key.Binding
}{
	Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
	Clear:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear selection")),
	NextPage:    key.NewBinding(key.WithKeys("]", "pgdown"), key.WithHelp("]", "next page")),
	PrevPage:    key.NewBinding(key.WithKeys("[", "pgup"), key.WithHelp("[", "previous page")),
	SwitchFocus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "search/results")),
}

// wizardModel renders a stepper.Workflow held by a WizardService. The model
// keeps only view state; every workflow change goes through Dispatch.
type wizardModel struct {
	ctx      context.Context
	svc      service.WizardService
	debounce *search.Debouncer
	now      func() time.Time

	wf       stepper.Workflow
	title    textinput.Model
	query    textinput.Model
	spin     spinner.Model
	focus    wizardFocus
	cursor   int
	page     int
	width    int
	loading  bool
	inFlight bool

	exitForm *huh.Form
	discard  bool

	outcome wizardOutcome
}

func newWizardModel(ctx context.Context, svc service.WizardService, debounce time.Duration) *wizardModel {
	title := textinput.New()
	title.Prompt = formatter.StylePurple.Render("Title ❯ ")
	title.Placeholder = "e.g. Spring Picks"
	title.Focus()

	query := textinput.New()
	query.Prompt = formatter.StylePurple.Render("Search ❯ ")
	query.Placeholder = "Search the catalog"

	return &wizardModel{
		ctx:      ctx,
		svc:      svc,
		debounce: search.NewDebouncer(debounce),
		now:      time.Now,
		wf:       svc.Open(),
		title:    title,
		query:    query,
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(formatter.StylePurple)),
	}
}

func (m *wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case searchTickMsg:
		if q, ok := m.debounce.Due(msg.at); ok {
			m.page = 0
			return m, m.search(q, 0)
		}
		return m, nil
	case searchDoneMsg:
		m.loading = false
		m.sync()
		return m, nil
	case publishDoneMsg:
		m.inFlight = false
		m.sync()
		if !m.wf.IsOpen() {
			m.outcome = outcomePublished
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		if !m.inFlight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	if m.wf.ConfirmingExit() && m.exitForm != nil {
		return m, m.updateExitForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, m.forwardToInput(msg)
	}
	if m.inFlight {
		return m, nil
	}
	if keyMsg.Type == tea.KeyCtrlC {
		return m, m.apply(stepper.RequestClose{})
	}

	switch m.wf.Step() {
	case stepper.StepTitle:
		return m, m.updateTitle(keyMsg)
	case stepper.StepSelectContent:
		return m, m.updateSelect(keyMsg)
	case stepper.StepConfirmContent:
		return m, m.updateConfirm(keyMsg)
	default:
		return m, nil
	}
}

func (m *wizardModel) updateTitle(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		return m.apply(stepper.Next{})
	case tea.KeyEsc:
		return m.apply(stepper.Back{})
	}
	var cmd tea.Cmd
	m.title, cmd = m.title.Update(msg)
	if m.title.Value() != m.wf.Title() {
		m.apply(stepper.SetTitle{Title: m.title.Value()})
	}
	return cmd
}

func (m *wizardModel) updateSelect(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEsc:
		return m.apply(stepper.Back{})
	case key.Matches(msg, wizardKeys.SwitchFocus):
		m.setFocus(1 - m.focus)
		return nil
	}

	if m.focus == focusQuery {
		if msg.Type == tea.KeyEnter {
			m.debounce.Reset()
			m.page = 0
			return m.search(m.query.Value(), 0)
		}
		if msg.Type == tea.KeyDown {
			m.setFocus(focusResults)
			return nil
		}
		var cmd tea.Cmd
		before := m.query.Value()
		m.query, cmd = m.query.Update(msg)
		if m.query.Value() == before {
			return cmd
		}
		at := m.now()
		m.debounce.Push(m.query.Value(), at)
		window := m.debounce.Window()
		return tea.Batch(cmd, tea.Tick(window, func(time.Time) tea.Msg {
			return searchTickMsg{at: at.Add(window)}
		}))
	}

	hits := m.hits()
	switch {
	case msg.Type == tea.KeyEnter:
		return m.apply(stepper.Next{})
	case msg.Type == tea.KeyUp:
		if m.cursor == 0 {
			m.setFocus(focusQuery)
		} else {
			m.cursor--
		}
	case msg.Type == tea.KeyDown:
		if m.cursor < len(hits)-1 {
			m.cursor++
		}
	case key.Matches(msg, wizardKeys.Toggle):
		if m.cursor < len(hits) {
			m.apply(stepper.ToggleContent{Key: hits[m.cursor].SelectionKey()})
		}
	case key.Matches(msg, wizardKeys.Clear):
		m.apply(stepper.ClearSelection{})
	case key.Matches(msg, wizardKeys.NextPage):
		if res := m.wf.Results(); res != nil && m.page+1 < res.NbPages {
			m.page++
			return m.search(m.wf.SearchQuery(), m.page)
		}
	case key.Matches(msg, wizardKeys.PrevPage):
		if m.page > 0 {
			m.page--
			return m.search(m.wf.SearchQuery(), m.page)
		}
	}
	return nil
}

func (m *wizardModel) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		return m.apply(stepper.Back{})
	case tea.KeyEnter:
		if !m.wf.CanPublish() {
			m.apply(stepper.Publish{})
			return nil
		}
		m.inFlight = true
		svc, ctx := m.svc, m.ctx
		publish := func() tea.Msg {
			_, err := svc.Dispatch(ctx, stepper.Publish{})
			return publishDoneMsg{err: err}
		}
		return tea.Batch(publish, m.spin.Tick)
	}
	return nil
}

func (m *wizardModel) updateExitForm(msg tea.Msg) tea.Cmd {
	form, cmd := m.exitForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.exitForm = f
	}
	switch m.exitForm.State {
	case huh.StateCompleted:
		return m.resolveExit(m.discard)
	case huh.StateAborted:
		return m.resolveExit(false)
	}
	return cmd
}

// resolveExit answers the exit confirmation.
func (m *wizardModel) resolveExit(discard bool) tea.Cmd {
	m.exitForm = nil
	if !discard {
		m.apply(stepper.CancelExit{})
		return nil
	}
	m.apply(stepper.ConfirmExit{})
	m.outcome = outcomeDiscarded
	return tea.Quit
}

// apply dispatches a local event and reacts to the step it lands on.
func (m *wizardModel) apply(ev stepper.Event) tea.Cmd {
	prev := m.wf
	wf, _ := m.svc.Dispatch(m.ctx, ev)
	m.wf = wf

	if wf.ConfirmingExit() && !prev.ConfirmingExit() {
		m.discard = false
		m.exitForm = newExitConfirmForm(&m.discard)
		return m.exitForm.Init()
	}
	if wf.Step() == prev.Step() {
		return nil
	}

	switch wf.Step() {
	case stepper.StepTitle:
		m.title.Focus()
		m.query.Blur()
	case stepper.StepSelectContent:
		m.title.Blur()
		m.setFocus(focusQuery)
		m.cursor = 0
		m.page = 0
		return m.search(m.query.Value(), 0)
	case stepper.StepConfirmContent:
		m.query.Blur()
		return m.search("", 0)
	}
	return nil
}

func (m *wizardModel) search(query string, page int) tea.Cmd {
	m.loading = true
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, err := svc.Dispatch(ctx, stepper.SearchIssued{Query: query, Page: page})
		return searchDoneMsg{err: err}
	}
}

// sync adopts the service's current workflow. Results can land after other
// local events, so the service copy is authoritative.
func (m *wizardModel) sync() {
	m.wf = m.svc.Workflow()
	if n := len(m.hits()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m *wizardModel) setFocus(f wizardFocus) {
	m.focus = f
	if f == focusQuery {
		m.query.Focus()
		return
	}
	m.query.Blur()
}

func (m *wizardModel) forwardToInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case m.wf.Step() == stepper.StepTitle:
		m.title, cmd = m.title.Update(msg)
	case m.wf.Step() == stepper.StepSelectContent && m.focus == focusQuery:
		m.query, cmd = m.query.Update(msg)
	}
	return cmd
}

func (m *wizardModel) hits() []search.Hit {
	if res := m.wf.Results(); res != nil {
		return res.Hits
	}
	return nil
}

func (m *wizardModel) View() string {
	if !m.wf.IsOpen() {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.Header("New highlight set"))
	b.WriteString("\n")
	b.WriteString(formatter.Dim(stepLabel(m.wf.Step())))
	b.WriteString("\n\n")

	switch {
	case m.wf.ConfirmingExit() && m.exitForm != nil:
		b.WriteString(m.exitForm.View())
		return b.String()
	case m.inFlight || m.wf.Step() == stepper.StepPublishing:
		b.WriteString(m.spin.View() + " Publishing \"" + m.wf.Title() + "\"…")
		return b.String()
	}

	switch m.wf.Step() {
	case stepper.StepTitle:
		m.viewTitle(&b)
	case stepper.StepSelectContent:
		m.viewSelect(&b)
	case stepper.StepConfirmContent:
		m.viewConfirm(&b)
	}
	return b.String()
}

func (m *wizardModel) viewTitle(b *strings.Builder) {
	b.WriteString(m.title.View())
	b.WriteString("\n")
	counter := fmt.Sprintf("%d/%d", m.wf.TitleLength(), domain.MaxHighlightTitleLength)
	if m.wf.TitleLength() > domain.MaxHighlightTitleLength {
		counter = formatter.StyleRed.Render(counter)
	} else {
		counter = formatter.Dim(counter)
	}
	b.WriteString(counter)
	if msg := m.wf.TitleError(); msg != "" {
		b.WriteString("  " + formatter.StyleRed.Render(msg))
	} else if err := m.wf.BlockedError(); err != nil {
		b.WriteString("  " + formatter.StyleRed.Render(err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(formatter.Dim("enter next · esc exit"))
}

func (m *wizardModel) viewSelect(b *strings.Builder) {
	ledger := m.wf.Selection()
	b.WriteString(m.query.View())
	b.WriteString("\n")
	b.WriteString(formatter.RenderCapacity(ledger.Len(), ledger.Capacity(), 12))
	if m.loading {
		b.WriteString("  " + formatter.Dim("searching…"))
	}
	b.WriteString("\n\n")

	if err := m.wf.SearchError(); err != nil {
		b.WriteString(formatter.Warning(searchErrorText(err)))
		b.WriteString("\n\n")
	}
	if outcome, ok := m.wf.LastToggle(); ok && outcome == selection.RejectedAtCapacity {
		b.WriteString(formatter.Warning(fmt.Sprintf("A highlight set holds at most %d items.", ledger.Capacity())))
		b.WriteString("\n\n")
	}

	hits := m.hits()
	if m.wf.Results() != nil && len(hits) == 0 {
		b.WriteString(formatter.Dim("No matching content."))
		b.WriteString("\n")
	}
	if len(hits) > 0 {
		rows := make([]formatter.Row, 0, len(hits))
		for i, h := range hits {
			k := h.SelectionKey()
			marker := "[ ]"
			switch {
			case ledger.Contains(k):
				marker = formatter.StyleGreen.Render("[x]")
			case ledger.Disabled(k):
				marker = "[-]"
			}
			pointer := " "
			if m.focus == focusResults && i == m.cursor {
				pointer = formatter.StyleHeader.Render("❯")
			}
			rows = append(rows, formatter.Row{
				Cells: []string{pointer + " " + marker, formatter.Truncate(h.Title, 44), domain.ContentType(h.ContentType).Label(), strings.Join(h.PartnerNames(), ", ")},
				Dim:   ledger.Disabled(k),
			})
		}
		b.WriteString(formatter.RenderRows([]string{"", "TITLE", "TYPE", "PARTNER"}, rows))
		b.WriteString(formatter.Dim(formatter.PageFooter(m.wf.Results())))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(formatter.Dim("tab focus · space select · x clear · [ ] page · enter next · esc back"))
}

func (m *wizardModel) viewConfirm(b *strings.Builder) {
	b.WriteString(formatter.Bold(m.wf.Title()))
	b.WriteString("\n\n")

	keys := m.wf.Selection().OrderedKeys()
	titles := make(map[string]string, len(keys))
	for _, h := range m.hits() {
		titles[h.SelectionKey()] = h.Title
	}
	for i, k := range keys {
		label := titles[k]
		if label == "" {
			label = formatter.Dim(k)
		}
		fmt.Fprintf(b, "%2d. %s\n", i+1, label)
	}
	if m.loading {
		b.WriteString(formatter.Dim("loading details…") + "\n")
	}
	if err := m.wf.SearchError(); err != nil {
		b.WriteString(formatter.Warning(searchErrorText(err)) + "\n")
	}
	if err := m.wf.BlockedError(); err != nil {
		b.WriteString(formatter.Failure(err.Error()) + "\n")
	}
	if err := m.wf.PublishError(); err != nil {
		b.WriteString("\n" + formatter.Failure("Could not publish the highlight set. Try again.") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(formatter.Dim("enter publish · esc back"))
}

func stepLabel(s stepper.Step) string {
	switch s {
	case stepper.StepTitle:
		return "Step 1 of 3 · Title"
	case stepper.StepSelectContent:
		return "Step 2 of 3 · Select content"
	case stepper.StepConfirmContent:
		return "Step 3 of 3 · Confirm"
	case stepper.StepPublishing:
		return "Publishing"
	default:
		return ""
	}
}

func searchErrorText(err error) string {
	if errors.Is(err, search.ErrSearchUnavailable) {
		return "Search is unavailable right now. Your selection is kept."
	}
	return "Search failed. Your selection is kept; try again."
}

// runWizard drives the create flow on the terminal until the admin publishes
// or discards the draft.
func runWizard(ctx context.Context, svc service.WizardService, in io.Reader, out io.Writer, debounce time.Duration) (wizardOutcome, error) {
	m := newWizardModel(ctx, svc, debounce)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return outcomeOpen, fmt.Errorf("running wizard: %w", err)
	}
	if fm, ok := final.(*wizardModel); ok {
		return fm.outcome, nil
	}
	return outcomeOpen, nil
}
