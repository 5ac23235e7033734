package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/stepper"
	"github.com/alexanderramin/curator/internal/testutil"
)

func springCatalog() []testutil.CatalogDoc {
	return []testutil.CatalogDoc{
		{ContentType: "course", Key: "edX+Spring101", Title: "Spring Gardening", Partner: "edX"},
		{ContentType: "course", Key: "edX+Bloom201", Title: "Spring Blooms", Partner: "edX"},
		{ContentType: "program", Key: "prog-spring", Title: "Spring Program", Partner: "MITx"},
	}
}

func (h *harness) wizard(t *testing.T) WizardService {
	t.Helper()
	searcher := NewContentSearch(h.searchClient(t), nil, testEnterprise, nil)
	return NewWizardService(h.api, h.store, h.toasts, searcher, testEnterprise)
}

func dispatchAll(t *testing.T, w WizardService, events ...stepper.Event) stepper.Workflow {
	t.Helper()
	var wf stepper.Workflow
	for _, ev := range events {
		var err error
		wf, err = w.Dispatch(context.Background(), ev)
		require.NoError(t, err, "dispatching %T", ev)
	}
	return wf
}

func TestWizardService_PublishEndToEnd(t *testing.T) {
	h := newHarness(t)
	h.seedAndLoad(t)
	h.backend.AddCatalog(springCatalog()...)
	w := h.wizard(t)

	w.Open()
	wf := dispatchAll(t, w,
		stepper.SetTitle{Title: "Spring Picks"},
		stepper.Next{},
		stepper.SearchIssued{Query: "spring"},
	)
	require.Equal(t, stepper.StepSelectContent, wf.Step())
	require.NotNil(t, wf.Results())
	assert.Equal(t, 3, wf.Results().NbHits)

	order := []string{"program:prog-spring", "course:edX+Spring101", "course:edX+Bloom201"}
	for _, k := range order {
		wf = dispatchAll(t, w, stepper.ToggleContent{Key: k})
	}
	wf = dispatchAll(t, w, stepper.Next{})
	require.Equal(t, stepper.StepConfirmContent, wf.Step())

	wf = dispatchAll(t, w, stepper.SearchIssued{})
	require.NotNil(t, wf.Results())
	var confirmed []string
	for _, hit := range wf.Results().Hits {
		confirmed = append(confirmed, hit.SelectionKey())
	}
	assert.Equal(t, order, confirmed, "confirm step lists the selection in pick order")

	wf, err := w.Dispatch(context.Background(), stepper.Publish{})
	require.NoError(t, err)
	assert.Equal(t, stepper.StepClosed, wf.Step())

	sets := h.store.HighlightSets()
	require.Len(t, sets, 1)
	assert.Equal(t, "Spring Picks", sets[0].Title)
	assert.Equal(t, []string{"prog-spring", "edX+Spring101", "edX+Bloom201"}, sets[0].ContentKeys())

	cfg, _ := h.store.Config()
	assert.False(t, cfg.CanOnlyViewHighlightSets)
	assert.Equal(t, []string{`"Spring Picks" added`}, h.toastTexts())

	calls := h.backend.Calls()
	create := calls[len(calls)-1]
	assert.Equal(t, "/highlight-sets", create.Route)
	assert.Equal(t, testEnterprise, create.Body["enterprise_customer"])
}

func TestWizardService_PublishFailureKeepsDraftForRetry(t *testing.T) {
	h := newHarness(t)
	h.seedAndLoad(t)
	h.backend.AddCatalog(springCatalog()...)
	w := h.wizard(t)

	w.Open()
	dispatchAll(t, w,
		stepper.SetTitle{Title: "Retry Me"},
		stepper.Next{},
		stepper.ToggleContent{Key: "course:edX+Spring101"},
		stepper.Next{},
	)

	h.backend.FailNext("POST", "/highlight-sets", http.StatusInternalServerError)
	wf, err := w.Dispatch(context.Background(), stepper.Publish{})
	require.ErrorIs(t, err, ErrPublish)
	assert.Equal(t, stepper.StepConfirmContent, wf.Step())
	assert.ErrorIs(t, wf.PublishError(), ErrPublish)
	assert.Equal(t, "Retry Me", wf.Title())
	assert.Equal(t, []string{"course:edX+Spring101"}, wf.Selection().OrderedKeys())
	assert.Empty(t, h.store.HighlightSets())
	assert.Equal(t, 0, h.toasts.Len())

	wf, err = w.Dispatch(context.Background(), stepper.Publish{})
	require.NoError(t, err)
	assert.False(t, wf.IsOpen())
	assert.Len(t, h.store.HighlightSets(), 1)
}

func TestWizardService_ExitDiscardsDraft(t *testing.T) {
	h := newHarness(t)
	h.seedAndLoad(t)
	w := h.wizard(t)

	w.Open()
	wf := dispatchAll(t, w,
		stepper.SetTitle{Title: "Abandoned"},
		stepper.Next{},
		stepper.ToggleContent{Key: "course:x"},
		stepper.RequestClose{},
	)
	assert.True(t, wf.ConfirmingExit())

	wf = dispatchAll(t, w, stepper.ConfirmExit{})
	assert.False(t, wf.IsOpen())
	assert.Equal(t, 0, h.backend.CallCount("POST", "/highlight-sets"))

	wf = w.Open()
	assert.Empty(t, wf.Title())
	assert.Equal(t, 0, wf.Selection().Len())
}

func TestWizardService_SearchWithoutSearcher(t *testing.T) {
	h := newHarness(t)
	w := NewWizardService(h.api, h.store, h.toasts, nil, testEnterprise)

	w.Open()
	wf := dispatchAll(t, w, stepper.SetTitle{Title: "No Search"}, stepper.Next{}, stepper.SearchIssued{Query: "x"})
	assert.ErrorIs(t, wf.SearchError(), search.ErrSearchUnavailable)
	assert.Equal(t, stepper.StepSelectContent, wf.Step())
}
