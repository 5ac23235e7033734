package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/curator/internal/app"
	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/search"
	"github.com/alexanderramin/curator/internal/toast"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRenderRows_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderRows([]string{"A", "BB"}, []Row{
		{Cells: []string{StyleGreen.Render("long value"), "x"}},
		{Cells: []string{"s", "y"}, Dim: true},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A           BB", lines[0])
	assert.Equal(t, "──────────  ──", lines[1])
	assert.Equal(t, "long value  x", lines[2])
	assert.Equal(t, "s           y", lines[3])
}

func TestRenderTable_PlainRowsPassThrough(t *testing.T) {
	out := RenderTable([]string{"Name", "Count"}, [][]string{{"alpha", "3"}, {"b"}})
	lines := strings.Split(strings.TrimRight(stripANSI(out), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "alpha  3", lines[2])
	assert.Equal(t, "b      ", lines[3])
	assert.Contains(t, out, "alpha  3")
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"a"}}))
}

func TestRenderCapacity(t *testing.T) {
	tests := []struct {
		n, capacity int
		want        string
	}{
		{0, 12, "[░░░░░░░░░░░░] 0/12"},
		{6, 12, "[██████░░░░░░] 6/12"},
		{12, 12, "[████████████] 12/12"},
		{20, 12, "[████████████] 12/12"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripANSI(RenderCapacity(tt.n, tt.capacity, 12)))
	}
}

func TestTruncateAndPlural(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab…", Truncate("abcdef", 3))
	assert.Equal(t, "Ünï…", Truncate("Ünïcode", 4))
	assert.Equal(t, "1 course", Plural(1, "course"))
	assert.Equal(t, "0 courses", Plural(0, "course"))
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "--", HumanTimestamp(time.Time{}, now))
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Mar 1, 2026", HumanTimestamp(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestFormatOverview(t *testing.T) {
	ov := app.Overview{
		EnterpriseName:    "Acme",
		HighlightedOnly:   true,
		NewArchivedCourse: true,
		NewArchivedCount:  2,
		Sets: []app.SetSummary{
			{UUID: "0123456789abcdef", Title: "Spring Picks", Items: 3},
			{UUID: "fedcba9876543210", Title: "Legacy", Items: 4, Archived: 2, NewArchived: []string{"a", "b"}},
		},
	}
	out := stripANSI(FormatOverview(ov))
	assert.Contains(t, out, "ACME")
	assert.Contains(t, out, "HIGHLIGHTS ONLY")
	assert.Contains(t, out, "2 courses in your highlights have been archived")
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "2 new")
}

func TestFormatOverview_Empty(t *testing.T) {
	out := stripANSI(FormatOverview(app.Overview{EnterpriseName: "Acme"}))
	assert.Contains(t, out, "FULL CATALOG")
	assert.Contains(t, out, "No highlight sets yet")
	assert.Empty(t, FormatArchivedNotice(app.Overview{}))
}

func TestFormatHighlightSet(t *testing.T) {
	set := domain.HighlightSet{
		Title:       "Legacy",
		IsPublished: true,
		HighlightedContent: []domain.HighlightedContentItem{
			{ContentKey: "a", Title: "Algebra", ContentType: domain.ContentCourse, CourseRunStatuses: []string{"published"},
				AuthoringOrganizations: []domain.Organization{{Name: "edX"}}},
			{ContentKey: "b", Title: "Botany", ContentType: domain.ContentProgram, CourseRunStatuses: []string{"archived"}},
		},
	}
	out := stripANSI(FormatHighlightSet(set, []string{"b"}, time.Now()))
	assert.Contains(t, out, "LEGACY")
	assert.Contains(t, out, "2 ITEMS")
	assert.Contains(t, out, "1 course in this set has been archived and is no longer visible")
	assert.Less(t, strings.Index(out, "Algebra"), strings.Index(out, "Botany"))
	assert.Contains(t, out, "Archived")
	assert.Contains(t, out, "Program")
}

func TestFormatHits(t *testing.T) {
	res := &search.Result{
		Hits: []search.Hit{
			{AggregationKey: "course:edX+A", ContentType: "course", Title: "Alpha", Partners: []search.Partner{{Name: "edX"}}},
		},
		NbHits: 26, NbPages: 2, Page: 0,
	}
	out := stripANSI(FormatHits(res))
	assert.Contains(t, out, "course:edX+A")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Page 1 of 2, 26 results")

	assert.Contains(t, stripANSI(FormatHits(&search.Result{})), "No matching content.")
}

func TestFormatToast(t *testing.T) {
	assert.Equal(t, `✔ "Spring Picks" added`, stripANSI(FormatToast(toast.Toast{Text: `"Spring Picks" added`, Kind: toast.KindSuccess})))
	assert.Equal(t, "✖ boom", stripANSI(FormatToast(toast.Toast{Text: "boom", Kind: toast.KindError})))
}
