package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/curator/internal/app"
	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/toast"
)

// FormatOverview renders the enterprise header, the visibility mode and the
// highlight-set list.
func FormatOverview(ov app.Overview) string {
	var b strings.Builder
	b.WriteString(Header(ov.EnterpriseName))
	b.WriteString("\n")
	b.WriteString(VisibilityBadge(ov.HighlightedOnly))
	b.WriteString("\n\n")

	if notice := FormatArchivedNotice(ov); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n\n")
	}

	if len(ov.Sets) == 0 {
		b.WriteString(Dim("No highlight sets yet. Run `curator highlights create` to add one."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, 0, len(ov.Sets))
	for _, s := range ov.Sets {
		archived := Dim("-")
		if s.Archived > 0 {
			archived = strconv.Itoa(s.Archived)
			if len(s.NewArchived) > 0 {
				archived = StyleYellow.Render(archived + " new")
			}
		}
		rows = append(rows, []string{TruncID(s.UUID), s.Title, strconv.Itoa(s.Items), archived})
	}
	b.WriteString(RenderTable([]string{"ID", "TITLE", "ITEMS", "ARCHIVED"}, rows))
	return b.String()
}

// FormatArchivedNotice returns the catalog-wide archived notice, or "" when
// nothing new is archived.
func FormatArchivedNotice(ov app.Overview) string {
	if !ov.NewArchivedCourse {
		return ""
	}
	return Warning(fmt.Sprintf("%s in your highlights %s been archived. Run `curator archived --dismiss` to acknowledge.",
		Plural(ov.NewArchivedCount, "course"), verbHave(ov.NewArchivedCount)))
}

// FormatHighlightSet renders one set with its content in display order.
// newArchived lists the keys flagged by the per-set banner.
func FormatHighlightSet(set domain.HighlightSet, newArchived []string, now time.Time) string {
	var b strings.Builder
	if len(newArchived) > 0 {
		n := len(newArchived)
		b.WriteString(Warning(fmt.Sprintf("%s in this set %s been archived and %s no longer visible to learners.",
			Plural(n, "course"), verbHave(n), verbBe(n))))
		b.WriteString("\n\n")
	}

	if len(set.HighlightedContent) == 0 {
		b.WriteString(Dim("This highlight set is empty."))
	} else {
		rows := make([]Row, 0, len(set.HighlightedContent))
		for i, item := range set.HighlightedContent {
			status := StyleGreen.Render("Available")
			if item.IsArchived() {
				status = "Archived"
			}
			rows = append(rows, Row{
				Cells: []string{
					strconv.Itoa(i + 1),
					Truncate(item.Title, 48),
					item.ContentType.Label(),
					strings.Join(item.OrganizationNames(), ", "),
					status,
				},
				Dim: item.IsArchived(),
			})
		}
		b.WriteString(strings.TrimRight(RenderRows([]string{"#", "TITLE", "TYPE", "PARTNER", "STATUS"}, rows), "\n"))
	}

	title := fmt.Sprintf("%s · %s", set.Title, Plural(len(set.HighlightedContent), "item"))
	if !set.IsPublished {
		title += " (draft)"
	}
	return RenderBox(title, b.String())
}

// FormatToast renders one notification line.
func FormatToast(t toast.Toast) string {
	if t.Kind == toast.KindError {
		return Failure(t.Text)
	}
	return Success(t.Text)
}

func verbHave(n int) string {
	if n == 1 {
		return "has"
	}
	return "have"
}

func verbBe(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
