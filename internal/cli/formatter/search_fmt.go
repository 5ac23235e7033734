package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/curator/internal/domain"
	"github.com/alexanderramin/curator/internal/search"
)

// FormatHits renders one page of search results. The KEY column holds the
// value `highlights create --content` accepts.
func FormatHits(res *search.Result) string {
	if res == nil || len(res.Hits) == 0 {
		return Dim("No matching content.") + "\n"
	}
	rows := make([][]string, 0, len(res.Hits))
	for _, h := range res.Hits {
		rows = append(rows, []string{
			h.SelectionKey(),
			Truncate(h.Title, 48),
			domain.ContentType(h.ContentType).Label(),
			strings.Join(h.PartnerNames(), ", "),
		})
	}
	var b strings.Builder
	b.WriteString(RenderTable([]string{"KEY", "TITLE", "TYPE", "PARTNER"}, rows))
	b.WriteString(Dim(PageFooter(res)))
	b.WriteString("\n")
	return b.String()
}

// PageFooter describes the result page, e.g. "Page 1 of 3, 62 results".
func PageFooter(res *search.Result) string {
	pages := max(res.NbPages, 1)
	return fmt.Sprintf("Page %d of %d, %s", res.Page+1, pages, Plural(res.NbHits, "result"))
}
