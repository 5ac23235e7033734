// Package archived detects highlighted courses that are no longer offered and
// tracks which of them the admin has already acknowledged.
package archived

import (
	"sort"

	"github.com/alexanderramin/curator/internal/domain"
)

// Namespace separates independent alert surfaces in the dismissal ledger.
type Namespace string

const (
	// NamespaceHighlightSet backs the alert shown on a single highlight set.
	NamespaceHighlightSet Namespace = "highlight-set-archived-alert"
	// NamespaceCourse backs the alert shown across all highlight sets.
	NamespaceCourse Namespace = "archived-course-alert"
)

// DismissalStorageKey returns the durable storage key for one set's entry.
func DismissalStorageKey(ns Namespace, setUUID string) string {
	return string(ns) + "-" + setUUID
}

// Ledger maps highlight-set UUIDs to the content keys already dismissed for
// that set. A set without an entry has dismissed nothing.
type Ledger map[string][]string

// Result is the outcome of one reconciliation pass.
type Result struct {
	IsNewArchivedCourse bool
	// Undismissed maps set UUIDs to archived content keys the admin has not
	// acknowledged yet. Sets with nothing new are absent.
	Undismissed map[string][]string
}

// Count returns the number of undismissed archived items across all sets.
func (r Result) Count() int {
	n := 0
	for _, keys := range r.Undismissed {
		n += len(keys)
	}
	return n
}

// SetUUIDs returns the sets with undismissed items in sorted order.
func (r Result) SetUUIDs() []string {
	out := make([]string, 0, len(r.Undismissed))
	for id := range r.Undismissed {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Reconcile finds archived content not yet dismissed. It enumerates every set
// and does no I/O.
func Reconcile(sets []domain.HighlightSet, ledger Ledger) Result {
	res := Result{Undismissed: make(map[string][]string)}
	for _, set := range sets {
		dismissed, hasEntry := ledger[set.UUID]
		seen := make(map[string]bool, len(dismissed))
		for _, k := range dismissed {
			seen[k] = true
		}
		for _, item := range set.HighlightedContent {
			if !item.IsArchived() {
				continue
			}
			if hasEntry && seen[item.ContentKey] {
				continue
			}
			res.Undismissed[set.UUID] = append(res.Undismissed[set.UUID], item.ContentKey)
			res.IsNewArchivedCourse = true
		}
	}
	return res
}
