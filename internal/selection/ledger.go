// Package selection tracks the bounded, ordered set of content keys chosen
// while building a highlight set.
package selection

import "github.com/alexanderramin/curator/internal/domain"

// Outcome reports what a Toggle did.
type Outcome int

const (
	Added Outcome = iota
	Removed
	RejectedAtCapacity
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case RejectedAtCapacity:
		return "rejected_at_capacity"
	default:
		return "unknown"
	}
}

// Ledger is an immutable ordered set of content keys with a capacity bound.
// Insertion order is the canonical display order.
type Ledger struct {
	keys     []string
	capacity int
}

// New returns an empty ledger bounded by MaxContentItemsPerHighlightSet.
func New() Ledger {
	return NewWithCapacity(domain.MaxContentItemsPerHighlightSet)
}

// NewWithCapacity returns an empty ledger holding at most capacity keys.
func NewWithCapacity(capacity int) Ledger {
	if capacity < 0 {
		capacity = 0
	}
	return Ledger{capacity: capacity}
}

// Toggle removes key if present, otherwise appends it. Appending to a full
// ledger is rejected and returns the ledger unchanged. Toggling a present key
// twice moves it to the end; only for absent keys is a double toggle a no-op.
func (l Ledger) Toggle(key string) (Ledger, Outcome) {
	if i := l.indexOf(key); i >= 0 {
		keys := make([]string, 0, len(l.keys)-1)
		keys = append(keys, l.keys[:i]...)
		keys = append(keys, l.keys[i+1:]...)
		return Ledger{keys: keys, capacity: l.capacity}, Removed
	}
	if l.AtCapacity() {
		return l, RejectedAtCapacity
	}
	keys := make([]string, 0, len(l.keys)+1)
	keys = append(keys, l.keys...)
	keys = append(keys, key)
	return Ledger{keys: keys, capacity: l.capacity}, Added
}

// Clear returns an empty ledger with the same capacity.
func (l Ledger) Clear() Ledger {
	return Ledger{capacity: l.capacity}
}

// OrderedKeys returns the keys in insertion order.
func (l Ledger) OrderedKeys() []string {
	return append([]string(nil), l.keys...)
}

func (l Ledger) Contains(key string) bool {
	return l.indexOf(key) >= 0
}

func (l Ledger) Len() int { return len(l.keys) }

func (l Ledger) Capacity() int { return l.capacity }

func (l Ledger) AtCapacity() bool { return len(l.keys) >= l.capacity }

// Disabled reports whether the selector for key should be inert: the ledger
// is full and key is not one of its members.
func (l Ledger) Disabled(key string) bool {
	return !l.Contains(key) && l.AtCapacity()
}

// Equal reports whether both ledgers hold the same keys in the same order.
func (l Ledger) Equal(other Ledger) bool {
	if len(l.keys) != len(other.keys) || l.capacity != other.capacity {
		return false
	}
	for i := range l.keys {
		if l.keys[i] != other.keys[i] {
			return false
		}
	}
	return true
}

func (l Ledger) indexOf(key string) int {
	for i, k := range l.keys {
		if k == key {
			return i
		}
	}
	return -1
}
