package repository

import "context"

// DismissalEntry is one highlight set's acknowledged content keys within one
// alert namespace.
type DismissalEntry struct {
	Namespace   string
	SetUUID     string
	ContentKeys []string
}

// StorageKey returns the durable key "<namespace>-<setUUID>".
func (e DismissalEntry) StorageKey() string {
	return e.Namespace + "-" + e.SetUUID
}

// DismissalRepo persists the archived-content dismissal ledger: for each
// storage key ("<namespace>-<highlightSetUUID>") the content keys the admin
// has already acknowledged.
type DismissalRepo interface {
	// Load returns the dismissed content keys for every requested storage key
	// that has an entry. Keys without an entry are absent from the map.
	Load(ctx context.Context, storageKeys []string) (map[string][]string, error)

	// Save writes each entry under its storage key, replacing any previous
	// value. Implementations apply the batch atomically.
	Save(ctx context.Context, entries []DismissalEntry) error

	// DeleteBySet drops every entry recorded for a highlight set.
	DeleteBySet(ctx context.Context, setUUID string) error
}
