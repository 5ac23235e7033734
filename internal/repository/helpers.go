package repository

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// encodeKeys serializes content keys as a JSON array.
func encodeKeys(keys []string) (string, error) {
	if keys == nil {
		keys = []string{}
	}
	data, err := json.Marshal(keys)
	if err != nil {
		return "", fmt.Errorf("encoding content keys: %w", err)
	}
	return string(data), nil
}

func decodeKeys(raw string) ([]string, error) {
	var keys []string
	if raw == "" {
		return keys, nil
	}
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		return nil, fmt.Errorf("decoding content keys: %w", err)
	}
	return keys, nil
}

// sortedEntries returns a copy of entries ordered by storage key so batch
// writes are deterministic.
func sortedEntries(entries []DismissalEntry) []DismissalEntry {
	out := append([]DismissalEntry(nil), entries...)
	sort.Slice(out, func(i, j int) bool { return out[i].StorageKey() < out[j].StorageKey() })
	return out
}
