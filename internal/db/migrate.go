package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent so the full
// list is replayed on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// ALTER TABLE ADD COLUMN has no IF NOT EXISTS form.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillDismissalColumns(db); err != nil {
		return fmt.Errorf("backfilling dismissal columns: %w", err)
	}
	return nil
}

// migrateBackfillDismissalColumns fills namespace and highlight_set_uuid for
// rows written before those columns existed. Storage keys have the form
// "<namespace>-<uuid>" and UUIDs are 36 characters long.
func migrateBackfillDismissalColumns(db *sql.DB) error {
	ctx := context.Background()
	rows, err := db.QueryContext(ctx, `SELECT storage_key FROM archived_dismissals
		WHERE namespace = '' OR highlight_set_uuid = ''`)
	if err != nil {
		return fmt.Errorf("querying legacy dismissals: %w", err)
	}
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return fmt.Errorf("scanning legacy dismissal: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("iterating legacy dismissals: %w", err)
	}
	rows.Close()

	for _, key := range keys {
		ns, setUUID, ok := SplitStorageKey(key)
		if !ok {
			continue
		}
		if _, err := db.ExecContext(ctx, `UPDATE archived_dismissals
			SET namespace = ?, highlight_set_uuid = ? WHERE storage_key = ?`, ns, setUUID, key); err != nil {
			return fmt.Errorf("backfilling %s: %w", key, err)
		}
	}
	return nil
}

// SplitStorageKey splits a legacy "<namespace>-<uuid>" key written before the
// namespace and set columns existed. Keys whose suffix is not a canonical UUID
// are reported as not ok; new rows carry both columns explicitly.
func SplitStorageKey(key string) (namespace, setUUID string, ok bool) {
	const uuidLen = 36
	if len(key) < uuidLen+2 || key[len(key)-uuidLen-1] != '-' {
		return "", "", false
	}
	return key[:len(key)-uuidLen-1], key[len(key)-uuidLen:], true
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS archived_dismissals (
		storage_key  TEXT PRIMARY KEY,
		content_keys TEXT NOT NULL DEFAULT '[]',
		updated_at   TEXT NOT NULL
	)`,

	`ALTER TABLE archived_dismissals ADD COLUMN namespace TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE archived_dismissals ADD COLUMN highlight_set_uuid TEXT NOT NULL DEFAULT ''`,

	`CREATE INDEX IF NOT EXISTS idx_dismissals_set ON archived_dismissals(highlight_set_uuid)`,
	`CREATE INDEX IF NOT EXISTS idx_dismissals_namespace ON archived_dismissals(namespace)`,
}
