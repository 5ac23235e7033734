package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesTableAndIndexes(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='archived_dismissals'`).Scan(&name)
	require.NoError(t, err)

	for _, idx := range []string{"idx_dismissals_set", "idx_dismissals_namespace"} {
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
		assert.Equal(t, idx, name)
	}
}

func TestMigrate_UpgradeBackfillsLegacyRows(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	// Schema as written before namespace/highlight_set_uuid existed.
	_, err = db.Exec(`CREATE TABLE archived_dismissals (
		storage_key  TEXT PRIMARY KEY,
		content_keys TEXT NOT NULL DEFAULT '[]',
		updated_at   TEXT NOT NULL
	)`)
	require.NoError(t, err)
	legacyKey := "archived-course-alert-3f1c9a2e-8a54-4d2b-9a55-0c3f5e7d1b2a"
	_, err = db.Exec(`INSERT INTO archived_dismissals (storage_key, content_keys, updated_at)
		VALUES (?, '["edX+DemoX"]', '2026-01-01T00:00:00Z')`, legacyKey)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var ns, setUUID, keys string
	err = db.QueryRow(`SELECT namespace, highlight_set_uuid, content_keys FROM archived_dismissals WHERE storage_key = ?`, legacyKey).
		Scan(&ns, &setUUID, &keys)
	require.NoError(t, err)
	assert.Equal(t, "archived-course-alert", ns)
	assert.Equal(t, "3f1c9a2e-8a54-4d2b-9a55-0c3f5e7d1b2a", setUUID)
	assert.Equal(t, `["edX+DemoX"]`, keys)
}

func TestSplitStorageKey(t *testing.T) {
	ns, id, ok := SplitStorageKey("highlight-set-archived-alert-3f1c9a2e-8a54-4d2b-9a55-0c3f5e7d1b2a")
	require.True(t, ok)
	assert.Equal(t, "highlight-set-archived-alert", ns)
	assert.Equal(t, "3f1c9a2e-8a54-4d2b-9a55-0c3f5e7d1b2a", id)

	_, _, ok = SplitStorageKey("too-short")
	assert.False(t, ok)
}
