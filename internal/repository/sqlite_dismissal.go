package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/alexanderramin/curator/internal/db"
)

const dismissalTable = "archived_dismissals"

// SQLiteDismissalRepo implements DismissalRepo on the local SQLite database.
type SQLiteDismissalRepo struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteDismissalRepo creates a repo reading through conn. When uow is
// non-nil, Save batches run inside one transaction.
func NewSQLiteDismissalRepo(conn db.DBTX, uow db.UnitOfWork) *SQLiteDismissalRepo {
	return &SQLiteDismissalRepo{db: conn, uow: uow}
}

func (r *SQLiteDismissalRepo) Load(ctx context.Context, storageKeys []string) (map[string][]string, error) {
	out := make(map[string][]string, len(storageKeys))
	if len(storageKeys) == 0 {
		return out, nil
	}

	query, args, err := sq.Select("storage_key", "content_keys").
		From(dismissalTable).
		Where(sq.Eq{"storage_key": storageKeys}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building dismissal query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying dismissals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, fmt.Errorf("scanning dismissal: %w", err)
		}
		keys, err := decodeKeys(raw)
		if err != nil {
			return nil, fmt.Errorf("dismissal %s: %w", key, err)
		}
		out[key] = keys
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dismissals: %w", err)
	}
	return out, nil
}

func (r *SQLiteDismissalRepo) Save(ctx context.Context, entries []DismissalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if r.uow == nil {
		return saveDismissals(ctx, r.db, entries)
	}
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return saveDismissals(ctx, tx, entries)
	})
}

func saveDismissals(ctx context.Context, conn db.DBTX, entries []DismissalEntry) error {
	now := nowUTC()
	for _, e := range sortedEntries(entries) {
		raw, err := encodeKeys(e.ContentKeys)
		if err != nil {
			return err
		}
		key := e.StorageKey()

		query, args, err := sq.Insert(dismissalTable).
			Columns("storage_key", "namespace", "highlight_set_uuid", "content_keys", "updated_at").
			Values(key, e.Namespace, e.SetUUID, raw, now).
			Suffix(`ON CONFLICT(storage_key) DO UPDATE SET
				namespace = excluded.namespace,
				highlight_set_uuid = excluded.highlight_set_uuid,
				content_keys = excluded.content_keys,
				updated_at = excluded.updated_at`).
			ToSql()
		if err != nil {
			return fmt.Errorf("building dismissal upsert: %w", err)
		}
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("saving dismissal %s: %w", key, err)
		}
	}
	return nil
}

// DeleteBySet drops every dismissal recorded for a highlight set, in all
// namespaces. Used after the set itself is deleted.
func (r *SQLiteDismissalRepo) DeleteBySet(ctx context.Context, setUUID string) error {
	query, args, err := sq.Delete(dismissalTable).
		Where(sq.Eq{"highlight_set_uuid": setUUID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building dismissal delete: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting dismissals for %s: %w", setUUID, err)
	}
	return nil
}
