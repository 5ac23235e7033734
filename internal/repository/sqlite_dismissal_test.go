package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/curator/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	setA = "3f1c9a2e-8a54-4d2b-9a55-0c3f5e7d1b2a"
	setB = "9b2d7e41-1c3a-4f6e-8d20-5a7b9c1e3f40"

	nsCourse = "archived-course-alert"
	nsSet    = "highlight-set-archived-alert"
)

func entry(ns, setUUID string, keys ...string) DismissalEntry {
	return DismissalEntry{Namespace: ns, SetUUID: setUUID, ContentKeys: keys}
}

func TestDismissalEntry_StorageKey(t *testing.T) {
	assert.Equal(t, nsCourse+"-"+setA, entry(nsCourse, setA).StorageKey())
	assert.Equal(t, nsCourse+"-set-1", entry(nsCourse, "set-1").StorageKey())
}

func TestSQLiteDismissalRepo_SaveAndLoad(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteDismissalRepo(database, testutil.NewTestUoW(database))
	ctx := context.Background()

	keyA := nsCourse + "-" + setA
	keyB := nsCourse + "-" + setB
	require.NoError(t, repo.Save(ctx, []DismissalEntry{
		entry(nsCourse, setA, "edX+DemoX", "MITx+6.00"),
		entry(nsCourse, setB),
	}))

	got, err := repo.Load(ctx, []string{keyA, keyB, nsCourse + "-missing"})
	require.NoError(t, err)
	assert.Equal(t, []string{"edX+DemoX", "MITx+6.00"}, got[keyA])
	assert.Empty(t, got[keyB])
	_, hasB := got[keyB]
	assert.True(t, hasB, "an empty entry is still an entry")
	_, hasMissing := got[nsCourse+"-missing"]
	assert.False(t, hasMissing)
}

func TestSQLiteDismissalRepo_SaveReplacesEntry(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteDismissalRepo(database, nil)
	ctx := context.Background()
	key := nsSet + "-" + setA

	require.NoError(t, repo.Save(ctx, []DismissalEntry{entry(nsSet, setA, "a")}))
	require.NoError(t, repo.Save(ctx, []DismissalEntry{entry(nsSet, setA, "a", "b")}))

	got, err := repo.Load(ctx, []string{key})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got[key])
}

func TestSQLiteDismissalRepo_LoadEmptyRequest(t *testing.T) {
	repo := NewSQLiteDismissalRepo(testutil.NewTestDB(t), nil)
	got, err := repo.Load(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteDismissalRepo_SaveRollsBackWholeBatch(t *testing.T) {
	database := testutil.NewTestDB(t)
	injected := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 2, Err: injected}
	repo := NewSQLiteDismissalRepo(database, uow)
	ctx := context.Background()

	err := repo.Save(ctx, []DismissalEntry{entry(nsCourse, setA, "x"), entry(nsCourse, setB, "y")})
	require.ErrorIs(t, err, injected)

	got, err := repo.Load(ctx, []string{nsCourse + "-" + setA, nsCourse + "-" + setB})
	require.NoError(t, err)
	assert.Empty(t, got, "first write must roll back with the second")
}

func TestSQLiteDismissalRepo_DeleteBySet(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteDismissalRepo(database, testutil.NewTestUoW(database))
	ctx := context.Background()

	courseKey := nsCourse + "-" + setA
	setKey := nsSet + "-" + setA
	otherKey := nsCourse + "-" + setB
	require.NoError(t, repo.Save(ctx, []DismissalEntry{
		entry(nsCourse, setA, "a"), entry(nsSet, setA, "a"), entry(nsCourse, setB, "b"),
	}))

	require.NoError(t, repo.DeleteBySet(ctx, setA))

	got, err := repo.Load(ctx, []string{courseKey, setKey, otherKey})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{otherKey: {"b"}}, got)
}

func TestSQLiteDismissalRepo_DeleteBySetWithNonUUIDIdentifier(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := NewSQLiteDismissalRepo(database, testutil.NewTestUoW(database))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []DismissalEntry{entry(nsCourse, "set-1", "edX+DemoX")}))
	key := nsCourse + "-set-1"
	got, err := repo.Load(ctx, []string{key})
	require.NoError(t, err)
	require.Contains(t, got, key)

	require.NoError(t, repo.DeleteBySet(ctx, "set-1"))

	got, err = repo.Load(ctx, []string{key})
	require.NoError(t, err)
	assert.Empty(t, got)

	var remaining int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM archived_dismissals`).Scan(&remaining))
	assert.Zero(t, remaining)
}
