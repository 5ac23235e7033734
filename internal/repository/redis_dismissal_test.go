package repository

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKeys(t *testing.T) {
	assert.Equal(t, "curator:dismissal:archived-course-alert-"+setA, DismissalKey("archived-course-alert-"+setA))
	assert.Equal(t, "curator:dismissal-set:"+setA, SetIndexKey(setA))
}

// TestRedisDismissalRepo_RoundTrip runs against a real server when
// CURATOR_TEST_REDIS_ADDR is set.
func TestRedisDismissalRepo_RoundTrip(t *testing.T) {
	addr := os.Getenv("CURATOR_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("CURATOR_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()
	require.NoError(t, client.FlushDB(ctx).Err())

	repo := NewRedisDismissalRepo(client)
	key := nsCourse + "-" + setA
	require.NoError(t, repo.Save(ctx, []DismissalEntry{entry(nsCourse, setA, "edX+DemoX")}))

	got, err := repo.Load(ctx, []string{key, "archived-course-alert-" + setB})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{key: {"edX+DemoX"}}, got)

	require.NoError(t, repo.DeleteBySet(ctx, setA))
	got, err = repo.Load(ctx, []string{key})
	require.NoError(t, err)
	assert.Empty(t, got)
}
