package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyPrefixDismissal namespaces dismissal entries inside a shared Redis.
	KeyPrefixDismissal = "curator:dismissal:"
	// KeyPrefixSetIndex holds, per highlight set, the storage keys written for it.
	KeyPrefixSetIndex = "curator:dismissal-set:"
)

// DismissalKey returns the Redis key for a dismissal storage key.
func DismissalKey(storageKey string) string {
	return KeyPrefixDismissal + storageKey
}

// SetIndexKey returns the Redis key of the per-set index.
func SetIndexKey(setUUID string) string {
	return KeyPrefixSetIndex + setUUID
}

// RedisDismissalRepo implements DismissalRepo on Redis, so every admin
// session pointed at the same instance shares one ledger.
type RedisDismissalRepo struct {
	client redis.UniversalClient
}

func NewRedisDismissalRepo(client redis.UniversalClient) *RedisDismissalRepo {
	return &RedisDismissalRepo{client: client}
}

func (r *RedisDismissalRepo) Load(ctx context.Context, storageKeys []string) (map[string][]string, error) {
	out := make(map[string][]string, len(storageKeys))
	if len(storageKeys) == 0 {
		return out, nil
	}

	redisKeys := make([]string, len(storageKeys))
	for i, k := range storageKeys {
		redisKeys[i] = DismissalKey(k)
	}
	values, err := r.client.MGet(ctx, redisKeys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("loading dismissals: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		keys, err := decodeKeys(raw)
		if err != nil {
			return nil, fmt.Errorf("dismissal %s: %w", storageKeys[i], err)
		}
		out[storageKeys[i]] = keys
	}
	return out, nil
}

func (r *RedisDismissalRepo) Save(ctx context.Context, entries []DismissalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, e := range sortedEntries(entries) {
			raw, err := encodeKeys(e.ContentKeys)
			if err != nil {
				return err
			}
			key := e.StorageKey()
			pipe.Set(ctx, DismissalKey(key), raw, 0)
			pipe.SAdd(ctx, SetIndexKey(e.SetUUID), key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving dismissals: %w", err)
	}
	return nil
}

// DeleteBySet drops every dismissal recorded for a highlight set.
func (r *RedisDismissalRepo) DeleteBySet(ctx context.Context, setUUID string) error {
	members, err := r.client.SMembers(ctx, SetIndexKey(setUUID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("listing dismissals for %s: %w", setUUID, err)
	}
	keys := make([]string, 0, len(members)+1)
	for _, m := range members {
		keys = append(keys, DismissalKey(m))
	}
	keys = append(keys, SetIndexKey(setUUID))
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting dismissals for %s: %w", setUUID, err)
	}
	return nil
}
