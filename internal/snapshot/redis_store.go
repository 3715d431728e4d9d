package snapshot

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore stores the snapshot blob as a single string key per name,
// useful as a fast warm-restart cache in front of a FileStore or
// ObjectStoreBackend. Grounded on the teacher's
// internal/workspaces.RedisGenerationCache: a redis.UniversalClient field,
// a small key-naming helper, context-scoped calls (spec §10.3).
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore wraps client, namespacing every key under prefix (e.g.
// "corpusd:snapshot:").
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (r *RedisStore) key(name string) string {
	return r.prefix + name
}

// Save sets the snapshot blob with no expiry; callers managing cache
// freshness should call Save again on every successful serialize.
func (r *RedisStore) Save(ctx context.Context, name string, data []byte) error {
	if err := r.client.Set(ctx, r.key(name), data, 0).Err(); err != nil {
		return fmt.Errorf("snapshot: redis save %q: %w", name, err)
	}
	return nil
}

// Load fetches the snapshot blob, or ErrSnapshotNotFound if the key is
// unset.
func (r *RedisStore) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("snapshot: redis load %q: %w", name, err)
	}
	return data, nil
}
