package snapshot

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/manifold-docs/corpusd/internal/config"
	"github.com/manifold-docs/corpusd/internal/objectstore"
)

// NewStore builds the Store backend selected by cfg.Backend ("file", "s3",
// or "redis"), wiring whichever of FileStore / ObjectStoreBackend /
// RedisStore the selection requires (spec §4.7, §10.3). An empty Backend
// is an error: callers that want snapshotting disabled should not call
// NewStore at all.
func NewStore(ctx context.Context, cfg config.SnapshotConfig) (Store, error) {
	switch cfg.Backend {
	case "file":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("snapshot: file backend requires a dir")
		}
		return NewFileStore(cfg.Dir), nil
	case "s3":
		store, err := objectstore.NewS3Store(ctx, cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("snapshot: build s3 backend: %w", err)
		}
		prefix := cfg.S3.Prefix
		if prefix != "" {
			prefix += "/"
		}
		return NewObjectStoreBackend(store, prefix), nil
	case "redis":
		opts := &redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}
		if cfg.Redis.TLSInsecureSkipVerify {
			opts.TLSConfig = &tls.Config{InsecureSkipVerify: true}
		}
		client := redis.NewClient(opts)
		return NewRedisStore(client, "corpusd:snapshot:"), nil
	default:
		return nil, fmt.Errorf("snapshot: unknown backend %q", cfg.Backend)
	}
}
