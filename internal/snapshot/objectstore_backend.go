package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/manifold-docs/corpusd/internal/objectstore"
)

// ObjectStoreBackend persists snapshot blobs under the key
// <prefix><name>.json in an objectstore.ObjectStore — adapted directly from the
// teacher's internal/objectstore package, which this repo keeps as the
// storage-layer abstraction its S3 and in-memory implementations already
// provide (spec §10.3: "ObjectStore backend").
type ObjectStoreBackend struct {
	store  objectstore.ObjectStore
	prefix string
}

// NewObjectStoreBackend wraps store, prefixing every key with prefix (e.g.
// "corpusd/snapshots/").
func NewObjectStoreBackend(store objectstore.ObjectStore, prefix string) *ObjectStoreBackend {
	return &ObjectStoreBackend{store: store, prefix: prefix}
}

func (o *ObjectStoreBackend) key(name string) string {
	return o.prefix + name + ".json"
}

// Save puts data under the snapshot's object key.
func (o *ObjectStoreBackend) Save(ctx context.Context, name string, data []byte) error {
	_, err := o.store.Put(ctx, o.key(name), bytes.NewReader(data), objectstore.PutOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("snapshot: objectstore save %q: %w", name, err)
	}
	return nil
}

// Load fetches and fully reads the snapshot's object key.
func (o *ObjectStoreBackend) Load(ctx context.Context, name string) ([]byte, error) {
	r, _, err := o.store.Get(ctx, o.key(name))
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("snapshot: objectstore load %q: %w", name, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("snapshot: objectstore read %q: %w", name, err)
	}
	return data, nil
}
