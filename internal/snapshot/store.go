package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// Store is the pluggable persistence seam for the serialized snapshot blob
// (spec §7 SerializationFailure, §4.7). Concrete backends live alongside
// this file and in the sibling *_backend.go files.
type Store interface {
	// Save writes data as the named snapshot, replacing any prior content.
	Save(ctx context.Context, name string, data []byte) error
	// Load reads the named snapshot. Returns ErrSnapshotNotFound if absent.
	Load(ctx context.Context, name string) ([]byte, error)
}

// ErrSnapshotNotFound is returned by Load when the named snapshot does not
// exist in the backing store.
var ErrSnapshotNotFound = fmt.Errorf("snapshot: not found")

// FileStore persists the snapshot blob to a local file using an atomic
// rename-based write, grounded on the teacher pack's
// calvinalkan-agent-task `internal/fs.Real.WriteFileAtomic`, which wraps
// the same `github.com/natefinch/atomic` package for exactly this purpose
// (avoiding a torn write if the process is killed mid-save).
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore rooted at dir. dir must already exist;
// FileStore does not create directories.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (f *FileStore) path(name string) string {
	return f.dir + "/" + name + ".json"
}

// Save atomically writes data to <dir>/<name>.json.
func (f *FileStore) Save(_ context.Context, name string, data []byte) error {
	if err := atomic.WriteFile(f.path(name), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("snapshot: filestore save %q: %w", name, err)
	}
	return nil
}

// Load reads <dir>/<name>.json, or ErrSnapshotNotFound if it does not
// exist.
func (f *FileStore) Load(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(f.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("snapshot: filestore load %q: %w", name, err)
	}
	return data, nil
}
