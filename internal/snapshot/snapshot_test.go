package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifold-docs/corpusd/internal/objectstore"
	"github.com/manifold-docs/corpusd/internal/organizer"
)

func TestMarshalUnmarshalRoundTrips(t *testing.T) {
	o := organizer.New()
	_, err := o.Ingest(organizer.Input{URL: "u1", Title: "A", Content: map[string]any{"text": "alpha beta"}})
	require.NoError(t, err)
	_, err = o.Ingest(organizer.Input{URL: "u2", Title: "B", Content: map[string]any{"text": "alpha gamma"}})
	require.NoError(t, err)

	data, err := Marshal(o.All())
	require.NoError(t, err)

	docs, err := Unmarshal(data)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	fresh := organizer.New()
	for _, d := range docs {
		fresh.Restore(d)
	}

	results := fresh.Search("alpha")
	require.Len(t, results, 2)
}

func TestUnmarshalRejectsMalformedJSON(t *testing.T) {
	_, err := Unmarshal([]byte("not json"))
	assert.Error(t, err)
}

func TestFileStoreSaveLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(dir)
	ctx := context.Background()

	want := []byte(`{"documents":{}}`)
	require.NoError(t, store.Save(ctx, "corpus", want))

	got, err := store.Load(ctx, "corpus")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreLoadMissingReturnsNotFound(t *testing.T) {
	store := NewFileStore(t.TempDir())
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestObjectStoreBackendSaveLoadRoundTrips(t *testing.T) {
	backend := NewObjectStoreBackend(objectstore.NewMemoryStore(), "corpusd/snapshots/")
	ctx := context.Background()

	want := []byte(`{"documents":{}}`)
	require.NoError(t, backend.Save(ctx, "corpus", want))

	got, err := backend.Load(ctx, "corpus")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestObjectStoreBackendLoadMissingReturnsNotFound(t *testing.T) {
	backend := NewObjectStoreBackend(objectstore.NewMemoryStore(), "corpusd/snapshots/")
	_, err := backend.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestScenarioSixSerializeDeserializeRebuildsIndices(t *testing.T) {
	o := organizer.New()
	d1, err := o.Ingest(organizer.Input{URL: "u1", Title: "A", Content: map[string]any{"text": "alpha beta"}})
	require.NoError(t, err)
	_, err = o.Ingest(organizer.Input{URL: "u2", Title: "B", Content: map[string]any{"text": "gamma delta"}})
	require.NoError(t, err)

	data, err := Marshal(o.All())
	require.NoError(t, err)

	docs, err := Unmarshal(data)
	require.NoError(t, err)

	fresh := organizer.New()
	for _, d := range docs {
		fresh.Restore(d)
	}

	results := fresh.Search("alpha")
	require.Len(t, results, 1)
	assert.Equal(t, d1, results[0].DocID)
	assert.Greater(t, results[0].Score, 0)
}
