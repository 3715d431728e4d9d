package fetch

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	kafka "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manifold-docs/corpusd/internal/organizer"
)

type fakeExtractor struct {
	content map[string]any
	title   string
	err     error
}

func (f fakeExtractor) Extract(context.Context, string) (map[string]any, string, error) {
	return f.content, f.title, f.err
}

func TestKafkaFetcherHandleIngestsValidMessage(t *testing.T) {
	org := organizer.New()
	kf := &KafkaFetcher{
		extractor: fakeExtractor{content: map[string]any{"text": "python programming tutorial"}, title: "Guide"},
		org:       org,
		log:       noopLogger{},
	}

	msg := kafka.Message{Value: []byte(`{"url":"https://example.com/a","html":"<p>hi</p>","status":200}`)}
	require.NoError(t, kf.handle(context.Background(), msg))

	doc, err := org.Get(mustOneID(t, org))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", doc.Metadata.URL)
	assert.Equal(t, "Guide", doc.Metadata.Title)
}

func TestKafkaFetcherHandleSkipsMalformedMessage(t *testing.T) {
	org := organizer.New()
	kf := &KafkaFetcher{
		extractor: fakeExtractor{},
		org:       org,
		log:       noopLogger{},
	}

	err := kf.handle(context.Background(), kafka.Message{Value: []byte("not json")})
	require.NoError(t, err)
	assert.Empty(t, org.All())
}

func TestKafkaFetcherHandlePropagatesExtractError(t *testing.T) {
	org := organizer.New()
	kf := &KafkaFetcher{
		extractor: fakeExtractor{err: errors.New("boom")},
		org:       org,
		log:       noopLogger{},
	}

	msg := kafka.Message{Value: []byte(`{"url":"u","html":"<p>x</p>"}`)}
	err := kf.handle(context.Background(), msg)
	assert.Error(t, err)
	assert.Empty(t, org.All())
}

type noopLogger struct{}

func (noopLogger) Info(string, map[string]any)  {}
func (noopLogger) Error(string, map[string]any) {}
func (noopLogger) Debug(string, map[string]any) {}
func (noopLogger) Warn(string, map[string]any)  {}

func mustOneID(t *testing.T, org *organizer.Organizer) uuid.UUID {
	t.Helper()
	docs := org.All()
	require.Len(t, docs, 1)
	return docs[0].ID
}
