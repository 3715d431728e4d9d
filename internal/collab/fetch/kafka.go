package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kafka "github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/manifold-docs/corpusd/internal/collab/extract"
	"github.com/manifold-docs/corpusd/internal/obs"
	"github.com/manifold-docs/corpusd/internal/organizer"
)

// kafkaMessage is the wire shape a crawl backend publishes: the raw
// {url, html, metadata, status} record spec §6 describes for the Fetcher
// collaborator.
type kafkaMessage struct {
	URL      string         `json:"url"`
	HTML     string         `json:"html"`
	Status   int            `json:"status"`
	Metadata map[string]any `json:"metadata"`
	Source   string         `json:"source"`
}

// KafkaFetcher consumes raw crawl records off a Kafka topic and funnels
// each through an Extractor and the Organizer's Ingest — the natural shape
// for "concurrent ingestion from multiple crawl backends" (spec §1):
// multiple crawler processes publish independently, one KafkaFetcher.Run
// loop drains the topic and serializes every Ingest call through the
// Organizer's own lock (spec §5).
//
// Grounded on the teacher's internal/orchestrator.StartKafkaConsumer: a
// kafka.NewReader built from a ReaderConfig, a worker pool draining a jobs
// channel, and commit-after-handling so a crash redelivers the message
// rather than silently dropping it.
type KafkaFetcher struct {
	reader    *kafka.Reader
	extractor extract.Extractor
	org       *organizer.Organizer
	workers   int
	log       obs.Logger
}

// NewKafkaFetcher builds a KafkaFetcher reading topic from brokers under
// groupID, extracting content with extractor and ingesting into org.
func NewKafkaFetcher(brokers []string, groupID, topic string, extractor extract.Extractor, org *organizer.Organizer, workers int, log obs.Logger) *KafkaFetcher {
	if workers <= 0 {
		workers = 4
	}
	if log == nil {
		log = obs.NoopLogger{}
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &KafkaFetcher{reader: reader, extractor: extractor, org: org, workers: workers, log: log}
}

// Close releases the underlying Kafka reader.
func (k *KafkaFetcher) Close() error {
	return k.reader.Close()
}

// Run drains the topic until ctx is canceled, fanning messages out across
// k.workers goroutines via errgroup (spec §10.5) and committing each
// message only after Ingest succeeds (or is permanently skipped because
// the payload was malformed — a malformed message is not retried). A
// message whose extraction or ingest fails is logged and left uncommitted.
func (k *KafkaFetcher) Run(ctx context.Context) error {
	jobs := make(chan kafka.Message, k.workers*4)
	g, gctx := errgroup.WithContext(ctx)

	for i := 0; i < k.workers; i++ {
		g.Go(func() error {
			for msg := range jobs {
				if err := k.handle(gctx, msg); err != nil {
					k.log.Error("kafka fetcher: handle failed", map[string]any{"error": err.Error()})
					continue
				}
				if err := k.reader.CommitMessages(gctx, msg); err != nil {
					k.log.Error("kafka fetcher: commit failed", map[string]any{"error": err.Error()})
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(jobs)
		for {
			msg, err := k.reader.FetchMessage(gctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil
				}
				return fmt.Errorf("fetch: kafka fetch message: %w", err)
			}
			select {
			case jobs <- msg:
			case <-gctx.Done():
				return nil
			}
		}
	})

	return g.Wait()
}

func (k *KafkaFetcher) handle(ctx context.Context, msg kafka.Message) error {
	var raw kafkaMessage
	if err := json.Unmarshal(msg.Value, &raw); err != nil {
		k.log.Warn("kafka fetcher: malformed message, skipping", map[string]any{"error": err.Error()})
		return nil
	}

	content, title, err := k.extractor.Extract(ctx, raw.HTML)
	if err != nil {
		return fmt.Errorf("extract %q: %w", raw.URL, err)
	}

	source := raw.Source
	if source == "" {
		source = "kafka"
	}
	_, err = k.org.Ingest(organizer.Input{
		Source:           source,
		URL:              raw.URL,
		Title:            title,
		Content:          content,
		CustomAttributes: raw.Metadata,
	})
	return err
}
