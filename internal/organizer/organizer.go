// Package organizer implements the Organizer facade: the single ingestion
// entry point that coordinates the Document Store, Inverted Index, and
// Relatedness Graph transactionally, and the single read entry point for
// search and relatedness queries (spec §4.6).
package organizer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/manifold-docs/corpusd/internal/docstore"
	"github.com/manifold-docs/corpusd/internal/invindex"
	"github.com/manifold-docs/corpusd/internal/obs"
	"github.com/manifold-docs/corpusd/internal/relgraph"
	"github.com/manifold-docs/corpusd/internal/search"
	"github.com/manifold-docs/corpusd/internal/textproc"
)

// ErrNotFound is returned when an id does not exist in the organizer. It
// aliases docstore.ErrNotFound so callers can errors.Is against either.
var ErrNotFound = docstore.ErrNotFound

// ErrInvalidArgument is returned for the one hard rejection case the core
// performs: a nil content map (spec §4.6, §7).
var ErrInvalidArgument = errors.New("organizer: invalid argument")

// Input is the raw document an external collaborator hands to Ingest (spec
// §6's ingest input contract), with the additional metadata fields the
// data model (§3) requires but the minimal contract leaves implicit.
type Input struct {
	Source           string
	URL              string
	Title            string
	Content          map[string]any
	Tags             []string
	CustomAttributes map[string]any
}

// RelatedView is the compact read-only representation get_related returns
// (spec §4.6, §6): no id, no version history, just the latest content.
type RelatedView struct {
	URL     string
	Title   string
	Content map[string]any
}

// Organizer owns a Document Store, Inverted Index, and Relatedness Graph
// and coordinates mutation across all three under a single coarse lock
// (spec §5), matching the teacher's facade-over-collaborators shape
// (constructor + functional Options, Logger/Metrics fields with Noop
// defaults and a Clock field defaulting to SystemClock).
type Organizer struct {
	mu sync.RWMutex

	docs  *docstore.Collection
	index *invindex.Index
	graph *relgraph.Graph

	// termsByID caches each document's current index-term set so
	// RecomputeFor's O(N) comparison doesn't re-tokenize every other
	// document's content on every ingest.
	termsByID map[uuid.UUID]map[string]struct{}

	log     obs.Logger
	metrics obs.Metrics
	clock   obs.Clock
}

// Option configures an Organizer during construction.
type Option func(*Organizer)

// WithLogger sets a custom logger.
func WithLogger(l obs.Logger) Option { return func(o *Organizer) { o.log = l } }

// WithMetrics sets a custom metrics collector.
func WithMetrics(m obs.Metrics) Option { return func(o *Organizer) { o.metrics = m } }

// WithClock sets a custom clock, primarily for deterministic metrics and
// log timing in tests. Document and version timestamps are governed
// separately by docstore.NewTime.
func WithClock(c obs.Clock) Option {
	return func(o *Organizer) { o.clock = c }
}

// WithSimilarityThreshold overrides the Relatedness Graph's edge threshold
// (spec §4.4, §9.5). Values <= 0 fall back to relgraph.DefaultThreshold.
func WithSimilarityThreshold(t float64) Option {
	return func(o *Organizer) { o.graph = relgraph.New(t) }
}

// New constructs an empty Organizer.
func New(opts ...Option) *Organizer {
	o := &Organizer{
		docs:      docstore.New(),
		index:     invindex.New(),
		graph:     relgraph.New(relgraph.DefaultThreshold),
		termsByID: make(map[uuid.UUID]map[string]struct{}),
		log:       obs.NoopLogger{},
		metrics:   obs.NoopMetrics{},
		clock:     obs.SystemClock{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Ingest is the single write entry point (spec §4.6): Document Store
// mutation, Inverted Index update, and Relatedness Graph recomputation
// happen under one lock acquisition, so a concurrent reader never observes
// a partial update.
func (o *Organizer) Ingest(in Input) (uuid.UUID, error) {
	if in.Content == nil {
		return uuid.UUID{}, fmt.Errorf("ingest: content is nil: %w", ErrInvalidArgument)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	start := o.clock.Now()
	metadata := docstore.Metadata{
		Source:           in.Source,
		URL:              in.URL,
		Title:            in.Title,
		Tags:             in.Tags,
		CustomAttributes: in.CustomAttributes,
	}
	id := o.docs.Add(metadata, in.Content)

	doc, err := o.docs.Get(id)
	if err != nil {
		// Unreachable in practice: Add just created or versioned id.
		return uuid.UUID{}, fmt.Errorf("ingest: %w", err)
	}

	terms := textproc.TermSet(indexTerms(doc.Metadata.Title, doc.Latest().Content))
	termSlice := make([]string, 0, len(terms))
	for t := range terms {
		termSlice = append(termSlice, t)
	}
	o.index.ReplaceTerms(id, termSlice)
	o.termsByID[id] = terms

	others := make([]relgraph.DocTerms, 0, len(o.termsByID))
	for otherID, otherTerms := range o.termsByID {
		if otherID == id {
			continue
		}
		others = append(others, relgraph.DocTerms{ID: otherID, Terms: otherTerms})
	}
	o.graph.RecomputeFor(id, terms, others)

	o.metrics.IncCounter("ingest_total", map[string]string{"source": in.Source})
	o.metrics.ObserveHistogram("ingest_duration_ms", float64(o.clock.Now().Sub(start).Milliseconds()), nil)
	o.log.Info("ingested document", map[string]any{"id": id.String(), "url": in.URL, "terms": len(terms)})

	return id, nil
}

// Restore inserts a fully-formed document, preserving its id, and rebuilds
// the inverted index and relatedness graph entries for it — the "ingest
// path with create-new disabled" §4.7 describes for snapshot loading.
func (o *Organizer) Restore(doc docstore.Document) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.docs.Restore(doc)
	terms := textproc.TermSet(indexTerms(doc.Metadata.Title, doc.Latest().Content))
	termSlice := make([]string, 0, len(terms))
	for t := range terms {
		termSlice = append(termSlice, t)
	}
	o.index.ReplaceTerms(doc.ID, termSlice)
	o.termsByID[doc.ID] = terms

	others := make([]relgraph.DocTerms, 0, len(o.termsByID))
	for otherID, otherTerms := range o.termsByID {
		if otherID == doc.ID {
			continue
		}
		others = append(others, relgraph.DocTerms{ID: otherID, Terms: otherTerms})
	}
	o.graph.RecomputeFor(doc.ID, terms, others)
}

// Get returns a defensive copy of the document with the given id.
func (o *Organizer) Get(id uuid.UUID) (docstore.Document, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	doc, err := o.docs.Get(id)
	if err != nil {
		return docstore.Document{}, err
	}
	return doc.Clone(), nil
}

// GetRelated materializes id's neighbors into read-only views (spec §4.6).
func (o *Organizer) GetRelated(id uuid.UUID) ([]RelatedView, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if _, err := o.docs.Get(id); err != nil {
		return nil, err
	}

	neighborIDs := o.graph.Neighbors(id)
	sort.Slice(neighborIDs, func(i, j int) bool { return neighborIDs[i].String() < neighborIDs[j].String() })

	views := make([]RelatedView, 0, len(neighborIDs))
	for _, nid := range neighborIDs {
		doc, err := o.docs.Get(nid)
		if err != nil {
			continue // deleted between Neighbors() and Get(); skip rather than fail
		}
		views = append(views, RelatedView{
			URL:     doc.Metadata.URL,
			Title:   doc.Metadata.Title,
			Content: doc.Latest().Content,
		})
	}
	return views, nil
}

// Search delegates to the Search Engine, scoring the current corpus
// against query (spec §4.5).
func (o *Organizer) Search(query string) []search.Result {
	o.mu.RLock()
	defer o.mu.RUnlock()

	docs := o.docs.All()
	candidates := make([]search.Candidate, 0, len(docs))
	for _, doc := range docs {
		latest := doc.Latest()
		text, _ := latest.Content["text"].(string)
		candidates = append(candidates, search.Candidate{ID: doc.ID, Title: doc.Metadata.Title, Text: text})
	}
	return search.Search(query, candidates, o.index)
}

// WebSearch is a thin passthrough to searcher, never failing the call
// (spec §4.5, §7 ExternalUnavailable).
func (o *Organizer) WebSearch(ctx context.Context, searcher search.WebSearcher, query string, maxResults int) []search.WebResult {
	return search.WebSearch(ctx, searcher, query, maxResults, o.log)
}

// Delete removes id from the Document Store, Inverted Index, and
// Relatedness Graph atomically, reporting whether anything was removed.
func (o *Organizer) Delete(id uuid.UUID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	removed := o.docs.Delete(id)
	if !removed {
		return false
	}
	o.index.Remove(id)
	o.graph.Remove(id)
	delete(o.termsByID, id)
	o.metrics.IncCounter("delete_total", nil)
	o.log.Info("deleted document", map[string]any{"id": id.String()})
	return true
}

// All returns a snapshot of every document currently stored, for use by the
// Serialization component.
func (o *Organizer) All() []docstore.Document {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.docs.All()
}

// indexTerms extracts the text the Text Processor runs over for a
// document: title, body text, and heading text (spec §4.2's "title + body
// + headings"). Malformed or missing content degrades gracefully to fewer
// terms rather than an error (spec §4.6).
func indexTerms(title string, content map[string]any) []string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteByte(' ')
	if text, ok := content["text"].(string); ok {
		sb.WriteString(text)
		sb.WriteByte(' ')
	}
	for _, h := range headingTexts(content["headings"]) {
		sb.WriteString(h)
		sb.WriteByte(' ')
	}
	return textproc.ExtractTerms(sb.String())
}

// headingTexts normalizes the "headings" content key, which may arrive as
// []map[string]any (constructed in-process) or []any of map[string]any
// (deserialized from JSON), into a flat list of heading text strings.
func headingTexts(raw any) []string {
	var out []string
	switch headings := raw.(type) {
	case []map[string]any:
		for _, h := range headings {
			if t, ok := h["text"].(string); ok {
				out = append(out, t)
			}
		}
	case []any:
		for _, entry := range headings {
			if h, ok := entry.(map[string]any); ok {
				if t, ok := h["text"].(string); ok {
					out = append(out, t)
				}
			}
		}
	}
	return out
}
