// Package search implements the Search Engine component: ranked,
// explainable full-text queries against a corpus (spec §4.5), plus the
// web_search passthrough to an external search API (spec §4.5, §6).
package search

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/manifold-docs/corpusd/internal/textproc"
)

// PrivilegedTags is the small fixed bonus-term set the reference
// implementation awards a +1 match to, independent of document content.
// This is a known oddity inherited from the source system (spec §9 open
// question 2) and is preserved here for fidelity rather than dropped,
// pending stakeholder confirmation that it is not load-bearing for some
// downstream consumer.
var PrivilegedTags = map[string]struct{}{
	"python":      {},
	"programming": {},
	"tutorial":    {},
	"guide":       {},
}

// IndexLookup is the narrow view of the Inverted Index the Search Engine
// needs. The Organizer passes its own invindex.Index through this
// interface rather than handing over the concrete type, so the Search
// Engine cannot mutate index state it does not own (spec §9).
type IndexLookup interface {
	Contains(term string, id uuid.UUID) bool
}

// Candidate is the minimal view of a Document the Search Engine scores
// against: its id, title, and current-version body text.
type Candidate struct {
	ID    uuid.UUID
	Title string
	Text  string
}

// Result is one ranked hit: a document id, its integer match-event score,
// and the human-readable reasons that produced it (spec §6).
type Result struct {
	DocID   uuid.UUID
	Score   int
	Reasons []string
}

// Search scores every candidate against query and returns the matches
// ordered by descending score, ties broken by document id for a stable,
// deterministic order. An empty query yields a nil result; this function
// never fails (spec §4.5, §7).
func Search(query string, candidates []Candidate, index IndexLookup) []Result {
	queryTerms := textproc.ExtractTerms(query)
	if len(queryTerms) == 0 {
		return nil
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		titleTerms := textproc.TermSet(textproc.Tokenize(c.Title))
		textTerms := textproc.TermSet(textproc.Tokenize(c.Text))

		score := 0
		var reasons []string
		for _, term := range queryTerms {
			if _, ok := titleTerms[term]; ok {
				score++
				reasons = append(reasons, fmt.Sprintf("Title contains: %s", term))
			}
			if _, ok := textTerms[term]; ok {
				score++
				reasons = append(reasons, fmt.Sprintf("Text contains: %s", term))
			}
			if index != nil && index.Contains(term, c.ID) {
				score++
				reasons = append(reasons, fmt.Sprintf("Document contains: %s", term))
			}
			if _, ok := PrivilegedTags[term]; ok {
				score++
				reasons = append(reasons, fmt.Sprintf("Tag match: %s", term))
			}
		}
		if score == 0 {
			continue
		}
		results = append(results, Result{DocID: c.ID, Score: score, Reasons: reasons})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID.String() < results[j].DocID.String()
	})
	return results
}

// WebResult is one hit from the external web-search passthrough — an
// opaque result record per spec §6.
type WebResult struct {
	Title   string
	URL     string
	Snippet string
}

// WebSearcher is the external web-search API collaborator interface (spec
// §6). Concrete adapters live under internal/collab/websearch.
type WebSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]WebResult, error)
}

// Logger is the minimal structured-logging interface WebSearch uses to
// report unavailability without failing the call.
type Logger interface {
	Warn(msg string, fields map[string]any)
}

// WebSearch is a thin, always-succeeding passthrough to an external search
// API. If searcher is nil, the call times out, or the backend otherwise
// errors, it logs a warning once and returns an empty slice — it never
// fails the call (spec §4.5, §7 ExternalUnavailable).
func WebSearch(ctx context.Context, searcher WebSearcher, query string, maxResults int, logger Logger) []WebResult {
	if searcher == nil {
		if logger != nil {
			logger.Warn("web search unavailable: no backend configured", map[string]any{"query": query})
		}
		return nil
	}
	results, err := searcher.Search(ctx, query, maxResults)
	if err != nil {
		if logger != nil {
			logger.Warn("web search failed", map[string]any{"query": query, "error": err.Error()})
		}
		return nil
	}
	return results
}
