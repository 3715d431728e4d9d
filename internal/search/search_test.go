package search

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

type fakeIndex struct {
	hits map[string]map[uuid.UUID]bool
}

func (f fakeIndex) Contains(term string, id uuid.UUID) bool {
	return f.hits[term][id]
}

func TestSearchScoresTitleTextAndIndexMatches(t *testing.T) {
	id := uuid.New()
	candidates := []Candidate{
		{ID: id, Title: "Python Basics", Text: "An introduction to python programming"},
	}
	idx := fakeIndex{hits: map[string]map[uuid.UUID]bool{"python": {id: true}}}

	results := Search("python", candidates, idx)
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	r := results[0]
	if r.DocID != id {
		t.Fatalf("unexpected doc id")
	}
	// title match + text match + index match + privileged-tag match = 4
	if r.Score != 4 {
		t.Fatalf("expected score 4, got %d (reasons: %v)", r.Score, r.Reasons)
	}
}

func TestSearchExcludesZeroScoreDocuments(t *testing.T) {
	candidates := []Candidate{
		{ID: uuid.New(), Title: "Unrelated", Text: "nothing matching here"},
	}
	results := Search("python", candidates, fakeIndex{})
	if len(results) != 0 {
		t.Fatalf("expected no results, got %v", results)
	}
}

func TestSearchEmptyQueryYieldsNil(t *testing.T) {
	candidates := []Candidate{{ID: uuid.New(), Title: "Python", Text: "python"}}
	if got := Search("the a an", candidates, fakeIndex{}); got != nil {
		t.Fatalf("expected nil for all-stopword query, got %v", got)
	}
}

func TestSearchOrdersByScoreDescendingThenID(t *testing.T) {
	high := Candidate{ID: uuid.New(), Title: "python python programming", Text: "python programming"}
	low := Candidate{ID: uuid.New(), Title: "python", Text: ""}
	results := Search("python programming", []Candidate{low, high}, fakeIndex{})
	if len(results) != 2 {
		t.Fatalf("expected two results, got %d", len(results))
	}
	if results[0].DocID != high.ID {
		t.Fatalf("expected higher-scoring document first")
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("expected descending score order, got %d then %d", results[0].Score, results[1].Score)
	}

	tieA := Candidate{ID: uuid.New(), Title: "python"}
	tieB := Candidate{ID: uuid.New(), Title: "python"}
	tied := Search("python", []Candidate{tieA, tieB}, fakeIndex{})
	if len(tied) != 2 || tied[0].Score != tied[1].Score || tied[0].DocID.String() > tied[1].DocID.String() {
		t.Fatalf("expected equal scores ordered by document id, got %v", tied)
	}
}

type fakeWebSearcher struct {
	results []WebResult
	err     error
}

func (f fakeWebSearcher) Search(ctx context.Context, query string, maxResults int) ([]WebResult, error) {
	return f.results, f.err
}

type capturingLogger struct {
	warned bool
}

func (c *capturingLogger) Warn(msg string, fields map[string]any) {
	c.warned = true
}

func TestWebSearchReturnsResultsOnSuccess(t *testing.T) {
	searcher := fakeWebSearcher{results: []WebResult{{Title: "Go", URL: "https://go.dev"}}}
	got := WebSearch(context.Background(), searcher, "golang", 5, nil)
	if len(got) != 1 || got[0].URL != "https://go.dev" {
		t.Fatalf("unexpected results: %v", got)
	}
}

func TestWebSearchNeverFailsOnNilSearcher(t *testing.T) {
	logger := &capturingLogger{}
	got := WebSearch(context.Background(), nil, "golang", 5, logger)
	if got != nil {
		t.Fatalf("expected nil results for unavailable searcher, got %v", got)
	}
	if !logger.warned {
		t.Fatalf("expected a warning to be logged")
	}
}

func TestWebSearchNeverFailsOnBackendError(t *testing.T) {
	logger := &capturingLogger{}
	searcher := fakeWebSearcher{err: errors.New("timeout")}
	got := WebSearch(context.Background(), searcher, "golang", 5, logger)
	if got != nil {
		t.Fatalf("expected nil results on backend error, got %v", got)
	}
	if !logger.warned {
		t.Fatalf("expected a warning to be logged")
	}
}
