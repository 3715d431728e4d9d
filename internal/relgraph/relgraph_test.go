package relgraph

import (
	"testing"

	"github.com/google/uuid"

	"github.com/manifold-docs/corpusd/internal/textproc"
)

func terms(words ...string) map[string]struct{} {
	return textproc.TermSet(words)
}

func TestRecomputeForCreatesEdgeAtThreshold(t *testing.T) {
	g := New(0.2)
	a, b := uuid.New(), uuid.New()
	// One shared term out of five distinct terms: Jaccard 1/5 == 0.2.
	aTerms := terms("python", "programming", "basics")
	bTerms := terms("python", "patterns", "idioms")

	g.RecomputeFor(a, aTerms, []DocTerms{{ID: b, Terms: bTerms}})
	g.RecomputeFor(b, bTerms, []DocTerms{{ID: a, Terms: aTerms}})

	if !containsID(g.Neighbors(a), b) {
		t.Fatalf("expected a related to b")
	}
	if !containsID(g.Neighbors(b), a) {
		t.Fatalf("expected graph symmetric: b should be related to a")
	}
}

func TestRecomputeForNoEdgeBelowThreshold(t *testing.T) {
	g := New(0.2)
	a, b := uuid.New(), uuid.New()
	aTerms := terms("alpha", "beta")
	bTerms := terms("gamma", "delta")
	g.RecomputeFor(a, aTerms, []DocTerms{{ID: b, Terms: bTerms}})
	if g.Neighbors(a) != nil {
		t.Fatalf("expected no neighbors, got %v", g.Neighbors(a))
	}
}

func TestRecomputeForEmptyTermSetsNeverRelated(t *testing.T) {
	g := New(0.2)
	a, b := uuid.New(), uuid.New()
	g.RecomputeFor(a, nil, []DocTerms{{ID: b, Terms: nil}})
	if g.Neighbors(a) != nil {
		t.Fatalf("expected empty term sets to never be related")
	}
}

func TestRecomputeForRemovesStaleEdgeWhenSimilarityDrops(t *testing.T) {
	g := New(0.2)
	a, b := uuid.New(), uuid.New()
	aTerms := terms("python", "programming")
	bTerms := terms("python", "programming")
	g.RecomputeFor(a, aTerms, []DocTerms{{ID: b, Terms: bTerms}})
	g.RecomputeFor(b, bTerms, []DocTerms{{ID: a, Terms: aTerms}})
	if !containsID(g.Neighbors(a), b) {
		t.Fatalf("expected initial edge")
	}

	// b's terms change entirely; re-running recompute for both should drop the edge.
	bTerms = terms("unrelated", "words")
	g.RecomputeFor(b, bTerms, []DocTerms{{ID: a, Terms: aTerms}})
	g.RecomputeFor(a, aTerms, []DocTerms{{ID: b, Terms: bTerms}})
	if containsID(g.Neighbors(a), b) {
		t.Fatalf("expected edge removed after similarity dropped below threshold")
	}
	if containsID(g.Neighbors(b), a) {
		t.Fatalf("expected symmetric removal")
	}
}

func TestRemoveDropsAllIncidentEdges(t *testing.T) {
	g := New(0.2)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	shared := terms("python", "programming")
	g.RecomputeFor(a, shared, []DocTerms{{ID: b, Terms: shared}, {ID: c, Terms: shared}})
	g.RecomputeFor(b, shared, []DocTerms{{ID: a, Terms: shared}, {ID: c, Terms: shared}})
	g.RecomputeFor(c, shared, []DocTerms{{ID: a, Terms: shared}, {ID: b, Terms: shared}})

	g.Remove(a)
	if g.Neighbors(a) != nil {
		t.Fatalf("expected no neighbors for removed node")
	}
	if containsID(g.Neighbors(b), a) || containsID(g.Neighbors(c), a) {
		t.Fatalf("expected removed node purged from neighbors' adjacency")
	}
	if !containsID(g.Neighbors(b), c) {
		t.Fatalf("expected b-c edge to remain")
	}
}

func TestNewThresholdFallsBackToDefault(t *testing.T) {
	g := New(0)
	if g.Threshold() != DefaultThreshold {
		t.Fatalf("expected default threshold, got %v", g.Threshold())
	}
}

func containsID(ids []uuid.UUID, target uuid.UUID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
