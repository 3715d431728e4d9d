package invindex

import (
	"testing"

	"github.com/google/uuid"
)

func TestAddAndLookup(t *testing.T) {
	idx := New()
	id := uuid.New()
	idx.Add(id, []string{"python", "programming"})

	got := idx.Lookup("python")
	if len(got) != 1 || got[0] != id {
		t.Fatalf("expected [%v], got %v", id, got)
	}
	if idx.Lookup("missing") != nil {
		t.Fatalf("expected nil for unknown term")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	idx := New()
	id := uuid.New()
	idx.Add(id, []string{"python"})
	idx.Add(id, []string{"python"})
	if got := idx.Lookup("python"); len(got) != 1 {
		t.Fatalf("expected one entry after repeated add, got %v", got)
	}
}

func TestRemoveDropsEmptyTermEntries(t *testing.T) {
	idx := New()
	a, b := uuid.New(), uuid.New()
	idx.Add(a, []string{"shared", "only-a"})
	idx.Add(b, []string{"shared"})

	idx.Remove(a)
	if idx.Lookup("only-a") != nil {
		t.Fatalf("expected only-a term gone after removing its sole doc")
	}
	got := idx.Lookup("shared")
	if len(got) != 1 || got[0] != b {
		t.Fatalf("expected shared to still map to b, got %v", got)
	}
}

func TestContains(t *testing.T) {
	idx := New()
	id := uuid.New()
	idx.Add(id, []string{"term"})
	if !idx.Contains("term", id) {
		t.Fatalf("expected Contains to find indexed (term, id)")
	}
	if idx.Contains("term", uuid.New()) {
		t.Fatalf("expected Contains false for unindexed id")
	}
	if idx.Contains("nope", id) {
		t.Fatalf("expected Contains false for unknown term")
	}
}

func TestReplaceTermsMovesDocumentBetweenTerms(t *testing.T) {
	idx := New()
	id := uuid.New()
	idx.Add(id, []string{"old"})
	idx.ReplaceTerms(id, []string{"new"})
	if idx.Lookup("old") != nil {
		t.Fatalf("expected old term entry removed")
	}
	got := idx.Lookup("new")
	if len(got) != 1 || got[0] != id {
		t.Fatalf("expected id under new term, got %v", got)
	}
}
