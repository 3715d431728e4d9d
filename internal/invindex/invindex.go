// Package invindex implements the Inverted Index component: a mapping from
// normalized term to the set of document ids whose latest version contains
// that term (spec §4.3).
package invindex

import (
	"sync"

	"github.com/google/uuid"
)

// Index maps terms to document id sets. Terms are stored normalized
// (lower-case, as produced by textproc.Tokenize); there is no dual-case
// storage — spec §9 notes the source's original/lower-case duplication as
// a re-architecture point, and since the index is always rebuilt rather
// than persisted byte-for-byte, normalizing once at write time is
// sufficient and is what this implementation does.
type Index struct {
	mu    sync.RWMutex
	terms map[string]map[uuid.UUID]struct{}
}

// New returns an empty Index.
func New() *Index {
	return &Index{terms: make(map[string]map[uuid.UUID]struct{})}
}

// Add inserts id into every term's set. Re-adding the same (term, id) pair
// is a no-op.
func (idx *Index) Add(id uuid.UUID, terms []string) {
	if len(terms) == 0 {
		return
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, term := range terms {
		set, ok := idx.terms[term]
		if !ok {
			set = make(map[uuid.UUID]struct{})
			idx.terms[term] = set
		}
		set[id] = struct{}{}
	}
}

// Remove deletes id from every term's set, dropping any term entry whose
// set becomes empty as a result.
func (idx *Index) Remove(id uuid.UUID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for term, set := range idx.terms {
		if _, ok := set[id]; !ok {
			continue
		}
		delete(set, id)
		if len(set) == 0 {
			delete(idx.terms, term)
		}
	}
}

// Lookup returns the set of document ids currently associated with term.
// The returned slice is a snapshot copy, safe to retain.
func (idx *Index) Lookup(term string) []uuid.UUID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set, ok := idx.terms[term]
	if !ok {
		return nil
	}
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Contains reports whether id is indexed under term, without allocating a
// snapshot slice. Used by the search engine's per-document scoring loop.
func (idx *Index) Contains(term string, id uuid.UUID) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	set, ok := idx.terms[term]
	if !ok {
		return false
	}
	_, ok = set[id]
	return ok
}

// ReplaceTerms atomically swaps the term set associated with id: it removes
// id from every term it currently maps to, then adds it under newTerms.
// Used when a document is re-versioned and its index-term extraction
// changes between versions.
func (idx *Index) ReplaceTerms(id uuid.UUID, newTerms []string) {
	idx.mu.Lock()
	for term, set := range idx.terms {
		if _, ok := set[id]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(idx.terms, term)
			}
		}
	}
	for _, term := range newTerms {
		set, ok := idx.terms[term]
		if !ok {
			set = make(map[uuid.UUID]struct{})
			idx.terms[term] = set
		}
		set[id] = struct{}{}
	}
	idx.mu.Unlock()
}
