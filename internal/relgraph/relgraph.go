// Package relgraph implements the Relatedness Graph component: an
// undirected graph over document ids whose edges are exactly the pairs
// with Jaccard similarity at or above a configured threshold (spec §4.4).
package relgraph

import (
	"sync"

	"github.com/google/uuid"

	"github.com/manifold-docs/corpusd/internal/textproc"
)

// DefaultThreshold is the similarity threshold used when none is supplied
// at construction (spec §4.4, §9.5).
const DefaultThreshold = 0.2

// Graph stores the relatedness relation as an adjacency list with both
// endpoints written for every edge, giving O(1) neighbor lookup at the cost
// of maintaining symmetry by hand on every mutation (spec §9: "an
// adjacency-list representation of an undirected graph").
type Graph struct {
	mu        sync.RWMutex
	threshold float64
	edges     map[uuid.UUID]map[uuid.UUID]struct{}
}

// New returns an empty Graph using threshold for the relatedness predicate.
// A non-positive threshold falls back to DefaultThreshold.
func New(threshold float64) *Graph {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Graph{
		threshold: threshold,
		edges:     make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (g *Graph) related(a, b map[string]struct{}) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return textproc.Jaccard(a, b) >= g.threshold
}

func (g *Graph) link(a, b uuid.UUID) {
	if g.edges[a] == nil {
		g.edges[a] = make(map[uuid.UUID]struct{})
	}
	if g.edges[b] == nil {
		g.edges[b] = make(map[uuid.UUID]struct{})
	}
	g.edges[a][b] = struct{}{}
	g.edges[b][a] = struct{}{}
}

func (g *Graph) unlink(a, b uuid.UUID) {
	if set, ok := g.edges[a]; ok {
		delete(set, b)
		if len(set) == 0 {
			delete(g.edges, a)
		}
	}
	if set, ok := g.edges[b]; ok {
		delete(set, a)
		if len(set) == 0 {
			delete(g.edges, b)
		}
	}
}

// DocTerms is the minimal view RecomputeFor needs of every other document:
// its id and its current-version term set.
type DocTerms struct {
	ID    uuid.UUID
	Terms map[string]struct{}
}

// RecomputeFor compares id's current term set against every entry in
// others (the Organizer leaves id itself out; an entry for id is skipped
// here anyway), creating
// edges where the Jaccard predicate now holds and removing edges that no
// longer satisfy it. This is the O(N)-per-ingest naive approach spec §4.4
// allows; an index-assisted implementation restricting comparison to
// documents sharing at least one term would produce an identical edge set
// and is a viable future optimization for larger corpora.
func (g *Graph) RecomputeFor(id uuid.UUID, terms map[string]struct{}, others []DocTerms) {
	g.mu.Lock()
	defer g.mu.Unlock()

	seen := make(map[uuid.UUID]struct{}, len(others))
	for _, other := range others {
		if other.ID == id {
			continue
		}
		seen[other.ID] = struct{}{}
		if g.related(terms, other.Terms) {
			g.link(id, other.ID)
		} else {
			g.unlink(id, other.ID)
		}
	}
	// Drop stale edges to documents no longer present in others (e.g. the
	// corpus view passed in excludes a deleted document).
	for neighbor := range g.edges[id] {
		if _, ok := seen[neighbor]; !ok {
			g.unlink(id, neighbor)
		}
	}
}

// Neighbors returns the set of document ids related to id.
func (g *Graph) Neighbors(id uuid.UUID) []uuid.UUID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	set, ok := g.edges[id]
	if !ok {
		return nil
	}
	out := make([]uuid.UUID, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return out
}

// Remove drops every edge incident to id.
func (g *Graph) Remove(id uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for neighbor := range g.edges[id] {
		if set, ok := g.edges[neighbor]; ok {
			delete(set, id)
			if len(set) == 0 {
				delete(g.edges, neighbor)
			}
		}
	}
	delete(g.edges, id)
}

// Threshold returns the similarity threshold this Graph was constructed
// with.
func (g *Graph) Threshold() float64 {
	return g.threshold
}
