// Package docstore implements the Document Store component: the
// content-addressed collection of Documents with per-URL version history
// described in spec §3 and §4.2.
package docstore

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by lookups that find nothing. It is a sentinel
// value, not a failure mode: callers check for it with errors.Is, they do
// not treat it as exceptional.
var ErrNotFound = errors.New("docstore: not found")

// Metadata is the immutable-identity-plus-mutable-descriptive-fields record
// attached to a Document (spec §3). Tags have set semantics with
// insertion-order preserved for display.
type Metadata struct {
	Source           string
	URL              string
	Title            string
	Timestamp        time.Time
	Tags             []string
	CustomAttributes map[string]any
}

// Version is one immutable content snapshot, numbered from 1 (spec §3).
// Content is an open-ended mapping; the only keys the core ever inspects
// are "text" (string) and "headings" ([]map[string]any, each with a "text"
// key) — everything else is opaque payload preserved verbatim.
type Version struct {
	Content       map[string]any
	VersionNumber int
	Timestamp     time.Time
}

// Document is identity plus an append-only version history (spec §3).
// Versions[i].VersionNumber == i+1 for all i, and Versions is never empty
// once a Document has been constructed via Add.
type Document struct {
	ID       uuid.UUID
	Metadata Metadata
	Versions []Version
}

// Latest returns the most recently appended Version. Callers must not call
// this on a Document with no versions; Add never produces one.
func (d Document) Latest() Version {
	return d.Versions[len(d.Versions)-1]
}

// Clone returns a deep-enough copy of the Document safe for callers to hold
// without risk of mutating store-owned state. Content maps are copied one
// level deep, which is sufficient for the well-known keys the core
// inspects; callers must not assume deeper mutation safety for opaque
// nested payloads.
func (d Document) Clone() Document {
	out := d
	out.Metadata.Tags = append([]string(nil), d.Metadata.Tags...)
	out.Metadata.CustomAttributes = cloneMap(d.Metadata.CustomAttributes)
	out.Versions = make([]Version, len(d.Versions))
	for i, v := range d.Versions {
		out.Versions[i] = Version{
			Content:       cloneMap(v.Content),
			VersionNumber: v.VersionNumber,
			Timestamp:     v.Timestamp,
		}
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Collection is the Document Store: a mapping from document ID to Document,
// with at most one Document per non-empty URL (spec §3). It is safe for
// concurrent use; callers needing atomicity across a read-then-write
// sequence should use the Organizer facade instead of composing Collection
// calls directly.
type Collection struct {
	mu       sync.RWMutex
	docs     map[uuid.UUID]Document
	byURL    map[string]uuid.UUID
	idsOrder []uuid.UUID // insertion order, for stable FindByTitle results
}

// New returns an empty Collection.
func New() *Collection {
	return &Collection{
		docs:  make(map[uuid.UUID]Document),
		byURL: make(map[string]uuid.UUID),
	}
}

// NewTime is overridable in tests that need deterministic timestamps.
var NewTime = time.Now

// Add ingests metadata and content. If metadata.URL is non-empty and a
// Document with that URL already exists, a new Version is appended to it
// and its id is returned; metadata on the existing Document is not updated
// (spec §9 open question 1 — preserved as specified). Otherwise a new
// Document is minted with one initial Version.
func (c *Collection) Add(metadata Metadata, content map[string]any) uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := NewTime()
	if metadata.URL != "" {
		if id, ok := c.byURL[metadata.URL]; ok {
			doc := c.docs[id]
			doc.Versions = append(doc.Versions, Version{
				Content:       content,
				VersionNumber: len(doc.Versions) + 1,
				Timestamp:     now,
			})
			c.docs[id] = doc
			return id
		}
	}

	if metadata.Source == "" {
		metadata.Source = "unknown"
	}
	metadata.Timestamp = now
	metadata.Tags = dedupTags(metadata.Tags)

	id := uuid.New()
	doc := Document{
		ID:       id,
		Metadata: metadata,
		Versions: []Version{{Content: content, VersionNumber: 1, Timestamp: now}},
	}
	c.docs[id] = doc
	c.idsOrder = append(c.idsOrder, id)
	if metadata.URL != "" {
		c.byURL[metadata.URL] = id
	}
	return id
}

// Restore inserts a fully-formed Document as-is, preserving its id and
// version history. Used by snapshot loading to rebuild the store without
// minting new ids. It overwrites any existing document with the same id.
func (c *Collection) Restore(doc Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.docs[doc.ID]; !exists {
		c.idsOrder = append(c.idsOrder, doc.ID)
	}
	c.docs[doc.ID] = doc
	if doc.Metadata.URL != "" {
		c.byURL[doc.Metadata.URL] = doc.ID
	}
}

func dedupTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// Get returns the Document with the given id, or ErrNotFound.
func (c *Collection) Get(id uuid.UUID) (Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

// FindByURL performs an exact-match lookup, or ErrNotFound.
func (c *Collection) FindByURL(url string) (Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.byURL[url]
	if !ok {
		return Document{}, ErrNotFound
	}
	return c.docs[id], nil
}

// FindByTitle returns Documents whose title matches needle. When partial is
// true the match is a case-insensitive substring test; otherwise it is
// case-insensitive equality. Result order is insertion order, which is
// stable within a process run.
func (c *Collection) FindByTitle(needle string, partial bool) []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	lower := strings.ToLower(needle)
	var out []Document
	for _, id := range c.idsOrder {
		doc, ok := c.docs[id]
		if !ok {
			continue // deleted
		}
		title := strings.ToLower(doc.Metadata.Title)
		if partial {
			if strings.Contains(title, lower) {
				out = append(out, doc)
			}
		} else if title == lower {
			out = append(out, doc)
		}
	}
	return out
}

// Delete removes the Document with the given id, reporting whether
// anything was removed. Deleting an unknown id is not an error.
func (c *Collection) Delete(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	doc, ok := c.docs[id]
	if !ok {
		return false
	}
	delete(c.docs, id)
	if doc.Metadata.URL != "" {
		if cur, ok := c.byURL[doc.Metadata.URL]; ok && cur == id {
			delete(c.byURL, doc.Metadata.URL)
		}
	}
	for i, oid := range c.idsOrder {
		if oid == id {
			c.idsOrder = append(c.idsOrder[:i], c.idsOrder[i+1:]...)
			break
		}
	}
	return true
}

// All returns every Document currently in the collection, in insertion
// order. The slice and its elements are safe to read but callers must not
// mutate the Content maps of the returned Documents in place.
func (c *Collection) All() []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Document, 0, len(c.idsOrder))
	for _, id := range c.idsOrder {
		if doc, ok := c.docs[id]; ok {
			out = append(out, doc)
		}
	}
	return out
}

// Len reports the number of documents currently stored.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}
