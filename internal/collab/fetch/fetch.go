// Package fetch defines the Fetcher external collaborator (spec §6): the
// HTTP/headless-browser backends that retrieve a page's raw HTML and hand
// it to the Organizer's ingest path. The core itself never calls a
// Fetcher — per spec §6, "the core does not call the fetcher; the fetcher
// calls ingest" — so the Organizer is only ever invoked from outside the
// core: KafkaFetcher runs its own loop that extracts and ingests each
// record, while ChromedpFetcher only returns the fetched page and leaves
// extraction and ingest to its caller.
package fetch

import (
	"context"
	"time"
)

// RawDocument is the record a Fetcher backend yields to its caller before
// extraction: raw HTML plus whatever transport-level metadata the backend
// captured (spec §6: "{url, html, metadata, status}").
type RawDocument struct {
	URL       string
	HTML      string
	Status    int
	Metadata  map[string]any
	FetchedAt time.Time
}

// Fetcher is the collaborator interface the core's §6 external-interfaces
// section describes in the abstract: given a single URL, retrieve its
// current rendered or raw HTML. ChromedpFetcher implements it;
// KafkaFetcher does not, since it consumes records from a topic via Run
// rather than fetching URLs on request.
type Fetcher interface {
	FetchOne(ctx context.Context, url string) (RawDocument, error)
}
