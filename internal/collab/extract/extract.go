// Package extract defines the Content extractor external collaborator
// (spec §6): the pluggable transform from raw HTML into the `content`
// mapping Organizer.Ingest consumes, with `text` (the primary prose body)
// and optionally `headings` (spec §3) populated.
package extract

import "context"

// Extractor transforms raw HTML into the content mapping Ingest expects,
// plus the page's best-guess title (which the caller typically threads
// into organizer.Input.Title since metadata and content are separate
// arguments to Ingest). Implementations must degrade gracefully: a page
// with no extractable article text still returns a content map (with an
// empty or whole-document "text"), never an error, for anything short of
// a hard failure to parse the HTML at all.
type Extractor interface {
	Extract(ctx context.Context, html string) (content map[string]any, title string, err error)
}

// heading is the shape the core's indexTerms helper looks for under the
// "headings" content key (spec §3: "ordered sequence of mappings each with
// a text key").
func heading(text string) map[string]any {
	return map[string]any{"text": text}
}
