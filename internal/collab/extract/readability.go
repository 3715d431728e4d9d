package extract

import (
	"context"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// ReadabilityExtractor extracts the main article text from a page using
// Mozilla Readability's algorithm, grounded directly on the teacher's
// internal/tools/web.Fetcher.FetchMarkdown: readability.FromReader against
// a parsed base URL, falling back to treating the whole document as the
// article when extraction yields nothing. It does not populate
// "headings" — Readability's output is prose, not an outline — so
// MarkdownExtractor is the better choice when heading-aware indexing
// matters.
type ReadabilityExtractor struct {
	// BaseURL anchors relative links Readability encounters while parsing.
	// May be empty.
	BaseURL string
}

// NewReadabilityExtractor returns a ReadabilityExtractor anchored at
// baseURL (used only for resolving relative links within the article).
func NewReadabilityExtractor(baseURL string) *ReadabilityExtractor {
	return &ReadabilityExtractor{BaseURL: baseURL}
}

// Extract parses html with Readability and returns its plain-text article
// body under the "text" content key.
func (r *ReadabilityExtractor) Extract(_ context.Context, html string) (map[string]any, string, error) {
	var base *url.URL
	if r.BaseURL != "" {
		if u, err := url.Parse(r.BaseURL); err == nil {
			base = u
		}
	}

	art, err := readability.FromReader(strings.NewReader(html), base)
	text := strings.TrimSpace(art.TextContent)
	title := strings.TrimSpace(art.Title)
	if err != nil || text == "" {
		// Degrade gracefully rather than fail: index whatever text the raw
		// HTML yields once tags are stripped, per spec §4.6's "malformed
		// content degrades gracefully, no error."
		text = stripTags(html)
	}

	return map[string]any{"text": text}, title, nil
}

// stripTags is a crude HTML-to-text fallback for pages Readability could
// not parse into an article. It is intentionally simple: this path only
// runs when the real extractor already failed, so perfect fidelity is not
// the goal, just "some terms rather than none."
func stripTags(html string) string {
	var sb strings.Builder
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			sb.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
