package extract

import (
	"context"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// MarkdownExtractor converts HTML to Markdown for the "text" content key
// and separately walks the document's heading elements (h1-h6) to populate
// "headings" (spec §3), grounded on the teacher's
// internal/tools/web.Fetcher.FetchMarkdown's use of
// htmltomarkdown.ConvertString for the HTML→Markdown half, combined with
// the DOM-walking idiom internal/web/web.go and
// internal/tools/web/search.go use golang.org/x/net/html for elsewhere in
// the pack.
type MarkdownExtractor struct{}

// NewMarkdownExtractor returns a MarkdownExtractor.
func NewMarkdownExtractor() *MarkdownExtractor { return &MarkdownExtractor{} }

// Extract converts html to Markdown and extracts its heading outline.
func (MarkdownExtractor) Extract(_ context.Context, rawHTML string) (map[string]any, string, error) {
	md, err := htmltomarkdown.ConvertString(rawHTML)
	if err != nil {
		return map[string]any{"text": stripTags(rawHTML)}, "", nil
	}

	headings, title := extractHeadings(rawHTML)
	content := map[string]any{"text": strings.TrimSpace(md)}
	if len(headings) > 0 {
		content["headings"] = headings
	}
	return content, title, nil
}

// extractHeadings walks the parsed HTML tree collecting h1-h6 text content
// in document order, and separately returns the first h1's text as a
// title guess (many documentation pages never set <title> meaningfully).
func extractHeadings(rawHTML string) ([]map[string]any, string) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, ""
	}

	var headings []map[string]any
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2", "h3", "h4", "h5", "h6":
				text := strings.TrimSpace(textContent(n))
				if text != "" {
					headings = append(headings, heading(text))
					if title == "" && n.Data == "h1" {
						title = text
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return headings, title
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
