package extract

import (
	"context"
	"strings"
	"testing"
)

func TestReadabilityExtractorReturnsArticleText(t *testing.T) {
	html := `<html><head><title>Ignored</title></head><body>
<article><h1>Learn Go</h1><p>Go is a statically typed, compiled programming language designed at Google.</p>
<p>It is often compared to C and has excellent concurrency primitives.</p></article>
</body></html>`

	e := NewReadabilityExtractor("https://example.com/docs/go")
	content, title, err := e.Extract(context.Background(), html)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	text, _ := content["text"].(string)
	if !strings.Contains(text, "statically typed") {
		t.Fatalf("expected extracted text to contain article body, got %q", text)
	}
	if title == "" {
		t.Fatalf("expected a non-empty title")
	}
}

func TestReadabilityExtractorDegradesOnUnparsableHTML(t *testing.T) {
	e := NewReadabilityExtractor("")
	content, _, err := e.Extract(context.Background(), "<<<not real html!!!")
	if err != nil {
		t.Fatalf("Extract must not fail: %v", err)
	}
	if _, ok := content["text"]; !ok {
		t.Fatalf("expected a text key even on degraded extraction")
	}
}

func TestMarkdownExtractorPopulatesHeadings(t *testing.T) {
	html := `<html><body>
<h1>Getting Started</h1>
<p>Install the package with go get.</p>
<h2>Configuration</h2>
<p>Set options via environment variables.</p>
</body></html>`

	e := NewMarkdownExtractor()
	content, title, err := e.Extract(context.Background(), html)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if title != "Getting Started" {
		t.Fatalf("expected title from first h1, got %q", title)
	}
	headings, ok := content["headings"].([]map[string]any)
	if !ok || len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %#v", content["headings"])
	}
	if headings[0]["text"] != "Getting Started" {
		t.Fatalf("expected first heading text 'Getting Started', got %v", headings[0]["text"])
	}
	if headings[1]["text"] != "Configuration" {
		t.Fatalf("expected second heading text 'Configuration', got %v", headings[1]["text"])
	}
	text, _ := content["text"].(string)
	if !strings.Contains(text, "Install the package") {
		t.Fatalf("expected markdown body text, got %q", text)
	}
}

func TestMarkdownExtractorNoHeadingsOmitsKey(t *testing.T) {
	e := NewMarkdownExtractor()
	content, _, err := e.Extract(context.Background(), "<p>just a paragraph</p>")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := content["headings"]; ok {
		t.Fatalf("expected no headings key when document has no heading elements")
	}
}
