// Package websearch implements the external Web-search API collaborator
// (spec §4.5, §6): a thin, best-effort passthrough to DuckDuckGo's lite
// HTML endpoint, driven by a headless browser. It is consulted only from
// Organizer.WebSearch and never participates in the core's own indexing or
// scoring.
package websearch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"github.com/manifold-docs/corpusd/internal/search"
)

// ChromeDDGSearch implements search.WebSearcher by driving a headless
// Chrome instance against DuckDuckGo's lite endpoint — adapted directly
// from the teacher's cmd/search/main.go SearchDDG, which types a query
// into the lite search box and scrapes result-link anchors. The teacher's
// version returned bare URLs; this adapter additionally captures each
// result's anchor text as a Title so search.WebResult carries something
// displayable.
type ChromeDDGSearch struct {
	userAgent string
}

// NewChromeDDGSearch returns a ChromeDDGSearch with the teacher's
// known-working desktop User-Agent (DuckDuckGo blocks the default
// "HeadlessChrome" UA string).
func NewChromeDDGSearch() *ChromeDDGSearch {
	return &ChromeDDGSearch{
		userAgent: `Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36`,
	}
}

// Search implements search.WebSearcher. It never panics; chromedp/context
// failures are returned as errors, which Organizer.WebSearch turns into a
// logged warning and an empty result (spec §7 ExternalUnavailable).
func (c *ChromeDDGSearch) Search(ctx context.Context, query string, maxResults int) ([]search.WebResult, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.UserAgent(c.userAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 30*time.Second)
	defer cancelTimeout()

	var nodes []*cdp.Node
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(`https://lite.duckduckgo.com/lite/`),
		chromedp.WaitReady(`input[name="q"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="q"]`, query+kb.Enter, chromedp.ByQuery),
		chromedp.WaitReady(`a.result-link`, chromedp.ByQuery),
		chromedp.Nodes(`a.result-link`, &nodes, chromedp.ByQueryAll),
	); err != nil {
		return nil, fmt.Errorf("websearch: chromedp ddg query %q: %w", query, err)
	}

	seen := map[string]struct{}{}
	var results []search.WebResult
	for _, n := range nodes {
		href := n.AttributeValue("href")
		if !strings.HasPrefix(href, "http") {
			continue
		}
		if _, dup := seen[href]; dup {
			continue
		}
		seen[href] = struct{}{}
		results = append(results, search.WebResult{URL: href, Title: nodeText(n)})
		if maxResults > 0 && len(results) >= maxResults {
			break
		}
	}
	return results, nil
}

// nodeText concatenates a cdp.Node's direct text children, best-effort.
func nodeText(n *cdp.Node) string {
	var sb strings.Builder
	for _, c := range n.Children {
		if c.NodeType == cdp.NodeTypeText {
			sb.WriteString(c.NodeValue)
		}
	}
	return strings.TrimSpace(sb.String())
}
