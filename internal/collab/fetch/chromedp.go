package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ChromedpFetcher drives a headless Chrome instance to retrieve a single
// URL's fully rendered HTML — grounded directly in the teacher's
// cmd/search/main.go SearchDDG, which builds a headless
// chromedp.NewExecAllocator with a normal (non-headless-looking)
// User-Agent and a bounded context timeout, then runs a chromedp action
// list against it. Here the action list is just Navigate+OuterHTML rather
// than SearchDDG's query-and-scrape-links sequence, since this adapter's
// job is rendering one page, not searching one.
type ChromedpFetcher struct {
	userAgent string
	timeout   time.Duration
}

// ChromedpOption configures a ChromedpFetcher.
type ChromedpOption func(*ChromedpFetcher)

// WithUserAgent overrides the default desktop-browser User-Agent string.
func WithUserAgent(ua string) ChromedpOption {
	return func(f *ChromedpFetcher) { f.userAgent = ua }
}

// WithTimeout bounds how long a single FetchOne call may take.
func WithTimeout(d time.Duration) ChromedpOption {
	return func(f *ChromedpFetcher) { f.timeout = d }
}

// defaultUserAgent mirrors the teacher's SearchDDG comment: a normal
// desktop Chrome UA, since sites (DuckDuckGo included) block the default
// "HeadlessChrome" string.
const defaultUserAgent = `Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36`

// NewChromedpFetcher returns a ChromedpFetcher with sensible defaults.
func NewChromedpFetcher(opts ...ChromedpOption) *ChromedpFetcher {
	f := &ChromedpFetcher{userAgent: defaultUserAgent, timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchOne navigates to url in a fresh headless tab and returns its
// rendered outer HTML.
func (f *ChromedpFetcher) FetchOne(ctx context.Context, url string) (RawDocument, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.UserAgent(f.userAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.timeout)
	defer cancelTimeout()

	var html string
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return RawDocument{}, fmt.Errorf("fetch: chromedp navigate %q: %w", url, err)
	}

	return RawDocument{
		URL:       url,
		HTML:      html,
		Status:    200,
		FetchedAt: time.Now(),
	}, nil
}
