package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"ebay-sheets-sync/internal/browser"
	"ebay-sheets-sync/internal/ratelimit"
)

// badSignatures identify anti-bot and error interstitials that come
// back with a 200 and a full HTML body. A page containing any of them
// is treated as a failed fetch, not as product markup.
var badSignatures = []string{
	"Checking your browser before accessing",
	"Service Unavailable - Zero size object",
	"To continue, please verify that you are not a robot",
}

// Fetcher retrieves fully rendered page markup for one URL.
type Fetcher interface {
	FetchRenderedPage(ctx context.Context, url string) (string, error)
}

// FetchError is a per-link fetch failure: navigation error, timeout or
// an anti-bot block. The run carries on past it.
type FetchError struct {
	URL    string
	Reason string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PageFetcher drives a single browser page for the whole run. Links are
// loaded one at a time, paced by the rate limiter.
type PageFetcher struct {
	browser *browser.Browser
	page    playwright.Page
	limiter ratelimit.RateLimiter
	logger  *slog.Logger
	settle  time.Duration
	timeout time.Duration
}

func NewPageFetcher(b *browser.Browser, limiter ratelimit.RateLimiter, settle, timeout time.Duration) (*PageFetcher, error) {
	page, err := b.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err := b.WarmUp(page); err != nil {
		page.Close()
		return nil, err
	}

	return &PageFetcher{
		browser: b,
		page:    page,
		limiter: limiter,
		logger:  slog.Default().With("component", "fetcher"),
		settle:  settle,
		timeout: timeout,
	}, nil
}

// FetchRenderedPage navigates to url and returns the rendered markup.
// One attempt per link; any failure comes back as a *FetchError.
func (f *PageFetcher) FetchRenderedPage(ctx context.Context, url string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", &FetchError{URL: url, Reason: "cancelled while waiting", Err: err}
	}

	f.logger.Debug("navigating", "url", url)

	_, err := f.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(f.timeout.Milliseconds())),
	})
	if err != nil {
		return "", &FetchError{URL: url, Reason: "navigation failed", Err: err}
	}

	// Let client-side rendering finish before taking the content.
	time.Sleep(f.settle)

	content, err := f.page.Content()
	if err != nil {
		return "", &FetchError{URL: url, Reason: "failed to read page content", Err: err}
	}

	if reason, blocked := blockedPage(content); blocked {
		f.logger.Warn("blocked page detected", "url", url, "signature", reason)
		return "", &FetchError{URL: url, Reason: "anti-bot page: " + reason}
	}

	return content, nil
}

// Close releases the page. The browser itself is owned by the caller.
func (f *PageFetcher) Close() error {
	if f.page == nil {
		return nil
	}
	return f.page.Close()
}

// blockedPage reports whether content looks like an anti-bot or error
// interstitial rather than a product page.
func blockedPage(content string) (string, bool) {
	if strings.TrimSpace(content) == "" {
		return "empty page", true
	}
	for _, sig := range badSignatures {
		if strings.Contains(content, sig) {
			return sig, true
		}
	}
	return "", false
}
