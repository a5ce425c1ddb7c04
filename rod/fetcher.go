// Package rod renders pages in headless Chrome for sites that only emit
// their markup from JavaScript.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/logofetch"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation plus load of a single page.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements logofetch.PageFetcher at compile time.
var _ logofetch.PageFetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	browser   *Browser
	timeout   time.Duration
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a Fetcher rendering pages in browser.
// The Fetcher does not own browser; close it separately.
func NewFetcher(browser *Browser, opts ...Option) *Fetcher {
	f := &Fetcher{
		browser: browser,
		timeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchPage navigates to url and returns the rendered DOM. The page URL is
// the one the browser ended on.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (*logofetch.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, release, err := f.browser.Acquire()
	if err != nil {
		return nil, logofetch.WrapError(logofetch.EINVALID, err, "browser is closed")
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fetchError(url, fmt.Errorf("opening page: %w", err))
	}
	defer page.Close()

	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return nil, fetchError(url, err)
		}
	}
	if err := page.Navigate(url); err != nil {
		return nil, fetchError(url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fetchError(url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fetchError(url, err)
	}

	finalURL := url
	if info, err := page.Info(); err == nil && info.URL != "" {
		finalURL = info.URL
	}

	return &logofetch.Page{
		URL:         finalURL,
		HTML:        html,
		ContentType: "text/html",
	}, nil
}

func fetchError(url string, err error) error {
	return logofetch.WrapError(logofetch.EUNAVAILABLE,
		&logofetch.FetchError{URL: url, Err: err},
		fmt.Sprintf("Unable to render %s.", url),
	)
}
