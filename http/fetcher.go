// Package http provides an HTTP-based implementation of logofetch.PageFetcher
// and logofetch.AssetFetcher for static pages that don't require JavaScript
// rendering.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/logofetch"
	"golang.org/x/net/html/charset"
)

// Defaults for outbound requests.
const (
	DefaultFetchTimeout       = 15 * time.Second
	DefaultMaxRedirects       = 5
	DefaultMaxBodySize  int64 = 10 << 20

	// DefaultUserAgent identifies requests as a desktop browser. Many sites
	// serve stripped-down markup or refuse image requests otherwise.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// Accept headers for pages and image assets.
const (
	PageAccept  = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	AssetAccept = "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8"
)

// Ensure Fetcher implements the fetch interfaces at compile time.
var (
	_ logofetch.PageFetcher  = (*Fetcher)(nil)
	_ logofetch.AssetFetcher = (*Fetcher)(nil)
)

// Fetcher retrieves pages and binary assets using HTTP requests.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	maxRedirects int
	maxBodySize  int64
	userAgent    string
	transport    http.RoundTripper
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests, redirects included.
// Defaults to DefaultFetchTimeout (15s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxRedirects sets how many redirects a request may follow.
// Defaults to DefaultMaxRedirects (5).
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithMaxBodySize sets the largest response body accepted, in bytes.
// Larger bodies fail rather than being truncated.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTransport sets the underlying round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) {
		f.transport = rt
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		maxRedirects: DefaultMaxRedirects,
		maxBodySize:  DefaultMaxBodySize,
		userAgent:    DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout:   f.timeout,
		Transport: f.transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > f.maxRedirects {
				return fmt.Errorf("stopped after %d redirects", f.maxRedirects)
			}
			return nil
		},
	}

	return f
}

// FetchPage retrieves the HTML document at url. The returned page's URL is
// the final URL after redirects. Bodies are decoded to UTF-8.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (*logofetch.Page, error) {
	resp, body, err := f.get(ctx, url, PageAccept, "")
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if !isTextual(contentType) {
		return nil, fetchError(url, 0, fmt.Errorf("non-textual response %q", contentType))
	}
	if len(body) == 0 {
		return nil, fetchError(url, 0, fmt.Errorf("empty response body"))
	}

	html := string(body)
	if r, err := charset.NewReader(bytes.NewReader(body), contentType); err == nil {
		if decoded, err := io.ReadAll(r); err == nil {
			html = string(decoded)
		}
	}

	finalURL := url
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &logofetch.Page{
		URL:         finalURL,
		HTML:        html,
		ContentType: contentType,
	}, nil
}

// FetchAsset retrieves the binary content at url. The request carries the
// asset URL itself as Referer, which satisfies most hotlink protection.
func (f *Fetcher) FetchAsset(ctx context.Context, url string) (*logofetch.Asset, error) {
	resp, body, err := f.get(ctx, url, AssetAccept, url)
	if err != nil {
		return nil, err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = logofetch.DefaultMIMEType
	}

	return &logofetch.Asset{
		URL:         url,
		Data:        body,
		ContentType: contentType,
	}, nil
}

// get performs a GET and reads the body. Any final status from 200 to 399
// counts as success.
func (f *Fetcher) get(ctx context.Context, url, accept, referer string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fetchError(url, 0, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, fetchError(url, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return nil, nil, fetchError(url, resp.StatusCode, fmt.Errorf("HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, nil, fetchError(url, 0, err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, nil, fetchError(url, 0, fmt.Errorf("response body exceeds %d bytes", f.maxBodySize))
	}

	return resp, body, nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func fetchError(url string, status int, err error) error {
	return logofetch.WrapError(logofetch.EUNAVAILABLE,
		&logofetch.FetchError{URL: url, StatusCode: status, Err: err},
		fmt.Sprintf("Unable to fetch %s.", url),
	)
}

// isTextual reports whether a declared content type can carry markup.
// A missing header is given the benefit of the doubt.
func isTextual(contentType string) bool {
	if strings.TrimSpace(contentType) == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	switch {
	case strings.HasPrefix(mediaType, "text/"):
		return true
	case mediaType == "application/xhtml+xml", mediaType == "application/xml":
		return true
	case strings.HasSuffix(mediaType, "+xml"):
		return true
	}
	return false
}
