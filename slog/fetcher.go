// Package slog provides logging decorators for the logofetch interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/logofetch"
)

// Ensure the logging fetchers implement their interfaces.
var (
	_ logofetch.PageFetcher  = (*LoggingPageFetcher)(nil)
	_ logofetch.AssetFetcher = (*LoggingAssetFetcher)(nil)
)

// LoggingPageFetcher wraps a PageFetcher with logging.
type LoggingPageFetcher struct {
	next   logofetch.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next logofetch.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// FetchPage logs the URL being fetched and delegates to the wrapped fetcher.
func (f *LoggingPageFetcher) FetchPage(ctx context.Context, url string) (page *logofetch.Page, err error) {
	defer func(begin time.Time) {
		var finalURL string
		var n int
		if page != nil {
			finalURL, n = page.URL, len(page.HTML)
		}
		f.logger.Info("fetch page",
			"url", url,
			"final_url", finalURL,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchPage(ctx, url)
}

// LoggingAssetFetcher wraps an AssetFetcher with debug logging. Asset
// failures are expected and reported by the pipeline, so lines stay at debug.
type LoggingAssetFetcher struct {
	next   logofetch.AssetFetcher
	logger *slog.Logger
}

// NewLoggingAssetFetcher creates a new LoggingAssetFetcher.
func NewLoggingAssetFetcher(next logofetch.AssetFetcher, logger *slog.Logger) *LoggingAssetFetcher {
	return &LoggingAssetFetcher{next: next, logger: logger}
}

// FetchAsset delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingAssetFetcher) FetchAsset(ctx context.Context, url string) (asset *logofetch.Asset, err error) {
	defer func(begin time.Time) {
		var contentType string
		var n int
		if asset != nil {
			contentType, n = asset.ContentType, len(asset.Data)
		}
		f.logger.Debug("fetch asset",
			"url", url,
			"content_type", contentType,
			"bytes", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.FetchAsset(ctx, url)
}
