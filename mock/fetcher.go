package mock

import (
	"context"

	"github.com/fwojciec/logofetch"
)

var (
	_ logofetch.PageFetcher  = (*PageFetcher)(nil)
	_ logofetch.AssetFetcher = (*AssetFetcher)(nil)
)

// PageFetcher is a mock implementation of logofetch.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, url string) (*logofetch.Page, error)
}

func (f *PageFetcher) FetchPage(ctx context.Context, url string) (*logofetch.Page, error) {
	return f.FetchPageFn(ctx, url)
}

// AssetFetcher is a mock implementation of logofetch.AssetFetcher.
type AssetFetcher struct {
	FetchAssetFn func(ctx context.Context, url string) (*logofetch.Asset, error)
}

func (f *AssetFetcher) FetchAsset(ctx context.Context, url string) (*logofetch.Asset, error) {
	return f.FetchAssetFn(ctx, url)
}
