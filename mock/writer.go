package mock

import (
	"context"

	"github.com/fwojciec/logofetch"
)

var _ logofetch.AssetWriter = (*AssetWriter)(nil)

// AssetWriter is a mock implementation of logofetch.AssetWriter.
type AssetWriter struct {
	WriteAssetFn func(ctx context.Context, siteURL string, asset *logofetch.EnrichedAsset) (string, error)
}

func (w *AssetWriter) WriteAsset(ctx context.Context, siteURL string, asset *logofetch.EnrichedAsset) (string, error) {
	return w.WriteAssetFn(ctx, siteURL, asset)
}
