package logofetch

import "context"

// AssetWriter persists enriched assets outside the process.
type AssetWriter interface {
	// WriteAsset stores the decoded asset for the site it was found on and
	// returns where it was written.
	WriteAsset(ctx context.Context, siteURL string, asset *EnrichedAsset) (string, error)
}
