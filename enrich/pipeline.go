// Package enrich turns a user-supplied URL into a list of downloadable logo
// assets. It fetches the page, collects candidates and retrieves every
// candidate concurrently, dropping the ones that fail.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/fwojciec/logofetch"
	"golang.org/x/sync/errgroup"
)

// User-facing messages for pipeline failures.
const (
	InvalidURLMessage = "Please provide a valid URL."
	NotFoundMessage   = "No logos found. You may need to try another URL."
)

// State is a stage of a single pipeline run.
type State int

const (
	StateNormalizing State = iota
	StateFetchingPage
	StateCollecting
	StateEnriching
	StateAssembling
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateNormalizing:
		return "normalizing"
	case StateFetchingPage:
		return "fetching_page"
	case StateCollecting:
		return "collecting"
	case StateEnriching:
		return "enriching"
	case StateAssembling:
		return "assembling"
	case StateDone:
		return "done"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ProgressEvent reports a state transition or a settled asset.
type ProgressEvent struct {
	State     State
	URL       string
	Completed int
	Total     int
	Err       error
}

// ProgressFunc is a callback for reporting pipeline progress.
type ProgressFunc func(event ProgressEvent)

// Ensure Pipeline implements logofetch.LogoService at compile time.
var _ logofetch.LogoService = (*Pipeline)(nil)

// Pipeline finds logos for one URL per call. A Pipeline holds no per-run
// state and is safe for concurrent use.
type Pipeline struct {
	Pages     logofetch.PageFetcher
	Assets    logofetch.AssetFetcher
	Collector logofetch.CandidateCollector
	Logger    *slog.Logger

	// Concurrency bounds simultaneous asset fetches. Zero means one
	// goroutine per candidate.
	Concurrency int

	// Progress, if set, is called from the goroutine running the pipeline.
	Progress ProgressFunc
}

// FindLogos implements logofetch.LogoService.
func (p *Pipeline) FindLogos(ctx context.Context, rawURL string) (*logofetch.Result, error) {
	return p.Run(ctx, rawURL, p.Progress)
}

// Run executes the pipeline with an explicit progress callback.
func (p *Pipeline) Run(ctx context.Context, rawURL string, progress ProgressFunc) (*logofetch.Result, error) {
	emit := func(ev ProgressEvent) {
		if progress != nil {
			progress(ev)
		}
	}
	fail := func(err error) (*logofetch.Result, error) {
		emit(ProgressEvent{State: StateError, URL: rawURL, Err: err})
		return nil, err
	}

	emit(ProgressEvent{State: StateNormalizing, URL: rawURL})
	normalized, ok := logofetch.NormalizeURL(rawURL)
	if !ok {
		return fail(logofetch.Errorf(logofetch.EINVALID, InvalidURLMessage))
	}

	emit(ProgressEvent{State: StateFetchingPage, URL: normalized})
	page, err := p.Pages.FetchPage(ctx, normalized)
	if err != nil {
		if logofetch.ErrorCode(err) != logofetch.EUNAVAILABLE {
			err = logofetch.WrapError(logofetch.EUNAVAILABLE, err, fmt.Sprintf("Unable to fetch %s.", normalized))
		}
		return fail(err)
	}
	base := page.URL
	if base == "" {
		base = normalized
	}

	emit(ProgressEvent{State: StateCollecting, URL: base})
	candidates, err := p.Collector.Collect(page.HTML, base)
	if err != nil {
		return fail(logofetch.WrapError(logofetch.EINTERNAL, err, "Unable to read page markup."))
	}

	emit(ProgressEvent{State: StateEnriching, URL: base, Total: len(candidates)})
	assets := p.enrich(ctx, candidates, emit)

	emit(ProgressEvent{State: StateAssembling, URL: base, Completed: len(candidates), Total: len(candidates)})
	logos := make([]*logofetch.EnrichedAsset, 0, len(assets))
	for _, asset := range assets {
		if asset == nil {
			continue
		}
		asset.ID = len(logos)
		logos = append(logos, asset)
	}
	if len(logos) == 0 {
		return fail(logofetch.Errorf(logofetch.ENOTFOUND, NotFoundMessage))
	}

	emit(ProgressEvent{State: StateDone, URL: normalized, Completed: len(logos), Total: len(candidates)})
	return &logofetch.Result{
		RequestedURL: normalized,
		Count:        len(logos),
		Logos:        logos,
	}, nil
}

// settled is the outcome of one candidate. asset is nil when it was dropped.
type settled struct {
	position int
	url      string
	asset    *logofetch.EnrichedAsset
	err      error
}

// enrich resolves every candidate concurrently. The returned slice is
// indexed by candidate position and holds nil for dropped candidates.
func (p *Pipeline) enrich(ctx context.Context, candidates []*logofetch.Candidate, emit ProgressFunc) []*logofetch.EnrichedAsset {
	assets := make([]*logofetch.EnrichedAsset, len(candidates))
	if len(candidates) == 0 {
		return assets
	}

	// In-flight asset fetches outlive a caller that gives up; each is bounded
	// by the fetcher's own timeout.
	fetchCtx := context.WithoutCancel(ctx)

	resultCh := make(chan settled, len(candidates))
	var g errgroup.Group
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}

	go func() {
		for i, c := range candidates {
			g.Go(func() error {
				asset, err := p.enrichOne(fetchCtx, i, c)
				resultCh <- settled{position: i, url: c.OriginalURL, asset: asset, err: err}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	for r := range resultCh {
		n := int(completed.Add(1))
		if r.err != nil {
			p.logger().Warn("dropping logo candidate",
				"url", r.url,
				"err", r.err,
			)
		}
		assets[r.position] = r.asset
		emit(ProgressEvent{
			State:     StateEnriching,
			URL:       r.url,
			Completed: n,
			Total:     len(candidates),
			Err:       r.err,
		})
	}
	return assets
}

// enrichOne builds the asset for a single candidate.
func (p *Pipeline) enrichOne(ctx context.Context, index int, c *logofetch.Candidate) (*logofetch.EnrichedAsset, error) {
	if c.SelfContained() {
		data, err := logofetch.DecodeDataURL(c.OriginalURL)
		if err != nil {
			return nil, err
		}
		return &logofetch.EnrichedAsset{
			ID:          index,
			OriginalURL: c.OriginalURL,
			MIMEType:    logofetch.SVGMIMEType,
			DataURL:     c.OriginalURL,
			FileName:    fmt.Sprintf("inline-logo-%d.svg", index),
			ByteSize:    len(data),
			SourceType:  c.SourceType,
		}, nil
	}

	asset, err := p.Assets.FetchAsset(ctx, c.OriginalURL)
	if err != nil {
		return nil, err
	}
	mimeType := asset.ContentType
	if mimeType == "" {
		mimeType = logofetch.DefaultMIMEType
	}
	return &logofetch.EnrichedAsset{
		ID:          index,
		OriginalURL: c.OriginalURL,
		MIMEType:    mimeType,
		DataURL:     logofetch.EncodeDataURL(mimeType, asset.Data),
		FileName:    logofetch.FileNameFromURL(c.OriginalURL, mimeType, index),
		ByteSize:    len(asset.Data),
		SourceType:  c.SourceType,
	}, nil
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
