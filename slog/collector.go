package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/logofetch"
)

var _ logofetch.CandidateCollector = (*LoggingCollector)(nil)

// LoggingCollector wraps a CandidateCollector with logging.
type LoggingCollector struct {
	next   logofetch.CandidateCollector
	logger *slog.Logger
}

// NewLoggingCollector creates a new LoggingCollector.
func NewLoggingCollector(next logofetch.CandidateCollector, logger *slog.Logger) *LoggingCollector {
	return &LoggingCollector{next: next, logger: logger}
}

// Collect delegates to the wrapped collector and logs how many candidates
// each source contributed.
func (c *LoggingCollector) Collect(html, baseURL string) (candidates []*logofetch.Candidate, err error) {
	defer func(begin time.Time) {
		bySource := make(map[logofetch.SourceType]int)
		for _, cand := range candidates {
			bySource[cand.SourceType]++
		}
		c.logger.Info("collect candidates",
			"url", baseURL,
			"count", len(candidates),
			"inline", bySource[logofetch.SourceInlineSVG],
			"generic", bySource[logofetch.SourceImgTagGeneric],
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Collect(html, baseURL)
}
