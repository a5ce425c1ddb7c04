package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/logofetch"
)

var _ logofetch.LogoService = (*LoggingLogoService)(nil)

// LoggingLogoService wraps a LogoService with logging.
type LoggingLogoService struct {
	next   logofetch.LogoService
	logger *slog.Logger
}

// NewLoggingLogoService creates a new LoggingLogoService.
func NewLoggingLogoService(next logofetch.LogoService, logger *slog.Logger) *LoggingLogoService {
	return &LoggingLogoService{next: next, logger: logger}
}

// FindLogos delegates to the wrapped service and logs the outcome. Bad input
// and empty results are logged at info, other failures at error.
func (s *LoggingLogoService) FindLogos(ctx context.Context, rawURL string) (result *logofetch.Result, err error) {
	defer func(begin time.Time) {
		var count int
		if result != nil {
			count = result.Count
		}
		level := slog.LevelInfo
		if code := logofetch.ErrorCode(err); code != "" && code != logofetch.ENOTFOUND && code != logofetch.EINVALID {
			level = slog.LevelError
		}
		s.logger.Log(ctx, level, "find logos",
			"url", rawURL,
			"count", count,
			"code", logofetch.ErrorCode(err),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindLogos(ctx, rawURL)
}
