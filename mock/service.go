package mock

import (
	"context"

	"github.com/fwojciec/logofetch"
)

var _ logofetch.LogoService = (*LogoService)(nil)

// LogoService is a mock implementation of logofetch.LogoService.
type LogoService struct {
	FindLogosFn func(ctx context.Context, rawURL string) (*logofetch.Result, error)
}

func (s *LogoService) FindLogos(ctx context.Context, rawURL string) (*logofetch.Result, error) {
	return s.FindLogosFn(ctx, rawURL)
}
