package mock

import (
	"context"

	"github.com/fwojciec/logofetch"
)

var _ logofetch.Authenticator = (*Authenticator)(nil)

// Authenticator is a mock implementation of logofetch.Authenticator.
type Authenticator struct {
	AuthenticateFn func(ctx context.Context, token string) (*logofetch.Identity, error)
}

func (a *Authenticator) Authenticate(ctx context.Context, token string) (*logofetch.Identity, error) {
	return a.AuthenticateFn(ctx, token)
}
