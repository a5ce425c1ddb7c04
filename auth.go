package logofetch

import "context"

// Identity is an authenticated caller. Its contents are opaque to the pipeline.
type Identity struct {
	Subject string
}

// Authenticator verifies a bearer credential issued by an external provider.
type Authenticator interface {
	// Authenticate returns the identity for token.
	// Returns EUNAUTHORIZED if the token is missing, expired or forged.
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

type identityKey struct{}

// NewContextWithIdentity returns a new context with the given identity.
func NewContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity stored in ctx, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey{}).(*Identity)
	return identity
}
