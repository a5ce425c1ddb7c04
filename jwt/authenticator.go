// Package jwt verifies bearer tokens signed with a shared HMAC secret.
package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/logofetch"
	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLen is the shortest accepted signing secret in bytes.
const MinSecretLen = 32

// ErrSecretTooShort is returned for secrets shorter than MinSecretLen.
var ErrSecretTooShort = fmt.Errorf("jwt: secret must be at least %d bytes", MinSecretLen)

// Ensure Authenticator implements logofetch.Authenticator at compile time.
var _ logofetch.Authenticator = (*Authenticator)(nil)

// Authenticator validates HS256 tokens. Other algorithms are rejected
// regardless of the token header.
type Authenticator struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
	now      func() time.Time
}

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithIssuer requires the iss claim to equal issuer.
func WithIssuer(issuer string) Option {
	return func(a *Authenticator) {
		a.issuer = issuer
	}
}

// WithAudience requires the aud claim to contain audience.
func WithAudience(audience string) Option {
	return func(a *Authenticator) {
		a.audience = audience
	}
}

// WithLeeway tolerates clock skew when checking exp and nbf.
func WithLeeway(d time.Duration) Option {
	return func(a *Authenticator) {
		a.leeway = d
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		a.now = now
	}
}

// NewAuthenticator creates an Authenticator for secret.
func NewAuthenticator(secret []byte, opts ...Option) (*Authenticator, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrSecretTooShort
	}
	a := &Authenticator{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Authenticate verifies token and returns its subject.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (*logofetch.Identity, error) {
	if token == "" {
		return nil, logofetch.Errorf(logofetch.EUNAUTHORIZED, "Unauthorized")
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, a.key, a.parserOptions()...)
	if err != nil {
		return nil, logofetch.WrapError(logofetch.EUNAUTHORIZED, err, "Unauthorized")
	}
	if !parsed.Valid {
		return nil, logofetch.Errorf(logofetch.EUNAUTHORIZED, "Unauthorized")
	}
	if claims.Subject == "" {
		return nil, logofetch.WrapError(logofetch.EUNAUTHORIZED, errors.New("token has no subject"), "Unauthorized")
	}

	return &logofetch.Identity{Subject: claims.Subject}, nil
}

// Issue signs a token for subject that expires after ttl.
func (a *Authenticator) Issue(subject string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    a.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if a.audience != "" {
		claims.Audience = jwt.ClaimStrings{a.audience}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func (a *Authenticator) key(t *jwt.Token) (any, error) {
	if t.Method != jwt.SigningMethodHS256 {
		return nil, fmt.Errorf("unexpected signing method: %v (only HS256 allowed)", t.Header["alg"])
	}
	return a.secret, nil
}

func (a *Authenticator) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	}
	if a.leeway > 0 {
		opts = append(opts, jwt.WithLeeway(a.leeway))
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	if a.audience != "" {
		opts = append(opts, jwt.WithAudience(a.audience))
	}
	return opts
}
