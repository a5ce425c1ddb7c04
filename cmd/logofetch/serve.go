package main

import (
	"fmt"

	"github.com/fwojciec/logofetch"
	"github.com/fwojciec/logofetch/chi"
	"github.com/fwojciec/logofetch/jwt"
)

// Run executes the serve command. It blocks until the context is cancelled.
func (c *ServeCmd) Run(deps *Dependencies) error {
	opts := []chi.Option{chi.WithLogger(deps.Logger)}

	auth, err := c.authenticator()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", logofetch.ErrorMessage(err))
		return err
	}
	if auth != nil {
		opts = append(opts, chi.WithAuthenticator(auth))
	} else {
		deps.Logger.Warn("no JWT secret configured, logo endpoint is open")
	}

	srv := chi.NewServer(deps.Logos, chi.Config{
		Production:     deps.Production,
		AllowedOrigins: c.AllowedOrigins,
		RateLimit:      c.RateLimit,
		RateBurst:      c.RateBurst,
		TrustProxy:     c.TrustProxy,
	}, opts...)

	if err := srv.Open(c.Addr); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", c.Addr, err)
	}
	deps.Logger.Info("server listening",
		"addr", srv.Addr(),
		"production", deps.Production,
		"auth", auth != nil,
	)

	<-deps.Ctx.Done()

	deps.Logger.Info("server shutting down")
	return srv.Close()
}

func (c *ServeCmd) authenticator() (*jwt.Authenticator, error) {
	if c.JWTSecret == "" {
		return nil, nil
	}
	return jwt.NewAuthenticator([]byte(c.JWTSecret), jwtOptions(c.JWTIssuer, c.JWTAudience)...)
}

func jwtOptions(issuer, audience string) []jwt.Option {
	var opts []jwt.Option
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return opts
}
