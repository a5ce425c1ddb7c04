package chi

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/logofetch"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// SessionCookie holds the session token set by the identity provider's
// browser SDK.
const SessionCookie = "__session"

type requestIDKey struct{}

// RequestIDFromContext returns the ID assigned by the request logger.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestLogger assigns a request ID and logs one line per request once it
// completes. Server errors log at error, client errors at warn.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		begin := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		s.logger.Log(r.Context(), level, "request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(begin),
		)
	})
}

// authenticate requires a valid token from the Authorization header or the
// session cookie. It is a no-op when no Authenticator is configured.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			s.Error(w, r, logofetch.Errorf(logofetch.EUNAUTHORIZED, "Unauthorized"))
			return
		}

		identity, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			if logofetch.ErrorCode(err) != logofetch.EUNAUTHORIZED {
				err = logofetch.WrapError(logofetch.EUNAUTHORIZED, err, "Unauthorized")
			}
			s.logger.Debug("authentication failed",
				"request_id", RequestIDFromContext(r.Context()),
				"err", err,
			)
			s.Error(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(logofetch.NewContextWithIdentity(r.Context(), identity)))
	})
}

// bearerToken reads the Authorization header first, then the session cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
