package chi

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleClientTTL is how long an unused client bucket is kept.
const idleClientTTL = 10 * time.Minute

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter provides per-client rate limiting using token buckets keyed
// by remote IP. Idle buckets are dropped lazily.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientBucket
	rps       float64
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewClientLimiter creates a ClientLimiter allowing rps requests per second
// per client with the given burst. A burst below 1 is raised to 1.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &ClientLimiter{
		clients: make(map[string]*clientBucket),
		rps:     rps,
		burst:   burst,
		now:     time.Now,
	}
}

// Allow reports whether client may make a request now.
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > idleClientTTL {
		for k, b := range l.clients {
			if now.Sub(b.lastSeen) > idleClientTTL {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.clients[client]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.clients[client] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429.
func (l *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			retry := 1
			if l.rps > 0 && l.rps < 1 {
				retry = int(1/l.rps + 0.5)
			}
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: "Too many requests. Please slow down."})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the host part of RemoteAddr. middleware.RealIP rewrites
// RemoteAddr when the server runs behind a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
