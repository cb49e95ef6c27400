// Package ratelimit provides a per-client sliding window limiter for the
// inbound lookup surface. In-memory only; each instance enforces its own
// window.
package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	dErrors "represent/pkg/domain-errors"
	"represent/pkg/platform/httputil"
)

// Result reports one admission decision.
type Result struct {
	Allowed   bool
	Remaining int
	Limit     int
	ResetAt   time.Time
}

// Limiter admits requests under a sliding window. The sliding window avoids
// the burst-at-boundary problem of fixed counters.
type Limiter struct {
	mu        sync.Mutex
	windows   map[string]*slidingWindow
	limit     int
	window    time.Duration
	lastSweep time.Time
}

type slidingWindow struct {
	timestamps []time.Time
}

// NewLimiter creates a limiter admitting limit requests per key per window.
func NewLimiter(limit int, window time.Duration) *Limiter {
	return &Limiter{
		windows:   make(map[string]*slidingWindow),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
	}
}

// Allow records one request for key and reports whether it is admitted.
func (l *Limiter) Allow(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)
	sw := l.windows[key]
	if sw == nil {
		sw = &slidingWindow{}
		l.windows[key] = sw
	}
	sw.cleanup(now.Add(-l.window))

	if len(sw.timestamps)+1 > l.limit {
		return Result{
			Allowed: false,
			Limit:   l.limit,
			ResetAt: sw.timestamps[0].Add(l.window),
		}
	}

	sw.timestamps = append(sw.timestamps, now)
	return Result{
		Allowed:   true,
		Remaining: l.limit - len(sw.timestamps),
		Limit:     l.limit,
		ResetAt:   sw.timestamps[0].Add(l.window),
	}
}

// sweep drops windows whose timestamps have all aged out, so clients that
// stop calling do not accumulate map entries. Runs at most once per window.
// Caller holds l.mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	cutoff := now.Add(-l.window)
	for key, sw := range l.windows {
		sw.cleanup(cutoff)
		if len(sw.timestamps) == 0 {
			delete(l.windows, key)
		}
	}
}

func (sw *slidingWindow) cleanup(cutoff time.Time) {
	i := 0
	for ; i < len(sw.timestamps); i++ {
		if sw.timestamps[i].After(cutoff) {
			break
		}
	}
	sw.timestamps = sw.timestamps[i:]
}

// Middleware enforces the limiter per client IP, answering rejected requests
// with the standard error envelope and rate limit headers.
func Middleware(limiter *Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := limiter.Allow(clientIP(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				retryAfter := time.Until(result.ResetAt).Seconds()
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter)))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited,
					"Rate limit exceeded. Please try again later."))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the leftmost X-Forwarded-For entry so limits follow the
// caller through a load balancer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
