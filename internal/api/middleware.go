package api

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/nbstats/nbstats-data/internal/api/respond"
	"github.com/nbstats/nbstats-data/internal/metrics"
)

// --------------------------------------------------------------------------
// Request timing middleware
// --------------------------------------------------------------------------

// TimingMiddleware adds X-Process-Time header to all responses.
func TimingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		w.Header().Set("X-Process-Time", fmt.Sprintf("%.2fms", float64(elapsed.Microseconds())/1000.0))
	})
}

// --------------------------------------------------------------------------
// Metrics middleware
// --------------------------------------------------------------------------

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware records request durations by method and status.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

// --------------------------------------------------------------------------
// Rate limiting middleware (per route, per client IP)
// --------------------------------------------------------------------------

type clientWindow struct {
	start time.Time
	count int
}

type routeLimiter struct {
	mu      sync.Mutex
	windows map[string]*clientWindow
	limit   int
	window  time.Duration
}

func newRouteLimiter(requestsPerWindow int, window time.Duration) *routeLimiter {
	return &routeLimiter{
		windows: make(map[string]*clientWindow),
		limit:   requestsPerWindow,
		window:  window,
	}
}

// allow admits at most limit requests per fixed window for one key. Quota
// does not trickle back inside a window; it resets only when the window
// rolls over. On rejection it reports the time until the reset.
func (l *routeLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	win, ok := l.windows[key]
	if !ok || now.Sub(win.start) >= l.window {
		win = &clientWindow{start: now}
		l.windows[key] = win
	}
	if win.count >= l.limit {
		return false, win.start.Add(l.window).Sub(now)
	}
	win.count++
	return true, 0
}

// RateLimitMiddleware returns middleware that caps each client IP at
// requestsPerWindow requests per route within a fixed window.
func RateLimitMiddleware(requestsPerWindow int, window time.Duration) func(http.Handler) http.Handler {
	limiter := newRouteLimiter(requestsPerWindow, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, _ := net.SplitHostPort(r.RemoteAddr)
			if ip == "" {
				ip = r.RemoteAddr
			}

			key := ip + "|" + r.URL.Path
			if ok, retryAfter := limiter.allow(key, time.Now()); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				respond.WriteError(w, http.StatusTooManyRequests, respond.CodeRateLimited, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
