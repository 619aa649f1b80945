package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"deliveryplan/internal/metrics"
)

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	if rw.status == 0 {
		rw.status = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	if rw.status == 0 {
		rw.status = http.StatusOK
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

func (rw *statusRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets the run stream upgrade through the middleware chain.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	if rw.status == 0 {
		rw.status = http.StatusSwitchingProtocols
	}
	return h.Hijack()
}

func (rw *statusRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

func (rw *statusRecorder) code() int {
	if rw.status == 0 {
		return http.StatusOK
	}
	return rw.status
}

func recorderFor(w http.ResponseWriter) *statusRecorder {
	if rw, ok := w.(*statusRecorder); ok {
		return rw
	}
	return &statusRecorder{ResponseWriter: w}
}

// logMiddleware writes one access log line per request and converts panics
// into 500 problems.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := recorderFor(w)
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				s.Log.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("handler panic")
				if rw.status == 0 {
					writeProblem(rw, http.StatusInternalServerError, "Internal Server Error", "", r.URL.Path)
				}
			}
			status := rw.code()
			evt := s.Log.Info()
			if status >= 500 {
				evt = s.Log.Error()
			} else if status >= 400 {
				evt = s.Log.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Int("bytes", rw.bytes).
				Dur("duration", time.Since(start)).
				Str("remote", r.RemoteAddr).
				Msg("request")
		}()
		next.ServeHTTP(rw, r)
	})
}

// metricsMiddleware records request counts and latency. The mux sets
// r.Pattern while routing, so labels use the route pattern rather than
// the raw path.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := recorderFor(w)
		next.ServeHTTP(rw, r)
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		} else if i := strings.IndexByte(path, ' '); i >= 0 {
			path = path[i+1:]
		}
		status := strconv.Itoa(rw.code())
		metrics.HTTPRequests.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

// rateLimitMiddleware applies a token bucket per tenant to /v1 routes.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || !strings.HasPrefix(r.URL.Path, "/v1/") {
			next.ServeHTTP(w, r)
			return
		}
		key := r.RemoteAddr
		if p, ok := s.getPrincipal(r); ok {
			key = p.Tenant
		}
		if !s.limiter.allow(key) {
			metrics.RateLimited.WithLabelValues(routeGroup(r.URL.Path)).Inc()
			w.Header().Set("Retry-After", "1")
			writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded for tenant", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// routeGroup trims a path to /v1/<resource> to bound label cardinality.
func routeGroup(path string) string {
	parts := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 3)
	if len(parts) >= 2 {
		return "/" + parts[0] + "/" + parts[1]
	}
	return path
}

const limiterMaxKeys = 10000

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type tenantLimiter struct {
	mu    sync.Mutex
	rps   rate.Limit
	burst int
	keys  map[string]*limiterEntry
	now   func() time.Time
}

// newTenantLimiter returns nil when rps <= 0, which disables limiting.
func newTenantLimiter(rps float64, burst int) *tenantLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &tenantLimiter{rps: rate.Limit(rps), burst: burst, keys: map[string]*limiterEntry{}, now: time.Now}
}

func (l *tenantLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	e := l.keys[key]
	if e == nil {
		if len(l.keys) >= limiterMaxKeys {
			l.evictIdle(now)
		}
		e = &limiterEntry{lim: rate.NewLimiter(l.rps, l.burst)}
		l.keys[key] = e
	}
	e.lastSeen = now
	return e.lim.AllowN(now, 1)
}

// evictIdle drops limiters unused for a minute.
func (l *tenantLimiter) evictIdle(now time.Time) {
	for k, e := range l.keys {
		if now.Sub(e.lastSeen) > time.Minute {
			delete(l.keys, k)
		}
	}
}

func metricsHandler() http.Handler {
	metrics.RegisterDefault()
	return promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{Registry: metrics.Registry})
}
