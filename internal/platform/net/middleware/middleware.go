// Package middleware adapts chi and go-chi/cors middleware and adds the in-house
// recover and access log handlers. Callers never see chi types
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// RequestID attaches or propagates X-Request-ID and stores it on the context
func RequestID() func(http.Handler) http.Handler { return chimw.RequestID }

// RealIP sets RemoteAddr from X-Real-IP or X-Forwarded-For
func RealIP() func(http.Handler) http.Handler { return chimw.RealIP }

// NoCache disables client and proxy caching
func NoCache() func(http.Handler) http.Handler { return chimw.NoCache }

// Compress gzips or deflates responses at the given flate level
func Compress(level int) func(http.Handler) http.Handler {
	c := chimw.NewCompressor(level)
	return c.Handler
}

// Heartbeat answers GET path with 200 before any routing, for load balancer probes
func Heartbeat(path string) func(http.Handler) http.Handler { return chimw.Heartbeat(path) }

// StripSlashes drops a trailing slash so /labels/ routes like /labels
func StripSlashes() func(http.Handler) http.Handler { return chimw.StripSlashes }

// Timeout cancels the request context after d
func Timeout(d time.Duration) func(http.Handler) http.Handler { return chimw.Timeout(d) }

// Throttle caps in-flight requests. Excess requests wait up to wait in a backlog of the
// same size, then get 429
func Throttle(limit int, wait time.Duration) func(http.Handler) http.Handler {
	return chimw.ThrottleBacklog(limit, limit, wait)
}

// CORSOptions is a narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS wraps go-chi/cors. Empty method and header lists get defaults that fit a JSON API
func CORS(o CORSOptions) func(http.Handler) http.Handler {
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = []string{"*"}
	}
	if len(o.AllowedMethods) == 0 {
		o.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(o.AllowedHeaders) == 0 {
		o.AllowedHeaders = []string{"Accept", "Accept-Language", "Content-Type", "X-Request-ID"}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   o.AllowedMethods,
		AllowedHeaders:   o.AllowedHeaders,
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}

// StackOptions tunes Stack
type StackOptions struct {
	CORS      CORSOptions
	Timeout   time.Duration
	SlowLog   time.Duration
	Inflight  int
	QueueWait time.Duration
}

// Stack is the baseline chain for API routes. Order matters: ids first so every later
// middleware can log them, recovery before anything that might panic
func Stack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	chain := []func(http.Handler) http.Handler{
		RequestID(),
		RealIP(),
		AccessLog(AccessLogOptions{Slow: o.SlowLog}),
		RecoverJSON,
		NoCache(),
		CORS(o.CORS),
		Compress(flate.BestSpeed),
		StripSlashes(),
		Timeout(o.Timeout),
	}
	if o.Inflight > 0 {
		chain = append(chain, Throttle(o.Inflight, o.QueueWait))
	}
	return chain
}
