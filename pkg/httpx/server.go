package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"
)

const (
	defaultRateLimit   = 100
	defaultBodyLimit   = 10 << 20
	handlerTimeout     = 30 * time.Second
	hstsSeconds        = 2 * 365 * 24 * 60 * 60
	corsPreflightCache = 300
)

// ServerConfig holds the options for NewRouter. Zero limits fall back to
// 100 requests per minute and a 10 MB body.
type ServerConfig struct {
	IsDevelopment bool
	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Pass "*" (dev only) to allow all origins.
	CORSAllowedOrigins string
	RateLimitPerMinute int
	BodyLimitBytes     int64
}

// Middlewares are the application-owned handlers NewRouter places around
// the built-in stack. Nil entries are skipped.
type Middlewares struct {
	Recovery func(http.Handler) http.Handler
	Sentry   func(http.Handler) http.Handler
	Tracing  func(http.Handler) http.Handler
	Logging  func(http.Handler) http.Handler
}

// NewRouter returns a chi.Mux with the shared middleware stack, outermost
// first: recovery, sentry, request id, tracing, logging, real ip, per-IP rate
// limit, CORS, body cap, handler timeout, security headers.
//
// Request id runs before tracing and logging so both can tag it.
func NewRouter(cfg ServerConfig, mw Middlewares) *chi.Mux {
	rate := cfg.RateLimitPerMinute
	if rate <= 0 {
		rate = defaultRateLimit
	}
	body := cfg.BodyLimitBytes
	if body <= 0 {
		body = defaultBodyLimit
	}

	stack := make([]func(http.Handler) http.Handler, 0, 11)
	stack = appendNonNil(stack, mw.Recovery, mw.Sentry)
	stack = append(stack, middleware.RequestID)
	stack = appendNonNil(stack, mw.Tracing, mw.Logging)
	stack = append(stack,
		middleware.RealIP,
		httprate.Limit(rate, time.Minute, httprate.WithKeyFuncs(httprate.KeyByRealIP)),
		CORSMiddleware(cfg.CORSAllowedOrigins),
		RequestBodyLimit(body),
		middleware.Timeout(handlerTimeout),
		SecurityHeaders(cfg.IsDevelopment),
	)

	r := chi.NewRouter()
	r.Use(stack...)
	return r
}

func appendNonNil(dst []func(http.Handler) http.Handler, mws ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	for _, mw := range mws {
		if mw != nil {
			dst = append(dst, mw)
		}
	}
	return dst
}

// SecurityHeaders sets CSP, HSTS, frame denial and the permissions policy.
// In development unrolled/secure skips the HTTPS-only checks.
func SecurityHeaders(isDevelopment bool) func(http.Handler) http.Handler {
	return secure.New(secure.Options{
		STSSeconds:            hstsSeconds,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), usb=()",
		IsDevelopment:         isDevelopment,
	}).Handler
}

// CORSMiddleware returns a CORS handler restricted to the given allowed origins.
// allowedOrigins is a comma-separated list (e.g. "https://app.example.com,http://localhost:3000").
// Pass "*" to allow all origins (development only).
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: parseOrigins(allowedOrigins),
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id", "Idempotency-Key"},
		ExposedHeaders: []string{"X-Request-Id", "X-Ratelimit-Remaining"},
		MaxAge:         corsPreflightCache,
	})
}

func parseOrigins(s string) []string {
	var out []string
	for p := range strings.SplitSeq(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// RequestBodyLimit caps the request body at maxBytes. Reads past the cap
// fail with *http.MaxBytesError, which validator.ValidateRequest maps to 413.
func RequestBodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// NewServer returns an *http.Server whose write timeout leaves room for the
// handler timeout set in NewRouter.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      handlerTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}
