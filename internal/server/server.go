// Package server exposes the almanac over HTTP: JSON endpoints for
// positions and events, a websocket stream of state snapshots, and
// Prometheus metrics.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/logging"
	"github.com/litescript/ls-almanac/internal/state"
)

// ErrInvalidConfig is returned by New for unusable limits.
var ErrInvalidConfig = errors.New("invalid server config")

var errRateLimited = errors.New("rate limit exceeded")

// Config holds listener and limiter settings.
type Config struct {
	Addr           string
	RatePerSecond  float64
	Burst          int
	StreamInterval time.Duration // websocket keepalive period
}

// DefaultConfig returns a loopback listener with modest limits.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		RatePerSecond:  5,
		Burst:          10,
		StreamInterval: 5 * time.Second,
	}
}

// Server serves almanac data for the manager's site.
type Server struct {
	cfg      Config
	state    *state.Manager
	provider *ephem.CatalogProvider
	log      *logging.Logger
	metrics  *metrics
	limiter  *clientLimiter
	upgrader websocket.Upgrader
	mux      *http.ServeMux
	now      func() time.Time
}

// New builds a server. A nil logger discards output.
func New(cfg Config, m *state.Manager, p *ephem.CatalogProvider, log *logging.Logger) (*Server, error) {
	if cfg.RatePerSecond <= 0 || cfg.Burst < 1 {
		return nil, fmt.Errorf("rate %v burst %d: %w", cfg.RatePerSecond, cfg.Burst, ErrInvalidConfig)
	}
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = DefaultConfig().StreamInterval
	}
	if log == nil {
		log = logging.Discard()
	}

	s := &Server{
		cfg:      cfg,
		state:    m,
		provider: p,
		log:      log.With("component", "server"),
		metrics:  newMetrics(),
		limiter:  newClientLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		mux: http.NewServeMux(),
		now: time.Now,
	}

	s.route("GET /v1/almanac", s.handleAlmanac)
	s.route("GET /v1/bodies", s.handleBodies)
	s.route("GET /v1/sun", s.handleSun)
	s.route("GET /v1/moon", s.handleMoon)
	s.route("GET /v1/body/{name}", s.handleBody)
	s.route("GET /v1/path/{name}", s.handlePath)
	s.route("GET /v1/riseset", s.handleRiseSet)
	s.route("GET /v1/twilight", s.handleTwilight)
	s.route("GET /v1/eclipse/{kind}", s.handleEclipse)
	s.route("GET /v1/events", s.handleEvents)
	s.mux.HandleFunc("GET /v1/stream", s.handleStream)
	s.mux.Handle("GET /metrics", s.metrics.handler())
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return s, nil
}

// route registers a JSON endpoint behind the limiter and metrics.
func (s *Server) route(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(pattern, s.limit(h)))
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return ctx.Err()
	}
}

func (s *Server) limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r) {
			s.metrics.rateLimited.Inc()
			writeError(w, http.StatusTooManyRequests, errRateLimited)
			return
		}
		next(w, r)
	}
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.recordRequest(route, rec.code, time.Since(start))
		s.log.Debug("%s %s %d %v", r.Method, r.URL.Path, rec.code, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	return h.Hijack()
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
