// Package httpapi exposes the planning service over HTTP:
//
//	POST /api/planning/blueprint  {"requirements": "..."} -> response envelope
//	GET  /healthz
//	GET  /metrics                 Prometheus exposition
package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leofalp/blueprint/core/parse"
	"github.com/leofalp/blueprint/core/planning"
	"github.com/leofalp/blueprint/providers/observability"
)

// Error texts of 400 responses.
const (
	ErrRequirementsRequired = "Requirements are required"
	ErrInvalidBody          = "Invalid request body"
	ErrBodyTooLarge         = "Request body too large"
)

// Generator is the planning service as seen by the handler.
type Generator interface {
	Generate(ctx context.Context, requirements string) planning.Response
}

type blueprintRequest struct {
	Requirements string `json:"requirements"`
}

// Server routes API requests to a Generator.
type Server struct {
	generator    Generator
	observer     observability.Provider
	gatherer     prometheus.Gatherer
	logger       *slog.Logger
	maxBodyBytes int64
	origins      []string
}

// Option configures a Server.
type Option func(*Server)

// WithObservability attaches observer to request contexts.
func WithObservability(observer observability.Provider) Option {
	return func(s *Server) {
		s.observer = observer
	}
}

// WithGatherer serves gatherer on /metrics. Without it the route is absent.
func WithGatherer(gatherer prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

// WithLogger sets the logger for server-level errors.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxBodyBytes caps request bodies. Non-positive values keep the default.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithAllowedOrigins enables CORS for origins.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// New returns a Server for generator.
func New(generator Generator, opts ...Option) *Server {
	s := &Server{
		generator:    generator,
		logger:       slog.Default(),
		maxBodyBytes: 1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/planning/blueprint", s.handleBlueprint)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return Chain(mux,
		Recovery(),
		WithObserver(s.observer),
		RequestID(),
		AccessLog(),
		CORS(s.origins),
	)
}

func (s *Server) handleBlueprint(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, planning.Failure(ErrBodyTooLarge))
			return
		}
		writeJSON(w, http.StatusBadRequest, planning.Failure(ErrInvalidBody))
		return
	}

	if strings.TrimSpace(string(body)) == "" {
		writeJSON(w, http.StatusBadRequest, planning.Failure(ErrRequirementsRequired))
		return
	}

	// Lenient decoding accepts the sloppy JSON hand-written clients send.
	req, err := parse.ParseStringAs[blueprintRequest](string(body))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, planning.Failure(ErrInvalidBody))
		return
	}
	if strings.TrimSpace(req.Requirements) == "" {
		writeJSON(w, http.StatusBadRequest, planning.Failure(ErrRequirementsRequired))
		return
	}

	writeJSON(w, http.StatusOK, s.generator.Generate(r.Context(), req.Requirements))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Timeouts bounds the http.Server.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully within t.Shutdown.
func (s *Server) ListenAndServe(ctx context.Context, addr string, t Timeouts) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln, t)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, t Timeouts) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      t.Write,
		IdleTimeout:       2 * time.Minute,
		MaxHeaderBytes:    1 << 20,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdown := t.Shutdown
	if shutdown <= 0 {
		shutdown = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdown)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
