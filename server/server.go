// Package server exposes the graph and document submission over a
// small HTTP API. Reads hit the store directly; writes are published
// to the ingest queue so the single read-write process stays the only
// writer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/metrics"
	"github.com/c360studio/semdoc/queue"
)

// maxRequestBodySize limits POST body sizes to prevent DoS.
const maxRequestBodySize = 1 << 20 // 1 MB

// maxQueryLimit caps the limit query parameter.
const maxQueryLimit = 100

// Submitter queues documents for asynchronous processing. Satisfied by
// *queue.Publisher.
type Submitter interface {
	Publish(ctx context.Context, sub queue.Submission) error
}

// Server serves the semdoc HTTP API.
type Server struct {
	store     *graph.Store
	publisher Submitter
	version   string
	logger    *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithPublisher enables document submission by publishing to the
// ingest queue. Without one, POST /api/documents returns 503.
func WithPublisher(p Submitter) Option {
	return func(s *Server) {
		s.publisher = p
	}
}

// WithVersion sets the version string reported by health and stats.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server over the given store.
func New(store *graph.Store, opts ...Option) *Server {
	s := &Server{
		store:   store,
		version: "dev",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /api/documents", s.instrument("submit", s.handleSubmit))
	mux.HandleFunc("GET /api/concepts/{concept}/documents", s.instrument("related", s.handleRelatedDocuments))
	mux.HandleFunc("GET /api/concepts/{concept}/co-occurring", s.instrument("cooccur", s.handleCoOccurring))
	mux.HandleFunc("GET /api/documents/{id}/export", s.instrument("export", s.handleExport))
	mux.HandleFunc("GET /api/stats", s.instrument("stats", s.handleStats))
	return mux
}

// Run serves the API on addr until the context ends, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("HTTP API listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument counts requests per route and status code.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	}
}

// parseLimit reads the limit query parameter, clamped to sane bounds.
func parseLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// writeJSON marshals v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}
