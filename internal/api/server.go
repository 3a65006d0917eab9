// Package api exposes the HTTP surface: plan generation, admin reindex
// and the health and metrics endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	apperrors "github.com/sachan-rai/healthtrack-pro/internal/core/errors"
	"github.com/sachan-rai/healthtrack-pro/internal/plan"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 10 * time.Second

	maxRequestBody = 1 << 20 // 1 MiB
)

// PlanGenerator produces a plan for a request.
type PlanGenerator interface {
	Generate(ctx context.Context, req plan.Request) (*plan.Response, error)
}

// Reindexer rebuilds the corpus index from the configured directory.
type Reindexer interface {
	BuildIndex(ctx context.Context, corpusDir string) error
}

// Pinger checks backing store reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the HTTP server for the planning service.
type Server struct {
	planner   PlanGenerator
	indexer   Reindexer
	db        Pinger
	corpusDir string
	port      int
	logger    *zerolog.Logger
}

// NewServer creates a Server. The indexer may be nil to disable the
// reindex endpoint.
func NewServer(planner PlanGenerator, indexer Reindexer, db Pinger, corpusDir string, port int, logger *zerolog.Logger) *Server {
	return &Server{
		planner:   planner,
		indexer:   indexer,
		db:        db,
		corpusDir: corpusDir,
		port:      port,
		logger:    logger,
	}
}

// Start runs the server until the context is canceled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("HTTP server starting")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// Handler builds the route mux, exported for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := s.db.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = fmt.Fprintf(w, "DB error: %v", err)

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, "OK")
	})

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/plan", s.handlePlan)
	mux.HandleFunc("/admin/reindex", s.handleReindex)

	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req plan.Request

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.planner.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s.logger.Error().Err(err).Msg("Plan generation failed")
		s.writeError(w, http.StatusInternalServerError, "plan generation failed")

		return
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if s.indexer == nil {
		s.writeError(w, http.StatusNotImplemented, "reindex disabled")
		return
	}

	start := time.Now()

	if err := s.indexer.BuildIndex(r.Context(), s.corpusDir); err != nil {
		s.logger.Error().Err(err).Msg("Reindex failed")
		s.writeError(w, http.StatusInternalServerError, "reindex failed")

		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}
