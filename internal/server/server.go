// Package server exposes the simulator over HTTP: execute a pipeline
// definition, poll execution status, fetch per-stage logs, and list
// completed results. Runs execute in the background; the API hands back the
// execution ID immediately.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codeflow-sentinel/pipesim/internal/ctxlog"
	"github.com/codeflow-sentinel/pipesim/internal/pipeline"
	"github.com/codeflow-sentinel/pipesim/internal/runner"
)

// Server wires the runner, the execution store, and the HTTP routes.
type Server struct {
	logger  *slog.Logger
	runner  *runner.Runner
	store   *store
	metrics *apiMetrics
	router  *mux.Router
}

// New creates a Server around the given runner.
func New(logger *slog.Logger, r *runner.Runner) *Server {
	s := &Server{
		logger:  logger,
		runner:  r,
		store:   newStore(),
		metrics: newAPIMetrics(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the server's root http.Handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/pipeline/execute", s.handleExecute).Methods(http.MethodPost)
	router.HandleFunc("/api/pipeline/status/{id}", s.handleStatus).Methods(http.MethodGet)
	router.HandleFunc("/api/pipeline/logs/{id}/{stage}", s.handleStageLogs).Methods(http.MethodGet)
	router.HandleFunc("/api/pipeline/results", s.handleResults).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return router
}

// ListenAndServe blocks until ctx is canceled or the listener fails, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("API server listening", "port", port)
		errChan <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func (s *Server) handleExecute(w http.ResponseWriter, req *http.Request) {
	defer req.Body.Close()

	var cfg pipeline.Config
	if err := json.NewDecoder(req.Body).Decode(&cfg); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid pipeline definition: %v", err))
		return
	}
	cfg.Normalize()

	if err := pipeline.Validate(&cfg); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	executionID := uuid.NewString()
	s.store.begin(executionID, cfg.ID)
	s.metrics.runsStarted.Inc()
	s.logger.Info("execution accepted", "executionId", executionID, "pipeline", cfg.ID)

	// The request context dies with the response; runs get their own.
	runCtx := ctxlog.WithLogger(context.Background(), s.logger)
	go func() {
		started := time.Now()
		res := s.runner.ExecutePipelineAs(runCtx, executionID, &cfg)
		s.store.complete(executionID, res)
		s.metrics.runsFinished.WithLabelValues(string(res.Status)).Inc()
		s.metrics.runDuration.Observe(time.Since(started).Seconds())
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]any{
		"success":      true,
		"execution_id": executionID,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	state, ok := s.store.get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown execution %q", id))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"execution": state,
	})
}

func (s *Server) handleStageLogs(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	state, ok := s.store.get(vars["id"])
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown execution %q", vars["id"]))
		return
	}
	if state.Result == nil {
		s.writeError(w, http.StatusConflict, "execution still running, no stage logs yet")
		return
	}
	for _, exec := range state.Result.Stages {
		if exec.ID == vars["stage"] {
			s.writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"stage":   exec,
			})
			return
		}
	}
	s.writeError(w, http.StatusNotFound, fmt.Sprintf("unknown stage %q", vars["stage"]))
}

func (s *Server) handleResults(w http.ResponseWriter, req *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": s.store.results(),
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, req *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("writing response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]any{
		"success": false,
		"error":   msg,
	})
}
