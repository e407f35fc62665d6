// Package api exposes bootstrap runs over HTTP: submit a run with inline
// residual data, then fetch the JSON summary or an HTML report. The engine
// itself has no network dependency; this is a thin consumer of its results.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"graphboot/adapters/tabular"
	"graphboot/domain/boot"
	"graphboot/domain/core"
	"graphboot/domain/dataset"
	engine "graphboot/internal/boot"
	"graphboot/internal/metrics"
	"graphboot/internal/report"
	"graphboot/ports"
)

// Server holds the HTTP surface and an in-memory run store.
type Server struct {
	router     *chi.Mux
	builder    ports.MatrixBuilder
	registry   ports.MeasureRegistry
	collector  *metrics.Collector
	repository ports.SummaryRepository // optional
	log        zerolog.Logger

	mu   sync.RWMutex
	runs map[core.RunID]*storedRun
}

type storedRun struct {
	result *boot.BootstrapResult
	table  boot.SummaryTable
}

// NewServer wires the API. repository may be nil (no persistence).
func NewServer(builder ports.MatrixBuilder, registry ports.MeasureRegistry, repository ports.SummaryRepository, log zerolog.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		router:     chi.NewRouter(),
		builder:    builder,
		registry:   registry,
		collector:  metrics.NewCollector(reg),
		repository: repository,
		log:        log,
		runs:       make(map[core.RunID]*storedRun),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/runs", s.handleCreateRun)
		r.Get("/runs/{runID}", s.handleGetRun)
		r.Get("/runs/{runID}/summary", s.handleGetSummary)
		r.Get("/runs/{runID}/report", s.handleGetReport)
	})
	s.router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// runRequest is the POST /api/runs payload: run parameters plus inline
// per-group residual matrices.
type runRequest struct {
	Measure    string         `json:"measure"`
	Transform  string         `json:"transform,omitempty"`
	Densities  []float64      `json:"densities"`
	Replicates int            `json:"replicates"`
	Confidence float64        `json:"confidence,omitempty"`
	Seed       int64          `json:"seed"`
	Workers    int            `json:"workers,omitempty"`
	Regions    []string       `json:"regions"`
	Groups     []groupPayload `json:"groups"`
}

type groupPayload struct {
	Name string      `json:"name"`
	Rows [][]float64 `json:"rows"`
}

type runResponse struct {
	RunID   string            `json:"run_id"`
	Measure string            `json:"measure"`
	Groups  []string          `json:"groups"`
	Summary boot.SummaryTable `json:"summary"`
}

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req runRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	datasets := make([]*dataset.ResidualDataset, 0, len(req.Groups))
	for _, g := range req.Groups {
		ds, err := dataset.New(core.GroupID(g.Name), req.Regions, g.Rows)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		datasets = append(datasets, ds)
	}

	cfg := boot.DefaultConfig()
	cfg.Measure = boot.Measure(req.Measure)
	if req.Transform != "" {
		cfg.Transform = boot.WeightTransform(req.Transform)
	}
	cfg.Densities = req.Densities
	cfg.Replicates = req.Replicates
	if req.Confidence != 0 {
		cfg.Confidence = req.Confidence
	}
	cfg.Seed = core.Seed(req.Seed)
	cfg.Workers = req.Workers

	orch := engine.NewOrchestrator(s.builder, s.registry, engine.NewErrgroupPool(cfg.Workers), s.collector, s.log)
	start := time.Now()
	result, err := orch.Run(r.Context(), tabular.NewMemorySource(datasets...), cfg)
	s.collector.RunFinished(time.Since(start).Seconds(), err)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	table, err := engine.Summarize(result)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	s.mu.Lock()
	s.runs[result.RunID] = &storedRun{result: result, table: table}
	s.mu.Unlock()

	if s.repository != nil {
		if err := s.repository.SaveRun(r.Context(), result, table); err != nil {
			// Persistence is best-effort for the API path; the result is
			// already computed and returned either way.
			s.log.Error().Err(err).Str("run_id", result.RunID.String()).Msg("persist failed")
		}
	}

	groups := make([]string, len(result.Groups))
	for i, g := range result.Groups {
		groups[i] = g.String()
	}
	s.writeJSON(w, http.StatusCreated, runResponse{
		RunID:   result.RunID.String(),
		Measure: result.Measure.String(),
		Groups:  groups,
		Summary: table,
	})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	groups := make([]string, len(run.result.Groups))
	for i, g := range run.result.Groups {
		groups[i] = g.String()
	}
	s.writeJSON(w, http.StatusOK, runResponse{
		RunID:   run.result.RunID.String(),
		Measure: run.result.Measure.String(),
		Groups:  groups,
		Summary: run.table,
	})
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.writeJSON(w, http.StatusOK, run.table)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	run, ok := s.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.HTML(run.result, run.table))
}

func (s *Server) lookup(r *http.Request) (*storedRun, bool) {
	id := core.RunID(chi.URLParam(r, "runID"))
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	return run, ok
}

func statusFor(err error) int {
	switch {
	case core.IsConfigurationError(err):
		return http.StatusBadRequest
	case core.IsReplicateError(err):
		return http.StatusUnprocessableEntity
	case core.IsDependencyError(err):
		// Miswired server, not a bad request; distinct from a computation
		// failure so operators can spot it.
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
