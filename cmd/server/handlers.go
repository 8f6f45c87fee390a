package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/observability"
	"portfolio-sim-lab/internal/portfolio"
	"portfolio-sim-lab/internal/projection"
	"portfolio-sim-lab/internal/storage"
	"portfolio-sim-lab/internal/stress"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	Storage        string `json:"storage"`
	SimulationsRun int    `json:"simulations_run"`
	StressRuns     int    `json:"stress_runs"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	storageKind := "postgres+clickhouse"
	if s.useMemory {
		storageKind = "memory"
	}
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:         "running",
		Uptime:         time.Since(s.startedAt).String(),
		Storage:        storageKind,
		SimulationsRun: s.simulationsRun,
		StressRuns:     s.stressRuns,
	})
}

// handleSimulate runs a Monte Carlo life-plan projection.
// POST /api/v1/simulate
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var plan projection.LifePlan
	if err := decodeBody(r, &plan); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	proj, err := s.runner.RunMonteCarlo(plan)
	observability.RecordSimulation("monte_carlo", plan.NumPaths, time.Since(start).Seconds(), err)
	if err != nil {
		writeError(w, simulationStatus(err), err)
		return
	}

	s.countSimulation()
	observability.DefaultMetrics.LastSuccessfulSimulation.SetToCurrentTime()
	writeJSON(w, http.StatusOK, proj)
}

// handleSimulateDeterministic runs a zero-volatility plan projection.
// POST /api/v1/simulate/deterministic
func (s *Server) handleSimulateDeterministic(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var plan projection.LifePlan
	if err := decodeBody(r, &plan); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	proj, err := s.runner.RunDeterministic(plan)
	observability.RecordSimulation("deterministic", 1, time.Since(start).Seconds(), err)
	if err != nil {
		writeError(w, simulationStatus(err), err)
		return
	}

	s.countSimulation()
	writeJSON(w, http.StatusOK, proj)
}

// portfolioRequest carries holdings for the portfolio endpoints.
type portfolioRequest struct {
	Holdings []domain.Holding `json:"holdings"`
}

// portfolioMetricsResponse is the response of /api/v1/portfolio/metrics.
type portfolioMetricsResponse struct {
	Aggregate     domain.PortfolioAggregate     `json:"aggregate"`
	RiskBreakdown map[domain.AssetClass]float64 `json:"risk_breakdown"`
}

// handlePortfolioMetrics aggregates holdings into portfolio-level figures.
// POST /api/v1/portfolio/metrics
func (s *Server) handlePortfolioMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req portfolioRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	observability.RecordAggregation()
	writeJSON(w, http.StatusOK, portfolioMetricsResponse{
		Aggregate:     portfolio.Aggregate(req.Holdings, domain.DefaultRiskFreeRate),
		RiskBreakdown: portfolio.RiskBreakdown(req.Holdings),
	})
}

// frontierRequest configures a random frontier computation.
type frontierRequest struct {
	Classes   []domain.AssetClass `json:"classes"`
	NumPoints int                 `json:"num_points"`
	Seed      uint64              `json:"seed"`
}

// frontierResponse is the response of /api/v1/portfolio/frontier.
type frontierResponse struct {
	Points []portfolio.FrontierPoint `json:"points"`
	Best   *portfolio.FrontierPoint  `json:"best,omitempty"`
}

// handleFrontier samples random allocations on the risk/return plane.
// POST /api/v1/portfolio/frontier
func (s *Server) handleFrontier(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req frontierRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	points := portfolio.RandomFrontier(req.Classes, req.NumPoints, domain.DefaultRiskFreeRate, req.Seed)
	resp := frontierResponse{Points: points}
	if best, ok := portfolio.BestSharpe(points); ok {
		resp.Best = &best
	}

	observability.DefaultMetrics.FrontiersComputed.Inc()
	writeJSON(w, http.StatusOK, resp)
}

// compareRequest names candidate allocations to rank.
type compareRequest struct {
	Candidates map[string][]domain.Holding `json:"candidates"`
}

// handleCompare ranks candidate allocations by Sharpe ratio.
// POST /api/v1/portfolio/compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req compareRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	entries := portfolio.ComparePortfolios(req.Candidates, domain.DefaultRiskFreeRate)
	writeJSON(w, http.StatusOK, map[string]any{"ranking": entries})
}

// rebalanceRequest carries holdings and an optional target allocation.
type rebalanceRequest struct {
	Holdings []domain.Holding              `json:"holdings"`
	Target   map[domain.AssetClass]float64 `json:"target,omitempty"`
}

// handleRebalance plans buy/sell actions toward a target allocation.
// POST /api/v1/portfolio/rebalance
func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req rebalanceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	actions := portfolio.PlanRebalance(req.Holdings, req.Target)
	observability.DefaultMetrics.RebalancePlans.Inc()
	writeJSON(w, http.StatusOK, map[string]any{"actions": actions})
}

// stressRequest selects a scenario (or supplies custom impacts) for holdings.
type stressRequest struct {
	ScenarioID    string                        `json:"scenario_id,omitempty"`
	CustomImpacts map[domain.AssetClass]float64 `json:"custom_impacts,omitempty"`
	Holdings      []domain.Holding              `json:"holdings"`
}

// handleStress applies one crisis scenario, or all of them when none is named.
// POST /api/v1/stress
func (s *Server) handleStress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	var req stressRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	switch {
	case len(req.CustomImpacts) > 0:
		scenario := domain.NewCustomScenario(req.CustomImpacts)
		observability.RecordStressRun(scenario.ScenarioID)
		s.countStress()
		writeJSON(w, http.StatusOK, stress.Apply(scenario, req.Holdings))

	case req.ScenarioID != "":
		scenario, ok := domain.ScenarioByID(req.ScenarioID)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Errorf("unknown scenario: %s", req.ScenarioID))
			return
		}
		observability.RecordStressRun(scenario.ScenarioID)
		s.countStress()
		writeJSON(w, http.StatusOK, stress.Apply(scenario, req.Holdings))

	default:
		for _, sc := range domain.Scenarios() {
			observability.RecordStressRun(sc.ScenarioID)
		}
		s.countStress()
		writeJSON(w, http.StatusOK, map[string]any{"results": stress.ApplyAll(req.Holdings)})
	}
}

// handleStressScenarios lists the predefined crisis scenarios.
// GET /api/v1/stress/scenarios
func (s *Server) handleStressScenarios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scenarios": domain.Scenarios()})
}

// handleSnapshots creates a snapshot (POST) or lists an owner's (GET ?owner=).
// POST|GET /api/v1/snapshots
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var snap domain.PortfolioSnapshot
		if err := decodeBody(r, &snap); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if snap.CreatedAt == 0 {
			snap.CreatedAt = time.Now().UnixMilli()
		}

		err := s.snapshotStore.Insert(r.Context(), &snap)
		switch {
		case errors.Is(err, storage.ErrDuplicateKey):
			writeError(w, http.StatusConflict, err)
		case errors.Is(err, storage.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err)
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
		default:
			writeJSON(w, http.StatusCreated, snap)
		}

	case http.MethodGet:
		owner := r.URL.Query().Get("owner")
		if owner == "" {
			writeError(w, http.StatusBadRequest, errors.New("owner query parameter is required"))
			return
		}
		snaps, err := s.snapshotStore.ListByOwner(r.Context(), owner)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"snapshots": snaps})

	default:
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
	}
}

// handleSnapshotByID fetches one snapshot.
// GET /api/v1/snapshots/{id}
func (s *Server) handleSnapshotByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/snapshots/")
	if id == "" {
		writeError(w, http.StatusBadRequest, errors.New("snapshot id is required"))
		return
	}

	snap, err := s.snapshotStore.GetByID(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// simulationStatus maps simulation errors to HTTP status codes.
func simulationStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameter),
		errors.Is(err, projection.ErrBadAges):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) countSimulation() {
	s.mu.Lock()
	s.simulationsRun++
	s.mu.Unlock()
}

func (s *Server) countStress() {
	s.mu.Lock()
	s.stressRuns++
	s.mu.Unlock()
}
