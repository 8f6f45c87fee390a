package main

import (
	"errors"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/portfolio"
)

// handleFunds lists the fund catalog. A q parameter searches the securities
// master instead.
// GET /api/v1/funds
func (s *Server) handleFunds(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	if q := r.URL.Query().Get("q"); q != "" {
		results := domain.SearchSecurities(q, 20)
		sort.Slice(results, func(i, j int) bool { return results[i].Ticker < results[j].Ticker })
		writeJSON(w, http.StatusOK, map[string]any{"securities": results})
		return
	}

	funds := make([]domain.FundDefinition, 0, len(domain.FundCatalog))
	for _, f := range domain.FundCatalog {
		funds = append(funds, f)
	}
	sort.Slice(funds, func(i, j int) bool { return funds[i].FundID < funds[j].FundID })
	writeJSON(w, http.StatusOK, map[string]any{"funds": funds})
}

// handleFundByID serves per-fund price history and return analysis.
// GET /api/v1/funds/{id}/prices?from=&to=   (unix ms, both optional)
// GET /api/v1/funds/{id}/analysis
func (s *Server) handleFundByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/funds/")
	fundID, op, _ := strings.Cut(rest, "/")
	if fundID == "" {
		writeError(w, http.StatusBadRequest, errors.New("fund id is required"))
		return
	}
	if _, ok := domain.FundCatalog[fundID]; !ok {
		writeError(w, http.StatusNotFound, errors.New("unknown fund: "+fundID))
		return
	}

	switch op {
	case "prices":
		s.serveFundPrices(w, r, fundID)
	case "analysis":
		s.serveFundAnalysis(w, r, fundID)
	default:
		writeError(w, http.StatusNotFound, errors.New("unknown fund operation: "+op))
	}
}

func (s *Server) serveFundPrices(w http.ResponseWriter, r *http.Request, fundID string) {
	from, err := parseMsParam(r, "from", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := parseMsParam(r, "to", math.MaxInt64)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	points, err := s.fundPriceStore.GetByTimeRange(r.Context(), fundID, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fund_id": fundID, "points": points})
}

func (s *Server) serveFundAnalysis(w http.ResponseWriter, r *http.Request, fundID string) {
	points, err := s.fundPriceStore.GetByFundID(r.Context(), fundID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if len(points) < 2 {
		writeError(w, http.StatusNotFound, errors.New("not enough price history for analysis"))
		return
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.NAV
	}
	metrics := portfolio.AnalyzeReturns(values, domain.DefaultRiskFreeRate)
	writeJSON(w, http.StatusOK, map[string]any{"fund_id": fundID, "metrics": metrics})
}

func parseMsParam(r *http.Request, name string, fallback int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New(name + " must be a unix millisecond timestamp")
	}
	return v, nil
}
