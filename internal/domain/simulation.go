package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is returned when simulation preconditions are violated.
// Validation happens before any simulation work begins.
var ErrInvalidParameter = errors.New("invalid simulation parameter")

// CashFlowFunc maps a step index (1..HorizonSteps) to a signed external cash
// flow applied after that step's growth. Positive is a contribution,
// negative a withdrawal. A nil func means no cash flows.
type CashFlowFunc func(step int) float64

// SimulationParameters describes one Monte Carlo run. Treated as immutable
// by the engine.
type SimulationParameters struct {
	InitialValue     float64
	AnnualDrift      float64
	AnnualVolatility float64
	HorizonSteps     int
	StepSize         float64 // fraction of a year per step, e.g. 1/252 or 1/12
	NumPaths         int
	Seed             *uint64 // nil: non-deterministic across calls
	CashFlow         CashFlowFunc
	FloorAtZero      bool
}

// Validate checks the preconditions for Simulate. All violations wrap
// ErrInvalidParameter.
func (p *SimulationParameters) Validate() error {
	if p.InitialValue < 0 {
		return fmt.Errorf("%w: initial_value must be >= 0, got %v", ErrInvalidParameter, p.InitialValue)
	}
	if p.AnnualVolatility < 0 {
		return fmt.Errorf("%w: annual_volatility must be >= 0, got %v", ErrInvalidParameter, p.AnnualVolatility)
	}
	if p.HorizonSteps < 0 {
		return fmt.Errorf("%w: horizon_steps must be >= 0, got %d", ErrInvalidParameter, p.HorizonSteps)
	}
	if p.StepSize <= 0 {
		return fmt.Errorf("%w: step_size must be > 0, got %v", ErrInvalidParameter, p.StepSize)
	}
	if p.NumPaths < 1 {
		return fmt.Errorf("%w: num_paths must be >= 1, got %d", ErrInvalidParameter, p.NumPaths)
	}
	return nil
}

// PathEnsemble is the full set of simulated value paths. Values has shape
// (NumPaths x HorizonSteps+1); Values[p][0] is the initial value for every
// path. Not mutated after creation.
type PathEnsemble struct {
	InitialValue float64
	Values       [][]float64
}

// NumPaths returns the number of simulated paths.
func (e *PathEnsemble) NumPaths() int {
	return len(e.Values)
}

// Steps returns the number of simulated steps (columns minus the initial one).
func (e *PathEnsemble) Steps() int {
	if len(e.Values) == 0 {
		return 0
	}
	return len(e.Values[0]) - 1
}

// Column copies the cross-section of all paths at step t.
func (e *PathEnsemble) Column(t int) []float64 {
	col := make([]float64, len(e.Values))
	for p, row := range e.Values {
		col[p] = row[t]
	}
	return col
}

// FinalValues copies the last column of the ensemble.
func (e *PathEnsemble) FinalValues() []float64 {
	return e.Column(e.Steps())
}

// SummaryQuantiles are the fixed percentile bands reported for every ensemble.
var SummaryQuantiles = []int{5, 25, 50, 75, 95}

// FinalValueStats describes the distribution of the ensemble's last column.
// Std is the population standard deviation.
type FinalValueStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P5     float64 `json:"p5"`
	P95    float64 `json:"p95"`
}

// PercentileSummary is a derived, read-only view over a PathEnsemble.
// Bands[q][t] is the q-th cross-sectional percentile at step t: each column
// is percentiled independently, so a band does not trace any single path.
type PercentileSummary struct {
	Bands       map[int][]float64 `json:"bands"`
	FinalValues FinalValueStats   `json:"final_values"`

	ExpectedFinalValue float64 `json:"expected_final_value"`
	ProbabilityOfLoss  float64 `json:"probability_of_loss"`
	VaR95              float64 `json:"var_95"`
	CVaR95             float64 `json:"cvar_95"`

	// DepletionProbability is the fraction of paths whose final value is <= 0.
	// DepletionStep is the earliest step at which at least half the paths are
	// <= 0, nil if never reached. Both are population statistics.
	DepletionProbability float64 `json:"depletion_probability"`
	DepletionStep        *int    `json:"depletion_step,omitempty"`
}
