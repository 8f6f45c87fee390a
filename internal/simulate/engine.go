// Package simulate implements the Monte Carlo path engine: geometric
// Brownian motion with per-step external cash flows, a zero floor, and
// seeded reproducibility.
package simulate

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"portfolio-sim-lab/internal/domain"
)

// Engine errors
var (
	ErrTooManyPaths = errors.New("num_paths exceeds engine limit")
	ErrTooManySteps = errors.New("horizon_steps exceeds engine limit")
)

// Default resource caps.
const (
	DefaultMaxPaths = 100_000
	DefaultMaxSteps = 10_000
)

// Engine runs Monte Carlo simulations. Safe for concurrent use.
type Engine struct {
	maxPaths int
	maxSteps int
	workers  int
}

// EngineOptions contains configuration for creating an Engine. Zero values
// fall back to defaults.
type EngineOptions struct {
	MaxPaths int
	MaxSteps int
	Workers  int
}

// NewEngine creates a simulation engine.
func NewEngine(opts EngineOptions) *Engine {
	e := &Engine{
		maxPaths: opts.MaxPaths,
		maxSteps: opts.MaxSteps,
		workers:  opts.Workers,
	}
	if e.maxPaths <= 0 {
		e.maxPaths = DefaultMaxPaths
	}
	if e.maxSteps <= 0 {
		e.maxSteps = DefaultMaxSteps
	}
	if e.workers <= 0 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// Run simulates the full path ensemble for params.
// Steps:
//  1. Validate parameters and resource caps
//  2. Draw the entire normal variate matrix from one seeded source
//  3. Evolve paths in parallel over the pre-drawn matrix
//
// Drawing all variates up front keeps the output identical for a given
// seed regardless of worker count.
func (e *Engine) Run(params domain.SimulationParameters) (*domain.PathEnsemble, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if params.NumPaths > e.maxPaths {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyPaths, params.NumPaths, e.maxPaths)
	}
	if params.HorizonSteps > e.maxSteps {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManySteps, params.HorizonSteps, e.maxSteps)
	}

	draws := e.drawVariates(params)
	values := make([][]float64, params.NumPaths)

	drift := (params.AnnualDrift - 0.5*params.AnnualVolatility*params.AnnualVolatility) * params.StepSize
	diffusion := params.AnnualVolatility * math.Sqrt(params.StepSize)

	var wg sync.WaitGroup
	chunk := (params.NumPaths + e.workers - 1) / e.workers
	for start := 0; start < params.NumPaths; start += chunk {
		end := start + chunk
		if end > params.NumPaths {
			end = params.NumPaths
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for p := start; p < end; p++ {
				values[p] = evolvePath(params, drift, diffusion, draws[p])
			}
		}(start, end)
	}
	wg.Wait()

	return &domain.PathEnsemble{
		InitialValue: params.InitialValue,
		Values:       values,
	}, nil
}

// drawVariates generates the (NumPaths x HorizonSteps) matrix of standard
// normal draws sequentially from a single source.
func (e *Engine) drawVariates(params domain.SimulationParameters) [][]float64 {
	var seed uint64
	if params.Seed != nil {
		seed = *params.Seed
	} else {
		seed = uint64(time.Now().UnixNano())
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}
	draws := make([][]float64, params.NumPaths)
	for p := range draws {
		row := make([]float64, params.HorizonSteps)
		for t := range row {
			row[t] = normal.Rand()
		}
		draws[p] = row
	}
	return draws
}

// evolvePath applies the GBM recurrence plus cash flows over one path.
// Cash flows land after the step's growth; the floor keeps withdrawals from
// pushing value below zero, and a non-finite value collapses to zero.
func evolvePath(params domain.SimulationParameters, drift, diffusion float64, z []float64) []float64 {
	path := make([]float64, params.HorizonSteps+1)
	path[0] = params.InitialValue

	v := params.InitialValue
	for t := 1; t <= params.HorizonSteps; t++ {
		v *= math.Exp(drift + diffusion*z[t-1])
		if params.CashFlow != nil {
			v += params.CashFlow(t)
		}
		if params.FloorAtZero && v < 0 {
			v = 0
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		path[t] = v
	}
	return path
}
