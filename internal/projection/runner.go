// Package projection turns life-plan inputs (ages, contributions, retirement
// spending) into long-horizon wealth projections on top of the Monte Carlo
// engine.
package projection

import (
	"errors"
	"fmt"
	"log"
	"math"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/simulate"
)

// Runner errors
var (
	ErrBadAges = errors.New("invalid age range")
)

// MonthsPerYear is the projection step grid.
const MonthsPerYear = 12

// DefaultNumPaths is used when a plan does not specify one.
const DefaultNumPaths = 1000

// LifePlan describes a household's accumulation and drawdown assumptions.
type LifePlan struct {
	CurrentAge    int     `json:"current_age"`
	RetirementAge int     `json:"retirement_age"`
	EndAge        int     `json:"end_age"`
	InitialAssets float64 `json:"initial_assets"`

	MonthlyContribution float64 `json:"monthly_contribution"`
	MonthlyExpense      float64 `json:"monthly_expense"`
	AnnualInflation     float64 `json:"annual_inflation"`

	ExpectedReturn float64 `json:"expected_return"`
	Volatility     float64 `json:"volatility"`

	NumPaths int     `json:"num_paths"`
	Seed     *uint64 `json:"seed,omitempty"`
}

// Validate checks the plan's age arithmetic. Monetary and rate fields are
// validated downstream by the engine.
func (p *LifePlan) Validate() error {
	if p.CurrentAge < 0 || p.EndAge <= p.CurrentAge {
		return fmt.Errorf("%w: current %d end %d", ErrBadAges, p.CurrentAge, p.EndAge)
	}
	return nil
}

// horizonSteps is the plan length in months.
func (p *LifePlan) horizonSteps() int {
	return (p.EndAge - p.CurrentAge) * MonthsPerYear
}

// retirementStep is the last contributing month. A retirement age at or
// before the current age means retired from the start.
func (p *LifePlan) retirementStep() int {
	if p.RetirementAge <= p.CurrentAge {
		return 0
	}
	return (p.RetirementAge - p.CurrentAge) * MonthsPerYear
}

// schedule builds the plan's monthly cash flow.
func (p *LifePlan) schedule() simulate.RetirementSchedule {
	return simulate.RetirementSchedule{
		MonthlyContribution: p.MonthlyContribution,
		RetirementStep:      p.retirementStep(),
		MonthlyExpense:      p.MonthlyExpense,
		MonthlyInflation:    p.AnnualInflation / MonthsPerYear,
	}
}

// MonteCarloProjection is the yearly view of a simulated life plan.
type MonteCarloProjection struct {
	Ages  []int             `json:"ages"`
	Bands map[int][]float64 `json:"bands"` // percentile -> value per age

	Summary *domain.PercentileSummary `json:"summary"`

	// DepletionAge is derived from the summary's depletion step, nil if the
	// median path never runs out.
	DepletionAge *int `json:"depletion_age,omitempty"`
}

// Runner executes life-plan projections.
type Runner struct {
	engine *simulate.Engine
	logger *log.Logger
}

// RunnerOptions contains configuration for creating a Runner.
type RunnerOptions struct {
	Engine *simulate.Engine
	Logger *log.Logger
}

// NewRunner creates a projection runner.
func NewRunner(opts RunnerOptions) *Runner {
	r := &Runner{
		engine: opts.Engine,
		logger: opts.Logger,
	}
	if r.engine == nil {
		r.engine = simulate.NewEngine(simulate.EngineOptions{})
	}
	if r.logger == nil {
		r.logger = log.New(log.Writer(), "[projection] ", log.LstdFlags)
	}
	return r
}

// RunMonteCarlo simulates the plan on a monthly grid and downsamples the
// percentile bands to year boundaries.
func (r *Runner) RunMonteCarlo(plan LifePlan) (*MonteCarloProjection, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	numPaths := plan.NumPaths
	if numPaths <= 0 {
		numPaths = DefaultNumPaths
	}

	params := domain.SimulationParameters{
		InitialValue:     plan.InitialAssets,
		AnnualDrift:      plan.ExpectedReturn,
		AnnualVolatility: plan.Volatility,
		HorizonSteps:     plan.horizonSteps(),
		StepSize:         1.0 / MonthsPerYear,
		NumPaths:         numPaths,
		Seed:             plan.Seed,
		CashFlow:         plan.schedule().CashFlow(),
		FloorAtZero:      true,
	}

	ensemble, err := r.engine.Run(params)
	if err != nil {
		return nil, err
	}
	summary := simulate.Summarize(ensemble)

	years := plan.EndAge - plan.CurrentAge
	proj := &MonteCarloProjection{
		Ages:    make([]int, years+1),
		Bands:   make(map[int][]float64, len(domain.SummaryQuantiles)),
		Summary: summary,
	}
	for y := 0; y <= years; y++ {
		proj.Ages[y] = plan.CurrentAge + y
	}
	for _, q := range domain.SummaryQuantiles {
		band := make([]float64, years+1)
		for y := 0; y <= years; y++ {
			band[y] = summary.Bands[q][y*MonthsPerYear]
		}
		proj.Bands[q] = band
	}

	if summary.DepletionStep != nil {
		age := plan.CurrentAge + *summary.DepletionStep/MonthsPerYear
		proj.DepletionAge = &age
	}

	r.logger.Printf("monte carlo projection: ages %d-%d paths=%d depletion_prob=%.3f",
		plan.CurrentAge, plan.EndAge, numPaths, summary.DepletionProbability)
	return proj, nil
}

// PlanPoint is one year of a deterministic projection.
type PlanPoint struct {
	Age   int     `json:"age"`
	Value float64 `json:"value"`
}

// DeterministicProjection is the zero-volatility expected path of a plan.
type DeterministicProjection struct {
	Points       []PlanPoint `json:"points"`
	FinalValue   float64     `json:"final_value"`
	DepletionAge *int        `json:"depletion_age,omitempty"`
	Warnings     []string    `json:"warnings,omitempty"`
}

// RunDeterministic projects the plan at exactly the expected return with no
// randomness: a single zero-volatility engine run on the same cash flow
// schedule.
func (r *Runner) RunDeterministic(plan LifePlan) (*DeterministicProjection, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	seed := uint64(0)
	params := domain.SimulationParameters{
		InitialValue:     plan.InitialAssets,
		AnnualDrift:      plan.ExpectedReturn,
		AnnualVolatility: 0,
		HorizonSteps:     plan.horizonSteps(),
		StepSize:         1.0 / MonthsPerYear,
		NumPaths:         1,
		Seed:             &seed,
		CashFlow:         plan.schedule().CashFlow(),
		FloorAtZero:      true,
	}

	ensemble, err := r.engine.Run(params)
	if err != nil {
		return nil, err
	}
	path := ensemble.Values[0]

	years := plan.EndAge - plan.CurrentAge
	proj := &DeterministicProjection{
		Points:     make([]PlanPoint, years+1),
		FinalValue: path[len(path)-1],
	}
	for y := 0; y <= years; y++ {
		proj.Points[y] = PlanPoint{
			Age:   plan.CurrentAge + y,
			Value: path[y*MonthsPerYear],
		}
	}

	for t, v := range path {
		if t > 0 && v <= 0 {
			age := plan.CurrentAge + t/MonthsPerYear
			proj.DepletionAge = &age
			break
		}
	}

	proj.Warnings = planWarnings(plan, proj)
	return proj, nil
}

// planWarnings flags structural problems with a plan that the numbers alone
// may hide.
func planWarnings(plan LifePlan, proj *DeterministicProjection) []string {
	var warnings []string
	if proj.DepletionAge != nil {
		warnings = append(warnings, fmt.Sprintf("assets deplete at age %d under expected returns", *proj.DepletionAge))
	}
	if plan.RetirementAge <= plan.CurrentAge {
		warnings = append(warnings, "already retired: withdrawals start immediately")
	}
	if plan.MonthlyExpense > 0 && plan.InitialAssets > 0 {
		monthsCovered := plan.InitialAssets / plan.MonthlyExpense
		if monthsCovered < 6 && plan.RetirementAge <= plan.CurrentAge {
			warnings = append(warnings, fmt.Sprintf("initial assets cover only %.1f months of expenses", math.Floor(monthsCovered*10)/10))
		}
	}
	return warnings
}
