package reporting

import (
	"time"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/projection"
	"portfolio-sim-lab/internal/stress"
)

// Generator assembles reports from projection and stress results.
type Generator struct {
	now func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator() *Generator {
	return &Generator{
		now: func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds a full report from a plan, its Monte Carlo projection,
// the aggregated portfolio, and optional stress results.
func (g *Generator) Generate(
	owner string,
	plan projection.LifePlan,
	proj *projection.MonteCarloProjection,
	agg domain.PortfolioAggregate,
	stressResults []*stress.ScenarioImpact,
) *Report {
	r := &Report{
		GeneratedAt: g.now(),
		Owner:       owner,
		PlanSummary: PlanSummary{
			CurrentAge:          plan.CurrentAge,
			RetirementAge:       plan.RetirementAge,
			EndAge:              plan.EndAge,
			InitialAssets:       plan.InitialAssets,
			MonthlyContribution: plan.MonthlyContribution,
			MonthlyExpense:      plan.MonthlyExpense,
			NumPaths:            plan.NumPaths,
		},
		Portfolio: PortfolioSection{
			TotalValue:     agg.TotalValue,
			ExpectedReturn: agg.ExpectedReturn,
			Volatility:     agg.Volatility,
			SharpeRatio:    agg.SharpeRatio,
		},
	}

	for i, age := range proj.Ages {
		r.Projection = append(r.Projection, ProjectionRow{
			Age: age,
			P5:  proj.Bands[5][i],
			P25: proj.Bands[25][i],
			P50: proj.Bands[50][i],
			P75: proj.Bands[75][i],
			P95: proj.Bands[95][i],
		})
	}

	r.Risk = RiskSection{
		ExpectedFinalValue:   proj.Summary.ExpectedFinalValue,
		ProbabilityOfLoss:    proj.Summary.ProbabilityOfLoss,
		VaR95:                proj.Summary.VaR95,
		CVaR95:               proj.Summary.CVaR95,
		DepletionProbability: proj.Summary.DepletionProbability,
		DepletionAge:         proj.DepletionAge,
	}

	for _, s := range stressResults {
		r.Stress = append(r.Stress, StressRow{
			ScenarioName: s.Scenario.Name,
			Period:       s.Scenario.Period,
			LossFraction: s.LossFraction,
			TotalLoss:    s.TotalLoss,
		})
	}

	return r
}
