// Package reporting renders projection and stress results as Markdown and
// CSV documents.
package reporting

import "time"

// Report is the full projection report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	Owner       string

	// Plan Summary
	PlanSummary PlanSummary

	// Portfolio Summary
	Portfolio PortfolioSection

	// Yearly projection rows (sorted by age ASC)
	Projection []ProjectionRow

	// Risk statistics from the simulated ensemble
	Risk RiskSection

	// Stress results (sorted worst loss first)
	Stress []StressRow
}

// PlanSummary describes the simulated life plan.
type PlanSummary struct {
	CurrentAge          int
	RetirementAge       int
	EndAge              int
	InitialAssets       float64
	MonthlyContribution float64
	MonthlyExpense      float64
	NumPaths            int
}

// PortfolioSection summarizes the aggregated portfolio assumptions.
type PortfolioSection struct {
	TotalValue     float64
	ExpectedReturn float64
	Volatility     float64
	SharpeRatio    float64
}

// ProjectionRow is one year of percentile bands.
type ProjectionRow struct {
	Age int
	P5  float64
	P25 float64
	P50 float64
	P75 float64
	P95 float64
}

// RiskSection holds ensemble-level risk statistics.
type RiskSection struct {
	ExpectedFinalValue   float64
	ProbabilityOfLoss    float64
	VaR95                float64
	CVaR95               float64
	DepletionProbability float64
	DepletionAge         *int
}

// StressRow is one crisis scenario result.
type StressRow struct {
	ScenarioName string
	Period       string
	LossFraction float64
	TotalLoss    float64
}
