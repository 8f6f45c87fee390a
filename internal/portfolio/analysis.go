package portfolio

import (
	"math"
	"sort"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/stats"
)

// TradingDaysPerYear is the annualization base for daily NAV series.
const TradingDaysPerYear = 252

// ReturnMetrics summarizes the realized performance of a daily value series.
type ReturnMetrics struct {
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	Volatility       float64 `json:"volatility"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	CalmarRatio      float64 `json:"calmar_ratio"`
	VaR95            float64 `json:"var_95"`
	CVaR95           float64 `json:"cvar_95"`
}

// AnalyzeReturns computes realized performance metrics from a daily NAV
// series. Fewer than 2 observations return the zero value.
func AnalyzeReturns(values []float64, riskFree float64) ReturnMetrics {
	if len(values) < 2 || values[0] <= 0 {
		return ReturnMetrics{}
	}

	dailyReturns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] <= 0 {
			continue
		}
		dailyReturns = append(dailyReturns, values[i]/values[i-1]-1)
	}
	if len(dailyReturns) == 0 {
		return ReturnMetrics{}
	}

	m := ReturnMetrics{
		TotalReturn: values[len(values)-1]/values[0] - 1,
		Volatility:  stats.SampleStdDev(dailyReturns) * math.Sqrt(TradingDaysPerYear),
		MaxDrawdown: stats.MaxDrawdown(values),
		VaR95:       stats.ValueAtRisk(dailyReturns, 0.95),
		CVaR95:      stats.ConditionalValueAtRisk(dailyReturns, 0.95),
	}

	years := float64(len(dailyReturns)) / TradingDaysPerYear
	m.AnnualizedReturn = stats.AnnualizedReturn(m.TotalReturn, years)
	m.SharpeRatio = stats.SharpeRatio(m.AnnualizedReturn, m.Volatility, riskFree)
	m.CalmarRatio = stats.CalmarRatio(m.AnnualizedReturn, m.MaxDrawdown)
	return m
}

// CrisisWindow measures how a value series behaved over a historical crisis
// slice of its samples.
type CrisisWindow struct {
	PeakValue    float64 `json:"peak_value"`
	TroughValue  float64 `json:"trough_value"`
	Decline      float64 `json:"decline"`
	RecoveredBy  *int    `json:"recovered_by,omitempty"` // index into the series, nil if never
	DaysToTrough int     `json:"days_to_trough"`
}

// AnalyzeCrisisWindow inspects values[start:end] for its peak-to-trough
// decline, then scans past end for the first sample recovering to the peak.
func AnalyzeCrisisWindow(values []float64, start, end int) CrisisWindow {
	if start < 0 {
		start = 0
	}
	if end > len(values) {
		end = len(values)
	}
	if start >= end {
		return CrisisWindow{}
	}

	w := CrisisWindow{PeakValue: values[start], TroughValue: values[start]}
	troughIdx := start
	for i := start; i < end; i++ {
		if values[i] > w.PeakValue {
			w.PeakValue = values[i]
		}
		if values[i] < w.TroughValue {
			w.TroughValue = values[i]
			troughIdx = i
		}
	}
	w.DaysToTrough = troughIdx - start
	if w.PeakValue > 0 {
		w.Decline = w.TroughValue/w.PeakValue - 1
	}

	for i := end; i < len(values); i++ {
		if values[i] >= w.PeakValue {
			idx := i
			w.RecoveredBy = &idx
			break
		}
	}
	return w
}

// ComparisonEntry pairs a label with its aggregate view.
type ComparisonEntry struct {
	Name      string                    `json:"name"`
	Aggregate domain.PortfolioAggregate `json:"aggregate"`
}

// ComparePortfolios ranks candidate allocations by Sharpe ratio, best first.
// Ties break on name for a stable order.
func ComparePortfolios(candidates map[string][]domain.Holding, riskFree float64) []ComparisonEntry {
	entries := make([]ComparisonEntry, 0, len(candidates))
	for name, holdings := range candidates {
		entries = append(entries, ComparisonEntry{
			Name:      name,
			Aggregate: Aggregate(holdings, riskFree),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Aggregate.SharpeRatio != entries[j].Aggregate.SharpeRatio {
			return entries[i].Aggregate.SharpeRatio > entries[j].Aggregate.SharpeRatio
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
