// Package portfolio collapses holdings into portfolio-level return/risk
// figures and allocation tooling.
package portfolio

import (
	"sort"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/stats"
)

// Aggregate collapses holdings into a single (return, volatility) pair using
// class-level expected returns, value weights, and the cross-class
// correlation table. An empty or zero-value portfolio degenerates to all
// zeros.
func Aggregate(holdings []domain.Holding, riskFree float64) domain.PortfolioAggregate {
	agg := domain.PortfolioAggregate{
		Weights:    map[domain.AssetClass]float64{},
		Allocation: map[domain.AssetClass]float64{},
	}

	classValue := map[domain.AssetClass]float64{}
	classReturn := map[domain.AssetClass]float64{}
	classVol := map[domain.AssetClass]float64{}
	for _, h := range holdings {
		if h.Value <= 0 {
			continue
		}
		p := h.Profile()
		classValue[h.AssetClass] += h.Value
		classReturn[h.AssetClass] += h.Value * p.ExpectedReturn
		classVol[h.AssetClass] += h.Value * p.Volatility
		agg.TotalValue += h.Value
	}
	if agg.TotalValue == 0 {
		return agg
	}

	// Stable class order so weight/covariance vectors line up.
	classes := make([]domain.AssetClass, 0, len(classValue))
	for c := range classValue {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	weights := make([]float64, len(classes))
	vols := make([]float64, len(classes))
	for i, c := range classes {
		weights[i] = classValue[c] / agg.TotalValue
		// Class-level assumptions are value-weighted over members so holding
		// overrides flow through.
		classReturn[c] /= classValue[c]
		vols[i] = classVol[c] / classValue[c]

		agg.Weights[c] = weights[i]
		agg.Allocation[c] = classValue[c]
		agg.ExpectedReturn += weights[i] * classReturn[c]
	}

	if len(classes) == 1 {
		agg.Volatility = vols[0]
	} else {
		cov := stats.CovarianceMatrix(vols, func(i, j int) float64 {
			return domain.Correlation(classes[i], classes[j])
		})
		agg.Volatility = stats.PortfolioRisk(weights, cov)
	}

	agg.SharpeRatio = stats.SharpeRatio(agg.ExpectedReturn, agg.Volatility, riskFree)
	return agg
}

// RiskBreakdown reports each asset class's fractional contribution to
// portfolio risk. A zero-risk portfolio returns the value weights.
func RiskBreakdown(holdings []domain.Holding) map[domain.AssetClass]float64 {
	agg := Aggregate(holdings, domain.DefaultRiskFreeRate)
	if agg.TotalValue == 0 {
		return map[domain.AssetClass]float64{}
	}

	classes := make([]domain.AssetClass, 0, len(agg.Weights))
	for c := range agg.Weights {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	weights := make([]float64, len(classes))
	vols := make([]float64, len(classes))
	for i, c := range classes {
		weights[i] = agg.Weights[c]
		vols[i] = domain.ProfileFor(c).Volatility
	}
	cov := stats.CovarianceMatrix(vols, func(i, j int) float64 {
		return domain.Correlation(classes[i], classes[j])
	})

	contrib := stats.RiskContribution(weights, cov)
	out := make(map[domain.AssetClass]float64, len(classes))
	for i, c := range classes {
		out[c] = contrib[i]
	}
	return out
}
