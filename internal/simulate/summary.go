package simulate

import (
	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/stats"
)

// Summarize collapses a path ensemble into percentile bands and tail-risk
// statistics. Each step's cross-section is percentiled independently, so a
// band does not follow any single path.
func Summarize(ensemble *domain.PathEnsemble) *domain.PercentileSummary {
	steps := ensemble.Steps()
	bands := make(map[int][]float64, len(domain.SummaryQuantiles))
	for _, q := range domain.SummaryQuantiles {
		bands[q] = make([]float64, steps+1)
	}

	// An ensemble with no paths yields zero bands and zero stats.
	if ensemble.NumPaths() == 0 {
		return &domain.PercentileSummary{Bands: bands}
	}

	for t := 0; t <= steps; t++ {
		col := stats.SortedCopy(ensemble.Column(t))
		for _, q := range domain.SummaryQuantiles {
			bands[q][t] = stats.Percentile(col, float64(q)/100)
		}
	}

	finals := ensemble.FinalValues()
	sortedFinals := stats.SortedCopy(finals)

	summary := &domain.PercentileSummary{
		Bands: bands,
		FinalValues: domain.FinalValueStats{
			Mean:   stats.Mean(finals),
			Median: stats.Percentile(sortedFinals, 0.50),
			Std:    stats.PopStdDev(finals),
			Min:    sortedFinals[0],
			Max:    sortedFinals[len(sortedFinals)-1],
			P5:     stats.Percentile(sortedFinals, 0.05),
			P95:    stats.Percentile(sortedFinals, 0.95),
		},
	}
	summary.ExpectedFinalValue = summary.FinalValues.Mean

	initial := ensemble.InitialValue
	if initial > 0 {
		lossCount := 0
		returns := make([]float64, len(finals))
		for i, f := range finals {
			returns[i] = f/initial - 1
			if f < initial {
				lossCount++
			}
		}
		summary.ProbabilityOfLoss = float64(lossCount) / float64(len(finals))
		summary.VaR95 = stats.ValueAtRisk(returns, 0.95)
		summary.CVaR95 = stats.ConditionalValueAtRisk(returns, 0.95)
	}

	summary.DepletionProbability, summary.DepletionStep = depletion(ensemble)
	return summary
}

// depletion reports the fraction of paths ending at or below zero and the
// earliest step at which at least half the paths are depleted. Paths can
// recover after touching zero when contributions continue, so both numbers
// are population statistics, not per-path absorptions.
func depletion(ensemble *domain.PathEnsemble) (float64, *int) {
	n := ensemble.NumPaths()
	if n == 0 {
		return 0, nil
	}

	depleted := 0
	for _, f := range ensemble.FinalValues() {
		if f <= 0 {
			depleted++
		}
	}
	probability := float64(depleted) / float64(n)

	half := (n + 1) / 2
	for t := 0; t <= ensemble.Steps(); t++ {
		count := 0
		for _, v := range ensemble.Column(t) {
			if v <= 0 {
				count++
			}
		}
		if count >= half {
			step := t
			return probability, &step
		}
	}
	return probability, nil
}
