package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// CovarianceMatrix builds a symmetric covariance matrix from per-asset
// volatilities and a pairwise correlation lookup. corr(i,i) is ignored;
// the diagonal is always vol[i]^2.
func CovarianceMatrix(vols []float64, corr func(i, j int) float64) *mat.SymDense {
	n := len(vols)
	cov := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		cov.SetSym(i, i, vols[i]*vols[i])
		for j := i + 1; j < n; j++ {
			cov.SetSym(i, j, corr(i, j)*vols[i]*vols[j])
		}
	}
	return cov
}

// PortfolioRisk calculates sqrt(w' Cov w), the portfolio volatility under
// the given weights. Panics if dimensions disagree, like the underlying
// matrix ops.
func PortfolioRisk(weights []float64, cov *mat.SymDense) float64 {
	w := mat.NewVecDense(len(weights), weights)
	variance := mat.Inner(w, cov, w)
	if variance <= 0 {
		return 0
	}
	return math.Sqrt(variance)
}

// RiskContribution decomposes portfolio risk into per-asset fractions:
// pct[i] = w[i] * (Cov w)[i] / variance. Fractions sum to 1 for a
// positive-variance portfolio; a zero-variance portfolio returns the
// weights unchanged.
func RiskContribution(weights []float64, cov *mat.SymDense) []float64 {
	n := len(weights)
	w := mat.NewVecDense(n, weights)

	var covW mat.VecDense
	covW.MulVec(cov, w)

	variance := mat.Dot(w, &covW)
	if variance <= 0 {
		out := make([]float64, n)
		copy(out, weights)
		return out
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = weights[i] * covW.AtVec(i) / variance
	}
	return out
}

// DiversificationRatio calculates the weighted-average standalone
// volatility over the portfolio volatility. A single asset (or a
// zero-volatility portfolio) returns 1.
func DiversificationRatio(weights, vols []float64, cov *mat.SymDense) float64 {
	portVol := PortfolioRisk(weights, cov)
	if portVol == 0 {
		return 1
	}
	weightedVol := 0.0
	for i, w := range weights {
		weightedVol += w * vols[i]
	}
	return weightedVol / portVol
}
