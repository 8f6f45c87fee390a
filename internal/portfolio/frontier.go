package portfolio

import (
	"sort"

	"golang.org/x/exp/rand"

	"portfolio-sim-lab/internal/domain"
	"portfolio-sim-lab/internal/stats"
)

// FrontierPoint is one random allocation on the risk/return plane.
type FrontierPoint struct {
	Weights     map[domain.AssetClass]float64 `json:"weights"`
	Return      float64                       `json:"return"`
	Risk        float64                       `json:"risk"`
	SharpeRatio float64                       `json:"sharpe_ratio"`
}

// defaultFrontierClasses is used when the caller supplies no universe.
var defaultFrontierClasses = []domain.AssetClass{
	domain.AssetDomesticStock,
	domain.AssetForeignStock,
	domain.AssetDomesticBond,
}

// RandomFrontier samples numPoints random long-only allocations over the
// given classes and returns them sorted by risk ascending. The best-Sharpe
// point approximates the tangency portfolio. Deterministic per seed.
func RandomFrontier(classes []domain.AssetClass, numPoints int, riskFree float64, seed uint64) []FrontierPoint {
	if len(classes) == 0 {
		classes = defaultFrontierClasses
	}
	if numPoints <= 0 {
		numPoints = 1000
	}

	sorted := make([]domain.AssetClass, len(classes))
	copy(sorted, classes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	returns := make([]float64, len(sorted))
	vols := make([]float64, len(sorted))
	for i, c := range sorted {
		p := domain.ProfileFor(c)
		returns[i] = p.ExpectedReturn
		vols[i] = p.Volatility
	}
	cov := stats.CovarianceMatrix(vols, func(i, j int) float64 {
		return domain.Correlation(sorted[i], sorted[j])
	})

	rng := rand.New(rand.NewSource(seed))
	points := make([]FrontierPoint, 0, numPoints)
	weights := make([]float64, len(sorted))
	for n := 0; n < numPoints; n++ {
		total := 0.0
		for i := range weights {
			weights[i] = rng.Float64()
			total += weights[i]
		}
		pt := FrontierPoint{Weights: make(map[domain.AssetClass]float64, len(sorted))}
		for i := range weights {
			weights[i] /= total
			pt.Weights[sorted[i]] = weights[i]
			pt.Return += weights[i] * returns[i]
		}
		pt.Risk = stats.PortfolioRisk(weights, cov)
		pt.SharpeRatio = stats.SharpeRatio(pt.Return, pt.Risk, riskFree)
		points = append(points, pt)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Risk < points[j].Risk })
	return points
}

// BestSharpe returns the frontier point with the highest Sharpe ratio.
func BestSharpe(points []FrontierPoint) (FrontierPoint, bool) {
	if len(points) == 0 {
		return FrontierPoint{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.SharpeRatio > best.SharpeRatio {
			best = p
		}
	}
	return best, true
}
