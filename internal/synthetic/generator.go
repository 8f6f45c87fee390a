// Package synthetic generates plausible daily fund NAV histories for demos
// and database seeding. No external market data is fetched anywhere in the
// system; this generator is the only price source.
package synthetic

import (
	"hash/fnv"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"portfolio-sim-lab/internal/domain"
)

// Crisis window baked into every generated history so stress-era analytics
// have something to find.
var (
	covidStart = time.Date(2020, 2, 19, 0, 0, 0, 0, time.UTC)
	covidEnd   = time.Date(2020, 3, 23, 0, 0, 0, 0, time.UTC)
)

const (
	startNAV         = 10_000.0
	tradingDays      = 252.0
	crisisVolFactor  = 2.5
	equityCrisisDrip = -0.02 // daily drift during the crisis window
	otherCrisisDrip  = -0.005
	dividendInterval = 63 // quarterly on the business-day grid
)

// Generator produces synthetic NAV series for catalog funds.
type Generator struct {
	seed *uint64
}

// GeneratorOptions contains configuration for creating a Generator.
type GeneratorOptions struct {
	// Seed overrides the per-fund default (a hash of the fund ID). Two
	// generators with the same seed produce identical series.
	Seed *uint64
}

// NewGenerator creates a synthetic data generator.
func NewGenerator(opts GeneratorOptions) *Generator {
	return &Generator{seed: opts.Seed}
}

// Series generates the daily NAV history for one fund over [from, to],
// business days only. Deterministic per fund unless an explicit seed was
// given.
func (g *Generator) Series(fund domain.FundDefinition, from, to time.Time) []domain.FundPricePoint {
	seed := g.seedFor(fund.FundID)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}

	dailyDrift := fund.BaseReturn / tradingDays
	dailyVol := fund.Volatility / math.Sqrt(tradingDays)
	quarterlyDividend := startNAV * fund.DividendYield / 4

	var points []domain.FundPricePoint
	nav := startNAV
	day := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		day++

		drift := dailyDrift
		vol := dailyVol
		if inCrisis(d) {
			vol *= crisisVolFactor
			if isEquity(fund.AssetClass) {
				drift = equityCrisisDrip
			} else {
				drift = otherCrisisDrip
			}
		}

		nav *= 1 + drift + vol*normal.Rand()
		if nav < 1 {
			nav = 1
		}

		p := domain.FundPricePoint{
			FundID:      fund.FundID,
			TimestampMs: d.UnixMilli(),
			NAV:         nav,
		}
		if day%dividendInterval == 0 {
			p.Dividend = quarterlyDividend
		}
		points = append(points, p)
	}
	return points
}

// CatalogSeries generates series for every fund in the catalog, keyed by
// fund ID.
func (g *Generator) CatalogSeries(from, to time.Time) map[string][]domain.FundPricePoint {
	out := make(map[string][]domain.FundPricePoint, len(domain.FundCatalog))
	for id, fund := range domain.FundCatalog {
		out[id] = g.Series(fund, from, to)
	}
	return out
}

// seedFor derives a stable per-fund seed unless an override is set.
func (g *Generator) seedFor(fundID string) uint64 {
	if g.seed != nil {
		return *g.seed
	}
	h := fnv.New64a()
	h.Write([]byte(fundID))
	return h.Sum64()
}

func inCrisis(d time.Time) bool {
	return !d.Before(covidStart) && !d.After(covidEnd)
}

func isEquity(class domain.AssetClass) bool {
	switch class {
	case domain.AssetDomesticStock, domain.AssetForeignStock, domain.AssetEmergingStock, domain.AssetREIT:
		return true
	}
	return false
}
