package portfolio

import (
	"math"
	"testing"

	"portfolio-sim-lab/internal/domain"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestAggregate_TwoClassKnownValues(t *testing.T) {
	// 60% developed equity (0.07/0.20), 40% domestic bond (0.01/0.03),
	// correlation -0.2.
	holdings := []domain.Holding{
		{Ticker: "slim_sp500", AssetClass: domain.AssetForeignStock, Value: 600_000},
		{Ticker: "slim_domestic_bond", AssetClass: domain.AssetDomesticBond, Value: 400_000},
	}

	agg := Aggregate(holdings, domain.DefaultRiskFreeRate)

	if agg.TotalValue != 1_000_000 {
		t.Errorf("expected total 1000000, got %f", agg.TotalValue)
	}
	if !almostEqual(agg.Weights[domain.AssetForeignStock], 0.6, 1e-12) {
		t.Errorf("expected weight 0.6, got %f", agg.Weights[domain.AssetForeignStock])
	}
	// Expected return: 0.6*0.07 + 0.4*0.01 = 0.046
	if !almostEqual(agg.ExpectedReturn, 0.046, 1e-12) {
		t.Errorf("expected return 0.046, got %f", agg.ExpectedReturn)
	}
	// Variance: .36*.04 + .16*.0009 + 2*.6*.4*(-.2*.20*.03) = 0.013968
	wantVol := math.Sqrt(0.013968)
	if !almostEqual(agg.Volatility, wantVol, 1e-12) {
		t.Errorf("expected vol %f, got %f", wantVol, agg.Volatility)
	}
	wantSharpe := (0.046 - domain.DefaultRiskFreeRate) / wantVol
	if !almostEqual(agg.SharpeRatio, wantSharpe, 1e-12) {
		t.Errorf("expected sharpe %f, got %f", wantSharpe, agg.SharpeRatio)
	}
}

func TestAggregate_SingleClassUsesClassVol(t *testing.T) {
	holdings := []domain.Holding{
		{AssetClass: domain.AssetForeignStock, Value: 500_000},
	}
	agg := Aggregate(holdings, 0)
	if !almostEqual(agg.Volatility, 0.20, 1e-12) {
		t.Errorf("expected vol 0.20, got %f", agg.Volatility)
	}
	if !almostEqual(agg.ExpectedReturn, 0.07, 1e-12) {
		t.Errorf("expected return 0.07, got %f", agg.ExpectedReturn)
	}
}

func TestAggregate_EmptyPortfolio(t *testing.T) {
	agg := Aggregate(nil, domain.DefaultRiskFreeRate)
	if agg.TotalValue != 0 || agg.ExpectedReturn != 0 || agg.Volatility != 0 || agg.SharpeRatio != 0 {
		t.Errorf("expected zero aggregate, got %+v", agg)
	}
}

func TestAggregate_SkipsNonPositiveValues(t *testing.T) {
	holdings := []domain.Holding{
		{AssetClass: domain.AssetForeignStock, Value: 100_000},
		{AssetClass: domain.AssetDomesticBond, Value: 0},
		{AssetClass: domain.AssetREIT, Value: -50_000},
	}
	agg := Aggregate(holdings, 0)
	if agg.TotalValue != 100_000 {
		t.Errorf("expected total 100000, got %f", agg.TotalValue)
	}
	if len(agg.Weights) != 1 {
		t.Errorf("expected single class, got %v", agg.Weights)
	}
}

func TestAggregate_HoldingOverridesFlowThrough(t *testing.T) {
	ret := 0.12
	vol := 0.30
	holdings := []domain.Holding{
		{AssetClass: domain.AssetForeignStock, Value: 100_000, ExpectedReturn: &ret, Volatility: &vol},
	}
	agg := Aggregate(holdings, 0)
	if !almostEqual(agg.ExpectedReturn, 0.12, 1e-12) {
		t.Errorf("expected override return 0.12, got %f", agg.ExpectedReturn)
	}
	if !almostEqual(agg.Volatility, 0.30, 1e-12) {
		t.Errorf("expected override vol 0.30, got %f", agg.Volatility)
	}
}

func TestAggregate_UnknownClassFallsBack(t *testing.T) {
	holdings := []domain.Holding{
		{AssetClass: domain.AssetClass("crypto"), Value: 100_000},
	}
	agg := Aggregate(holdings, 0)
	if !almostEqual(agg.ExpectedReturn, domain.FallbackClassProfile.ExpectedReturn, 1e-12) {
		t.Errorf("expected fallback return, got %f", agg.ExpectedReturn)
	}
}

func TestAggregate_DiversificationBelowWeightedVol(t *testing.T) {
	holdings := []domain.Holding{
		{AssetClass: domain.AssetForeignStock, Value: 500_000},
		{AssetClass: domain.AssetDomesticBond, Value: 500_000},
	}
	agg := Aggregate(holdings, 0)
	weightedVol := 0.5*0.20 + 0.5*0.03
	if agg.Volatility >= weightedVol {
		t.Errorf("expected vol %f below weighted average %f", agg.Volatility, weightedVol)
	}
}

func TestRiskBreakdown_SumsToOne(t *testing.T) {
	holdings := []domain.Holding{
		{AssetClass: domain.AssetForeignStock, Value: 400_000},
		{AssetClass: domain.AssetEmergingStock, Value: 200_000},
		{AssetClass: domain.AssetDomesticBond, Value: 400_000},
	}
	breakdown := RiskBreakdown(holdings)

	sum := 0.0
	for _, v := range breakdown {
		sum += v
	}
	if !almostEqual(sum, 1.0, 1e-9) {
		t.Errorf("expected contributions to sum to 1, got %f", sum)
	}
	// Equities dominate risk even at lower weight than bonds.
	if breakdown[domain.AssetForeignStock] <= breakdown[domain.AssetDomesticBond] {
		t.Error("equity contribution should exceed bond contribution")
	}
}
