package stress

import (
	"math"
	"strings"
	"testing"

	"portfolio-sim-lab/internal/domain"
)

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestApply_LehmanKnownValues(t *testing.T) {
	holdings := []domain.Holding{
		{Ticker: "slim_sp500", AssetClass: domain.AssetForeignStock, Value: 1_000_000},
		{Ticker: "slim_domestic_bond", AssetClass: domain.AssetDomesticBond, Value: 1_000_000},
	}
	result := Apply(domain.ScenarioConfigLehman, holdings)

	// Foreign equity -57%, domestic bond +2%. Losses sum magnitudes:
	// 570000 + 20000.
	if !almostEqual(result.TotalAfter, 430_000+1_020_000, 1e-6) {
		t.Errorf("expected total after 1450000, got %f", result.TotalAfter)
	}
	if !almostEqual(result.TotalLoss, 590_000, 1e-6) {
		t.Errorf("expected loss 590000, got %f", result.TotalLoss)
	}
	if !almostEqual(result.LossFraction, 0.295, 1e-9) {
		t.Errorf("expected loss fraction 0.295, got %f", result.LossFraction)
	}
}

func TestApply_UnknownClassTakesDefaultImpact(t *testing.T) {
	holdings := []domain.Holding{
		{Ticker: "mystery", AssetClass: domain.AssetClass("crypto"), Value: 100_000},
	}
	result := Apply(domain.ScenarioConfigCovid, holdings)

	if len(result.Holdings) != 1 {
		t.Fatalf("expected 1 holding impact, got %d", len(result.Holdings))
	}
	hi := result.Holdings[0]
	if hi.Impact != domain.DefaultImpact {
		t.Errorf("expected default impact %f, got %f", domain.DefaultImpact, hi.Impact)
	}
	if !almostEqual(hi.ValueAfter, 70_000, 1e-9) {
		t.Errorf("expected 70000 after, got %f", hi.ValueAfter)
	}
}

func TestApply_PostStressFloorsAtZero(t *testing.T) {
	scenario := domain.NewCustomScenario(map[domain.AssetClass]float64{
		domain.AssetForeignStock: -1.5,
	})
	holdings := []domain.Holding{
		{AssetClass: domain.AssetForeignStock, Value: 100_000},
	}
	result := Apply(scenario, holdings)

	if result.Holdings[0].ValueAfter != 0 {
		t.Errorf("expected floored value 0, got %f", result.Holdings[0].ValueAfter)
	}
	if result.Holdings[0].Loss != 100_000 {
		t.Errorf("loss capped at full value, got %f", result.Holdings[0].Loss)
	}
}

func TestApply_BondGainsCountAsLossMagnitude(t *testing.T) {
	// Dotcom moves domestic bonds +5% and foreign bonds +3%; the moves
	// still count toward TotalLoss by magnitude.
	holdings := []domain.Holding{
		{AssetClass: domain.AssetDomesticBond, Value: 1_000_000},
		{AssetClass: domain.AssetForeignBond, Value: 500_000},
	}
	result := Apply(domain.ScenarioConfigDotcom, holdings)

	if !almostEqual(result.TotalAfter, 1_050_000+515_000, 1e-6) {
		t.Errorf("expected total after 1565000, got %f", result.TotalAfter)
	}
	if !almostEqual(result.TotalLoss, 65_000, 1e-6) {
		t.Errorf("expected loss 65000, got %f", result.TotalLoss)
	}
	if result.TotalLoss < 0 || result.TotalLoss > result.TotalBefore {
		t.Errorf("loss %f outside [0, %f]", result.TotalLoss, result.TotalBefore)
	}
}

func TestApply_TotalLossWithinBounds(t *testing.T) {
	holdings := []domain.Holding{
		{AssetClass: domain.AssetDomesticStock, Value: 400_000},
		{AssetClass: domain.AssetForeignStock, Value: 300_000},
		{AssetClass: domain.AssetDomesticBond, Value: 200_000},
		{AssetClass: domain.AssetREIT, Value: 100_000},
	}
	for _, result := range ApplyAll(holdings) {
		if result.TotalLoss < 0 || result.TotalLoss > result.TotalBefore {
			t.Errorf("%s: loss %f outside [0, %f]",
				result.Scenario.ScenarioID, result.TotalLoss, result.TotalBefore)
		}
		for _, hi := range result.Holdings {
			if hi.Loss < 0 || hi.Loss > hi.ValueBefore {
				t.Errorf("%s/%s: holding loss %f outside [0, %f]",
					result.Scenario.ScenarioID, hi.AssetClass, hi.Loss, hi.ValueBefore)
			}
		}
	}
}

func TestApply_EmptyPortfolio(t *testing.T) {
	result := Apply(domain.ScenarioConfigCovid, nil)
	if result.TotalBefore != 0 || result.TotalAfter != 0 || result.LossFraction != 0 {
		t.Errorf("expected zero result, got %+v", result)
	}
	if len(result.Recommendations) != 0 {
		t.Errorf("expected no recommendations, got %v", result.Recommendations)
	}
}

func TestApply_Recommendations(t *testing.T) {
	// All-equity portfolio under Lehman loses >40% and is fully concentrated.
	holdings := []domain.Holding{
		{AssetClass: domain.AssetForeignStock, Value: 1_000_000},
	}
	result := Apply(domain.ScenarioConfigLehman, holdings)

	joined := strings.Join(result.Recommendations, "\n")
	if !strings.Contains(joined, "high_risk") {
		t.Errorf("expected high_risk recommendation, got %v", result.Recommendations)
	}
	if !strings.Contains(joined, "concentration") {
		t.Errorf("expected concentration recommendation, got %v", result.Recommendations)
	}
	if !strings.Contains(joined, "liquidity") {
		t.Errorf("expected liquidity recommendation, got %v", result.Recommendations)
	}
}

func TestApply_BalancedPortfolioNoHighRisk(t *testing.T) {
	holdings := []domain.Holding{
		{AssetClass: domain.AssetForeignStock, Value: 300_000},
		{AssetClass: domain.AssetDomesticBond, Value: 700_000},
	}
	result := Apply(domain.ScenarioConfigCovid, holdings)

	for _, rec := range result.Recommendations {
		if strings.Contains(rec, "high_risk") {
			t.Errorf("unexpected high_risk for bond-heavy portfolio: %v", result.Recommendations)
		}
	}
}

func TestApplyAll_SortedWorstFirst(t *testing.T) {
	holdings := []domain.Holding{
		{AssetClass: domain.AssetDomesticStock, Value: 500_000},
		{AssetClass: domain.AssetForeignStock, Value: 500_000},
	}
	results := ApplyAll(holdings)

	if len(results) != len(domain.Scenarios()) {
		t.Fatalf("expected %d results, got %d", len(domain.Scenarios()), len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].LossFraction > results[i-1].LossFraction {
			t.Fatal("results not sorted worst-first")
		}
	}
}
