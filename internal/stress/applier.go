// Package stress applies historical crisis scenarios to portfolios.
package stress

import (
	"math"
	"sort"

	"portfolio-sim-lab/internal/domain"
)

// Impact thresholds for the recommendation rules.
const (
	highRiskLossFraction      = 0.40
	concentrationMaxWeight    = 0.50
	emergencyFundLossFraction = 0.25
)

// HoldingImpact is the per-holding outcome of a stress scenario.
type HoldingImpact struct {
	Ticker      string            `json:"ticker"`
	AssetClass  domain.AssetClass `json:"asset_class"`
	ValueBefore float64           `json:"value_before"`
	ValueAfter  float64           `json:"value_after"`
	Impact      float64           `json:"impact"` // fractional return applied
	Loss        float64           `json:"loss"`   // value * |impact|, capped at value
}

// ScenarioImpact is the full result of applying one crisis scenario.
type ScenarioImpact struct {
	Scenario        domain.CrisisScenario `json:"scenario"`
	TotalBefore     float64               `json:"total_before"`
	TotalAfter      float64               `json:"total_after"`
	TotalLoss       float64               `json:"total_loss"`
	LossFraction    float64               `json:"loss_fraction"`
	Holdings        []HoldingImpact       `json:"holdings"`
	Recommendations []string              `json:"recommendations"`
}

// Apply stresses the holdings with the scenario's per-class impact table.
// Classes absent from the table take domain.DefaultImpact. Post-stress
// values floor at zero. Loss is the magnitude of each holding's move,
// value * |impact| capped at the holding's value, so TotalLoss always sits
// in [0, TotalBefore].
func Apply(scenario domain.CrisisScenario, holdings []domain.Holding) *ScenarioImpact {
	result := &ScenarioImpact{Scenario: scenario}

	weights := map[domain.AssetClass]float64{}
	for _, h := range holdings {
		if h.Value <= 0 {
			continue
		}
		impact, ok := scenario.AssetImpacts[h.AssetClass]
		if !ok {
			impact = domain.DefaultImpact
		}

		after := h.Value * (1 + impact)
		if after < 0 {
			after = 0
		}
		loss := h.Value * math.Abs(impact)
		if loss > h.Value {
			loss = h.Value
		}
		hi := HoldingImpact{
			Ticker:      h.Ticker,
			AssetClass:  h.AssetClass,
			ValueBefore: h.Value,
			ValueAfter:  after,
			Impact:      impact,
			Loss:        loss,
		}
		result.Holdings = append(result.Holdings, hi)
		result.TotalBefore += h.Value
		result.TotalAfter += after
		result.TotalLoss += loss
		weights[h.AssetClass] += h.Value
	}

	if result.TotalBefore > 0 {
		result.LossFraction = result.TotalLoss / result.TotalBefore
	}

	result.Recommendations = recommend(result, weights)
	return result
}

// ApplyAll stresses the holdings under every predefined scenario, worst
// loss first.
func ApplyAll(holdings []domain.Holding) []*ScenarioImpact {
	scenarios := domain.Scenarios()
	results := make([]*ScenarioImpact, 0, len(scenarios))
	for _, s := range scenarios {
		results = append(results, Apply(s, holdings))
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].LossFraction > results[j].LossFraction
	})
	return results
}

// recommend derives plain-language advice from the stressed result.
func recommend(result *ScenarioImpact, classValues map[domain.AssetClass]float64) []string {
	var recs []string
	if result.TotalBefore == 0 {
		return recs
	}

	if result.LossFraction > highRiskLossFraction {
		recs = append(recs, "high_risk: projected loss exceeds 40% of portfolio value; consider raising the bond allocation")
	}

	for class, value := range classValues {
		if value/result.TotalBefore > concentrationMaxWeight {
			recs = append(recs, "concentration: more than half the portfolio sits in "+string(class)+"; diversify across asset classes")
			break
		}
	}

	if result.LossFraction > emergencyFundLossFraction {
		recs = append(recs, "liquidity: keep an emergency fund in cash so stressed assets need not be sold at the bottom")
	}
	return recs
}
