package portfolio

import (
	"math"
	"sort"

	"portfolio-sim-lab/internal/domain"
)

// RebalanceThreshold is the minimum absolute weight drift that produces an
// action; smaller drifts are reported as holds.
const RebalanceThreshold = 0.01

// DefaultTargetAllocation is a conventional growth allocation used when the
// caller has no explicit target.
var DefaultTargetAllocation = map[domain.AssetClass]float64{
	domain.AssetDomesticStock: 0.20,
	domain.AssetForeignStock:  0.40,
	domain.AssetEmergingStock: 0.10,
	domain.AssetDomesticBond:  0.20,
	domain.AssetForeignBond:   0.10,
}

// RebalanceAction is one buy/sell/hold instruction for an asset class.
type RebalanceAction struct {
	AssetClass    domain.AssetClass `json:"asset_class"`
	Action        string            `json:"action"` // "buy", "sell", "hold"
	CurrentWeight float64           `json:"current_weight"`
	TargetWeight  float64           `json:"target_weight"`
	Amount        float64           `json:"amount"` // monetary value to move, >= 0
}

// PlanRebalance compares current holdings to a target allocation and emits
// one action per class present in either side, ordered by class name. A nil
// target uses DefaultTargetAllocation.
func PlanRebalance(holdings []domain.Holding, target map[domain.AssetClass]float64) []RebalanceAction {
	if target == nil {
		target = DefaultTargetAllocation
	}
	agg := Aggregate(holdings, domain.DefaultRiskFreeRate)
	if agg.TotalValue == 0 {
		return nil
	}

	classSet := map[domain.AssetClass]struct{}{}
	for c := range agg.Weights {
		classSet[c] = struct{}{}
	}
	for c := range target {
		classSet[c] = struct{}{}
	}
	classes := make([]domain.AssetClass, 0, len(classSet))
	for c := range classSet {
		classes = append(classes, c)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	actions := make([]RebalanceAction, 0, len(classes))
	for _, c := range classes {
		current := agg.Weights[c]
		want := target[c]
		drift := want - current

		a := RebalanceAction{
			AssetClass:    c,
			CurrentWeight: current,
			TargetWeight:  want,
			Amount:        math.Abs(drift) * agg.TotalValue,
		}
		switch {
		case math.Abs(drift) < RebalanceThreshold:
			a.Action = "hold"
			a.Amount = 0
		case drift > 0:
			a.Action = "buy"
		default:
			a.Action = "sell"
		}
		actions = append(actions, a)
	}
	return actions
}
