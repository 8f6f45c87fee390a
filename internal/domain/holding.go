package domain

// Holding is a single position in a portfolio: a monetary value tagged with
// an asset class. ExpectedReturn/Volatility override the class profile when
// set.
type Holding struct {
	Ticker     string     `json:"ticker"`
	Name       string     `json:"name"`
	AssetClass AssetClass `json:"asset_class"`
	Value      float64    `json:"value"`

	ExpectedReturn *float64 `json:"expected_return,omitempty"`
	Volatility     *float64 `json:"volatility,omitempty"`
}

// Profile resolves the return/risk assumptions for this holding: explicit
// overrides first, then the class table, then the fallback profile.
func (h *Holding) Profile() ClassProfile {
	p := ProfileFor(h.AssetClass)
	if h.ExpectedReturn != nil {
		p.ExpectedReturn = *h.ExpectedReturn
	}
	if h.Volatility != nil {
		p.Volatility = *h.Volatility
	}
	return p
}

// PortfolioAggregate is the single (return, volatility) view of a set of
// holdings, fed to the path simulator.
type PortfolioAggregate struct {
	TotalValue     float64                `json:"total_value"`
	Weights        map[AssetClass]float64 `json:"weights"`
	Allocation     map[AssetClass]float64 `json:"allocation"`
	ExpectedReturn float64                `json:"expected_return"`
	Volatility     float64                `json:"volatility"`
	SharpeRatio    float64                `json:"sharpe_ratio"`
}

// PortfolioSnapshot is a persisted point-in-time copy of a user's holdings.
type PortfolioSnapshot struct {
	SnapshotID string    `json:"snapshot_id"`
	Owner      string    `json:"owner"`
	CreatedAt  int64     `json:"created_at"` // unix milliseconds
	Holdings   []Holding `json:"holdings"`
}
