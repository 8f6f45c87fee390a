package domain

// AssetClass identifies one of the closed set of investable asset classes.
type AssetClass string

// Asset class constants.
const (
	AssetDomesticStock AssetClass = "domestic_stock"
	AssetForeignStock  AssetClass = "foreign_stock"
	AssetEmergingStock AssetClass = "emerging_stock"
	AssetDomesticBond  AssetClass = "domestic_bond"
	AssetForeignBond   AssetClass = "foreign_bond"
	AssetREIT          AssetClass = "reit"
	AssetBalanced      AssetClass = "balanced"
)

// DefaultRiskFreeRate approximates the domestic government bond yield (annual).
const DefaultRiskFreeRate = 0.005

// ClassProfile holds the long-run return/risk assumptions for an asset class.
type ClassProfile struct {
	Name           string
	ExpectedReturn float64
	Volatility     float64
}

// ClassProfiles is the canonical return/volatility table per asset class.
var ClassProfiles = map[AssetClass]ClassProfile{
	AssetDomesticStock: {Name: "Domestic Equity", ExpectedReturn: 0.05, Volatility: 0.18},
	AssetForeignStock:  {Name: "Developed Equity", ExpectedReturn: 0.07, Volatility: 0.20},
	AssetEmergingStock: {Name: "Emerging Equity", ExpectedReturn: 0.08, Volatility: 0.25},
	AssetDomesticBond:  {Name: "Domestic Bond", ExpectedReturn: 0.01, Volatility: 0.03},
	AssetForeignBond:   {Name: "Developed Bond", ExpectedReturn: 0.03, Volatility: 0.08},
	AssetREIT:          {Name: "REIT", ExpectedReturn: 0.04, Volatility: 0.15},
	AssetBalanced:      {Name: "Balanced", ExpectedReturn: 0.04, Volatility: 0.10},
}

// FallbackClassProfile is used for asset classes not present in ClassProfiles.
// Unknown classes degrade to this profile instead of failing.
var FallbackClassProfile = ClassProfile{Name: "Unclassified", ExpectedReturn: 0.05, Volatility: 0.15}

// ProfileFor returns the profile for an asset class, falling back to
// FallbackClassProfile for unknown classes.
func ProfileFor(class AssetClass) ClassProfile {
	if p, ok := ClassProfiles[class]; ok {
		return p
	}
	return FallbackClassProfile
}

// KnownClass reports whether class is part of the canonical table.
func KnownClass(class AssetClass) bool {
	_, ok := ClassProfiles[class]
	return ok
}

// defaultCorrelation is assumed between class pairs absent from the table.
const defaultCorrelation = 0.5

// correlations is the canonical cross-asset-class correlation table.
// Symmetric, diagonal 1.0.
var correlations = map[AssetClass]map[AssetClass]float64{
	AssetDomesticStock: {AssetDomesticStock: 1.0, AssetForeignStock: 0.7, AssetEmergingStock: 0.6, AssetDomesticBond: -0.1, AssetForeignBond: 0.1, AssetREIT: 0.5, AssetBalanced: 0.7},
	AssetForeignStock:  {AssetDomesticStock: 0.7, AssetForeignStock: 1.0, AssetEmergingStock: 0.8, AssetDomesticBond: -0.2, AssetForeignBond: 0.2, AssetREIT: 0.6, AssetBalanced: 0.8},
	AssetEmergingStock: {AssetDomesticStock: 0.6, AssetForeignStock: 0.8, AssetEmergingStock: 1.0, AssetDomesticBond: -0.1, AssetForeignBond: 0.1, AssetREIT: 0.5, AssetBalanced: 0.7},
	AssetDomesticBond:  {AssetDomesticStock: -0.1, AssetForeignStock: -0.2, AssetEmergingStock: -0.1, AssetDomesticBond: 1.0, AssetForeignBond: 0.5, AssetREIT: 0.0, AssetBalanced: 0.2},
	AssetForeignBond:   {AssetDomesticStock: 0.1, AssetForeignStock: 0.2, AssetEmergingStock: 0.1, AssetDomesticBond: 0.5, AssetForeignBond: 1.0, AssetREIT: 0.2, AssetBalanced: 0.4},
	AssetREIT:          {AssetDomesticStock: 0.5, AssetForeignStock: 0.6, AssetEmergingStock: 0.5, AssetDomesticBond: 0.0, AssetForeignBond: 0.2, AssetREIT: 1.0, AssetBalanced: 0.5},
	AssetBalanced:      {AssetDomesticStock: 0.7, AssetForeignStock: 0.8, AssetEmergingStock: 0.7, AssetDomesticBond: 0.2, AssetForeignBond: 0.4, AssetREIT: 0.5, AssetBalanced: 1.0},
}

// Correlation returns the correlation between two asset classes.
// Identical classes correlate 1.0; unknown pairs fall back to 0.5.
func Correlation(a, b AssetClass) float64 {
	if a == b {
		return 1.0
	}
	if row, ok := correlations[a]; ok {
		if c, ok := row[b]; ok {
			return c
		}
	}
	return defaultCorrelation
}
