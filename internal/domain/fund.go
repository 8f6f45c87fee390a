package domain

// FundDefinition describes a fund for which synthetic NAV series can be
// generated.
type FundDefinition struct {
	FundID        string
	Name          string
	AssetClass    AssetClass
	BaseReturn    float64
	Volatility    float64
	DividendYield float64
}

// FundCatalog is the built-in fund universe.
var FundCatalog = map[string]FundDefinition{
	"FND001": {FundID: "FND001", Name: "All Country Equity Index", AssetClass: AssetForeignStock, BaseReturn: 0.08, Volatility: 0.18, DividendYield: 0.020},
	"FND002": {FundID: "FND002", Name: "US Equity Index (S&P 500)", AssetClass: AssetForeignStock, BaseReturn: 0.10, Volatility: 0.20, DividendYield: 0.015},
	"FND003": {FundID: "FND003", Name: "Developed Markets Equity Index", AssetClass: AssetForeignStock, BaseReturn: 0.07, Volatility: 0.17, DividendYield: 0.018},
	"FND004": {FundID: "FND004", Name: "Domestic Equity Index (TOPIX)", AssetClass: AssetDomesticStock, BaseReturn: 0.05, Volatility: 0.16, DividendYield: 0.022},
	"FND005": {FundID: "FND005", Name: "Emerging Markets Equity Index", AssetClass: AssetEmergingStock, BaseReturn: 0.06, Volatility: 0.25, DividendYield: 0.025},
	"FND006": {FundID: "FND006", Name: "Developed Markets Bond Index", AssetClass: AssetForeignBond, BaseReturn: 0.02, Volatility: 0.06, DividendYield: 0.030},
	"FND007": {FundID: "FND007", Name: "Domestic Bond Index", AssetClass: AssetDomesticBond, BaseReturn: 0.01, Volatility: 0.03, DividendYield: 0.010},
	"FND008": {FundID: "FND008", Name: "Balanced 8-Asset Fund", AssetClass: AssetBalanced, BaseReturn: 0.04, Volatility: 0.10, DividendYield: 0.020},
}

// FundPricePoint is one synthetic daily NAV observation.
type FundPricePoint struct {
	FundID      string
	TimestampMs int64
	NAV         float64
	Dividend    float64
}
