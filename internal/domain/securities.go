package domain

import "strings"

// SecurityInfo describes one entry of the securities master table.
type SecurityInfo struct {
	Ticker       string     `json:"ticker"`
	Name         string     `json:"name"`
	AssetClass   AssetClass `json:"asset_class"`
	ExpenseRatio float64    `json:"expense_ratio"`
}

// SecuritiesMaster maps tickers to security metadata.
var SecuritiesMaster = map[string]SecurityInfo{
	"slim_topix":         {Ticker: "slim_topix", Name: "Slim Domestic Equity (TOPIX)", AssetClass: AssetDomesticStock, ExpenseRatio: 0.00143},
	"slim_sp500":         {Ticker: "slim_sp500", Name: "Slim US Equity (S&P 500)", AssetClass: AssetForeignStock, ExpenseRatio: 0.00093},
	"slim_allcountry":    {Ticker: "slim_allcountry", Name: "Slim All Country Equity", AssetClass: AssetForeignStock, ExpenseRatio: 0.00113},
	"slim_emerging":      {Ticker: "slim_emerging", Name: "Slim Emerging Markets Equity", AssetClass: AssetEmergingStock, ExpenseRatio: 0.00187},
	"slim_domestic_bond": {Ticker: "slim_domestic_bond", Name: "Slim Domestic Bond", AssetClass: AssetDomesticBond, ExpenseRatio: 0.00132},
	"slim_foreign_bond":  {Ticker: "slim_foreign_bond", Name: "Slim Developed Bond", AssetClass: AssetForeignBond, ExpenseRatio: 0.00154},
	"slim_reit":          {Ticker: "slim_reit", Name: "Slim Domestic REIT", AssetClass: AssetREIT, ExpenseRatio: 0.00187},
	"slim_balanced":      {Ticker: "slim_balanced", Name: "Slim Balanced (8 Assets)", AssetClass: AssetBalanced, ExpenseRatio: 0.00143},
	"v_sp500":            {Ticker: "v_sp500", Name: "V S&P 500 Fund", AssetClass: AssetForeignStock, ExpenseRatio: 0.00093},
	"total_us":           {Ticker: "total_us", Name: "Total US Equity Fund", AssetClass: AssetForeignStock, ExpenseRatio: 0.00162},
}

// AssetClassForTicker resolves a ticker's asset class. Unknown tickers
// default to foreign equity.
func AssetClassForTicker(ticker string) AssetClass {
	if s, ok := SecuritiesMaster[ticker]; ok {
		return s.AssetClass
	}
	return AssetForeignStock
}

// SecurityByTicker returns the master entry for a ticker.
func SecurityByTicker(ticker string) (SecurityInfo, bool) {
	s, ok := SecuritiesMaster[ticker]
	return s, ok
}

// SearchSecurities returns up to limit securities whose ticker or name
// contains the query, case-insensitively.
func SearchSecurities(query string, limit int) []SecurityInfo {
	q := strings.ToLower(query)
	var results []SecurityInfo
	for _, s := range SecuritiesMaster {
		if strings.Contains(strings.ToLower(s.Ticker), q) || strings.Contains(strings.ToLower(s.Name), q) {
			results = append(results, s)
			if limit > 0 && len(results) >= limit {
				break
			}
		}
	}
	return results
}
