package domain

// CrisisScenario is a static stress-test definition: a one-shot fractional
// return per asset class plus how long the historical episode lasted and
// took to recover. Looked up by ID, never mutated.
type CrisisScenario struct {
	ScenarioID     string
	Name           string
	Description    string
	Period         string
	DurationMonths int
	RecoveryMonths int
	AssetImpacts   map[AssetClass]float64
}

// Scenario ID constants.
const (
	ScenarioLehman      = "lehman"
	ScenarioCovid       = "covid"
	ScenarioDotcom      = "dotcom"
	ScenarioJapanBubble = "japan_bubble"
	ScenarioCustom      = "custom"
)

// DefaultImpact applies to holdings whose asset class has no entry in a
// scenario's impact table. Stress testing degrades gracefully for
// unclassified holdings instead of erroring.
const DefaultImpact = -0.30

// Predefined crisis scenarios with historical impact data.
var (
	ScenarioConfigLehman = CrisisScenario{
		ScenarioID:     ScenarioLehman,
		Name:           "Global Financial Crisis (2008)",
		Description:    "Worldwide crash triggered by the September 2008 Lehman Brothers collapse",
		Period:         "Sep 2008 - Mar 2009",
		DurationMonths: 6,
		RecoveryMonths: 48,
		AssetImpacts: map[AssetClass]float64{
			AssetDomesticStock: -0.51,
			AssetForeignStock:  -0.57,
			AssetEmergingStock: -0.62,
			AssetDomesticBond:  0.02,
			AssetForeignBond:   -0.05,
			AssetREIT:          -0.65,
			AssetBalanced:      -0.35,
		},
	}

	ScenarioConfigCovid = CrisisScenario{
		ScenarioID:     ScenarioCovid,
		Name:           "COVID-19 Crash (2020)",
		Description:    "Pandemic-driven selloff of February-March 2020",
		Period:         "Feb 2020 - Mar 2020",
		DurationMonths: 1,
		RecoveryMonths: 6,
		AssetImpacts: map[AssetClass]float64{
			AssetDomesticStock: -0.31,
			AssetForeignStock:  -0.34,
			AssetEmergingStock: -0.32,
			AssetDomesticBond:  0.01,
			AssetForeignBond:   -0.02,
			AssetREIT:          -0.35,
			AssetBalanced:      -0.20,
		},
	}

	ScenarioConfigDotcom = CrisisScenario{
		ScenarioID:     ScenarioDotcom,
		Name:           "Dot-com Bust (2000)",
		Description:    "Collapse of the March 2000 technology bubble",
		Period:         "Mar 2000 - Oct 2002",
		DurationMonths: 31,
		RecoveryMonths: 84,
		AssetImpacts: map[AssetClass]float64{
			AssetDomesticStock: -0.63,
			AssetForeignStock:  -0.49,
			AssetEmergingStock: -0.55,
			AssetDomesticBond:  0.05,
			AssetForeignBond:   0.03,
			AssetREIT:          -0.20,
			AssetBalanced:      -0.30,
		},
	}

	ScenarioConfigJapanBubble = CrisisScenario{
		ScenarioID:     ScenarioJapanBubble,
		Name:           "Japan Bubble Burst (1990)",
		Description:    "Burst of the 1990 Japanese asset price bubble",
		Period:         "Jan 1990 - Aug 1992",
		DurationMonths: 32,
		RecoveryMonths: 360, // never fully recovered
		AssetImpacts: map[AssetClass]float64{
			AssetDomesticStock: -0.80,
			AssetForeignStock:  -0.20,
			AssetEmergingStock: -0.30,
			AssetDomesticBond:  0.10,
			AssetForeignBond:   0.05,
			AssetREIT:          -0.70,
			AssetBalanced:      -0.40,
		},
	}
)

// Scenarios returns all predefined crisis scenarios in a stable order.
func Scenarios() []CrisisScenario {
	return []CrisisScenario{
		ScenarioConfigLehman,
		ScenarioConfigCovid,
		ScenarioConfigDotcom,
		ScenarioConfigJapanBubble,
	}
}

// ScenarioByID looks up a predefined scenario.
func ScenarioByID(id string) (CrisisScenario, bool) {
	for _, s := range Scenarios() {
		if s.ScenarioID == id {
			return s, true
		}
	}
	return CrisisScenario{}, false
}

// NewCustomScenario builds a user-defined scenario from an impact table.
func NewCustomScenario(impacts map[AssetClass]float64) CrisisScenario {
	return CrisisScenario{
		ScenarioID:     ScenarioCustom,
		Name:           "Custom Scenario",
		Description:    "User-defined stress scenario",
		Period:         "Custom",
		DurationMonths: 6,
		RecoveryMonths: 24,
		AssetImpacts:   impacts,
	}
}
