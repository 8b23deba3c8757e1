package models

// AnalysisResult is the provider's parameter payload after parsing. All
// five top-level sections must be present for the result to be usable.
type AnalysisResult struct {
	MarketAnalysis          MarketAnalysis          `json:"marketAnalysis"`
	Parameters              StrategyParameters      `json:"parameters"`
	StrategyRecommendations StrategyRecommendations `json:"strategyRecommendations"`
	RiskAssessment          RiskAssessment          `json:"riskAssessment"`
	Reasoning               string                  `json:"reasoning"`
}

// MarketAnalysis is the provider's qualitative read of the session.
type MarketAnalysis struct {
	Volatility  string `json:"volatility"`
	Liquidity   string `json:"liquidity"`
	FundingRate string `json:"fundingRate"`
	Trend       string `json:"trend"`
	Summary     string `json:"summary"`
}

// StrategyParameters are the Avellaneda-Stoikov model inputs. Kappa and
// TargetInventory are carried for reporting but unused by the calculator.
type StrategyParameters struct {
	Gamma               float64 `json:"gamma"`
	Kappa               float64 `json:"kappa"`
	Sigma               float64 `json:"sigma"`
	TimeHorizon         float64 `json:"timeHorizon"` // minutes
	TargetInventory     float64 `json:"targetInventory"`
	InventoryRiskWeight float64 `json:"inventoryRiskWeight"`
}

// StrategyRecommendations bound the quoting output.
type StrategyRecommendations struct {
	MinSpread   float64 `json:"minSpread"`
	MaxSpread   float64 `json:"maxSpread"`
	MaxPosition float64 `json:"maxPosition"` // contracts per market
	Notes       string  `json:"notes"`
}

type RiskAssessment struct {
	Level   string   `json:"level"` // "LOW", "MEDIUM", "HIGH"
	Factors []string `json:"factors"`
}
