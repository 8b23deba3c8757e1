package analysis

import (
	"encoding/json"
	"strings"

	"HyperMaker/internal/domain/models"
)

const outputSchema = `{
  "marketAnalysis": {"volatility": str, "liquidity": str, "fundingRate": str, "trend": str, "summary": str},
  "parameters": {"gamma": float, "kappa": float, "sigma": float, "timeHorizon": int, "targetInventory": float, "inventoryRiskWeight": float},
  "riskAssessment": {"level": "LOW|MEDIUM|HIGH", "factors": [str, ...]},
  "strategyRecommendations": {"minSpread": float, "maxSpread": float, "maxPosition": int, "notes": str},
  "reasoning": str
}`

// BuildBackgroundPrompt renders the instance background: the symbol list,
// the snapshot array as indented JSON, and the output schema the provider
// must answer with. Identical snapshots always render identical prompts.
func BuildBackgroundPrompt(snapshots []models.SymbolSnapshot) (string, error) {
	payload, err := json.MarshalIndent(snapshots, "", "  ")
	if err != nil {
		return "", err
	}
	markets := make([]string, 0, len(snapshots))
	for _, snap := range snapshots {
		markets = append(markets, snap.Symbol)
	}

	var b strings.Builder
	b.WriteString("# Hyperliquid Avellaneda Parameters\n\n")
	b.WriteString("You run a market-neutral strategy that refreshes Avellaneda-Stoikov parameters before each cycle. ")
	b.WriteString("Generate realistic parameters for the current session based on the portfolio inputs below.\n\n")
	b.WriteString("## Inputs\n")
	b.WriteString("Markets: " + strings.Join(markets, ", ") + "\n")
	b.WriteString("Snapshot (JSON):\n" + string(payload) + "\n\n")
	b.WriteString("## Output Requirements\n")
	b.WriteString("Respond with **only** valid JSON using this structure:\n")
	b.WriteString(outputSchema + "\n\n")
	b.WriteString("Constraints: gamma 0.05-1.0, sigma 0.01-1.0, timeHorizon in minutes (15-180), spreads between 0.001 and 0.05, ")
	b.WriteString("maxPosition 1-10 contracts. Tune these values using the snapshot data and risk intuition.")
	return b.String(), nil
}
