package analysis

import (
	"encoding/json"
	"strings"

	"HyperMaker/internal/domain/apperror"
	"HyperMaker/internal/domain/models"
)

// A provider that omits the risk weight still gets the standard skew.
const defaultInventoryRiskWeight = 0.2

var requiredSections = []string{
	"marketAnalysis",
	"parameters",
	"strategyRecommendations",
	"riskAssessment",
	"reasoning",
}

// ParseAnalysis extracts the provider's JSON payload from a raw chat
// message. Fenced-code delimiter lines are dropped, the substring from the
// first "{" to the last "}" is parsed, and all five top-level sections
// must be present.
func ParseAnalysis(raw string) (*models.AnalysisResult, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.Contains(cleaned, "```") {
		lines := strings.Split(cleaned, "\n")
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			if strings.Contains(line, "```") {
				continue
			}
			kept = append(kept, line)
		}
		cleaned = strings.Join(kept, "\n")
	}

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, apperror.ParseError("provider response did not include a JSON payload")
	}
	payload := []byte(cleaned[start : end+1])

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(payload, &sections); err != nil {
		return nil, apperror.ParseError("provider response is not valid JSON").WithError(err)
	}
	for _, key := range requiredSections {
		if _, ok := sections[key]; !ok {
			return nil, apperror.ParseErrorf("provider response missing %q", key)
		}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return nil, apperror.ParseError("provider response does not match the expected shape").WithError(err)
	}

	var params map[string]json.RawMessage
	if err := json.Unmarshal(sections["parameters"], &params); err == nil {
		if _, ok := params["inventoryRiskWeight"]; !ok {
			result.Parameters.InventoryRiskWeight = defaultInventoryRiskWeight
		}
	}
	return &result, nil
}
