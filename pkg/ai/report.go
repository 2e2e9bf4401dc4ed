package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"insuria/pkg/domain"
)

// parseDamageReport strips any markdown fencing the model wrapped around the
// JSON and validates the required fields. A report missing its title, parts,
// or total is rejected rather than passed through half-empty.
func parseDamageReport(content string) (domain.DamageReport, error) {
	jsonText := strings.ReplaceAll(content, "```json", "")
	jsonText = strings.ReplaceAll(jsonText, "```", "")
	jsonText = strings.TrimSpace(jsonText)

	var report domain.DamageReport
	if err := json.Unmarshal([]byte(jsonText), &report); err != nil {
		return domain.DamageReport{}, fmt.Errorf("parse damage report: %w", err)
	}
	if strings.TrimSpace(report.RiskTitle) == "" {
		return domain.DamageReport{}, fmt.Errorf("damage report missing risk_title")
	}
	if len(report.Parts) == 0 {
		return domain.DamageReport{}, fmt.Errorf("damage report missing parts")
	}
	for i, part := range report.Parts {
		if strings.TrimSpace(part.Name) == "" {
			return domain.DamageReport{}, fmt.Errorf("damage report part %d missing name", i)
		}
	}
	if strings.TrimSpace(report.TotalEstimate) == "" {
		return domain.DamageReport{}, fmt.Errorf("damage report missing total_estimate")
	}
	return report, nil
}
