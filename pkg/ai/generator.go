package ai

import (
	"context"

	"insuria/pkg/domain"
)

// TextGenerator produces a single assistant response for one system/user
// prompt pair. Each call is stateless; conversation history is not sent.
type TextGenerator interface {
	GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// DamageAnalyzer turns an inline-encoded damage photo into a structured
// repair-estimate report.
type DamageAnalyzer interface {
	AnalyzeDamage(ctx context.Context, imageDataURL string) (domain.DamageReport, error)
}
