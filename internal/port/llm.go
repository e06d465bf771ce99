package port

import (
	"context"

	"medbill/internal/domain"
)

// ChatCompletion is the raw content and usage of one JSON-mode chat call.
type ChatCompletion struct {
	Content   string
	Usage     domain.TokenUsage
	ModelUsed string
}

// ChatClient abstracts an LLM chat completion API that answers in JSON mode.
type ChatClient interface {
	CompleteJSON(ctx context.Context, system, user string) (*ChatCompletion, error)
}

// StructuredExtractor issues the bill-specific LLM calls. Malformed model
// output yields an empty object rather than an error; errors are reserved
// for transport failures.
type StructuredExtractor interface {
	ExtractLineItems(ctx context.Context, text string) (map[string]any, domain.TokenUsage, error)
	ExtractTotals(ctx context.Context, text string) (map[string]any, domain.TokenUsage, error)
	Refine(ctx context.Context, prompt string) (map[string]any, domain.TokenUsage, error)
}
