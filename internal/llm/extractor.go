package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"medbill/internal/domain"
	"medbill/internal/port"
)

// Extractor implements port.StructuredExtractor on top of a JSON-mode chat client.
type Extractor struct {
	client port.ChatClient
}

// NewExtractor creates an Extractor.
func NewExtractor(client port.ChatClient) *Extractor {
	return &Extractor{client: client}
}

// ExtractLineItems asks for the page type and line items of one page.
func (e *Extractor) ExtractLineItems(ctx context.Context, text string) (map[string]any, domain.TokenUsage, error) {
	return e.callJSON(ctx, LineItemSystemPrompt, BuildLineItemPrompt(text))
}

// ExtractTotals asks for the subtotal, discount, tax and final total of the whole document.
func (e *Extractor) ExtractTotals(ctx context.Context, text string) (map[string]any, domain.TokenUsage, error) {
	return e.callJSON(ctx, TotalsSystemPrompt, BuildTotalsPrompt(text))
}

// Refine sends a single-item correction prompt without a system message.
func (e *Extractor) Refine(ctx context.Context, prompt string) (map[string]any, domain.TokenUsage, error) {
	return e.callJSON(ctx, "", prompt)
}

func (e *Extractor) callJSON(ctx context.Context, system, user string) (map[string]any, domain.TokenUsage, error) {
	resp, err := e.client.CompleteJSON(ctx, system, user)
	if err != nil {
		return nil, domain.TokenUsage{}, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return DecodeObject(resp.Content), resp.Usage, nil
}

// DecodeObject parses model output as a JSON object. Anything else, including
// valid JSON that is not an object, yields an empty object. Markdown code
// fences around the object are tolerated.
func DecodeObject(content string) map[string]any {
	content = stripCodeFence(content)

	dec := json.NewDecoder(strings.NewReader(content))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil || out == nil {
		log.Printf("llm.DecodeObject: unparseable model output, using empty object: %s", truncate(content, 200))
		return map[string]any{}
	}
	return out
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
