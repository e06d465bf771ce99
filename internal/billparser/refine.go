package billparser

import (
	"context"
	"log"
	"slices"

	"medbill/internal/domain"
	"medbill/internal/llm"
	"medbill/internal/port"
)

// DefaultRefineLimit caps how many suspect items per page are escalated to the LLM.
const DefaultRefineLimit = 6

// correctionFields maps refinement response keys onto item fields.
var correctionFields = []string{"quantity", "rate", "amount"}

// Refiner escalates items that are still suspect after auto-correction to a
// second, single-item LLM call.
type Refiner struct {
	extractor port.StructuredExtractor
	limit     int
}

// NewRefiner creates a Refiner. A non-positive limit selects DefaultRefineLimit.
func NewRefiner(extractor port.StructuredExtractor, limit int) *Refiner {
	if limit <= 0 {
		limit = DefaultRefineLimit
	}
	return &Refiner{extractor: extractor, limit: limit}
}

// Refine sends up to limit suspect items, in page order, for correction and
// applies every numeric field the model returns. When nothing is suspect no
// LLM call is made. A failed call leaves its item unchanged.
func (r *Refiner) Refine(ctx context.Context, items []domain.BillItem, text string) ([]domain.BillItem, domain.TokenUsage) {
	var usage domain.TokenUsage

	suspects := make([]int, 0, r.limit)
	for i := range items {
		if len(suspects) == r.limit {
			break
		}
		if IsSuspect(items[i]) {
			suspects = append(suspects, i)
		}
	}
	if len(suspects) == 0 {
		return items, usage
	}

	refined := slices.Clone(items)
	for _, i := range suspects {
		out, u, err := r.extractor.Refine(ctx, llm.BuildRefinePrompt(refined[i].Name, text))
		if err != nil {
			log.Printf("billparser.Refiner: refining %q failed, keeping previous values: %v", refined[i].Name, err)
			continue
		}
		usage = usage.Add(u)
		applyCorrection(&refined[i], out)
	}
	return refined, usage
}

func applyCorrection(item *domain.BillItem, out map[string]any) {
	for _, key := range correctionFields {
		raw, present := out[key]
		if !present {
			continue
		}
		v, ok := parseNumber(raw)
		if !ok {
			continue
		}
		switch key {
		case "quantity":
			item.Quantity = v
		case "rate":
			item.Rate = v
		case "amount":
			item.Amount = v
		}
	}
}
