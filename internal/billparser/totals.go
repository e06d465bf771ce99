package billparser

import "medbill/internal/domain"

// TotalsFromObject reads the totals LLM response. Missing or non-numeric
// optional fields become null; a missing final total reads as 0.
func TotalsFromObject(obj map[string]any) domain.Totals {
	totals := domain.Totals{
		Subtotal: optionalNumber(obj["subtotal"]),
		Discount: optionalNumber(obj["discount"]),
		Tax:      optionalNumber(obj["tax"]),
	}
	if v, ok := parseNumber(obj["final_total"]); ok {
		totals.FinalTotal = v
	}
	return totals
}
