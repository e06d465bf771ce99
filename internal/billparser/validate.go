package billparser

import (
	"strings"

	"medbill/internal/domain"
)

// ValidateItems coerces the raw "bill_items" value returned by the LLM into
// canonical BillItems. Records that are not objects, have an empty name or
// lack a numeric amount are dropped; quantity and rate fall back to 0.
// Output order follows input order.
func ValidateItems(raw any) []domain.BillItem {
	var records []any
	switch r := raw.(type) {
	case []any:
		records = r
	case []map[string]any:
		records = make([]any, len(r))
		for i := range r {
			records[i] = r[i]
		}
	}

	items := make([]domain.BillItem, 0, len(records))
	for _, rec := range records {
		if item, ok := validateItem(rec); ok {
			items = append(items, item)
		}
	}
	return items
}

func validateItem(rec any) (domain.BillItem, bool) {
	fields, ok := rec.(map[string]any)
	if !ok {
		return domain.BillItem{}, false
	}

	name := strings.TrimSpace(stringify(fields["item_name"]))
	if name == "" {
		return domain.BillItem{}, false
	}

	// amount must come from the document; never synthesize it here
	amount, ok := parseNumber(fields["item_amount"])
	if !ok {
		return domain.BillItem{}, false
	}

	return domain.BillItem{
		Name:     name,
		Quantity: nonNegativeOrZero(fields["item_quantity"]),
		Rate:     nonNegativeOrZero(fields["item_rate"]),
		Amount:   amount,
	}, true
}
