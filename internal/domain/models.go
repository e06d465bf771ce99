package domain

// BillItem is a single canonical line item extracted from a bill page.
type BillItem struct {
	Name     string  `json:"item_name"`
	Quantity float64 `json:"item_quantity"`
	Rate     float64 `json:"item_rate"`
	Amount   float64 `json:"item_amount"`
}

// Record returns the item in the loosely-typed shape the LLM produces, so that
// canonical items can be fed back through validation unchanged.
func (b BillItem) Record() map[string]any {
	return map[string]any{
		"item_name":     b.Name,
		"item_quantity": b.Quantity,
		"item_rate":     b.Rate,
		"item_amount":   b.Amount,
	}
}

// Page holds the items extracted from one accepted (deduplicated) page.
type Page struct {
	PageNo    string     `json:"page_no"`
	PageType  PageType   `json:"page_type"`
	BillItems []BillItem `json:"bill_items"`
}

// TokenUsage accumulates LLM token counters across a single extraction.
type TokenUsage struct {
	Total  int64 `json:"total_tokens"`
	Input  int64 `json:"input_tokens"`
	Output int64 `json:"output_tokens"`
}

// Add returns the element-wise sum of u and o.
func (u TokenUsage) Add(o TokenUsage) TokenUsage {
	return TokenUsage{
		Total:  u.Total + o.Total,
		Input:  u.Input + o.Input,
		Output: u.Output + o.Output,
	}
}

// Totals are the document-level amounts found by the totals extraction call.
type Totals struct {
	Subtotal   *float64 `json:"subtotal"`
	Discount   *float64 `json:"discount"`
	Tax        *float64 `json:"tax"`
	FinalTotal float64  `json:"final_total"`
}

// ExtractionData is the line-item payload of an ExtractionResult.
type ExtractionData struct {
	PagewiseLineItems []Page `json:"pagewise_line_items"`
	TotalItemCount    int    `json:"total_item_count"`
}

// ExtractionResult is the response of one extraction request.
type ExtractionResult struct {
	IsSuccess  bool           `json:"is_success"`
	TokenUsage TokenUsage     `json:"token_usage"`
	Data       ExtractionData `json:"data"`
	Totals     Totals         `json:"totals"`
}
