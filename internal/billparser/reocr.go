package billparser

import (
	"strconv"
	"strings"

	"medbill/internal/domain"
)

// ReOCRSuspects re-derives the amount of every suspect item from the raw OCR
// lines, then runs AutoFix over all items. A suspect item whose first name
// token appears on no line with a number keeps its extracted amount.
func ReOCRSuspects(text string, items []domain.BillItem) []domain.BillItem {
	lines := strings.Split(text, "\n")
	out := make([]domain.BillItem, 0, len(items))
	for _, item := range items {
		if IsSuspect(item) {
			if amount, ok := amountFromLines(lines, item.Name); ok {
				item.Amount = amount
			}
		}
		out = append(out, AutoFix(item))
	}
	return out
}

// amountFromLines returns the last number on the last line mentioning the
// first token of name.
func amountFromLines(lines []string, name string) (float64, bool) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return 0, false
	}
	token := strings.ToLower(tokens[0])

	var amount float64
	found := false
	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line), token) {
			continue
		}
		nums := numberRe.FindAllString(line, -1)
		if len(nums) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(nums[len(nums)-1], 64)
		if err != nil {
			continue
		}
		if v > inflatedAmount {
			v /= scaleDivisor
		}
		amount, found = v, true
	}
	return amount, found
}
