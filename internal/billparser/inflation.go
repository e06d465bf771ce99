package billparser

import (
	"math"
	"strings"

	"medbill/internal/domain"
)

// Thresholds tuned for typical medical bill magnitudes.
const (
	inflatedAmount      = 20000.0
	inflatedRate        = 10000.0
	highAmount          = 8000.0
	fewUnits            = 5.0
	scaleDivisor        = 100.0
	divergenceTolerance = 0.25
	bedToken            = "bed"
)

// IsSuspect reports whether an item's amounts look implausibly large.
// Room and bed charges are exempt from the plain high-amount rule.
func IsSuspect(item domain.BillItem) bool {
	if item.Amount > inflatedAmount && item.Quantity <= fewUnits {
		return true
	}
	if item.Rate > inflatedRate {
		return true
	}
	if item.Amount > highAmount && !strings.Contains(strings.ToLower(item.Name), bedToken) {
		return true
	}
	return false
}

// AutoFix corrects scale errors on a suspect item, assuming a misplaced
// decimal point, then trusts rate×quantity over a widely divergent amount.
func AutoFix(item domain.BillItem) domain.BillItem {
	if item.Rate > inflatedRate {
		item.Rate /= scaleDivisor
	}
	if item.Amount > inflatedAmount {
		item.Amount /= scaleDivisor
	}

	expected := item.Rate * item.Quantity
	if expected > 0 && math.Abs(expected-item.Amount) > item.Amount*divergenceTolerance {
		item.Amount = expected
	}
	return item
}
