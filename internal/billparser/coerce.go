package billparser

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numberRe matches the numeric tokens OCR text and LLM output carry, e.g. "120", "45.50", "7.".
var numberRe = regexp.MustCompile(`\d+\.?\d*`)

// parseNumber coerces a loosely-typed JSON value into a finite float64.
// Booleans, nil and non-numeric strings are rejected.
func parseNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// nonNegativeOrZero parses v and falls back to 0 for anything unparseable or negative.
func nonNegativeOrZero(v any) float64 {
	f, ok := parseNumber(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// optionalNumber returns nil when v is absent or not numeric.
func optionalNumber(v any) *float64 {
	f, ok := parseNumber(v)
	if !ok {
		return nil
	}
	return &f
}

func stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(s)
	}
}
