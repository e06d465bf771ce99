package billparser

import (
	"crypto/sha256"
	"strings"
	"unicode"
)

// DedupPages drops page texts that repeat an earlier accepted page, either as
// the same text (ignoring whitespace and case) or as the same sequence of
// numbers. The first occurrence wins and order is preserved.
func DedupPages(texts []string) []string {
	seenText := make(map[[sha256.Size]byte]bool, len(texts))
	seenDigits := make(map[[sha256.Size]byte]bool, len(texts))
	clean := make([]string, 0, len(texts))

	for _, t := range texts {
		textKey := sha256.Sum256([]byte(foldText(t)))
		digits := strings.Join(numberRe.FindAllString(t, -1), "")
		digitKey := sha256.Sum256([]byte(digits))

		// a page without numbers fingerprints as the empty sequence, so only
		// the first such page survives
		if seenText[textKey] || seenDigits[digitKey] {
			continue
		}

		seenText[textKey] = true
		seenDigits[digitKey] = true
		clean = append(clean, t)
	}
	return clean
}

// foldText lower-cases s and strips every whitespace rune.
func foldText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
