package billparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medbill/internal/billparser"
)

func TestDedupPages(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
		{
			name:  "exact duplicate later in sequence",
			input: []string{"Paracetamol 10 5 50", "Consultation 1 300 300", "Paracetamol 10 5 50"},
			want:  []string{"Paracetamol 10 5 50", "Consultation 1 300 300"},
		},
		{
			name:  "whitespace and case differences",
			input: []string{"Room Rent\n2 1500 3000", "room   rent 2\t1500 3000"},
			want:  []string{"Room Rent\n2 1500 3000"},
		},
		{
			name:  "same numbers with different wording",
			input: []string{"Total 1200 Tax 60", "Grand amount 1200 GST 60"},
			want:  []string{"Total 1200 Tax 60"},
		},
		{
			name:  "pages without numbers share the empty numeric fingerprint",
			input: []string{"Patient copy", "Hospital copy"},
			want:  []string{"Patient copy"},
		},
		{
			name:  "page without numbers does not collide with numbered pages",
			input: []string{"Room 2 1500", "Discharge summary", "ECG 1 250", "Doctor notes"},
			want:  []string{"Room 2 1500", "Discharge summary", "ECG 1 250"},
		},
		{
			name:  "first occurrence wins",
			input: []string{"X-RAY 1 800", "x-ray 1 800 ", "MRI 1 4000"},
			want:  []string{"X-RAY 1 800", "MRI 1 4000"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, billparser.DedupPages(tt.input))
		})
	}
}

func TestDedupPages_DoesNotModifyInput(t *testing.T) {
	input := []string{"a 1", "a 1", "b 2"}
	_ = billparser.DedupPages(input)
	assert.Equal(t, []string{"a 1", "a 1", "b 2"}, input)
}
