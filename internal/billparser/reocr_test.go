package billparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medbill/internal/billparser"
	"medbill/internal/domain"
)

const reocrPage = `CITY HOSPITAL
Mri scan brain 1 450.00
Consultation fee 300
Consultation follow-up 500
Surgery
Stent 1 4500000
`

func TestReOCRSuspects(t *testing.T) {
	items := []domain.BillItem{
		{Name: "MRI Scan", Quantity: 1, Amount: 45000},
		{Name: "Consultation charges", Quantity: 1, Amount: 9000},
		{Name: "Stent", Quantity: 1, Amount: 9500},
		{Name: "Surgery", Quantity: 1, Amount: 8500},
		{Name: "Implant", Quantity: 1, Amount: 25000},
		{Name: "Paracetamol", Quantity: 10, Rate: 5, Amount: 50},
	}

	got := billparser.ReOCRSuspects(reocrPage, items)

	require.Len(t, got, len(items))
	assert.Equal(t, 450.0, got[0].Amount, "first name token matched case-insensitively")
	assert.Equal(t, 500.0, got[1].Amount, "last matching line wins")
	assert.Equal(t, 450.0, got[2].Amount, "large candidate is scaled by re-OCR and again by auto-correction")
	assert.Equal(t, 8500.0, got[3].Amount, "matching line without numbers is ignored")
	assert.Equal(t, 250.0, got[4].Amount, "no match falls through to auto-correction")
	assert.Equal(t, domain.BillItem{Name: "Paracetamol", Quantity: 10, Rate: 5, Amount: 50}, got[5])
}

func TestReOCRSuspects_AutoFixesEveryItem(t *testing.T) {
	items := []domain.BillItem{{Name: "Syringe", Quantity: 2, Rate: 10, Amount: 100}}

	got := billparser.ReOCRSuspects("Syringe 2 10 100", items)

	require.Len(t, got, 1)
	assert.Equal(t, 20.0, got[0].Amount)
	assert.Equal(t, 100.0, items[0].Amount, "input slice is not modified")
}
