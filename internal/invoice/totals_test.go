package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals(t *testing.T) {
	inv := &Invoice{
		DiscountCents: 500,
		TaxCents:      1000,
		Items: []Item{
			{Description: "Cleaning", Quantity: 1, UnitPriceCents: 8000},
			{Description: "Toothbrush", Quantity: 3, UnitPriceCents: 600},
		},
	}

	ComputeTotals(inv)

	assert.Equal(t, int64(8000), inv.Items[0].TotalCents)
	assert.Equal(t, int64(1800), inv.Items[1].TotalCents)
	assert.Equal(t, int64(9800), inv.SubtotalCents)
	assert.Equal(t, int64(10300), inv.TotalCents) // 9800 - 500 + 1000
}

func TestComputeTotals_DiscountCannotGoNegative(t *testing.T) {
	inv := &Invoice{
		DiscountCents: 5000,
		Items: []Item{
			{Quantity: 1, UnitPriceCents: 1000},
		},
	}

	ComputeTotals(inv)

	assert.Equal(t, int64(1000), inv.SubtotalCents)
	assert.Equal(t, int64(0), inv.TotalCents)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, PaymentUnpaid, StatusFor(1000, 0))
	assert.Equal(t, PaymentPartial, StatusFor(1000, 500))
	assert.Equal(t, PaymentPaid, StatusFor(1000, 1000))
	assert.Equal(t, PaymentPaid, StatusFor(0, 0))
}
