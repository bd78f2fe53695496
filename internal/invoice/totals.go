package invoice

// ComputeTotals fills per-item totals and the invoice subtotal/total from the
// line items. Discount and tax are taken from the invoice as given; the total
// never goes below zero.
func ComputeTotals(inv *Invoice) {
	var subtotal int64
	for i := range inv.Items {
		it := &inv.Items[i]
		it.TotalCents = int64(it.Quantity) * it.UnitPriceCents
		subtotal += it.TotalCents
	}

	inv.SubtotalCents = subtotal
	total := subtotal - inv.DiscountCents + inv.TaxCents
	if total < 0 {
		total = 0
	}
	inv.TotalCents = total
}

// StatusFor derives the payment status from amounts. A fully discounted
// zero-total invoice counts as paid.
func StatusFor(totalCents, paidCents int64) PaymentStatus {
	switch {
	case paidCents >= totalCents:
		return PaymentPaid
	case paidCents <= 0:
		return PaymentUnpaid
	default:
		return PaymentPartial
	}
}
