package service

import "github.com/bigbestmart/bnbmart-backend/internal/app/model"

// TaxRate is the flat tax applied to the cart total at checkout.
const TaxRate = 0.18

// CheckoutSummary aggregates the presentation-level totals the checkout
// page shows. Everything here is derived from the line list; nothing is
// stored.
type CheckoutSummary struct {
	MRPTotal      float64 `json:"mrp_total"`
	DiscountTotal float64 `json:"discount_total"`
	Subtotal      float64 `json:"subtotal"`
	ShippingTotal float64 `json:"shipping_total"`
	TaxAmount     float64 `json:"tax_amount"`
	GrandTotal    float64 `json:"grand_total"`
}

// CartTotal sums (effective unit price + per-unit shipping) * quantity over
// all lines. Bulk lines use their bulk price when set. Lines with a
// non-positive quantity should not exist after a mutation; if one does it
// contributes nothing.
func CartTotal(lines []model.CartLine) float64 {
	var total float64
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		total += (l.EffectivePrice() + l.ShippingAmount) * float64(l.Quantity)
	}
	return total
}

// TotalItems sums quantities across all lines.
func TotalItems(lines []model.CartLine) int {
	var count int
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		count += l.Quantity
	}
	return count
}

// BulkLineCount counts bulk lines (distinct lines, not units).
func BulkLineCount(lines []model.CartLine) int {
	var count int
	for _, l := range lines {
		if l.IsBulkOrder {
			count++
		}
	}
	return count
}

// HasBulkLines reports whether any line is a bulk order.
func HasBulkLines(lines []model.CartLine) bool {
	return BulkLineCount(lines) > 0
}

// Summarize computes the checkout-page aggregates. A missing old price
// falls back to the current price, yielding zero discount for that line.
func Summarize(lines []model.CartLine) CheckoutSummary {
	var summary CheckoutSummary
	for _, l := range lines {
		if l.Quantity <= 0 {
			continue
		}
		qty := float64(l.Quantity)

		mrp := l.Price
		if l.OldPrice != nil {
			mrp = *l.OldPrice
		}
		summary.MRPTotal += mrp * qty
		summary.DiscountTotal += (mrp - l.Price) * qty
		summary.ShippingTotal += l.ShippingAmount * qty
	}

	summary.Subtotal = CartTotal(lines)
	summary.TaxAmount = summary.Subtotal * TaxRate
	summary.GrandTotal = summary.Subtotal + summary.TaxAmount
	return summary
}
