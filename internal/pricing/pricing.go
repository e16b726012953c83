package pricing

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Totals is the price breakdown shown in the order summary pane and
// reproduced on the persisted order.
type Totals struct {
	SubtotalCents int64 `json:"subtotalCents"`
	TaxCents      int64 `json:"taxCents"`
	ShippingCents int64 `json:"shippingCents"`
	TotalCents    int64 `json:"totalCents"`
}

// Calculate computes subtotal, tax, shipping and total for the cart.
// The effective unit price prefers the sale price; tax is taxRateBps/10000
// of the subtotal, rounded half-up to the cent; shipping is always zero in
// this product line. Pure and deterministic: callers recompute on every
// cart change instead of caching.
func Calculate(items []domain.CartItem, taxRateBps int64) Totals {
	var subtotal int64
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		subtotal += item.EffectivePriceCents() * int64(item.Quantity)
	}

	rate := decimal.New(taxRateBps, -4)
	tax := decimal.New(subtotal, 0).Mul(rate).Round(0).IntPart()

	const shipping = int64(0)
	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      tax,
		ShippingCents: shipping,
		TotalCents:    subtotal + tax + shipping,
	}
}

// FormatAmount renders cents as a plain 2-decimal string, e.g. 10800 -> "108.00".
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
