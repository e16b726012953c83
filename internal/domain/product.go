package domain

import "time"

// Product carries two display names: Name is shown to the customer,
// ProcessorName is the content-policy-safe name sent to payment processors.
type Product struct {
	ID             string    `json:"id"`
	Key            string    `json:"key"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	ProcessorName  string    `json:"processorName"`
	Description    string    `json:"description,omitempty"`
	PriceCents     int64     `json:"priceCents"`
	SalePriceCents *int64    `json:"salePriceCents,omitempty"`
	Currency       string    `json:"currency"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// EffectivePriceCents prefers the sale price when one is set.
func (p Product) EffectivePriceCents() int64 {
	if p.SalePriceCents != nil {
		return *p.SalePriceCents
	}
	return p.PriceCents
}
