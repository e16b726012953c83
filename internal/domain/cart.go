package domain

// CartItem is a product snapshot plus quantity as stored in the cart store.
type CartItem struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	ProcessorName  string `json:"processorName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	SalePriceCents *int64 `json:"salePriceCents,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	Quantity       int    `json:"quantity"`
}

// EffectivePriceCents prefers the sale price when one is set.
func (i CartItem) EffectivePriceCents() int64 {
	if i.SalePriceCents != nil {
		return *i.SalePriceCents
	}
	return i.UnitPriceCents
}

// ItemFromProduct snapshots a product into a cart line.
func ItemFromProduct(p Product, quantity int) CartItem {
	return CartItem{
		ProductID:      p.ID,
		Name:           p.Name,
		ProcessorName:  p.ProcessorName,
		UnitPriceCents: p.PriceCents,
		SalePriceCents: p.SalePriceCents,
		ImageURL:       p.ImageURL,
		Quantity:       quantity,
	}
}
