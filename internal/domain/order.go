package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCard    PaymentMethod = "card"
	PaymentMethodBitcoin PaymentMethod = "bitcoin"
	PaymentMethodCash    PaymentMethod = "cash"
)

// Valid reports whether the method names one of the supported providers.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodBitcoin, PaymentMethodCash:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

// FallbackProcessorName is substituted when a line item has no
// processor-facing name, so the dual-naming rule never fails a write.
const FallbackProcessorName = "Gift Item"

type Order struct {
	ID            string        `json:"id"`
	Code          string        `json:"code"`
	Customer      CustomerInfo  `json:"customer"`
	Lines         []OrderLine   `json:"lines"`
	SubtotalCents int64         `json:"subtotalCents"`
	TaxCents      int64         `json:"taxCents"`
	ShippingCents int64         `json:"shippingCents"`
	TotalCents    int64         `json:"totalCents"`
	Currency      string        `json:"currency"`
	Method        PaymentMethod `json:"paymentMethod"`
	ProcessorRef  string        `json:"processorRef,omitempty"`
	Instructions  string        `json:"instructions,omitempty"`
	Status        OrderStatus   `json:"status"`
	NotifiedAt    *time.Time    `json:"notifiedAt,omitempty"`
	ExpiresAt     *time.Time    `json:"expiresAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// OrderLine snapshots a purchased item with both display names.
type OrderLine struct {
	ID             string `json:"id"`
	OrderID        string `json:"orderId"`
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	ProcessorName  string `json:"processorName"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	Quantity       int    `json:"quantity"`
	TotalCents     int64  `json:"totalCents"`
}
