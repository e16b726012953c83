package domain

import "time"

// CheckoutSession is the persisted state of one checkout wizard run.
// ClientSecret is held only while the hosted card widget may still need it;
// it is never copied onto the order.
type CheckoutSession struct {
	ID            string        `json:"id"`
	CartSessionID string        `json:"cartSessionId"`
	State         CheckoutState `json:"state"`
	Customer      CustomerInfo  `json:"customer"`
	Method        PaymentMethod `json:"paymentMethod,omitempty"`
	IntentID      string        `json:"-"`
	ClientSecret  string        `json:"clientSecret,omitempty"`
	OrderCode     string        `json:"orderCode,omitempty"`
	Committed     bool          `json:"committed"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
