package crypto

import (
	"context"

	"github.com/shopspring/decimal"
)

// Invoice is the processor-issued payment record: where to send coins,
// how much, and a hosted page the customer can open instead.
type Invoice struct {
	ID           string          `json:"id"`
	PayAddress   string          `json:"payAddress"`
	PayAmountBTC decimal.Decimal `json:"payAmountBtc"`
	InvoiceURL   string          `json:"invoiceUrl,omitempty"`
}

// InvoiceInput describes the invoice to create. OrderCode doubles as the
// processor's own order identifier so the webhook can be correlated.
// Rate is the fiat-per-coin price fetched once at flow entry; the offline
// fallback uses it so one checkout never fetches the rate twice.
type InvoiceInput struct {
	AmountCents int64
	Currency    string
	OrderCode   string
	CallbackURL string
	Rate        decimal.Decimal
}

// Provider creates invoices with a crypto payment processor. The offline
// fallback satisfies the same interface so the flow never dead-ends and
// tests can force the fallback path by injection.
type Provider interface {
	CreateInvoice(ctx context.Context, in InvoiceInput) (*Invoice, error)
}

// RateSource fetches the fiat price of one coin. Fetched once per flow
// entry and reused for every conversion shown to the user.
type RateSource interface {
	GetRate(ctx context.Context, currency string) (decimal.Decimal, error)
}
