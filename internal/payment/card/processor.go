package card

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// Intent is the opaque in-progress charge handed to the hosted widget.
// The client secret exists only for the widget session and is never
// written to an order.
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentInput describes the charge to create.
type IntentInput struct {
	AmountCents int64
	Currency    string
	Email       string
	Name        string
	Items       []domain.CartItem
}

// Processor creates payment intents with the card processor.
// Instrument enumeration (cards, wallets) is entirely the processor's;
// nothing here reimplements it.
type Processor interface {
	CreateIntent(ctx context.Context, in IntentInput) (*Intent, error)
}

type disabledProcessor struct{}

// NewDisabled builds a Processor that refuses every intent. Used when no
// processor credentials are configured, so the other payment methods keep
// working while card selection surfaces a provider error.
func NewDisabled() Processor {
	return disabledProcessor{}
}

func (disabledProcessor) CreateIntent(context.Context, IntentInput) (*Intent, error) {
	return nil, errors.New("card payments are not configured")
}
