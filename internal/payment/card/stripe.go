package card

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"storefront/internal/domain"
)

type stripeProcessor struct {
	api *client.API
}

// NewStripe builds a Processor backed by the Stripe API.
func NewStripe(secretKey string) (Processor, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("stripe secret key required")
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeProcessor{api: api}, nil
}

func (p *stripeProcessor) CreateIntent(ctx context.Context, in IntentInput) (*Intent, error) {
	if in.AmountCents <= 0 {
		return nil, errors.New("amount must be positive")
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(in.AmountCents),
		Currency: stripe.String(strings.ToLower(in.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if in.Email != "" {
		params.ReceiptEmail = stripe.String(in.Email)
	}
	if in.Name != "" {
		params.AddMetadata("customer_name", in.Name)
	}
	// Processor-facing names only: the real product names never reach Stripe.
	params.AddMetadata("items", processorItemSummary(in.Items))

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Intent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func processorItemSummary(items []domain.CartItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		name := item.ProcessorName
		if name == "" {
			name = domain.FallbackProcessorName
		}
		parts = append(parts, fmt.Sprintf("%s x%d", name, item.Quantity))
	}
	summary := strings.Join(parts, ", ")
	// Stripe caps metadata values at 500 characters.
	if len(summary) > 500 {
		summary = summary[:500]
	}
	return summary
}
