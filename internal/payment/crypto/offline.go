package crypto

import (
	"context"

	"github.com/shopspring/decimal"
)

type offlineProvider struct {
	address string
	rates   RateSource
}

// NewOfflineProvider builds the fallback Provider used when the real
// processor is unconfigured or unavailable: a static receive address and
// a client-computed coin amount (fiat total divided by the fetched rate).
func NewOfflineProvider(address string, rates RateSource) Provider {
	return &offlineProvider{address: address, rates: rates}
}

func (p *offlineProvider) CreateInvoice(ctx context.Context, in InvoiceInput) (*Invoice, error) {
	rate := in.Rate
	if !rate.IsPositive() {
		fetched, err := p.rates.GetRate(ctx, in.Currency)
		if err != nil {
			// RateSource implementations already degrade to a fallback
			// rate; an error here means even that was impossible.
			return nil, err
		}
		rate = fetched
	}
	fiat := decimal.New(in.AmountCents, -2)
	return &Invoice{
		ID:           in.OrderCode,
		PayAddress:   p.address,
		PayAmountBTC: fiat.DivRound(rate, 8),
	}, nil
}
