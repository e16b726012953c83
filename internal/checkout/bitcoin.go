package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/order"
	"storefront/internal/ordercode"
	"storefront/internal/payment/crypto"
)

// BitcoinResult is everything the instruction pane needs: a hosted invoice
// link when the processor produced one, plus the manual send-to-address path.
type BitcoinResult struct {
	Session      *domain.CheckoutSession
	OrderCode    string
	PayAddress   string
	PayAmountBTC decimal.Decimal
	InvoiceURL   string
	Rate         decimal.Decimal
	ExpiresAt    time.Time
}

// ExecuteBitcoin runs the whole crypto flow for a session sitting in the
// executing step: order code, one rate fetch, invoice (falling back to the
// offline provider on any processor failure), a pending order row, and the
// queued notifications. The flow never dead-ends on provider trouble.
func (s *Service) ExecuteBitcoin(ctx context.Context, sessionID string) (*BitcoinResult, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Committed {
		return nil, domain.ErrSessionCommitted
	}
	if session.State != domain.CheckoutStateExecutingPayment || session.Method != domain.PaymentMethodBitcoin {
		return nil, domain.ErrInvalidTransition
	}

	items, totals, err := s.Summary(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}

	code := ordercode.Generate(ordercode.BitcoinPrefix)

	// One rate fetch per flow entry, reused for every conversion below.
	rate, err := s.rates.GetRate(ctx, s.cfg.Currency)
	if err != nil {
		return nil, &ProviderError{Err: err}
	}

	invoice := s.createInvoice(ctx, crypto.InvoiceInput{
		AmountCents: totals.TotalCents,
		Currency:    s.cfg.Currency,
		OrderCode:   code,
		CallbackURL: s.cfg.CryptoCallbackURL,
		Rate:        rate,
	})
	if invoice == nil {
		return nil, &ProviderError{Err: errors.New("no crypto provider available")}
	}

	expires := time.Now().UTC().Add(s.cfg.BitcoinExpiry)
	placed, err := s.orders.Create(ctx, order.CreateInput{
		Code:         code,
		Customer:     session.Customer,
		Items:        items,
		Totals:       totals,
		Currency:     s.cfg.Currency,
		Method:       domain.PaymentMethodBitcoin,
		ProcessorRef: invoice.ID,
		Status:       domain.OrderStatusPending,
		ExpiresAt:    &expires,
	})
	if err != nil {
		return nil, err
	}

	s.enqueueOrderMail(ctx, placed, totals)
	s.clearCart(ctx, session)

	session, err = s.complete(ctx, session, code)
	if err != nil {
		return nil, err
	}
	return &BitcoinResult{
		Session:      session,
		OrderCode:    code,
		PayAddress:   invoice.PayAddress,
		PayAmountBTC: invoice.PayAmountBTC,
		InvoiceURL:   invoice.InvoiceURL,
		Rate:         rate,
		ExpiresAt:    expires,
	}, nil
}

// createInvoice tries the configured processor first and falls back to the
// offline provider, so provider downtime degrades to the static address
// path instead of blocking checkout.
func (s *Service) createInvoice(ctx context.Context, in crypto.InvoiceInput) *crypto.Invoice {
	if s.provider != nil {
		invoice, err := s.provider.CreateInvoice(ctx, in)
		if err == nil {
			return invoice
		}
		s.logger.Printf("checkout: invoice creation failed, using offline fallback order=%s: %v", in.OrderCode, err)
	}
	if s.fallback == nil {
		return nil
	}
	invoice, err := s.fallback.CreateInvoice(ctx, in)
	if err != nil {
		s.logger.Printf("checkout: offline fallback failed order=%s: %v", in.OrderCode, err)
		return nil
	}
	return invoice
}
