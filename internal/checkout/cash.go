package checkout

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain"
	"storefront/internal/order"
	"storefront/internal/ordercode"
	"storefront/internal/payment/cash"
)

// CashResult carries the five-step manual transfer instructions. There is
// no automated confirmation: "I've sent payment" is purely client-side
// state, and the persisted order stays pending until an operator
// reconciles it.
type CashResult struct {
	Session     *domain.CheckoutSession
	OrderCode   string
	Instruction cash.Instruction
	ExpiresAt   time.Time
}

// ExecuteCash runs the manual transfer flow: order code, a pending order
// row holding the rendered instruction string, and queued notifications.
func (s *Service) ExecuteCash(ctx context.Context, sessionID string) (*CashResult, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Committed {
		return nil, domain.ErrSessionCommitted
	}
	if session.State != domain.CheckoutStateExecutingPayment || session.Method != domain.PaymentMethodCash {
		return nil, domain.ErrInvalidTransition
	}

	items, totals, err := s.Summary(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}

	code := ordercode.Generate(ordercode.CashPrefix)
	instruction := cash.Render(s.cfg.CashRecipientTag, totals.TotalCents, code)

	expires := time.Now().UTC().Add(s.cfg.CashExpiry)
	placed, err := s.orders.Create(ctx, order.CreateInput{
		Code:         code,
		Customer:     session.Customer,
		Items:        items,
		Totals:       totals,
		Currency:     s.cfg.Currency,
		Method:       domain.PaymentMethodCash,
		Instructions: instruction.Rendered,
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
	return &CashResult{
		Session:     session,
		OrderCode:   code,
		Instruction: instruction,
		ExpiresAt:   expires,
	}, nil
}
