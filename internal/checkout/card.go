package checkout

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/order"
	"storefront/internal/ordercode"
	"storefront/internal/payment/card"
	"storefront/internal/pricing"
)

// OrderPrefix marks card orders; the manual flows carry their own prefixes.
const orderPrefixCard = "ORD"

// CardResult reports what the hosted widget's confirmation produced.
type CardResult struct {
	Session   *domain.CheckoutSession
	Outcome   card.Outcome
	Message   string
	OrderCode string
}

// ConfirmCard interprets the hosted widget's terminal status. "succeeded"
// commits the order exactly once; pending statuses leave the session in
// the executing step while the processor drives its own challenge flow;
// anything else surfaces a retryable provider error.
func (s *Service) ConfirmCard(ctx context.Context, sessionID, status, paymentID string) (*CardResult, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Method != domain.PaymentMethodCard {
		return nil, domain.ErrInvalidTransition
	}
	if session.Committed {
		// The success callback already fired for this session; report the
		// committed order instead of persisting twice.
		return &CardResult{Session: session, Outcome: card.OutcomeSucceeded, OrderCode: session.OrderCode}, nil
	}
	if session.State != domain.CheckoutStateExecutingPayment {
		return nil, domain.ErrInvalidTransition
	}
	if paymentID != "" && session.IntentID != "" && paymentID != session.IntentID {
		return nil, &ProviderError{Err: fmt.Errorf("payment %s does not belong to this checkout", paymentID)}
	}

	outcome, message := card.ResolveConfirmation(status)
	switch outcome {
	case card.OutcomePending:
		return &CardResult{Session: session, Outcome: outcome}, nil
	case card.OutcomeFailed:
		return &CardResult{Session: session, Outcome: outcome, Message: message}, nil
	}

	items, totals, err := s.Summary(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("cart is empty")
	}

	ref := paymentID
	if ref == "" {
		ref = session.IntentID
	}
	code := ordercode.Generate(orderPrefixCard)
	placed, err := s.orders.Create(ctx, order.CreateInput{
		Code:         code,
		Customer:     session.Customer,
		Items:        items,
		Totals:       totals,
		Currency:     s.cfg.Currency,
		Method:       domain.PaymentMethodCard,
		ProcessorRef: ref,
		Status:       domain.OrderStatusPaid,
	})
	if err != nil {
		return nil, &PersistenceError{PaymentRef: ref, Err: err}
	}

	s.enqueueOrderMail(ctx, placed, totals)
	s.clearCart(ctx, session)

	session, err = s.complete(ctx, session, placed.Code)
	if err != nil {
		return nil, &PersistenceError{PaymentRef: ref, Err: err}
	}
	return &CardResult{Session: session, Outcome: card.OutcomeSucceeded, OrderCode: placed.Code}, nil
}

// enqueueOrderMail queues the customer receipt and operator alert. Always
// called strictly after the order insert; failures are logged and never
// block the checkout.
func (s *Service) enqueueOrderMail(ctx context.Context, placed *domain.Order, totals pricing.Totals) {
	payload := map[string]interface{}{
		"orderCode": placed.Code,
		"total":     pricing.FormatAmount(totals.TotalCents),
		"method":    string(placed.Method),
	}
	if err := s.notify.Enqueue(ctx, notify.TemplateOrderReceived, placed.Customer.Email, placed.Code, payload); err != nil {
		s.logger.Printf("checkout: queue customer mail order=%s: %v", placed.Code, err)
	}
	if s.cfg.OperatorEmail != "" {
		if err := s.notify.Enqueue(ctx, notify.TemplateOperatorAlert, s.cfg.OperatorEmail, placed.Code, payload); err != nil {
			s.logger.Printf("checkout: queue operator mail order=%s: %v", placed.Code, err)
		}
	}
}
