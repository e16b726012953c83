package notify

import (
	"context"
	"io"
	"log"

	notifrepo "storefront/internal/repository/notification"
)

// Templates rendered by the sender.
const (
	TemplateOrderReceived = "order_received"
	TemplateOperatorAlert = "operator_alert"
)

// Sender delivers one rendered notification.
type Sender interface {
	Send(ctx context.Context, template, recipient string, payload map[string]interface{}) error
}

// Service queues notifications for later delivery. Enqueue failures are
// reported to the caller but callers treat them as non-fatal: an order is
// never rolled back because an email row could not be written.
type Service struct {
	repo   notifrepo.Repository
	logger *log.Logger
}

func New(repo notifrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// Enqueue records a pending notification. Always called after the order
// row is durably inserted, never before.
func (s *Service) Enqueue(ctx context.Context, template, recipient, orderCode string, payload map[string]interface{}) error {
	if recipient == "" {
		return nil
	}
	if err := s.repo.Enqueue(ctx, notifrepo.EnqueueInput{
		Template:  template,
		Recipient: recipient,
		OrderCode: orderCode,
		Payload:   payload,
	}); err != nil {
		s.logger.Printf("notify: enqueue template=%s order=%s error=%v", template, orderCode, err)
		return err
	}
	return nil
}
