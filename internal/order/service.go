package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"storefront/internal/domain"
	"storefront/internal/pricing"
	orderrepo "storefront/internal/repository/order"
)

// Service owns order persistence and the status transitions that follow
// out-of-band payment confirmation.
type Service struct {
	repo   orderRepo
	logger *log.Logger
}

type orderRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByCode(ctx context.Context, code string) (*domain.Order, error)
	SetStatus(ctx context.Context, code string, status domain.OrderStatus) error
	MarkNotified(ctx context.Context, code string) error
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateInput is the checkout's view of a finished (or pending) purchase.
type CreateInput struct {
	Code         string
	Customer     domain.CustomerInfo
	Items        []domain.CartItem
	Totals       pricing.Totals
	Currency     string
	Method       domain.PaymentMethod
	ProcessorRef string
	Instructions string
	Status       domain.OrderStatus
	ExpiresAt    *time.Time
}

// Create inserts exactly one order row with line snapshots. Every line
// carries both display names; a missing processor-facing name falls back
// to a generic string instead of failing the write.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Order, error) {
	if len(in.Items) == 0 {
		return nil, errors.New("order requires at least one item")
	}
	if !in.Method.Valid() {
		return nil, fmt.Errorf("unknown payment method %q", in.Method)
	}

	lines := make([]domain.OrderLine, 0, len(in.Items))
	for _, item := range in.Items {
		processorName := strings.TrimSpace(item.ProcessorName)
		if processorName == "" {
			processorName = domain.FallbackProcessorName
		}
		unit := item.EffectivePriceCents()
		lines = append(lines, domain.OrderLine{
			ProductID:      item.ProductID,
			Name:           item.Name,
			ProcessorName:  processorName,
			UnitPriceCents: unit,
			Quantity:       item.Quantity,
			TotalCents:     unit * int64(item.Quantity),
		})
	}

	order, err := s.repo.Create(ctx, orderrepo.CreateOrderInput{
		Code:          in.Code,
		Customer:      in.Customer,
		Lines:         lines,
		SubtotalCents: in.Totals.SubtotalCents,
		TaxCents:      in.Totals.TaxCents,
		ShippingCents: in.Totals.ShippingCents,
		TotalCents:    in.Totals.TotalCents,
		Currency:      in.Currency,
		Method:        in.Method,
		ProcessorRef:  in.ProcessorRef,
		Instructions:  in.Instructions,
		Status:        in.Status,
		ExpiresAt:     in.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// MarkPaid flips a pending order to paid. The caller must name the
// provider and the processor reference it heard the success from; an
// order is never marked paid on a signal from a different provider than
// the one selected for it.
func (s *Service) MarkPaid(ctx context.Context, code string, method domain.PaymentMethod, processorRef string) error {
	order, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if order.Method != method {
		s.logger.Printf("order service: refused paid signal code=%s order_method=%s signal_method=%s", code, order.Method, method)
		return fmt.Errorf("payment method mismatch for order %s", code)
	}
	if order.ProcessorRef != "" && processorRef != "" && order.ProcessorRef != processorRef {
		s.logger.Printf("order service: refused paid signal code=%s ref mismatch", code)
		return fmt.Errorf("processor reference mismatch for order %s", code)
	}
	if order.Status == domain.OrderStatusPaid {
		return nil
	}
	return s.repo.SetStatus(ctx, code, domain.OrderStatusPaid)
}

// MarkFailed records a terminal provider failure for a pending order.
// A paid order is never downgraded.
func (s *Service) MarkFailed(ctx context.Context, code string, method domain.PaymentMethod) error {
	order, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if order.Method != method {
		return fmt.Errorf("payment method mismatch for order %s", code)
	}
	if order.Status != domain.OrderStatusPending {
		return nil
	}
	return s.repo.SetStatus(ctx, code, domain.OrderStatusFailed)
}

// MarkNotified records the notification side-effect on the order row.
func (s *Service) MarkNotified(ctx context.Context, code string) error {
	return s.repo.MarkNotified(ctx, code)
}

// GetByCode returns the order for tracking pages.
func (s *Service) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	return s.repo.GetByCode(ctx, strings.TrimSpace(code))
}
