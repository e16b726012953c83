package order

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// CreateOrderInput is a fully-computed order ready to insert. Every line
// must carry both display names before it reaches the repository.
type CreateOrderInput struct {
	Code          string
	Customer      domain.CustomerInfo
	Lines         []domain.OrderLine
	SubtotalCents int64
	TaxCents      int64
	ShippingCents int64
	TotalCents    int64
	Currency      string
	Method        domain.PaymentMethod
	ProcessorRef  string
	Instructions  string
	Status        domain.OrderStatus
	ExpiresAt     *time.Time
}

type Repository interface {
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByCode(ctx context.Context, code string) (*domain.Order, error)
	SetStatus(ctx context.Context, code string, status domain.OrderStatus) error
	MarkNotified(ctx context.Context, code string) error
}
