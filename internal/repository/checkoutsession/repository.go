package checkoutsession

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, session domain.CheckoutSession) (*domain.CheckoutSession, error)
	GetByID(ctx context.Context, id string) (*domain.CheckoutSession, error)
	Update(ctx context.Context, session domain.CheckoutSession) (*domain.CheckoutSession, error)
}
