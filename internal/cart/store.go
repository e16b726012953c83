package cart

import (
	"context"

	"storefront/internal/domain"
)

// Store is the injected cart persistence used by every checkout component.
// Readers must re-read through the store rather than cache items across calls,
// since cart contents can change between step transitions.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartItem, error)
	Set(ctx context.Context, sessionID string, items []domain.CartItem) error
	Clear(ctx context.Context, sessionID string) error
}
