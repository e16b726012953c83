package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

const cartTTL = 30 * 24 * time.Hour

type redisStore struct {
	client *redis.Client
}

// NewRedis builds a Store persisting carts as JSON values keyed by session id.
func NewRedis(client *redis.Client) Store {
	return &redisStore{client: client}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

func (s *redisStore) Get(ctx context.Context, sessionID string) ([]domain.CartItem, error) {
	raw, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("cart get: %w", err)
	}
	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("cart decode: %w", err)
	}
	return items, nil
}

func (s *redisStore) Set(ctx context.Context, sessionID string, items []domain.CartItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("cart encode: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(sessionID), raw, cartTTL).Err(); err != nil {
		return fmt.Errorf("cart set: %w", err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("cart clear: %w", err)
	}
	return nil
}
