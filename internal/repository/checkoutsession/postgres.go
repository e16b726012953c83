package checkoutsession

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, s domain.CheckoutSession) (*domain.CheckoutSession, error) {
	const q = `
INSERT INTO checkout_sessions (id, cart_session_id, state, customer, payment_method, intent_id, client_secret, order_code, committed)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9)
RETURNING created_at, updated_at
`
	out := s
	err := r.pool.QueryRow(ctx, q,
		s.ID,
		s.CartSessionID,
		s.State,
		s.Customer,
		string(s.Method),
		s.IntentID,
		s.ClientSecret,
		s.OrderCode,
		s.Committed,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.CheckoutSession, error) {
	const q = `
SELECT id::text, cart_session_id, state, customer,
       COALESCE(payment_method, ''), COALESCE(intent_id, ''), COALESCE(client_secret, ''), COALESCE(order_code, ''),
       committed, created_at, updated_at
FROM checkout_sessions
WHERE id = $1
`
	var s domain.CheckoutSession
	var method string
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&s.ID,
		&s.CartSessionID,
		&s.State,
		&s.Customer,
		&method,
		&s.IntentID,
		&s.ClientSecret,
		&s.OrderCode,
		&s.Committed,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	s.Method = domain.PaymentMethod(method)
	return &s, nil
}

func (r *postgresRepo) Update(ctx context.Context, s domain.CheckoutSession) (*domain.CheckoutSession, error) {
	const q = `
UPDATE checkout_sessions
SET state = $1,
    customer = $2,
    payment_method = NULLIF($3, ''),
    intent_id = NULLIF($4, ''),
    client_secret = NULLIF($5, ''),
    order_code = NULLIF($6, ''),
    committed = $7,
    updated_at = now()
WHERE id = $8
RETURNING created_at, updated_at
`
	out := s
	err := r.pool.QueryRow(ctx, q,
		s.State,
		s.Customer,
		string(s.Method),
		s.IntentID,
		s.ClientSecret,
		s.OrderCode,
		s.Committed,
		s.ID,
	).Scan(&out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}
