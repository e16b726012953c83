package order

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const orderQ = `
INSERT INTO orders (code, customer_name, customer_email, customer_phone, customer_address, customer_city, customer_state, customer_zip,
                    subtotal_cents, tax_cents, shipping_cents, total_cents, currency, payment_method, processor_ref, instructions, status, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NULLIF($15, ''), NULLIF($16, ''), $17, $18)
RETURNING id::text, created_at, updated_at
`
	order := domain.Order{
		Code:          in.Code,
		Customer:      in.Customer,
		SubtotalCents: in.SubtotalCents,
		TaxCents:      in.TaxCents,
		ShippingCents: in.ShippingCents,
		TotalCents:    in.TotalCents,
		Currency:      in.Currency,
		Method:        in.Method,
		ProcessorRef:  in.ProcessorRef,
		Instructions:  in.Instructions,
		Status:        in.Status,
		ExpiresAt:     in.ExpiresAt,
	}
	err = tx.QueryRow(ctx, orderQ,
		in.Code,
		in.Customer.Name,
		in.Customer.Email,
		in.Customer.Phone,
		in.Customer.Address,
		in.Customer.City,
		in.Customer.State,
		in.Customer.Zip,
		in.SubtotalCents,
		in.TaxCents,
		in.ShippingCents,
		in.TotalCents,
		in.Currency,
		in.Method,
		in.ProcessorRef,
		in.Instructions,
		in.Status,
		in.ExpiresAt,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("order repo: insert code=%s error=%v", in.Code, err)
		return nil, err
	}

	const lineQ = `
INSERT INTO order_lines (order_id, product_id, name, processor_name, unit_price_cents, quantity, total_cents)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text
`
	for _, line := range in.Lines {
		l := line
		l.OrderID = order.ID
		if l.ProcessorName == "" {
			l.ProcessorName = domain.FallbackProcessorName
		}
		if err := tx.QueryRow(ctx, lineQ,
			order.ID,
			l.ProductID,
			l.Name,
			l.ProcessorName,
			l.UnitPriceCents,
			l.Quantity,
			l.TotalCents,
		).Scan(&l.ID); err != nil {
			r.logger.Printf("order repo: insert line order=%s product=%s error=%v", order.ID, l.ProductID, err)
			return nil, err
		}
		order.Lines = append(order.Lines, l)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: inserted code=%s method=%s total_cents=%d", order.Code, order.Method, order.TotalCents)
	return &order, nil
}

const orderColumns = `id::text, code, customer_name, customer_email, customer_phone,
COALESCE(customer_address, ''), COALESCE(customer_city, ''), COALESCE(customer_state, ''), COALESCE(customer_zip, ''),
subtotal_cents, tax_cents, shipping_cents, total_cents, currency, payment_method,
COALESCE(processor_ref, ''), COALESCE(instructions, ''), status, notified_at, expires_at, created_at, updated_at`

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE code = $1
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&o.ID,
		&o.Code,
		&o.Customer.Name,
		&o.Customer.Email,
		&o.Customer.Phone,
		&o.Customer.Address,
		&o.Customer.City,
		&o.Customer.State,
		&o.Customer.Zip,
		&o.SubtotalCents,
		&o.TaxCents,
		&o.ShippingCents,
		&o.TotalCents,
		&o.Currency,
		&o.Method,
		&o.ProcessorRef,
		&o.Instructions,
		&o.Status,
		&o.NotifiedAt,
		&o.ExpiresAt,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const linesQ = `
SELECT id::text, order_id::text, product_id, name, processor_name, unit_price_cents, quantity, total_cents
FROM order_lines
WHERE order_id = $1
ORDER BY created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQ, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Name, &l.ProcessorName, &l.UnitPriceCents, &l.Quantity, &l.TotalCents); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) SetStatus(ctx context.Context, code string, status domain.OrderStatus) error {
	const q = `
UPDATE orders
SET status = $1, updated_at = now()
WHERE code = $2
`
	cmd, err := r.pool.Exec(ctx, q, status, code)
	if err != nil {
		r.logger.Printf("order repo: set status code=%s status=%s error=%v", code, status, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: set status code=%s status=%s", code, status)
	return nil
}

func (r *postgresRepo) MarkNotified(ctx context.Context, code string) error {
	const q = `
UPDATE orders
SET notified_at = now(), updated_at = now()
WHERE code = $1
`
	cmd, err := r.pool.Exec(ctx, q, code)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
