package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
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

const productColumns = `id::text, key, sku, name, processor_name, COALESCE(description, ''), price_cents, sale_price_cents, currency, COALESCE(image_url, ''), created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (key, sku, name, processor_name, description, price_cents, sale_price_cents, currency, image_url)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, NULLIF($9, ''))
ON CONFLICT (key) DO UPDATE SET
    sku = EXCLUDED.sku,
    name = EXCLUDED.name,
    processor_name = EXCLUDED.processor_name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    currency = EXCLUDED.currency,
    image_url = EXCLUDED.image_url
RETURNING id::text, created_at
`
	res := product
	if res.ProcessorName == "" {
		res.ProcessorName = domain.FallbackProcessorName
	}
	err := r.pool.QueryRow(ctx, q,
		res.Key,
		res.SKU,
		res.Name,
		res.ProcessorName,
		res.Description,
		res.PriceCents,
		res.SalePriceCents,
		res.Currency,
		res.ImageURL,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert key=%s error=%v", res.Key, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted key=%s id=%s", res.Key, res.ID)
	return &res, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Key,
		&p.SKU,
		&p.Name,
		&p.ProcessorName,
		&p.Description,
		&p.PriceCents,
		&p.SalePriceCents,
		&p.Currency,
		&p.ImageURL,
		&p.CreatedAt,
	)
	return p, err
}
