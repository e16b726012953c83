package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Key           string
	SKU           string
	Name          string
	ProcessorName string
	Description   string
	PriceCents    int64
	SalePrice     *int64
	Currency      string
}

func cents(v int64) *int64 { return &v }

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Key:           "classic-tee",
			SKU:           "SKU-TEE-CLASSIC",
			Name:          "Classic T-Shirt",
			ProcessorName: "Apparel Item",
			Description:   "Soft cotton tee",
			PriceCents:    5000,
			Currency:      "USD",
		},
		{
			Key:           "logo-mug",
			SKU:           "SKU-MUG-LOGO",
			Name:          "Logo Mug",
			ProcessorName: "Kitchen Item",
			Description:   "Ceramic mug with shop logo",
			PriceCents:    3000,
			SalePrice:     cents(2500),
			Currency:      "USD",
		},
		{
			Key:           "sticker-pack",
			SKU:           "SKU-STICKERS",
			Name:          "Sticker Pack",
			ProcessorName: "Gift Item",
			Description:   "Assorted vinyl stickers",
			PriceCents:    899,
			Currency:      "USD",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (key, sku, name, processor_name, description, price_cents, sale_price_cents, currency)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (key) DO UPDATE
SET sku = EXCLUDED.sku,
    name = EXCLUDED.name,
    processor_name = EXCLUDED.processor_name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    sale_price_cents = EXCLUDED.sale_price_cents,
    currency = EXCLUDED.currency
`
	_, err := pool.Exec(ctx, q, p.Key, p.SKU, p.Name, p.ProcessorName, p.Description, p.PriceCents, p.SalePrice, p.Currency)
	return err
}
