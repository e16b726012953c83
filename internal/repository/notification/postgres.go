package notification

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// maxAttempts bounds retries so a permanently bouncing address does not
// occupy the poller forever.
const maxAttempts = 10

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Enqueue(ctx context.Context, in EnqueueInput) error {
	const q = `
INSERT INTO notifications (template, recipient, order_code, payload)
VALUES ($1, $2, $3, $4)
`
	_, err := r.pool.Exec(ctx, q, in.Template, in.Recipient, in.OrderCode, in.Payload)
	return err
}

func (r *postgresRepo) GetPending(ctx context.Context, limit int) ([]Row, error) {
	const q = `
SELECT id, template, recipient, order_code, payload, attempts, sent_at, created_at
FROM notifications
WHERE sent_at IS NULL AND attempts < $1
ORDER BY created_at ASC
LIMIT $2
`
	rows, err := r.pool.Query(ctx, q, maxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.ID, &row.Template, &row.Recipient, &row.OrderCode, &row.Payload, &row.Attempts, &row.SentAt, &row.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *postgresRepo) MarkSent(ctx context.Context, id int64) error {
	const q = `
UPDATE notifications
SET sent_at = now()
WHERE id = $1
`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}

func (r *postgresRepo) MarkAttempt(ctx context.Context, id int64) error {
	const q = `
UPDATE notifications
SET attempts = attempts + 1
WHERE id = $1
`
	_, err := r.pool.Exec(ctx, q, id)
	return err
}
