package notification

import (
	"context"
	"time"
)

// Row is one queued email. Payload is the template data as JSON.
type Row struct {
	ID        int64
	Template  string
	Recipient string
	OrderCode string
	Payload   map[string]interface{}
	Attempts  int
	SentAt    *time.Time
	CreatedAt time.Time
}

type EnqueueInput struct {
	Template  string
	Recipient string
	OrderCode string
	Payload   map[string]interface{}
}

type Repository interface {
	Enqueue(ctx context.Context, in EnqueueInput) error
	GetPending(ctx context.Context, limit int) ([]Row, error)
	MarkSent(ctx context.Context, id int64) error
	MarkAttempt(ctx context.Context, id int64) error
}
