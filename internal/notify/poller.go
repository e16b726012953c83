package notify

import (
	"context"
	"io"
	"log"
	"time"

	notifrepo "storefront/internal/repository/notification"
)

// OrderMarker flags the order row once its notification went out.
type OrderMarker interface {
	MarkNotified(ctx context.Context, code string) error
}

// Poller drains the notification outbox on a ticker. A send failure only
// bumps the attempt counter; the row stays pending and is retried on the
// next tick.
type Poller struct {
	tick   time.Duration
	batch  int
	repo   notifrepo.Repository
	sender Sender
	orders OrderMarker
	logger *log.Logger
}

func NewPoller(repo notifrepo.Repository, sender Sender, orders OrderMarker, logger *log.Logger) *Poller {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Poller{
		tick:   5 * time.Second,
		batch:  50,
		repo:   repo,
		sender: sender,
		orders: orders,
		logger: logger,
	}
}

// Run blocks until the context is canceled.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.drain(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Poller) drain(ctx context.Context) {
	rows, err := p.repo.GetPending(ctx, p.batch)
	if err != nil {
		p.logger.Printf("notify poller: fetch pending: %v", err)
		return
	}
	for _, row := range rows {
		if err := p.sender.Send(ctx, row.Template, row.Recipient, row.Payload); err != nil {
			p.logger.Printf("notify poller: send id=%d order=%s attempt=%d: %v", row.ID, row.OrderCode, row.Attempts+1, err)
			if err := p.repo.MarkAttempt(ctx, row.ID); err != nil {
				p.logger.Printf("notify poller: mark attempt id=%d: %v", row.ID, err)
			}
			continue
		}
		if err := p.repo.MarkSent(ctx, row.ID); err != nil {
			p.logger.Printf("notify poller: mark sent id=%d: %v", row.ID, err)
			continue
		}
		if row.OrderCode != "" && p.orders != nil {
			if err := p.orders.MarkNotified(ctx, row.OrderCode); err != nil {
				p.logger.Printf("notify poller: mark order notified code=%s: %v", row.OrderCode, err)
			}
		}
	}
}
