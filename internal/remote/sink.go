// Package remote is the terminal's write/read surface against the backend
// relational store.
package remote

import (
	"context"
	"time"

	"cafe-pos/internal/domain"
)

type CreatedOrder struct {
	ID        string
	CreatedAt time.Time
}

// ItemRow is a line item together with the order it belongs to, as the
// backend stores it.
type ItemRow struct {
	OrderID string
	domain.OrderItem
}

// Sink is everything the order pipeline needs from the backend. clientRef is
// a terminal-generated idempotency key: replaying a create after a lost ack
// resolves to the already-inserted row instead of a duplicate.
type Sink interface {
	CreateOrder(ctx context.Context, clientRef string, tokenNumber int, total float64) (CreatedOrder, error)
	CreateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error
	CountOrdersSince(ctx context.Context, since time.Time) (int, error)
	ListOrdersSince(ctx context.Context, since time.Time) ([]domain.Order, error)
	ListOrderItems(ctx context.Context, orderIDs []string) ([]ItemRow, error)
}
