package remote

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cafe-pos/internal/domain"
)

type PostgresSink struct {
	db *sql.DB
}

func NewPostgresSink(db *sql.DB) *PostgresSink { return &PostgresSink{db: db} }

// CreateOrder inserts the order header. The unique index on client_ref makes
// this safe to replay: on conflict the insert is a no-op and we read back the
// row the earlier attempt created.
func (s *PostgresSink) CreateOrder(ctx context.Context, clientRef string, tokenNumber int, total float64) (CreatedOrder, error) {
	var created CreatedOrder
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO orders (client_ref, token_number, total, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (client_ref) DO NOTHING
		RETURNING id, created_at
	`, clientRef, tokenNumber, total).Scan(&created.ID, &created.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict path: a previous attempt got through but the ack was lost.
		err = s.db.QueryRowContext(ctx, `
			SELECT id, created_at FROM orders WHERE client_ref = $1
		`, clientRef).Scan(&created.ID, &created.CreatedAt)
	}
	if err != nil {
		return CreatedOrder{}, classify(fmt.Errorf("insert order: %w", err))
	}
	return created, nil
}

func (s *PostgresSink) CreateOrderItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Replay safety: an earlier attempt may have written the items already.
	var existing int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM order_items WHERE order_id = $1`, orderID,
	).Scan(&existing); err != nil {
		return classify(fmt.Errorf("check order items: %w", err))
	}
	if existing == 0 {
		for _, item := range items {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, menu_item_id, name, price, quantity, created_at)
				VALUES ($1, $2, $3, $4, $5, NOW())
			`, orderID, item.MenuItemID, item.Name, item.Price, item.Quantity); err != nil {
				return classify(fmt.Errorf("insert order item %s: %w", item.Name, err))
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit order items: %w", err))
	}
	return nil
}

func (s *PostgresSink) CountOrdersSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at >= $1`, since,
	).Scan(&count)
	if err != nil {
		return 0, classify(fmt.Errorf("count orders: %w", err))
	}
	return count, nil
}

func (s *PostgresSink) ListOrdersSince(ctx context.Context, since time.Time) ([]domain.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, client_ref, token_number, total, created_at
		FROM orders
		WHERE created_at >= $1
		ORDER BY created_at DESC
	`, since)
	if err != nil {
		return nil, classify(fmt.Errorf("list orders: %w", err))
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CorrelationID, &o.TokenNumber, &o.Total, &o.CreatedAt); err != nil {
			return nil, classify(fmt.Errorf("scan order: %w", err))
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("list orders: %w", err))
	}
	return orders, nil
}

func (s *PostgresSink) ListOrderItems(ctx context.Context, orderIDs []string) ([]ItemRow, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT order_id, menu_item_id, name, price, quantity
		FROM order_items
		WHERE order_id = ANY($1)
	`, orderIDs)
	if err != nil {
		return nil, classify(fmt.Errorf("list order items: %w", err))
	}
	defer rows.Close()

	var items []ItemRow
	for rows.Next() {
		var row ItemRow
		if err := rows.Scan(&row.OrderID, &row.MenuItemID, &row.Name, &row.Price, &row.Quantity); err != nil {
			return nil, classify(fmt.Errorf("scan order item: %w", err))
		}
		items = append(items, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("list order items: %w", err))
	}
	return items, nil
}
