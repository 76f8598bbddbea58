// Package events pushes confirmed orders to RabbitMQ for downstream
// consumers (kitchen display, notification subscribers).
package events

import (
	"context"
	"encoding/json"
	"time"

	"cafe-pos/internal/common/logger"
	"cafe-pos/internal/connections/rabbitmq"
	"cafe-pos/internal/domain"
)

const (
	exchange   = "pos_orders"
	routingKey = "pos.order.confirmed"
)

type Publisher struct {
	client *rabbitmq.Client
	lg     *logger.Logger
}

func NewPublisher(client *rabbitmq.Client, lg *logger.Logger) (*Publisher, error) {
	if err := client.Channel().ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, err
	}
	return &Publisher{client: client, lg: lg}, nil
}

// OrderConfirmed publishes one confirmed order. Best effort: a broker
// problem is logged and swallowed, the order itself is already safe in the
// backend.
func (p *Publisher) OrderConfirmed(ctx context.Context, o domain.Order) {
	body, err := json.Marshal(o)
	if err != nil {
		p.lg.Error("event_marshal_failed", err, map[string]any{"order_id": o.ID})
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.client.Publish(pctx, exchange, routingKey, body); err != nil {
		p.lg.Warn("event_publish_failed", err, map[string]any{"order_id": o.ID})
		return
	}
	p.lg.Debug("event_published", map[string]any{"order_id": o.ID, "token": o.TokenNumber})
}
