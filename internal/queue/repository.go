package queue

import (
	"context"
	"encoding/json"

	"cafe-pos/internal/common/logger"
	"cafe-pos/internal/domain"
	"cafe-pos/internal/storage"
)

// Repository persists the full queue snapshot under one key. The set is a
// café's daily order volume at worst, so replacing it wholesale is simpler
// and safer than incremental patches.
type Repository struct {
	kv storage.KV
	lg *logger.Logger
}

func NewRepository(kv storage.KV, lg *logger.Logger) *Repository {
	return &Repository{kv: kv, lg: lg}
}

// Load never fails: missing or corrupted storage yields an empty queue, and
// the next Save overwrites whatever was there.
func (r *Repository) Load(ctx context.Context) []domain.QueuedOrder {
	b, ok, err := r.kv.Get(ctx, storage.KeyOfflineOrders)
	if err != nil || !ok {
		if err != nil && r.lg != nil {
			r.lg.Warn("queue_load_failed", err, nil)
		}
		return nil
	}
	var orders []domain.QueuedOrder
	if err := json.Unmarshal(b, &orders); err != nil {
		if r.lg != nil {
			r.lg.Warn("queue_corrupted_discarded", err, nil)
		}
		return nil
	}
	return orders
}

func (r *Repository) Save(ctx context.Context, orders []domain.QueuedOrder) error {
	if orders == nil {
		orders = []domain.QueuedOrder{}
	}
	b, err := json.Marshal(orders)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, storage.KeyOfflineOrders, b)
}
