// Package queue holds orders that could not reach the backend until they can
// be delivered.
package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"cafe-pos/internal/common/logger"
	"cafe-pos/internal/domain"
	"cafe-pos/internal/network"
	"cafe-pos/internal/remote"

	"github.com/google/uuid"
)

// ErrSyncInFlight is returned when a sync pass is already running; the caller
// should rely on the in-flight pass or try again after it settles.
var ErrSyncInFlight = errors.New("queue sync already in flight")

// SyncedFunc is called once per order the backend accepted during a sync
// pass, with the queue id and the server-confirmed identity.
type SyncedFunc func(queueID string, created remote.CreatedOrder)

// OfflineQueue owns the durable set of unsynced orders. It is the only
// writer of that storage; everyone else reads snapshots through it.
type OfflineQueue struct {
	repo    *Repository
	monitor *network.Monitor
	sink    remote.Sink
	retry   remote.Backoff
	lg      *logger.Logger

	mu       sync.Mutex
	orders   []domain.QueuedOrder
	onSynced SyncedFunc

	syncing atomic.Bool
	now     func() time.Time
}

func NewOfflineQueue(repo *Repository, monitor *network.Monitor, sink remote.Sink, lg *logger.Logger) *OfflineQueue {
	q := &OfflineQueue{
		repo:    repo,
		monitor: monitor,
		sink:    sink,
		retry:   remote.DefaultBackoff(),
		lg:      lg,
		orders:  repo.Load(context.Background()),
		now:     time.Now,
	}
	monitor.Subscribe(func(online bool) {
		if online && q.Pending() > 0 {
			if n, err := q.Sync(context.Background()); err == nil && lg != nil {
				lg.Info("queue_auto_sync", map[string]any{"synced": n})
			}
		}
	})
	return q
}

// SetOnSynced registers the reconciliation hook. Must be set before orders
// start flowing; not guarded for concurrent reassignment.
func (q *OfflineQueue) SetOnSynced(fn SyncedFunc) { q.onSynced = fn }

// Enqueue records an order for later delivery and persists immediately.
// It always succeeds; validation happened before the order got here.
//
// The id doubles as the backend idempotency key on sync. A caller whose
// submission may have partially reached the backend must pass the same
// clientRef it submitted under, so the replay resolves to the existing row.
// An empty clientRef gets a fresh id.
func (q *OfflineQueue) Enqueue(ctx context.Context, clientRef string, items []domain.OrderItem, total float64, tokenNumber int) domain.QueuedOrder {
	if clientRef == "" {
		clientRef = uuid.NewString()
	}
	qo := domain.QueuedOrder{
		ID:          clientRef,
		Items:       items,
		Total:       total,
		TokenNumber: tokenNumber,
		QueuedAt:    q.now(),
	}

	q.mu.Lock()
	q.orders = append(q.orders, qo)
	snapshot := append([]domain.QueuedOrder(nil), q.orders...)
	q.mu.Unlock()

	if err := q.repo.Save(ctx, snapshot); err != nil && q.lg != nil {
		q.lg.Error("queue_persist_failed", err, map[string]any{"queue_id": qo.ID})
	}
	if q.lg != nil {
		q.lg.Info("order_queued", map[string]any{"queue_id": qo.ID, "token": tokenNumber, "pending": len(snapshot)})
	}
	return qo
}

func (q *OfflineQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.orders)
}

func (q *OfflineQueue) Snapshot() []domain.QueuedOrder {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.QueuedOrder(nil), q.orders...)
}

// Sync pushes queued orders to the backend in enqueue order. Orders the
// backend accepts are dropped from the retained set; failures stay for the
// next pass, so partial progress is kept. At most one pass runs at a time.
func (q *OfflineQueue) Sync(ctx context.Context) (int, error) {
	if !q.syncing.CompareAndSwap(false, true) {
		return 0, ErrSyncInFlight
	}
	defer q.syncing.Store(false)

	if !q.monitor.Online() {
		return 0, nil
	}

	pending := q.Snapshot()
	if len(pending) == 0 {
		return 0, nil
	}

	var retained []domain.QueuedOrder
	synced := 0
	for _, qo := range pending {
		if err := q.push(ctx, qo); err != nil {
			if q.lg != nil {
				q.lg.Warn("queue_sync_order_failed", err, map[string]any{"queue_id": qo.ID})
			}
			retained = append(retained, qo)
			continue
		}
		synced++
	}

	q.mu.Lock()
	// Enqueues that landed during the pass are behind the snapshot; keep them.
	if extra := len(q.orders) - len(pending); extra > 0 {
		retained = append(retained, q.orders[len(pending):]...)
	}
	q.orders = retained
	snapshot := append([]domain.QueuedOrder(nil), q.orders...)
	q.mu.Unlock()

	if err := q.repo.Save(ctx, snapshot); err != nil && q.lg != nil {
		q.lg.Error("queue_persist_failed", err, nil)
	}
	if q.lg != nil {
		q.lg.Info("queue_sync_done", map[string]any{"synced": synced, "retained": len(snapshot)})
	}
	return synced, nil
}

func (q *OfflineQueue) push(ctx context.Context, qo domain.QueuedOrder) error {
	var created remote.CreatedOrder
	err := remote.Do(ctx, q.retry, func(ctx context.Context) error {
		var err error
		created, err = q.sink.CreateOrder(ctx, qo.ID, qo.TokenNumber, qo.Total)
		return err
	})
	if err != nil {
		return err
	}
	err = remote.Do(ctx, q.retry, func(ctx context.Context) error {
		return q.sink.CreateOrderItems(ctx, created.ID, qo.Items)
	})
	if err != nil {
		return err
	}
	if q.onSynced != nil {
		q.onSynced(qo.ID, created)
	}
	return nil
}
