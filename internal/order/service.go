// Package order orchestrates order creation: optimistic local insert,
// online/offline branching, remote persistence with retry, and
// reconciliation with server-confirmed state.
package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"cafe-pos/internal/common/logger"
	"cafe-pos/internal/domain"
	"cafe-pos/internal/network"
	"cafe-pos/internal/queue"
	"cafe-pos/internal/remote"
	"cafe-pos/internal/token"

	"github.com/google/uuid"
)

// Notifier receives confirmed orders for downstream consumers (kitchen
// display, notifications). Failures are the notifier's problem; the order
// path never depends on it.
type Notifier interface {
	OrderConfirmed(ctx context.Context, o domain.Order)
}

// Service owns the in-memory order list. UI layers read snapshots; every
// mutation goes through these methods.
type Service struct {
	sink     remote.Sink
	queue    *queue.OfflineQueue
	monitor  *network.Monitor
	notifier Notifier
	retry    remote.Backoff
	lg       *logger.Logger

	mu     sync.Mutex
	orders []*domain.Order // newest first

	backfilled atomic.Bool // offline-boot remote load ran
	now        func() time.Time
}

func NewService(sink remote.Sink, q *queue.OfflineQueue, monitor *network.Monitor, lg *logger.Logger) *Service {
	s := &Service{
		sink:    sink,
		queue:   q,
		monitor: monitor,
		retry:   remote.DefaultBackoff(),
		lg:      lg,
		now:     time.Now,
	}
	q.SetOnSynced(s.reconcileSynced)
	return s
}

// SetNotifier wires the optional event publisher. Call before serving.
func (s *Service) SetNotifier(n Notifier) { s.notifier = n }

// Bootstrap re-materializes queued orders and loads today's confirmed orders
// from the backend, so a restarted terminal shows the full day. A terminal
// that boots offline defers the remote load to the first reconnect.
func (s *Service) Bootstrap(ctx context.Context) error {
	for _, qo := range s.queue.Snapshot() {
		s.insert(&domain.Order{
			ID:            qo.ID,
			CorrelationID: qo.ID,
			TokenNumber:   qo.TokenNumber,
			Items:         qo.Items,
			Total:         qo.Total,
			CreatedAt:     qo.QueuedAt,
			Pending:       true,
		})
	}
	if !s.monitor.Online() {
		s.monitor.Subscribe(func(online bool) {
			if !online || !s.backfilled.CompareAndSwap(false, true) {
				return
			}
			if err := s.loadRemote(context.Background()); err != nil {
				s.backfilled.Store(false) // retry on the next transition
				if s.lg != nil {
					s.lg.Warn("today_backfill_failed", err, nil)
				}
			}
		})
		return nil
	}
	s.backfilled.Store(true)
	return s.loadRemote(ctx)
}

// loadRemote merges today's backend orders into the in-memory list. Orders
// already known locally, confirmed or still queued, are skipped by their
// correlation id, so the merge is safe to run more than once.
func (s *Service) loadRemote(ctx context.Context) error {
	var remoteOrders []domain.Order
	err := remote.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		remoteOrders, err = s.sink.ListOrdersSince(ctx, s.midnight())
		return err
	})
	if err != nil {
		return fmt.Errorf("load today orders: %w", err)
	}

	ids := make([]string, 0, len(remoteOrders))
	for _, o := range remoteOrders {
		ids = append(ids, o.ID)
	}
	var items []remote.ItemRow
	err = remote.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		items, err = s.sink.ListOrderItems(ctx, ids)
		return err
	})
	if err != nil {
		return fmt.Errorf("load today order items: %w", err)
	}
	byOrder := map[string][]domain.OrderItem{}
	for _, row := range items {
		byOrder[row.OrderID] = append(byOrder[row.OrderID], row.OrderItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	known := make(map[string]bool, len(s.orders))
	for _, o := range s.orders {
		known[o.CorrelationID] = true
	}
	for i := range remoteOrders { // already newest first; local ones stay on top
		o := remoteOrders[i]
		if known[o.CorrelationID] {
			continue
		}
		o.Items = byOrder[o.ID]
		s.orders = append(s.orders, &o)
	}
	return nil
}

// CreateOrder runs the submission state machine. Every exit leaves the order
// either confirmed by the backend or durably queued; it is never dropped.
func (s *Service) CreateOrder(ctx context.Context, inputs []domain.CartItemInput) (*domain.Order, error) {
	items, total, err := validate(inputs)
	if err != nil {
		return nil, err
	}

	corrID := uuid.NewString()
	provisional := token.Next(s.todayCount(), s.queue.Pending())

	// Optimistic insert: the UI shows the sale before the backend answers.
	o := &domain.Order{
		ID:            corrID,
		CorrelationID: corrID,
		TokenNumber:   provisional,
		Items:         items,
		Total:         total,
		CreatedAt:     s.now(),
	}
	s.insert(o)

	if !s.monitor.Online() {
		s.moveToQueue(ctx, o)
		return s.snapshotOf(corrID), nil
	}

	finalToken := provisional
	if count, err := s.authoritativeCount(ctx); err == nil {
		finalToken = token.Next(count, s.queue.Pending())
	} else if s.lg != nil {
		s.lg.Warn("token_recount_failed", err, map[string]any{"correlation_id": corrID})
	}

	created, err := s.persist(ctx, corrID, finalToken, total, items)
	if err != nil {
		if s.lg != nil {
			s.lg.Warn("order_write_failed", err, map[string]any{"correlation_id": corrID})
		}
		s.moveToQueue(ctx, o)
		return s.snapshotOf(corrID), nil
	}

	s.mu.Lock()
	o.ID = created.ID
	o.CreatedAt = created.CreatedAt
	o.TokenNumber = finalToken
	o.Pending = false
	s.mu.Unlock()

	if s.lg != nil {
		s.lg.Info("order_confirmed", map[string]any{"order_id": created.ID, "token": finalToken, "total": total})
	}
	s.notifyConfirmed(ctx, corrID)
	return s.snapshotOf(corrID), nil
}

// TodayOrders returns a snapshot of orders created since local midnight,
// newest first.
func (s *Service) TodayOrders() []domain.Order {
	midnight := s.midnight()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if o.CreatedAt.Before(midnight) {
			continue
		}
		out = append(out, *o)
	}
	return out
}

func (s *Service) TodayStats() domain.Stats {
	var st domain.Stats
	for _, o := range s.TodayOrders() {
		st.TotalOrders++
		st.TotalSales += o.Total
		for _, item := range o.Items {
			st.TotalItems += item.Quantity
		}
	}
	return st
}

func (s *Service) PendingOffline() int { return s.queue.Pending() }

func (s *Service) SyncQueue(ctx context.Context) (int, error) { return s.queue.Sync(ctx) }

// --- internals ---

func validate(inputs []domain.CartItemInput) ([]domain.OrderItem, float64, error) {
	if len(inputs) == 0 {
		return nil, 0, errors.New("at least one item is required")
	}
	total := 0.0
	for _, in := range inputs {
		if in.Quantity < 1 {
			return nil, 0, fmt.Errorf("invalid quantity for item %s", in.Name)
		}
		if in.Price <= 0 {
			return nil, 0, fmt.Errorf("invalid price for item %s", in.Name)
		}
		total += float64(in.Quantity) * in.Price
	}
	return domain.ConvertItems(inputs), total, nil
}

func (s *Service) insert(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = append([]*domain.Order{o}, s.orders...)
}

// todayCount counts locally-known confirmed orders since midnight. Pending
// ones are excluded: the queue's pending count covers them, and counting both
// would double-charge the token sequence.
func (s *Service) todayCount() int {
	midnight := s.midnight()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, o := range s.orders {
		if !o.Pending && !o.CreatedAt.Before(midnight) {
			n++
		}
	}
	return n
}

// authoritativeCount corrects the provisional token for submissions from
// other terminals between our reads.
func (s *Service) authoritativeCount(ctx context.Context) (int, error) {
	var count int
	err := remote.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		count, err = s.sink.CountOrdersSince(ctx, s.midnight())
		return err
	})
	return count, err
}

func (s *Service) persist(ctx context.Context, corrID string, tokenNumber int, total float64, items []domain.OrderItem) (remote.CreatedOrder, error) {
	var created remote.CreatedOrder
	err := remote.Do(ctx, s.retry, func(ctx context.Context) error {
		var err error
		created, err = s.sink.CreateOrder(ctx, corrID, tokenNumber, total)
		return err
	})
	if err != nil {
		return remote.CreatedOrder{}, err
	}
	err = remote.Do(ctx, s.retry, func(ctx context.Context) error {
		return s.sink.CreateOrderItems(ctx, created.ID, items)
	})
	if err != nil {
		return remote.CreatedOrder{}, err
	}
	return created, nil
}

// moveToQueue demotes an optimistic order to "pending sync": its id becomes
// the queue id and it stays visible in the list.
func (s *Service) moveToQueue(ctx context.Context, o *domain.Order) {
	s.mu.Lock()
	ref, items, total, tok := o.CorrelationID, o.Items, o.Total, o.TokenNumber
	s.mu.Unlock()

	// The correlation id may already sit on the backend as client_ref if the
	// header insert got through before the failure; queueing under the same
	// id makes the sync replay resolve to that row instead of inserting a twin.
	qo := s.queue.Enqueue(ctx, ref, items, total, tok)

	s.mu.Lock()
	o.ID = qo.ID
	o.Pending = true
	s.mu.Unlock()
}

// reconcileSynced is called by the queue when the backend accepts a queued
// order: the in-memory twin flips from pending to confirmed in place.
func (s *Service) reconcileSynced(queueID string, created remote.CreatedOrder) {
	s.mu.Lock()
	var corrID string
	for _, o := range s.orders {
		if o.ID == queueID {
			o.ID = created.ID
			o.CreatedAt = created.CreatedAt
			o.Pending = false
			corrID = o.CorrelationID
			break
		}
	}
	s.mu.Unlock()

	if corrID != "" {
		s.notifyConfirmed(context.Background(), corrID)
	}
}

func (s *Service) notifyConfirmed(ctx context.Context, corrID string) {
	if s.notifier == nil {
		return
	}
	if o := s.snapshotOf(corrID); o != nil {
		s.notifier.OrderConfirmed(ctx, *o)
	}
}

func (s *Service) snapshotOf(corrID string) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.CorrelationID == corrID {
			cp := *o
			return &cp
		}
	}
	return nil
}

func (s *Service) midnight() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
