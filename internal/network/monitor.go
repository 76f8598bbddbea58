// Package network tracks backend reachability for the terminal.
package network

import (
	"context"
	"sync"
	"time"

	"cafe-pos/internal/common/logger"
)

// Probe answers "can we reach the backend right now". The default probe is a
// database ping; tests inject their own.
type Probe func(ctx context.Context) error

// Listener is notified synchronously on every online/offline transition.
type Listener func(online bool)

// Monitor debounces probe results into transition events. Before the first
// probe answers, the terminal is assumed online: a false "offline" would
// needlessly queue every order, a false "online" only costs one failed write
// that falls back to the queue anyway.
type Monitor struct {
	probe     Probe
	interval  time.Duration
	slowAfter time.Duration
	lg        *logger.Logger

	mu        sync.Mutex
	online    bool
	slow      bool
	listeners []Listener
}

func NewMonitor(probe Probe, interval, slowAfter time.Duration, lg *logger.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if slowAfter <= 0 {
		slowAfter = 2 * time.Second
	}
	return &Monitor{
		probe:     probe,
		interval:  interval,
		slowAfter: slowAfter,
		lg:        lg,
		online:    true,
	}
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Slow reports whether the last successful probe was sluggish.
func (m *Monitor) Slow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slow
}

func (m *Monitor) Subscribe(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, l)
}

// Set publishes a connectivity state. A non-change fires no event.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	listeners := make([]Listener, len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	if m.lg != nil {
		m.lg.Info("connectivity_changed", map[string]any{"online": online})
	}
	for _, l := range listeners {
		l(online)
	}
}

func (m *Monitor) setSlow(slow bool) {
	m.mu.Lock()
	m.slow = slow
	m.mu.Unlock()
}

// Run polls the probe until the context is canceled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	start := time.Now()
	err := m.probe(pctx)
	if err != nil {
		m.setSlow(false)
		m.Set(false)
		return
	}
	m.setSlow(time.Since(start) > m.slowAfter)
	m.Set(true)
}
