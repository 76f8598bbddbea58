package network

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonitor_DefaultsToOnline(t *testing.T) {
	m := NewMonitor(func(context.Context) error { return nil }, time.Second, time.Second, nil)
	assert.True(t, m.Online())
	assert.False(t, m.Slow())
}

func TestMonitor_SetNotifiesOnTransitionOnly(t *testing.T) {
	m := NewMonitor(nil, time.Second, time.Second, nil)

	var events []bool
	m.Subscribe(func(online bool) { events = append(events, online) })

	m.Set(true)  // non-change, already online
	m.Set(false) // transition
	m.Set(false) // non-change
	m.Set(true)  // transition

	assert.Equal(t, []bool{false, true}, events)
}

func TestMonitor_NotifiesAllSubscribers(t *testing.T) {
	m := NewMonitor(nil, time.Second, time.Second, nil)

	var a, b int
	m.Subscribe(func(bool) { a++ })
	m.Subscribe(func(bool) { b++ })

	m.Set(false)
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestMonitor_CheckFlipsStateOnProbeResult(t *testing.T) {
	probeErr := errors.New("unreachable")
	fail := true
	m := NewMonitor(func(context.Context) error {
		if fail {
			return probeErr
		}
		return nil
	}, time.Second, time.Second, nil)

	m.check(context.Background())
	assert.False(t, m.Online())

	fail = false
	m.check(context.Background())
	assert.True(t, m.Online())
}

func TestMonitor_SlowProbeSetsHint(t *testing.T) {
	m := NewMonitor(func(context.Context) error {
		time.Sleep(5 * time.Millisecond)
		return nil
	}, time.Second, time.Millisecond, nil)

	m.check(context.Background())
	assert.True(t, m.Online())
	assert.True(t, m.Slow())
}
