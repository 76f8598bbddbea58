package printer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"cafe-pos/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	return b, ok, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type pipe struct {
	buf    bytes.Buffer
	broken bool
}

func (p *pipe) Write(b []byte) (int, error) {
	if p.broken {
		return 0, errors.New("link lost")
	}
	return p.buf.Write(b)
}

func (p *pipe) Close() error { return nil }

type fakeTransport struct {
	devices  []Device
	lastPipe *pipe
	dialErr  error
}

func (f *fakeTransport) Scan(context.Context) ([]Device, error) { return f.devices, nil }

func (f *fakeTransport) Dial(_ context.Context, _ string) (io.WriteCloser, error) {
	if f.dialErr != nil {
		return nil, f.dialErr
	}
	f.lastPipe = &pipe{}
	return f.lastPipe, nil
}

func TestThermal_ConnectRemembersAddress(t *testing.T) {
	kv := newMemKV()
	tr := &fakeTransport{}
	th := NewThermal(tr, kv, nil)

	require.NoError(t, th.Connect(context.Background(), "AA:BB:CC"))
	assert.True(t, th.IsConnected())

	b, ok, err := kv.Get(context.Background(), storage.KeyConnectedPrinter)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AA:BB:CC", string(b))

	// A fresh session reconnects from memory.
	th2 := NewThermal(&fakeTransport{}, kv, nil)
	require.NoError(t, th2.Reconnect(context.Background()))
	assert.True(t, th2.IsConnected())
}

func TestThermal_DisconnectForgetsAddress(t *testing.T) {
	kv := newMemKV()
	th := NewThermal(&fakeTransport{}, kv, nil)
	require.NoError(t, th.Connect(context.Background(), "AA:BB:CC"))

	th.Disconnect(context.Background())
	assert.False(t, th.IsConnected())
	_, ok, _ := kv.Get(context.Background(), storage.KeyConnectedPrinter)
	assert.False(t, ok)
}

func TestThermal_PrintWithoutConnection(t *testing.T) {
	th := NewThermal(&fakeTransport{}, newMemKV(), nil)
	err := th.PrintReceipt(context.Background(), testReceipt())

	var de *DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeNotConnected, de.Code)
}

func TestThermal_PrintFlushesFullStream(t *testing.T) {
	tr := &fakeTransport{}
	th := NewThermal(tr, newMemKV(), nil)
	require.NoError(t, th.Connect(context.Background(), "AA:BB:CC"))

	require.NoError(t, th.PrintReceipt(context.Background(), testReceipt()))
	assert.Equal(t, thermalStream(testReceipt()), tr.lastPipe.buf.Bytes())
}

func TestThermal_WriteFailureDropsConnection(t *testing.T) {
	tr := &fakeTransport{}
	th := NewThermal(tr, newMemKV(), nil)
	require.NoError(t, th.Connect(context.Background(), "AA:BB:CC"))
	tr.lastPipe.broken = true

	err := th.PrintReceipt(context.Background(), testReceipt())
	var de *DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, CodeDeviceFault, de.Code)
	assert.False(t, th.IsConnected())
}
