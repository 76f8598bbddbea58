package printer

import (
	"context"
	"fmt"
	"io"
	"sync"

	"cafe-pos/internal/common/logger"
	"cafe-pos/internal/storage"
)

// Device error codes surfaced to the UI.
const (
	CodeNotConnected = "printer_not_connected"
	CodeNoPaper      = "printer_out_of_paper"
	CodeDeviceFault  = "printer_device_fault"
	CodeUnsupported  = "printer_not_supported"
)

type DeviceError struct {
	Code string
	Err  error
}

func (e *DeviceError) Error() string {
	if e.Err == nil {
		return e.Code
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

type Device struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

// Transport is the device-facing side of the thermal path: discovery and a
// raw byte pipe to a printer. The Bluetooth protocol itself lives behind
// this interface.
type Transport interface {
	Scan(ctx context.Context) ([]Device, error)
	Dial(ctx context.Context, address string) (io.WriteCloser, error)
}

// Thermal drives an ESC/POS printer over a Transport. The last connected
// address is remembered in device storage so a restart reconnects silently.
type Thermal struct {
	transport Transport
	kv        storage.KV
	lg        *logger.Logger

	mu   sync.Mutex
	conn io.WriteCloser
	addr string
}

func NewThermal(transport Transport, kv storage.KV, lg *logger.Logger) *Thermal {
	return &Thermal{transport: transport, kv: kv, lg: lg}
}

func (t *Thermal) Native() bool { return true }

func (t *Thermal) Scan(ctx context.Context) ([]Device, error) {
	devices, err := t.transport.Scan(ctx)
	if err != nil {
		return nil, &DeviceError{Code: CodeDeviceFault, Err: err}
	}
	return devices, nil
}

func (t *Thermal) Connect(ctx context.Context, address string) error {
	conn, err := t.transport.Dial(ctx, address)
	if err != nil {
		return &DeviceError{Code: CodeDeviceFault, Err: err}
	}

	t.mu.Lock()
	if t.conn != nil {
		_ = t.conn.Close()
	}
	t.conn = conn
	t.addr = address
	t.mu.Unlock()

	if err := t.kv.Set(ctx, storage.KeyConnectedPrinter, []byte(address)); err != nil && t.lg != nil {
		t.lg.Warn("printer_remember_failed", err, map[string]any{"address": address})
	}
	if t.lg != nil {
		t.lg.Info("printer_connected", map[string]any{"address": address})
	}
	return nil
}

// Reconnect dials the address remembered from the previous session, if any.
func (t *Thermal) Reconnect(ctx context.Context) error {
	b, ok, err := t.kv.Get(ctx, storage.KeyConnectedPrinter)
	if err != nil || !ok || len(b) == 0 {
		return err
	}
	return t.Connect(ctx, string(b))
}

func (t *Thermal) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.conn != nil
}

func (t *Thermal) Disconnect(ctx context.Context) {
	t.mu.Lock()
	if t.conn != nil {
		_ = t.conn.Close()
		t.conn = nil
		t.addr = ""
	}
	t.mu.Unlock()
	_ = t.kv.Delete(ctx, storage.KeyConnectedPrinter)
}

// PrintReceipt flushes one composed ESC/POS transaction to the device.
func (t *Thermal) PrintReceipt(_ context.Context, r Receipt) error {
	t.mu.Lock()
	conn := t.conn
	t.mu.Unlock()
	if conn == nil {
		return &DeviceError{Code: CodeNotConnected}
	}

	if _, err := conn.Write(thermalStream(r)); err != nil {
		// A failed write usually means the link is gone; drop it so the next
		// attempt reports not-connected instead of hanging.
		t.mu.Lock()
		if t.conn == conn {
			_ = t.conn.Close()
			t.conn = nil
		}
		t.mu.Unlock()
		return &DeviceError{Code: CodeDeviceFault, Err: err}
	}
	return nil
}
