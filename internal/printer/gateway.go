// Package printer produces receipts: natively over ESC/POS when a thermal
// printer is connected, through a rendered document otherwise.
package printer

import (
	"context"
	"errors"
	"sync/atomic"

	"cafe-pos/internal/common/logger"
)

// Capability is one way of getting ink on paper.
type Capability interface {
	PrintReceipt(ctx context.Context, r Receipt) error
	Native() bool
}

// Result is what the UI gets back. PrintReceipt never returns an error: a
// native failure is folded into Code and retried through the fallback.
type Result struct {
	Printed bool   `json:"printed"`
	Via     string `json:"via"`  // "thermal" | "document" | ""
	Code    string `json:"code"` // distinguished error code for UI messaging
}

const codeInFlight = "print_in_flight"

// Gateway routes a print call to the native capability and falls back to the
// document renderer so the user is never blocked from producing a receipt.
type Gateway struct {
	native   Capability // nil when the platform has no thermal support
	fallback Capability
	lg       *logger.Logger

	busy atomic.Bool
}

func NewGateway(native, fallback Capability, lg *logger.Logger) *Gateway {
	return &Gateway{native: native, fallback: fallback, lg: lg}
}

// PrintReceipt prints through the first capability that works. A call that
// arrives while a previous one is still in flight is dropped, so a double
// tap never produces two physical receipts.
func (g *Gateway) PrintReceipt(ctx context.Context, r Receipt) Result {
	if !g.busy.CompareAndSwap(false, true) {
		return Result{Printed: false, Code: codeInFlight}
	}
	defer g.busy.Store(false)

	var nativeCode string
	if g.native != nil {
		err := g.native.PrintReceipt(ctx, r)
		if err == nil {
			return Result{Printed: true, Via: "thermal"}
		}
		nativeCode = deviceCode(err)
		if g.lg != nil {
			g.lg.Warn("native_print_failed", err, map[string]any{"token": r.TokenNumber, "code": nativeCode})
		}
	} else {
		nativeCode = CodeUnsupported
	}

	if err := g.fallback.PrintReceipt(ctx, r); err != nil {
		if g.lg != nil {
			g.lg.Error("fallback_print_failed", err, map[string]any{"token": r.TokenNumber})
		}
		return Result{Printed: false, Code: nativeCode}
	}
	return Result{Printed: true, Via: "document", Code: nativeCode}
}

func deviceCode(err error) string {
	var de *DeviceError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeDeviceFault
}
