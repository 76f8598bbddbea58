package printer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DocumentFallback renders a formatted receipt into the spool directory,
// where the platform print dialog (or a human with a reprint button) picks
// it up. It exists so a print action always yields some printable artifact
// even with no thermal printer in reach.
type DocumentFallback struct {
	spoolDir string
}

func NewDocumentFallback(spoolDir string) (*DocumentFallback, error) {
	if err := os.MkdirAll(spoolDir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir: %w", err)
	}
	return &DocumentFallback{spoolDir: spoolDir}, nil
}

func (d *DocumentFallback) Native() bool { return false }

func (d *DocumentFallback) PrintReceipt(_ context.Context, r Receipt) error {
	var b strings.Builder
	center := func(s string) {
		pad := (receiptWidth - len(s)) / 2
		if pad < 0 {
			pad = 0
		}
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(s)
		b.WriteByte('\n')
	}

	center(r.BusinessName)
	center(r.PlacedAt.Format("02 Jan 2006 15:04"))
	center(fmt.Sprintf("** TOKEN %d **", r.TokenNumber))
	for _, line := range renderBody(r) {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	name := fmt.Sprintf("receipt-%s-token%d.txt", r.PlacedAt.Format("20060102-150405"), r.TokenNumber)
	path := filepath.Join(d.spoolDir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return &DeviceError{Code: CodeDeviceFault, Err: err}
	}
	return nil
}
