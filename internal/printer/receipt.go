package printer

import (
	"fmt"
	"strings"
	"time"

	"cafe-pos/internal/domain"
)

const receiptWidth = 32 // characters on a 58mm roll

type Receipt struct {
	BusinessName string
	TokenNumber  int
	Items        []domain.OrderItem
	Total        float64
	PlacedAt     time.Time
}

// renderBody lays the line items out in fixed columns. Shared by both the
// thermal path and the document fallback so the two artifacts match.
func renderBody(r Receipt) []string {
	lines := []string{
		strings.Repeat("-", receiptWidth),
	}
	for _, item := range r.Items {
		name := item.Name
		if r := []rune(name); len(r) > 18 {
			name = string(r[:18])
		}
		lines = append(lines, fmt.Sprintf("%-18s %2dx %8.2f", name, item.Quantity, item.Price*float64(item.Quantity)))
	}
	lines = append(lines,
		strings.Repeat("-", receiptWidth),
		fmt.Sprintf("%-22s %9.2f", "TOTAL", r.Total),
	)
	return lines
}

// thermalStream builds the full ESC/POS transaction for one receipt.
func thermalStream(r Receipt) []byte {
	cs := NewCommandSet()
	cs.Align(AlignCenter).Bold(true).Line(r.BusinessName).Bold(false)
	cs.Line(r.PlacedAt.Format("02 Jan 2006 15:04"))
	cs.DoubleSize(true).Line(fmt.Sprintf("TOKEN %d", r.TokenNumber)).DoubleSize(false)
	cs.Align(AlignLeft)
	for _, line := range renderBody(r) {
		cs.Line(line)
	}
	cs.Feed(3).Cut()
	return cs.Bytes()
}
