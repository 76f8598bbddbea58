// Package storage provides the device-scoped key/value surface used for the
// offline order queue and printer-connection memory.
package storage

import "context"

// Keys in use across the terminal.
const (
	KeyOfflineOrders    = "offline_orders"
	KeyConnectedPrinter = "connectedPrinter"
)

// KV is a string-keyed get/set surface scoped to one device. Values are
// serialized structured records; interpretation is the caller's business.
type KV interface {
	// Get returns the stored value and whether the key existed.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
