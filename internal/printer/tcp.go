package printer

import (
	"context"
	"io"
	"net"
	"time"
)

// TCPTransport drives printers that accept raw ESC/POS over a socket (the
// usual port is 9100). Raw sockets have no discovery protocol, so Scan comes
// back empty and staff key the address in by hand.
type TCPTransport struct {
	dialer net.Dialer
}

func NewTCPTransport() *TCPTransport {
	return &TCPTransport{dialer: net.Dialer{Timeout: 5 * time.Second}}
}

func (t *TCPTransport) Scan(context.Context) ([]Device, error) { return nil, nil }

func (t *TCPTransport) Dial(ctx context.Context, address string) (io.WriteCloser, error) {
	conn, err := t.dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
