// Package netcheck answers two questions about the outside world: what is
// this host's public address, and is a given port reachable from it. Both
// are single best-effort calls with hard deadlines.
package netcheck

import (
	"context"
	"net"
	"strconv"
	"time"
)

// Probe attempts one TCP handshake against host:port bounded by timeout.
// It reports true only for a fully established connection; timeouts,
// refusals and resolution failures all read as unreachable. The connection
// is closed immediately, no retries.
func Probe(ctx context.Context, host string, port uint32, timeout time.Duration) bool {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
