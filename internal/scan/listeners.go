package scan

import (
	"context"
	"syscall"

	gnet "github.com/shirou/gopsutil/v3/net"
)

// listener is one deduplicated listening socket with a resolved owner.
type listener struct {
	Port     uint32
	Protocol Protocol
	PID      int32
}

// listeners enumerates all inet sockets in a listening state and maps each
// one to its owning process. Entries with no bound local port or no
// resolvable owner are skipped. Ports are deduplicated across the whole
// sequence regardless of protocol: the first socket seen for a port wins,
// so a TCP and a UDP listener sharing a port collapse into one entry.
func (s *Scanner) listeners(ctx context.Context) ([]listener, error) {
	conns, err := s.connections(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint32]struct{})
	result := make([]listener, 0, len(conns))
	for _, conn := range conns {
		if conn.Laddr.Port == 0 {
			continue
		}
		if !listening(conn) {
			continue
		}
		if conn.Pid == 0 {
			continue
		}
		if _, dup := seen[conn.Laddr.Port]; dup {
			continue
		}
		seen[conn.Laddr.Port] = struct{}{}

		proto := ProtocolTCP
		if conn.Type == uint32(syscall.SOCK_DGRAM) {
			proto = ProtocolUDP
		}
		result = append(result, listener{
			Port:     conn.Laddr.Port,
			Protocol: proto,
			PID:      conn.Pid,
		})
	}
	return result, nil
}

// listening reports whether a socket is accept-ready. TCP listeners carry
// the LISTEN state; bound UDP sockets surface with "NONE" or an empty
// status depending on platform, so those count as listeners too.
func listening(conn gnet.ConnectionStat) bool {
	if conn.Status == "LISTEN" {
		return true
	}
	if conn.Type == uint32(syscall.SOCK_DGRAM) {
		return conn.Status == "NONE" || conn.Status == ""
	}
	return false
}
