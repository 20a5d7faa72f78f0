// Package scan discovers locally listening network services and enriches
// each one with the identity and resource usage of its owning process.
package scan

import (
	"fmt"
	"time"
)

// Protocol is the transport of a listening socket.
type Protocol string

const (
	ProtocolTCP Protocol = "tcp"
	ProtocolUDP Protocol = "udp"
)

// ServiceRecord describes one listening port and the process behind it.
// Records are built fresh on every snapshot; nothing is cached between calls.
type ServiceRecord struct {
	PID        int32
	Name       string
	Port       uint32
	Protocol   Protocol
	Uptime     time.Duration
	CPUPercent float64
	MemoryMB   float64
	Reachable  bool
	Path       string
}

// UptimeString renders the uptime as H:MM:SS, with a day count prefix for
// long-lived processes.
func (r ServiceRecord) UptimeString() string {
	d := r.Uptime
	if d < 0 {
		d = 0
	}
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if days > 0 {
		return fmt.Sprintf("%dd %d:%02d:%02d", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
