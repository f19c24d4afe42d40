package scan

import (
	"fmt"
	"time"
)

// HostState is the outcome of the liveness gate.
type HostState int

const (
	// HostUnknown means no liveness check was made
	HostUnknown HostState = iota
	// HostOnline means the host answered the Echo Request
	HostOnline
	// HostOffline means no matching Echo Reply arrived in time
	HostOffline
)

// String returns the string representation of the host state.
func (h HostState) String() string {
	switch h {
	case HostOnline:
		return "online"
	case HostOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (h HostState) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *HostState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "online":
		*h = HostOnline
	case "offline":
		*h = HostOffline
	case "unknown", "":
		*h = HostUnknown
	default:
		return fmt.Errorf("unknown host state %q", text)
	}
	return nil
}

// PortResult is the outcome of probing a single port.
type PortResult struct {
	// Port is the TCP port number
	Port int `json:"port"`

	// Open is true when the TCP handshake completed
	Open bool `json:"open"`

	// LatencyMs is the handshake time in milliseconds (open ports only)
	LatencyMs float64 `json:"latency_ms,omitempty"`

	// Error is the dial error for closed ports
	Error string `json:"error,omitempty"`
}

// Report contains the complete result of a scan.
type Report struct {
	// Target is the scanned IPv4 address
	Target string `json:"target"`

	// Timestamp is when the scan started
	Timestamp time.Time `json:"timestamp"`

	// Host is the liveness gate outcome
	Host HostState `json:"host"`

	// Mode is "sequential" or "concurrent"
	Mode string `json:"mode"`

	// Ports holds one result per requested port, in request order.
	// Empty when the host was found offline.
	Ports []PortResult `json:"ports"`

	// Duration is the total wall time of the scan
	Duration time.Duration `json:"-"`

	// DurationMs mirrors Duration for serialized output
	DurationMs float64 `json:"duration_ms"`
}

// OpenPorts returns the open port numbers in request order.
func (r *Report) OpenPorts() []int {
	open := make([]int, 0, len(r.Ports))
	for _, p := range r.Ports {
		if p.Open {
			open = append(open, p.Port)
		}
	}
	return open
}

// Scanned reports whether the port phase ran.
func (r *Report) Scanned() bool {
	return r.Host != HostOffline
}
