package probe

import (
	"context"
	"net"
	"net/netip"
	"time"
)

const (
	// DefaultLatencyTimeout bounds a MeasureLatency connect attempt.
	DefaultLatencyTimeout = 5 * time.Second

	// LatencyFailed is returned by MeasureLatency when the connect fails.
	LatencyFailed = -1.0
)

// Connect performs one TCP handshake with addr:port and closes the connection
// right away. It returns the time the handshake took.
func Connect(ctx context.Context, addr netip.Addr, port int, timeout time.Duration) (time.Duration, error) {
	dialer := net.Dialer{Timeout: timeout}
	target := netip.AddrPortFrom(addr, uint16(port)).String()

	start := time.Now()
	conn, err := dialer.DialContext(ctx, "tcp4", target)
	if err != nil {
		return 0, err
	}
	elapsed := time.Since(start)
	conn.Close()

	return elapsed, nil
}

// MeasureLatency times a TCP connect to address:port and returns the elapsed
// milliseconds, or LatencyFailed if the connection could not be established
// within timeout. A non-positive timeout uses DefaultLatencyTimeout.
func MeasureLatency(address string, port int, timeout time.Duration) float64 {
	addr, err := ParseIPv4(address)
	if err != nil {
		return LatencyFailed
	}
	if err := ValidatePort(port); err != nil {
		return LatencyFailed
	}
	if timeout <= 0 {
		timeout = DefaultLatencyTimeout
	}

	rtt, err := Connect(context.Background(), addr, port, timeout)
	if err != nil {
		return LatencyFailed
	}
	return float64(rtt) / float64(time.Millisecond)
}
