package scan

import (
	"log/slog"
	"time"
)

const (
	// DefaultTimeout is the per-port connect timeout.
	DefaultTimeout = time.Second

	// DefaultPingTimeout is how long the liveness gate waits for an Echo Reply.
	DefaultPingTimeout = 2 * time.Second

	// DefaultConcurrency is the worker pool size in concurrent mode.
	DefaultConcurrency = 100
)

// Pinger reports whether a host answers an ICMP Echo Request.
// *probe.LivenessProber satisfies it.
type Pinger interface {
	IsOnline(address string, timeout time.Duration) bool
}

// Config holds the configuration for a scan.
type Config struct {
	Timeout     time.Duration // Per-port connect timeout (default: 1s)
	PingTimeout time.Duration // Liveness gate timeout (default: 2s)

	// Mode settings
	Sequential  bool // Scan ports one at a time, in order
	Concurrency int  // Worker pool size (default: 100)

	// MaxPorts caps the number of ports in one scan (0 = unlimited)
	MaxPorts int

	// Pinger gates the port scan on host liveness. Nil skips the check and
	// leaves Report.Host as HostUnknown.
	Pinger Pinger

	// OnResult is called once per port as results arrive. In concurrent mode
	// it runs on the collector goroutine, never concurrently with itself.
	OnResult func(result PortResult)

	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		PingTimeout: DefaultPingTimeout,
		Concurrency: DefaultConcurrency,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if !c.Sequential && c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	return nil
}
