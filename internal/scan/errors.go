package scan

import (
	"errors"

	"github.com/Yonesj/Mini-Nmap/internal/probe"
)

// Scan-related errors.
var (
	// ErrInvalidAddress indicates the target is not an IPv4 address
	ErrInvalidAddress = probe.ErrInvalidAddress

	// ErrInvalidPort indicates a port outside 0-65535
	ErrInvalidPort = probe.ErrInvalidPort

	// ErrRangeTooLarge indicates more ports were requested than Config.MaxPorts allows
	ErrRangeTooLarge = errors.New("port range exceeds the configured maximum")

	// ErrInvalidTimeout indicates a non-positive per-port timeout
	ErrInvalidTimeout = errors.New("timeout must be positive")

	// ErrInvalidConcurrency indicates a worker count below one
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
)
