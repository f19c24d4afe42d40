// Package scan provides TCP connect port scanning gated on ICMP liveness.
package scan

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/Yonesj/Mini-Nmap/internal/logger"
	"github.com/Yonesj/Mini-Nmap/internal/probe"
)

// Scanner performs TCP connect scans.
type Scanner struct {
	config *Config
}

// New creates a new Scanner with the given configuration.
func New(config *Config) (*Scanner, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.PingTimeout <= 0 {
		config.PingTimeout = DefaultPingTimeout
	}
	if config.Logger == nil {
		config.Logger = logger.Discard()
	}

	return &Scanner{config: config}, nil
}

// PortRange returns the inclusive range between a and b in ascending order,
// whichever bound is given first.
func PortRange(a, b int) []int {
	lo, hi := min(a, b), max(a, b)
	ports := make([]int, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		ports = append(ports, p)
	}
	return ports
}

// Scan checks host liveness (when a Pinger is configured) and then probes
// every port in order. Unreachable ports are results, not errors.
func (s *Scanner) Scan(ctx context.Context, address string, ports []int) (*Report, error) {
	addr, err := probe.ParseIPv4(address)
	if err != nil {
		return nil, err
	}
	for _, p := range ports {
		if err := probe.ValidatePort(p); err != nil {
			return nil, err
		}
	}
	if s.config.MaxPorts > 0 && len(ports) > s.config.MaxPorts {
		return nil, fmt.Errorf("%w: %d ports, max %d", ErrRangeTooLarge, len(ports), s.config.MaxPorts)
	}

	report := &Report{
		Target:    address,
		Timestamp: time.Now(),
		Mode:      s.mode(),
		Ports:     []PortResult{},
	}
	start := time.Now()

	if s.config.Pinger != nil {
		if s.config.Pinger.IsOnline(address, s.config.PingTimeout) {
			report.Host = HostOnline
		} else {
			report.Host = HostOffline
			s.config.Logger.Info("host offline, skipping port scan", "target", address)
			s.finish(report, start)
			return report, nil
		}
	}

	if len(ports) > 0 {
		var results []PortResult
		if s.config.Sequential {
			results, err = s.scanSequential(ctx, addr, ports)
		} else {
			results, err = s.scanConcurrent(ctx, addr, ports)
		}
		if err != nil {
			return nil, err
		}
		report.Ports = results
	}

	s.finish(report, start)
	s.config.Logger.Debug("scan complete",
		"target", address,
		"ports", len(ports),
		"open", len(report.OpenPorts()),
		"duration", report.Duration)

	return report, nil
}

// ScanPorts returns the open ports of address in the order given.
func (s *Scanner) ScanPorts(ctx context.Context, address string, ports []int) ([]int, error) {
	report, err := s.Scan(ctx, address, ports)
	if err != nil {
		return nil, err
	}
	return report.OpenPorts(), nil
}

// ScanRange scans the inclusive range between start and end.
func (s *Scanner) ScanRange(ctx context.Context, address string, start, end int) (*Report, error) {
	if err := probe.ValidatePort(start); err != nil {
		return nil, err
	}
	if err := probe.ValidatePort(end); err != nil {
		return nil, err
	}
	count := max(start, end) - min(start, end) + 1
	if s.config.MaxPorts > 0 && count > s.config.MaxPorts {
		return nil, fmt.Errorf("%w: %d ports, max %d", ErrRangeTooLarge, count, s.config.MaxPorts)
	}
	return s.Scan(ctx, address, PortRange(start, end))
}

// scanSequential probes ports one by one.
func (s *Scanner) scanSequential(ctx context.Context, addr netip.Addr, ports []int) ([]PortResult, error) {
	results := make([]PortResult, 0, len(ports))

	for _, port := range ports {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result := s.probePort(ctx, addr, port)
		results = append(results, result)
		s.notify(result)
	}

	return results, nil
}

// probePort makes one TCP connect attempt to addr:port.
func (s *Scanner) probePort(ctx context.Context, addr netip.Addr, port int) PortResult {
	result := PortResult{Port: port}

	rtt, err := probe.Connect(ctx, addr, port, s.config.Timeout)
	if err != nil {
		result.Error = err.Error()
		s.config.Logger.Debug("port closed", "target", addr, "port", port, "error", err)
		return result
	}

	result.Open = true
	result.LatencyMs = float64(rtt.Microseconds()) / 1000.0
	s.config.Logger.Debug("port open", "target", addr, "port", port, "rtt", rtt)
	return result
}

func (s *Scanner) notify(result PortResult) {
	if s.config.OnResult != nil {
		s.config.OnResult(result)
	}
}

func (s *Scanner) mode() string {
	if s.config.Sequential {
		return "sequential"
	}
	return "concurrent"
}

func (s *Scanner) finish(report *Report, start time.Time) {
	report.Duration = time.Since(start)
	report.DurationMs = float64(report.Duration.Microseconds()) / 1000.0
}
