// Package probe provides the host probing primitives: the Internet checksum,
// ICMP Echo packet construction, raw-socket liveness checks and TCP connect
// latency measurement.
package probe

import (
	"fmt"
	"net/netip"
)

// ParseIPv4 parses a textual IPv4 address. Hostnames are not resolved.
func ParseIPv4(address string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(address)
	if err != nil || !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return addr, nil
}

// ValidatePort checks that port fits in a TCP port number.
func ValidatePort(port int) error {
	if port < 0 || port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return nil
}
