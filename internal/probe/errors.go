package probe

import "errors"

// Probe-related errors.
var (
	// ErrTimeout indicates the probe timed out waiting for a response
	ErrTimeout = errors.New("probe timeout")

	// ErrPermissionDenied indicates insufficient privileges for raw sockets
	ErrPermissionDenied = errors.New("permission denied: raw socket requires elevated privileges")

	// ErrUnsupportedPlatform indicates raw ICMP sockets are not available on this OS
	ErrUnsupportedPlatform = errors.New("raw ICMP sockets are not supported on this platform")

	// ErrInvalidPacket indicates a malformed or truncated packet was received
	ErrInvalidPacket = errors.New("invalid packet received")

	// ErrNoMatch indicates a well-formed reply that is not our Echo Reply
	ErrNoMatch = errors.New("reply does not match echo request")

	// ErrInvalidAddress indicates the target is not an IPv4 address
	ErrInvalidAddress = errors.New("target must be an IPv4 address")

	// ErrInvalidPort indicates a port outside 0-65535
	ErrInvalidPort = errors.New("port must be between 0 and 65535")
)

// IsTimeout returns true if the error indicates a timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsPermissionError returns true if the error is a permission error.
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}
