//go:build linux || darwin || freebsd || netbsd || openbsd

package probe

import (
	"errors"
	"fmt"
	"net/netip"
	"time"

	"golang.org/x/sys/unix"
)

// rawSocket is a blocking AF_INET/SOCK_RAW/IPPROTO_ICMP socket.
// Reads return the whole IPv4 datagram, header included.
type rawSocket struct {
	fd       int
	deadline time.Time
}

// openRawSocket opens a raw ICMP socket whose receive calls give up after timeout.
func openRawSocket(timeout time.Duration) (rawConn, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_ICMP)
	if err != nil {
		if errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES) {
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("failed to open raw ICMP socket: %w", err)
	}

	sock := &rawSocket{fd: fd, deadline: time.Now().Add(timeout)}
	if err := sock.setReceiveTimeout(timeout); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to set receive timeout: %w", err)
	}

	if err := setEchoReplyFilter(fd); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to set ICMP filter: %w", err)
	}

	return sock, nil
}

// WriteTo sends b to dst. The port of the sockaddr is irrelevant for ICMP.
func (s *rawSocket) WriteTo(b []byte, dst netip.Addr) error {
	return unix.Sendto(s.fd, b, 0, &unix.SockaddrInet4{Addr: dst.As4()})
}

// Read receives one datagram.
func (s *rawSocket) Read(b []byte) (int, error) {
	recv := func() (int, error) {
		n, _, err := unix.Recvfrom(s.fd, b, 0)
		return n, err
	}
	return recvUntil(s.deadline, recv, s.setReceiveTimeout)
}

func (s *rawSocket) setReceiveTimeout(d time.Duration) error {
	tv := unix.NsecToTimeval(d.Nanoseconds())
	return unix.SetsockoptTimeval(s.fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv)
}

// recvUntil calls recv until it returns data, a hard error or the deadline
// passes. After an interrupted call the receive timeout is shortened to what
// is left before the deadline, so retries never extend the total wait.
func recvUntil(deadline time.Time, recv func() (int, error), rearm func(time.Duration) error) (int, error) {
	for {
		n, err := recv()
		switch {
		case err == nil:
			return n, nil
		case errors.Is(err, unix.EINTR):
			// A zero SO_RCVTIMEO blocks forever.
			remaining := time.Until(deadline)
			if remaining < time.Microsecond {
				return 0, ErrTimeout
			}
			if err := rearm(remaining); err != nil {
				return 0, fmt.Errorf("failed to reset receive timeout: %w", err)
			}
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
			return 0, ErrTimeout
		default:
			return 0, err
		}
	}
}

// Close releases the descriptor.
func (s *rawSocket) Close() error {
	return unix.Close(s.fd)
}
