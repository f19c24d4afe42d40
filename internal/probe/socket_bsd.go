//go:build darwin || freebsd || netbsd || openbsd

package probe

// setEchoReplyFilter is a no-op: BSD raw sockets have no ICMP_FILTER.
func setEchoReplyFilter(fd int) error {
	return nil
}
