package probe

import "golang.org/x/sys/unix"

// icmpFilter is ICMP_FILTER from linux/icmp.h.
const icmpFilter = 1

// setEchoReplyFilter makes the kernel drop every ICMP type except Echo Reply
// before it reaches the socket, so looped-back requests are never read.
// Bits set in the mask are filtered out.
func setEchoReplyFilter(fd int) error {
	mask := ^uint32(1 << ICMPv4EchoReply)
	return unix.SetsockoptInt(fd, unix.SOL_RAW, icmpFilter, int(int32(mask)))
}
