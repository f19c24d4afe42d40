package probe

// Checksum calculates the Internet Checksum (RFC 1071) of data.
//
// Words are summed in network byte order, so the returned value is already
// the one that goes on the wire big-endian regardless of host endianness.
// An odd trailing byte is treated as if followed by a zero byte; data itself
// is never modified.
func Checksum(data []byte) uint16 {
	return ^fold(sum16(data))
}

// ValidateChecksum verifies that a packet's checksum is correct.
// The one's-complement sum over a packet that carries its own checksum is 0xFFFF.
func ValidateChecksum(data []byte) bool {
	return fold(sum16(data)) == 0xffff
}

// sum16 adds data as big-endian 16-bit words into a 32-bit accumulator.
func sum16(data []byte) uint32 {
	var sum uint32

	n := len(data) &^ 1
	for i := 0; i < n; i += 2 {
		sum += uint32(data[i])<<8 | uint32(data[i+1])
	}

	// Pad the left-over byte with zero
	if len(data)%2 == 1 {
		sum += uint32(data[len(data)-1]) << 8
	}

	return sum
}

// fold adds the carries above bit 16 back into the low half until the sum fits.
func fold(sum uint32) uint16 {
	for sum > 0xffff {
		sum = (sum >> 16) + (sum & 0xffff)
	}
	return uint16(sum)
}
