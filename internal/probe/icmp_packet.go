package probe

import (
	"encoding/binary"
)

// ICMP message types for IPv4
const (
	ICMPv4EchoReply   = 0
	ICMPv4EchoRequest = 8
)

// ICMPHeaderLen is the size of an ICMP Echo header on the wire.
const ICMPHeaderLen = 8

// DefaultPayload is the fixed 32-byte body carried by every liveness probe.
var DefaultPayload = []byte("abcdefghijklmnopqrstuvwabcdefghi")

// ICMPPacket represents an ICMP Echo Request/Reply packet.
type ICMPPacket struct {
	Type       uint8
	Code       uint8
	Checksum   uint16
	Identifier uint16
	Sequence   uint16
	Payload    []byte
}

// NewICMPEchoRequest creates a new ICMP Echo Request packet.
func NewICMPEchoRequest(id, seq uint16, payload []byte) *ICMPPacket {
	return &ICMPPacket{
		Type:       ICMPv4EchoRequest,
		Code:       0,
		Identifier: id,
		Sequence:   seq,
		Payload:    payload,
	}
}

// Marshal serializes the packet, computing the checksum over the header with
// a zeroed checksum field followed by the payload. The computed value is
// stored back into p.Checksum.
func (p *ICMPPacket) Marshal() []byte {
	buf := make([]byte, ICMPHeaderLen+len(p.Payload))

	buf[0] = p.Type
	buf[1] = p.Code
	// bytes 2-3 stay zero until the checksum is known
	binary.BigEndian.PutUint16(buf[4:6], p.Identifier)
	binary.BigEndian.PutUint16(buf[6:8], p.Sequence)
	copy(buf[ICMPHeaderLen:], p.Payload)

	p.Checksum = Checksum(buf)
	binary.BigEndian.PutUint16(buf[2:4], p.Checksum)

	return buf
}

// BuildEchoRequest returns the wire form of an Echo Request:
// an 8-byte header (type 8, code 0, checksum, identifier, sequence) followed
// by payload. The result is always 8+len(payload) bytes long.
func BuildEchoRequest(id, seq uint16, payload []byte) []byte {
	return NewICMPEchoRequest(id, seq, payload).Marshal()
}

// ParseICMPPacket parses an ICMP packet from bytes.
func ParseICMPPacket(data []byte) (*ICMPPacket, error) {
	if len(data) < ICMPHeaderLen {
		return nil, ErrInvalidPacket
	}

	p := &ICMPPacket{
		Type:       data[0],
		Code:       data[1],
		Checksum:   binary.BigEndian.Uint16(data[2:4]),
		Identifier: binary.BigEndian.Uint16(data[4:6]),
		Sequence:   binary.BigEndian.Uint16(data[6:8]),
	}

	if len(data) > ICMPHeaderLen {
		p.Payload = make([]byte, len(data)-ICMPHeaderLen)
		copy(p.Payload, data[ICMPHeaderLen:])
	}

	return p, nil
}

// IsEchoReply checks if this is an ICMP Echo Reply. The code is not inspected.
func (p *ICMPPacket) IsEchoReply() bool {
	return p.Type == ICMPv4EchoReply
}
