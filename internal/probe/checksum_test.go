package probe

import (
	"bytes"
	"encoding/binary"
	"math/bits"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name: "ICMP Echo Request header",
			// Type=8, Code=0, Checksum=0, ID=1, Seq=1
			data:     []byte{0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01},
			expected: 0xf7fd,
		},
		{
			name:     "Simple even length",
			data:     []byte{0x00, 0x01, 0x00, 0x02},
			expected: 0xfffc,
		},
		{
			name:     "Odd length data",
			data:     []byte{0x00, 0x01, 0xf2},
			expected: 0x0dfe,
		},
		{
			name:     "All zeros",
			data:     []byte{0x00, 0x00, 0x00, 0x00},
			expected: 0xffff,
		},
		{
			name:     "All ones",
			data:     []byte{0xff, 0xff, 0xff, 0xff},
			expected: 0x0000,
		},
		{
			name:     "Empty data",
			data:     []byte{},
			expected: 0xffff,
		},
		{
			name:     "Single byte",
			data:     []byte{0x45},
			expected: 0xbaff,
		},
		{
			name: "Carry needs folding",
			// 0xffff + 0xffff + 0x0002 = 0x20000 -> 0x0002 after folding
			data:     []byte{0xff, 0xff, 0xff, 0xff, 0x00, 0x02},
			expected: 0xfffd,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Checksum(tt.data)
			if result != tt.expected {
				t.Errorf("Checksum(%v) = 0x%04x, want 0x%04x", tt.data, result, tt.expected)
			}
		})
	}
}

func TestChecksum_OddLengthPadding(t *testing.T) {
	inputs := [][]byte{
		{0x45},
		{0x00, 0x01, 0xf2},
		[]byte("abcdefghijklmnopqrstuvwabcdefgh"),
	}

	for _, in := range inputs {
		padded := append(append([]byte{}, in...), 0x00)
		if got, want := Checksum(in), Checksum(padded); got != want {
			t.Errorf("Checksum(%q) = 0x%04x, padded = 0x%04x", in, got, want)
		}
	}
}

func TestChecksum_DoesNotMutateInput(t *testing.T) {
	data := []byte{0x08, 0x00, 0x12, 0x34, 0x56}
	snapshot := append([]byte{}, data...)

	Checksum(data)

	if !bytes.Equal(data, snapshot) {
		t.Errorf("Checksum modified its input: %v, want %v", data, snapshot)
	}
}

// nativeOrderChecksum sums words in host byte order and swaps the result on
// little-endian hosts, the classic formulation of the algorithm.
func nativeOrderChecksum(data []byte) uint16 {
	if len(data)%2 == 1 {
		data = append(append([]byte{}, data...), 0)
	}

	var sum uint32
	for i := 0; i < len(data); i += 2 {
		sum += uint32(binary.NativeEndian.Uint16(data[i:]))
	}
	sum = (sum >> 16) + (sum & 0xffff)
	sum += sum >> 16

	chk := ^uint16(sum)
	var order [2]byte
	binary.NativeEndian.PutUint16(order[:], 1)
	if order[0] == 1 { // little-endian
		chk = bits.ReverseBytes16(chk)
	}
	return chk
}

func TestChecksum_MatchesNativeOrderFormulation(t *testing.T) {
	inputs := [][]byte{
		{},
		{0x45},
		{0x08, 0x00, 0x00, 0x00, 0x12, 0x34, 0x00, 0x01},
		append([]byte{0x08, 0x00, 0x00, 0x00, 0xbe, 0xef, 0x00, 0x01}, DefaultPayload...),
		bytes.Repeat([]byte{0xff, 0xfe, 0x01}, 50),
	}

	for _, in := range inputs {
		if got, want := Checksum(in), nativeOrderChecksum(in); got != want {
			t.Errorf("Checksum(% x) = 0x%04x, native formulation = 0x%04x", in, got, want)
		}
	}
}

func TestValidateChecksum(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		valid bool
	}{
		{
			name: "Valid ICMP packet with correct checksum",
			// Type=8, Code=0, Checksum=0xf7fd, ID=1, Seq=1
			data:  []byte{0x08, 0x00, 0xf7, 0xfd, 0x00, 0x01, 0x00, 0x01},
			valid: true,
		},
		{
			name: "Invalid checksum",
			data:  []byte{0x08, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01},
			valid: false,
		},
		{
			name:  "All zeros is valid",
			data:  []byte{0x00, 0x00, 0xff, 0xff},
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateChecksum(tt.data)
			if result != tt.valid {
				t.Errorf("ValidateChecksum(%v) = %v, want %v", tt.data, result, tt.valid)
			}
		})
	}
}

func TestChecksum_SelfVerifying(t *testing.T) {
	payloads := [][]byte{nil, {0x01}, DefaultPayload, bytes.Repeat([]byte{0xa5}, 99)}

	for _, payload := range payloads {
		packet := BuildEchoRequest(0xbeef, 7, payload)

		// Recomputing over the whole packet, checksum included, gives zero.
		if got := Checksum(packet); got != 0x0000 && got != 0xffff {
			t.Errorf("Checksum over complete packet = 0x%04x, want 0x0000 or 0xffff", got)
		}
		if !ValidateChecksum(packet) {
			t.Errorf("ValidateChecksum failed for payload of %d bytes", len(payload))
		}
	}
}

func BenchmarkChecksum(b *testing.B) {
	// Typical ICMP packet with 56 bytes of data
	data := make([]byte, 64)
	data[0] = 0x08 // ICMP Echo Request

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Checksum(data)
	}
}
