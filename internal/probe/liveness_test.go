package probe

import (
	"errors"
	"net"
	"net/netip"
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

// fakeConn is an in-memory raw socket that hands back one canned datagram.
type fakeConn struct {
	reply    []byte
	readErr  error
	writeErr error
	wait     time.Duration

	sent   []byte
	dst    netip.Addr
	reads  int
	closed bool
}

func (c *fakeConn) WriteTo(b []byte, dst netip.Addr) error {
	c.sent = append([]byte{}, b...)
	c.dst = dst
	return c.writeErr
}

func (c *fakeConn) Read(b []byte) (int, error) {
	c.reads++
	if c.wait > 0 {
		time.Sleep(c.wait)
	}
	if c.readErr != nil {
		return 0, c.readErr
	}
	return copy(b, c.reply), nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	return nil
}

// fakeOpener returns conn for every call after the constructor's capability check.
func fakeOpener(conn *fakeConn) socketOpener {
	return func(timeout time.Duration) (rawConn, error) {
		return conn, nil
	}
}

// buildReply serializes an IPv4 datagram carrying an ICMP message, the way
// the kernel hands it to a raw socket.
func buildReply(t *testing.T, icmpType uint8, id uint16, ipOptions bool) []byte {
	t.Helper()

	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Protocol: layers.IPProtocolICMPv4,
		SrcIP:    net.IPv4(192, 0, 2, 1),
		DstIP:    net.IPv4(192, 0, 2, 2),
	}
	if ipOptions {
		// four NOPs: a 24-byte header
		ip.Options = []layers.IPv4Option{{OptionType: 1}, {OptionType: 1}, {OptionType: 1}, {OptionType: 1}}
	}

	icmpLayer := &layers.ICMPv4{
		TypeCode: layers.CreateICMPv4TypeCode(icmpType, 0),
		Id:       id,
		Seq:      EchoSequence,
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, ip, icmpLayer, gopacket.Payload(DefaultPayload)); err != nil {
		t.Fatalf("SerializeLayers() error = %v", err)
	}
	return buf.Bytes()
}

func newTestProber(t *testing.T, conn *fakeConn, mode HeaderMode) *LivenessProber {
	t.Helper()

	p, err := newLivenessProber(LivenessConfig{
		Timeout:    200 * time.Millisecond,
		Identifier: 0x1234,
		HeaderMode: mode,
	}, fakeOpener(conn))
	if err != nil {
		t.Fatalf("newLivenessProber() error = %v", err)
	}
	conn.closed = false
	return p
}

func TestLivenessProber_IsOnline(t *testing.T) {
	tests := []struct {
		name  string
		mode  HeaderMode
		reply func(t *testing.T) []byte
		want  bool
	}{
		{
			name:  "matching echo reply",
			reply: func(t *testing.T) []byte { return buildReply(t, ICMPv4EchoReply, 0x1234, false) },
			want:  true,
		},
		{
			name:  "wrong type",
			reply: func(t *testing.T) []byte { return buildReply(t, ICMPv4EchoRequest, 0x1234, false) },
			want:  false,
		},
		{
			name:  "destination unreachable",
			reply: func(t *testing.T) []byte { return buildReply(t, 3, 0x1234, false) },
			want:  false,
		},
		{
			name:  "foreign identifier",
			reply: func(t *testing.T) []byte { return buildReply(t, ICMPv4EchoReply, 0x4321, false) },
			want:  false,
		},
		{
			name:  "truncated datagram",
			reply: func(t *testing.T) []byte { return buildReply(t, ICMPv4EchoReply, 0x1234, false)[:24] },
			want:  false,
		},
		{
			name:  "shorter than an IP header",
			reply: func(t *testing.T) []byte { return []byte{0x45, 0x00, 0x00} },
			want:  false,
		},
		{
			name:  "IP options with fixed offset",
			reply: func(t *testing.T) []byte { return buildReply(t, ICMPv4EchoReply, 0x1234, true) },
			want:  false,
		},
		{
			name:  "IP options with IHL offset",
			mode:  HeaderFromIHL,
			reply: func(t *testing.T) []byte { return buildReply(t, ICMPv4EchoReply, 0x1234, true) },
			want:  true,
		},
		{
			name:  "no options with IHL offset",
			mode:  HeaderFromIHL,
			reply: func(t *testing.T) []byte { return buildReply(t, ICMPv4EchoReply, 0x1234, false) },
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := &fakeConn{reply: tt.reply(t)}
			p := newTestProber(t, conn, tt.mode)

			if got := p.IsOnline("192.0.2.1", time.Second); got != tt.want {
				t.Errorf("IsOnline() = %v, want %v", got, tt.want)
			}
			if !conn.closed {
				t.Error("socket was not closed")
			}
			if conn.reads != 1 {
				t.Errorf("reads = %d, want exactly 1", conn.reads)
			}
		})
	}
}

func TestLivenessProber_SendsEchoRequest(t *testing.T) {
	conn := &fakeConn{reply: buildReply(t, ICMPv4EchoReply, 0x1234, false)}
	p := newTestProber(t, conn, HeaderFixed)

	p.IsOnline("192.0.2.7", time.Second)

	if want := netip.MustParseAddr("192.0.2.7"); conn.dst != want {
		t.Errorf("dst = %v, want %v", conn.dst, want)
	}

	sent, err := ParseICMPPacket(conn.sent)
	if err != nil {
		t.Fatalf("ParseICMPPacket(sent) error = %v", err)
	}
	if sent.Type != ICMPv4EchoRequest || sent.Identifier != 0x1234 || sent.Sequence != EchoSequence {
		t.Errorf("sent = %+v", sent)
	}
	if len(conn.sent) != ICMPHeaderLen+len(DefaultPayload) {
		t.Errorf("len(sent) = %d, want %d", len(conn.sent), ICMPHeaderLen+len(DefaultPayload))
	}
	if !ValidateChecksum(conn.sent) {
		t.Error("sent packet has an invalid checksum")
	}
}

func TestLivenessProber_SocketErrors(t *testing.T) {
	tests := []struct {
		name string
		conn *fakeConn
	}{
		{"timeout", &fakeConn{readErr: ErrTimeout}},
		{"read error", &fakeConn{readErr: errors.New("connection refused")}},
		{"write error", &fakeConn{writeErr: errors.New("network is unreachable")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProber(t, tt.conn, HeaderFixed)

			if p.IsOnline("192.0.2.1", time.Second) {
				t.Error("IsOnline() = true, want false")
			}
			if !tt.conn.closed {
				t.Error("socket was not closed on error path")
			}
		})
	}
}

func TestLivenessProber_PingErrors(t *testing.T) {
	conn := &fakeConn{readErr: ErrTimeout}
	p := newTestProber(t, conn, HeaderFixed)

	err := p.Ping(netip.MustParseAddr("192.0.2.1"), 0)
	if !IsTimeout(err) {
		t.Errorf("Ping() error = %v, want ErrTimeout", err)
	}

	conn.readErr = nil
	conn.reply = buildReply(t, ICMPv4EchoReply, 0x9999, false)
	err = p.Ping(netip.MustParseAddr("192.0.2.1"), 0)
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("Ping() error = %v, want ErrNoMatch", err)
	}
}

func TestLivenessProber_InvalidAddress(t *testing.T) {
	conn := &fakeConn{reply: buildReply(t, ICMPv4EchoReply, 0x1234, false)}
	p := newTestProber(t, conn, HeaderFixed)

	for _, addr := range []string{"", "example.com", "::1", "300.1.1.1"} {
		if p.IsOnline(addr, time.Second) {
			t.Errorf("IsOnline(%q) = true, want false", addr)
		}
	}
	if conn.sent != nil {
		t.Error("a packet was sent for an invalid address")
	}
}

func TestNewLivenessProber_Defaults(t *testing.T) {
	conn := &fakeConn{}
	p, err := newLivenessProber(LivenessConfig{}, fakeOpener(conn))
	if err != nil {
		t.Fatalf("newLivenessProber() error = %v", err)
	}

	if p.timeout != DefaultPingTimeout {
		t.Errorf("timeout = %v, want %v", p.timeout, DefaultPingTimeout)
	}
	if want := uint16(os.Getpid() & 0xffff); p.Identifier() != want {
		t.Errorf("Identifier() = 0x%04x, want pid-derived 0x%04x", p.Identifier(), want)
	}
	if string(p.payload) != string(DefaultPayload) {
		t.Errorf("payload = %q, want default", p.payload)
	}
	if !conn.closed {
		t.Error("capability check did not close its socket")
	}
}

func TestNewLivenessProber_PermissionDenied(t *testing.T) {
	opener := func(timeout time.Duration) (rawConn, error) {
		return nil, ErrPermissionDenied
	}

	_, err := newLivenessProber(LivenessConfig{}, opener)
	if !IsPermissionError(err) {
		t.Errorf("newLivenessProber() error = %v, want ErrPermissionDenied", err)
	}
}

func TestNewLivenessProber_Unprivileged(t *testing.T) {
	if canCreateRawSocket() {
		t.Skip("Skipping: running with raw socket privileges")
	}

	_, err := NewLivenessProber(LivenessConfig{})
	if err == nil {
		t.Fatal("NewLivenessProber() succeeded without privileges")
	}
	if runtime.GOOS != "windows" && !IsPermissionError(err) {
		t.Errorf("NewLivenessProber() error = %v, want ErrPermissionDenied", err)
	}
}

func TestLivenessProber_SilentHostTimesOut(t *testing.T) {
	conn := &fakeConn{readErr: ErrTimeout}
	var opened time.Duration
	opener := func(timeout time.Duration) (rawConn, error) {
		// The socket gives up after its receive timeout.
		opened = timeout
		conn.wait = timeout
		return conn, nil
	}

	p, err := newLivenessProber(LivenessConfig{Identifier: 0x1234}, opener)
	if err != nil {
		t.Fatalf("newLivenessProber() error = %v", err)
	}
	conn.reads = 0

	timeout := 300 * time.Millisecond
	start := time.Now()
	online := p.IsOnline("198.51.100.7", timeout)
	elapsed := time.Since(start)

	if online {
		t.Error("IsOnline() = true for a host that never replies")
	}
	if opened != timeout {
		t.Errorf("socket timeout = %v, want %v", opened, timeout)
	}
	if elapsed < timeout || elapsed > 2*timeout {
		t.Errorf("IsOnline took %v, want about %v", elapsed, timeout)
	}
	if conn.reads != 1 {
		t.Errorf("reads = %d, want exactly 1", conn.reads)
	}
	if !conn.closed {
		t.Error("socket was not closed")
	}
}

func TestLivenessProber_Localhost(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("Skipping: loopback echo filtering is Linux-only")
	}
	if !canCreateRawSocket() {
		t.Skip("Skipping: requires elevated privileges")
	}

	p, err := NewLivenessProber(LivenessConfig{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewLivenessProber() error = %v", err)
	}

	if !p.IsOnline("127.0.0.1", 2*time.Second) {
		t.Error("IsOnline(127.0.0.1) = false, want true")
	}
}

func TestMatchEchoReply(t *testing.T) {
	plain := buildReply(t, ICMPv4EchoReply, 7, false)
	withOptions := buildReply(t, ICMPv4EchoReply, 7, true)

	if err := MatchEchoReply(plain, 7, HeaderFixed); err != nil {
		t.Errorf("fixed/plain: %v", err)
	}
	if err := MatchEchoReply(withOptions, 7, HeaderFromIHL); err != nil {
		t.Errorf("ihl/options: %v", err)
	}
	if err := MatchEchoReply(withOptions, 7, HeaderFixed); !errors.Is(err, ErrNoMatch) {
		t.Errorf("fixed/options error = %v, want ErrNoMatch", err)
	}
	if err := MatchEchoReply(plain[:10], 7, HeaderFromIHL); !errors.Is(err, ErrInvalidPacket) {
		t.Errorf("ihl/short error = %v, want ErrInvalidPacket", err)
	}
}

func TestParseHeaderMode(t *testing.T) {
	tests := []struct {
		in      string
		want    HeaderMode
		wantErr bool
	}{
		{"", HeaderFixed, false},
		{"fixed", HeaderFixed, false},
		{"IHL", HeaderFromIHL, false},
		{" ihl ", HeaderFromIHL, false},
		{"auto", HeaderFixed, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHeaderMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHeaderMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseHeaderMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if !tt.wantErr && got.String() != "fixed" && got.String() != "ihl" {
				t.Errorf("String() = %q", got.String())
			}
		})
	}
}

// canCreateRawSocket checks if we can create raw ICMP sockets.
func canCreateRawSocket() bool {
	conn, err := openRawSocket(time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
