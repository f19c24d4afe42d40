package probe

import (
	"fmt"
	"log/slog"
	"net/netip"
	"os"
	"strings"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/Yonesj/Mini-Nmap/internal/logger"
)

const (
	// DefaultPingTimeout is how long IsOnline waits for a reply by default.
	DefaultPingTimeout = 2 * time.Second

	// EchoSequence is the sequence number of every liveness request.
	EchoSequence = 1

	// IPv4HeaderLen is the size of an IPv4 header without options.
	IPv4HeaderLen = 20

	// maxDatagram bounds the single reply read from the raw socket.
	maxDatagram = 1500
)

// HeaderMode selects how the ICMP header is located inside a received datagram.
type HeaderMode int

const (
	// HeaderFixed assumes a 20-byte IPv4 header with no options.
	// Replies carrying IP options are not recognised in this mode.
	HeaderFixed HeaderMode = iota
	// HeaderFromIHL reads the header length from the IHL field.
	HeaderFromIHL
)

// String returns the configuration name of the mode.
func (m HeaderMode) String() string {
	switch m {
	case HeaderFixed:
		return "fixed"
	case HeaderFromIHL:
		return "ihl"
	default:
		return "unknown"
	}
}

// ParseHeaderMode parses "fixed" or "ihl". The empty string means fixed.
func ParseHeaderMode(s string) (HeaderMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed":
		return HeaderFixed, nil
	case "ihl":
		return HeaderFromIHL, nil
	default:
		return HeaderFixed, fmt.Errorf("unknown header mode %q (want fixed or ihl)", s)
	}
}

// rawConn is the part of a raw ICMP socket the liveness prober needs.
type rawConn interface {
	WriteTo(b []byte, dst netip.Addr) error
	// Read returns one whole IPv4 datagram or ErrTimeout.
	Read(b []byte) (int, error)
	Close() error
}

// socketOpener opens a raw ICMP socket with the given receive timeout.
type socketOpener func(timeout time.Duration) (rawConn, error)

// LivenessConfig holds configuration for the liveness prober.
type LivenessConfig struct {
	Timeout    time.Duration
	Identifier uint16 // If 0, uses process ID
	Payload    []byte // If nil, uses DefaultPayload
	HeaderMode HeaderMode
	Logger     *slog.Logger
}

// LivenessProber checks host reachability with a single ICMP Echo Request.
// The identifier is fixed for the lifetime of the prober and used to match replies.
type LivenessProber struct {
	identifier uint16
	timeout    time.Duration
	payload    []byte
	headerMode HeaderMode
	open       socketOpener
	logger     *slog.Logger
}

// NewLivenessProber creates a liveness prober after checking that a raw ICMP
// socket can be opened. Missing privileges yield an error matching
// ErrPermissionDenied so callers can skip the liveness check.
func NewLivenessProber(config LivenessConfig) (*LivenessProber, error) {
	return newLivenessProber(config, openRawSocket)
}

func newLivenessProber(config LivenessConfig, open socketOpener) (*LivenessProber, error) {
	if config.Timeout <= 0 {
		config.Timeout = DefaultPingTimeout
	}

	identifier := config.Identifier
	if identifier == 0 {
		identifier = uint16(os.Getpid() & 0xffff)
	}

	payload := config.Payload
	if payload == nil {
		payload = DefaultPayload
	}

	log := config.Logger
	if log == nil {
		log = logger.Discard()
	}

	conn, err := open(config.Timeout)
	if err != nil {
		return nil, err
	}
	conn.Close()

	return &LivenessProber{
		identifier: identifier,
		timeout:    config.Timeout,
		payload:    payload,
		headerMode: config.HeaderMode,
		open:       open,
		logger:     log.With(slog.String("component", "liveness")),
	}, nil
}

// Identifier returns the ICMP identifier used by this prober.
func (p *LivenessProber) Identifier() uint16 {
	return p.identifier
}

// IsOnline reports whether address answers an Echo Request with a matching
// Echo Reply within timeout. Timeouts, socket errors and foreign or malformed
// replies all yield false. A non-positive timeout uses the configured one.
func (p *LivenessProber) IsOnline(address string, timeout time.Duration) bool {
	dst, err := ParseIPv4(address)
	if err != nil {
		p.logger.Error("Invalid target", "target", address, "error", err)
		return false
	}

	err = p.Ping(dst, timeout)
	switch {
	case err == nil:
		p.logger.Debug("Host is online", "target", address)
		return true
	case IsTimeout(err):
		p.logger.Warn("Request timed out", "target", address)
	default:
		p.logger.Debug("Host considered unreachable", "target", address, "error", err)
	}
	return false
}

// Ping sends one Echo Request to dst and reads exactly one datagram back.
// It returns nil only when that datagram is an Echo Reply carrying the
// prober's identifier. The socket is closed before returning.
func (p *LivenessProber) Ping(dst netip.Addr, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = p.timeout
	}

	conn, err := p.open(timeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	packet := BuildEchoRequest(p.identifier, EchoSequence, p.payload)
	p.logger.Debug("Sending echo request",
		"target", dst.String(),
		"identifier", p.identifier,
		"bytes", len(packet),
		"timeout", timeout,
	)

	if err := conn.WriteTo(packet, dst); err != nil {
		return fmt.Errorf("failed to send echo request: %w", err)
	}

	buf := make([]byte, maxDatagram)
	n, err := conn.Read(buf)
	if err != nil {
		return err
	}

	p.logger.Debug("Received datagram", "target", dst.String(), "bytes", n)
	return MatchEchoReply(buf[:n], p.identifier, p.headerMode)
}

// MatchEchoReply checks that datagram (an IPv4 packet, header included)
// carries an ICMP Echo Reply with the given identifier.
func MatchEchoReply(datagram []byte, id uint16, mode HeaderMode) error {
	offset, err := icmpOffset(datagram, mode)
	if err != nil {
		return err
	}

	reply, err := ParseICMPPacket(datagram[offset:])
	if err != nil {
		return err
	}

	if !reply.IsEchoReply() {
		return fmt.Errorf("%w: type %d", ErrNoMatch, reply.Type)
	}
	if reply.Identifier != id {
		return fmt.Errorf("%w: identifier 0x%04x, want 0x%04x", ErrNoMatch, reply.Identifier, id)
	}
	return nil
}

// icmpOffset returns where the ICMP message starts inside datagram.
func icmpOffset(datagram []byte, mode HeaderMode) (int, error) {
	if mode == HeaderFromIHL {
		h, err := ipv4.ParseHeader(datagram)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidPacket, err)
		}
		if h.Len < IPv4HeaderLen {
			return 0, fmt.Errorf("%w: header length %d", ErrInvalidPacket, h.Len)
		}
		return h.Len, nil
	}

	if len(datagram) < IPv4HeaderLen {
		return 0, ErrInvalidPacket
	}
	return IPv4HeaderLen, nil
}
