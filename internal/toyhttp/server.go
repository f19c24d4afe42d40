package toyhttp

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/Yonesj/Mini-Nmap/internal/logger"
)

const (
	// DefaultAddress is where the server listens unless told otherwise.
	DefaultAddress = "localhost:8080"

	// MaxRequestSize bounds a single request read.
	MaxRequestSize = 1024
)

// ServerOptions configures the server.
type ServerOptions struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       *slog.Logger
}

// Server answers one request per TCP connection and then closes it.
type Server struct {
	store  *Store
	opts   ServerOptions
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewServer constructs a server backed by store.
func NewServer(store *Store, opts ServerOptions) *Server {
	if store == nil {
		store = NewStore()
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddress
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	return &Server{
		store:  store,
		opts:   opts,
		logger: opts.Logger,
	}
}

// ListenAndServe listens on the configured address and serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes ln and
// waits for in-flight connections. It returns nil on a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening", "addr", ln.Addr().String())

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()
	defer s.wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.logger.Info("server stopped", "addr", ln.Addr().String())
				return nil
			}
			return err
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(conn)
		}()
	}
}

// handleConn reads one request, writes the response and closes the connection.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()

	conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
	buf := make([]byte, MaxRequestSize)
	n, err := conn.Read(buf)
	if err != nil {
		s.logger.Warn("read request failed", "remote", remote, "error", err)
		return
	}

	request := string(buf[:n])
	response := Handle(s.store, request)

	conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
	if _, err := conn.Write([]byte(response)); err != nil {
		s.logger.Warn("write response failed", "remote", remote, "error", err)
		return
	}

	s.logger.Debug("request served", "remote", remote, "request", request, "bytes", len(response))
}
