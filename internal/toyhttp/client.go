package toyhttp

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// DefaultClientTimeout bounds a whole request/response exchange.
const DefaultClientTimeout = 5 * time.Second

// Client talks to a toy server. Every request uses a fresh connection.
type Client struct {
	addr    string
	timeout time.Duration
}

// NewClient returns a client for host:port. A non-positive timeout uses
// DefaultClientTimeout.
func NewClient(host string, port int, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultClientTimeout
	}
	return &Client{
		addr:    net.JoinHostPort(host, fmt.Sprint(port)),
		timeout: timeout,
	}
}

// Get fetches the user with the given id and returns the raw response.
func (c *Client) Get(ctx context.Context, id int) (string, error) {
	return c.Do(ctx, fmt.Sprintf("GET %d", id))
}

// Post creates a user and returns the raw response.
func (c *Client) Post(ctx context.Context, name string, age int) (string, error) {
	return c.Do(ctx, fmt.Sprintf("POST %s %d", name, age))
}

// Do sends request in one write and reads the response until the server
// closes the connection, keeping at most MaxRequestSize bytes.
func (c *Client) Do(ctx context.Context, request string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return "", fmt.Errorf("connect %s: %w", c.addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if _, err := conn.Write([]byte(request)); err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(conn, MaxRequestSize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}
