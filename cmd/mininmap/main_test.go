package main

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/Yonesj/Mini-Nmap/internal/toyhttp"
)

// run executes the CLI with args and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	err := Execute(context.Background(), translateLegacyArgs(args))
	return buf.String(), err
}

func TestCurlCommand(t *testing.T) {
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go toyhttp.NewServer(nil, toyhttp.ServerOptions{}).Serve(ctx, ln)

	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	out, err := run(t, "-curl", "127.0.0.1", port, "-GET", "2")
	if err != nil {
		t.Fatalf("curl GET error = %v", err)
	}
	if !strings.Contains(out, `{"id": 2, "name": "Charlie", "age": 35}`) {
		t.Errorf("curl GET output = %q", out)
	}

	out, err = run(t, "curl", "127.0.0.1", port, "POST", "yabal", "21")
	if err != nil {
		t.Fatalf("curl POST error = %v", err)
	}
	if out != "HTTP/1.1 200 OK\n\nUser data updated\n" {
		t.Errorf("curl POST output = %q", out)
	}
}

// loopbackPorts returns a port with a listener behind it and one without.
func loopbackPorts(t *testing.T) (open, closed string) {
	t.Helper()

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	gone, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	closedPort := gone.Addr().(*net.TCPAddr).Port
	gone.Close()

	return strconv.Itoa(ln.Addr().(*net.TCPAddr).Port), strconv.Itoa(closedPort)
}

func TestStatusCommand_SkipPing(t *testing.T) {
	t.Cleanup(func() { skipPing, rangeMode = false, false })
	open, closed := loopbackPorts(t)

	tests := []struct {
		name string
		args []string
	}{
		{"port list", []string{"status", "127.0.0.1", closed, open, "--skip-ping", "--no-color"}},
		{"legacy form", []string{"-status", "127.0.0.1", open, closed, "--skip-ping", "--no-color"}},
		{"range", []string{"status", "127.0.0.1", "-r", open, open, "--skip-ping", "--no-color"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rangeMode = false
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("status error = %v", err)
			}
			if want := "open ports: [" + open + "]\n"; out != want {
				t.Errorf("status output = %q, want %q", out, want)
			}
		})
	}
}

func TestLatencyCommand(t *testing.T) {
	open, closed := loopbackPorts(t)

	out, err := run(t, "latency", "127.0.0.1", open, "--no-color")
	if err != nil {
		t.Fatalf("latency error = %v", err)
	}
	if !strings.HasPrefix(out, "Response time: ") || !strings.HasSuffix(out, " ms\n") {
		t.Errorf("latency output = %q", out)
	}

	out, err = run(t, "-latency", "127.0.0.1", closed, "-w", "1s", "--no-color")
	if err != nil {
		t.Fatalf("latency error = %v", err)
	}
	if out != "Could not connect to the host.\n" {
		t.Errorf("latency output = %q", out)
	}
}

func TestCurlArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"get", []string{"127.0.0.1", "8080", "GET", "1"}, false},
		{"post", []string{"127.0.0.1", "8080", "POST", "bob", "3"}, false},
		{"too short", []string{"127.0.0.1", "8080"}, true},
		{"get without id", []string{"127.0.0.1", "8080", "GET"}, true},
		{"post without age", []string{"127.0.0.1", "8080", "POST", "bob"}, true},
		{"unknown method", []string{"127.0.0.1", "8080", "PUT", "1"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := curlArgs(curlCmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("curlArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestStatusArgs(t *testing.T) {
	defer func() { rangeMode = false }()

	tests := []struct {
		name    string
		ranged  bool
		args    []string
		wantErr bool
	}{
		{"address only", false, []string{"10.0.0.1"}, false},
		{"ports", false, []string{"10.0.0.1", "22", "80"}, false},
		{"no address", false, nil, true},
		{"range", true, []string{"10.0.0.1", "20", "30"}, false},
		{"range missing end", true, []string{"10.0.0.1", "20"}, true},
		{"range extra", true, []string{"10.0.0.1", "20", "30", "40"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rangeMode = tt.ranged
			err := statusArgs(statusCmd, tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("statusArgs(%v) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			}
		})
	}
}

func TestParsePorts(t *testing.T) {
	ports, err := parsePorts([]string{"22", "0", "65535"})
	if err != nil {
		t.Fatalf("parsePorts() error = %v", err)
	}
	if len(ports) != 3 || ports[0] != 22 || ports[2] != 65535 {
		t.Errorf("parsePorts() = %v", ports)
	}

	for _, bad := range []string{"http", "-1", "65536"} {
		if _, err := parsePorts([]string{bad}); err == nil {
			t.Errorf("parsePorts(%q) should fail", bad)
		}
	}
}

func TestStatusCommand_InvalidAddress(t *testing.T) {
	if _, err := run(t, "status", "example.com", "80"); err == nil {
		t.Error("status with a hostname should fail")
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3", "abc", "today")

	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "mininmap 1.2.3") || !strings.Contains(out, "Commit: abc") {
		t.Errorf("version output = %q", out)
	}
}

func TestConfigCommand_Init(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "config", "--path")
	if err != nil {
		t.Fatalf("config --path error = %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "mininmap/config.yaml") {
		t.Errorf("config --path = %q", out)
	}

	t.Setenv("XDG_CONFIG_HOME", dir)
	configPath = false
	configInit = true
	defer func() { configInit = false }()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)
	if err := Execute(context.Background(), []string{"config", "--init"}); err != nil {
		t.Fatalf("config --init error = %v", err)
	}
	if !strings.Contains(buf.String(), "Created config file") {
		t.Errorf("config --init output = %q", buf.String())
	}
	if err := Execute(context.Background(), []string{"config", "--init"}); err == nil {
		t.Error("second config --init should refuse to overwrite")
	}
}
