// Package output provides formatting and output functionality for scan results.
package output

import (
	"fmt"
	"strings"

	"github.com/Yonesj/Mini-Nmap/internal/scan"
)

// Format represents the output format type.
type Format int

const (
	// FormatText is the classic one-line-per-fact output
	FormatText Format = iota
	// FormatTable is the detailed table output
	FormatTable
	// FormatJSON is JSON output
	FormatJSON
	// FormatCSV is CSV output
	FormatCSV
	// FormatHTML is HTML report output
	FormatHTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatTable:
		return "table"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatHTML:
		return "html"
	default:
		return "unknown"
	}
}

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "table", "verbose":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "html":
		return FormatHTML, nil
	default:
		return FormatText, fmt.Errorf("unknown output format %q", s)
	}
}

// LatencyResult is the outcome of a single latency measurement.
type LatencyResult struct {
	Target string
	Port   int

	// LatencyMs is the connect time, or probe.LatencyFailed
	LatencyMs float64
}

// Reachable reports whether the connect succeeded.
func (l *LatencyResult) Reachable() bool {
	return l.LatencyMs >= 0
}

// Formatter defines the interface for output formatters.
type Formatter interface {
	// Format converts a scan Report to formatted output bytes.
	Format(report *scan.Report) ([]byte, error)

	// FormatLatency converts a latency measurement to formatted output bytes.
	FormatLatency(result *LatencyResult) ([]byte, error)

	// ContentType returns the MIME type for the output.
	ContentType() string

	// FileExtension returns the typical file extension for the output.
	FileExtension() string
}

// Config holds configuration for formatters.
type Config struct {
	// Colors enables ANSI color output
	Colors bool

	// ShowClosed lists closed ports in table output
	ShowClosed bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Colors: true,
	}
}

// NewFormatter creates a formatter based on the specified format.
func NewFormatter(format Format, config Config) Formatter {
	switch format {
	case FormatText:
		return NewTextFormatter(config)
	case FormatTable:
		return NewTableFormatter(config)
	case FormatJSON:
		return NewJSONFormatter(config)
	case FormatCSV:
		return NewCSVFormatter(config)
	case FormatHTML:
		return NewHTMLFormatter(config)
	default:
		return NewTextFormatter(config)
	}
}
