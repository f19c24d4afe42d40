package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/Yonesj/Mini-Nmap/internal/scan"
	"github.com/fatih/color"
)

// TextFormatter prints scan results as plain sentences.
type TextFormatter struct {
	config Config
	colors *ColorScheme
}

// NewTextFormatter creates a new text formatter.
func NewTextFormatter(config Config) *TextFormatter {
	var colors *ColorScheme
	if config.Colors {
		colors = DefaultColorScheme()
	}

	return &TextFormatter{
		config: config,
		colors: colors,
	}
}

// Format writes the host status line followed by the open port list.
// Nothing about ports is printed for an offline host.
func (f *TextFormatter) Format(report *scan.Report) ([]byte, error) {
	var buf bytes.Buffer

	switch report.Host {
	case scan.HostOnline:
		fmt.Fprintf(&buf, "%s is %s.\n", report.Target, f.paint(f.colorOnline(), "online"))
	case scan.HostOffline:
		fmt.Fprintf(&buf, "%s is %s.\n", report.Target, f.paint(f.colorOffline(), "offline or unreachable"))
		return buf.Bytes(), nil
	}

	if len(report.Ports) > 0 {
		fmt.Fprintf(&buf, "open ports: %s\n", f.paint(f.colorPorts(), FormatPortList(report.OpenPorts())))
	}

	return buf.Bytes(), nil
}

// FormatLatency writes the response time or the connect failure notice.
func (f *TextFormatter) FormatLatency(result *LatencyResult) ([]byte, error) {
	if !result.Reachable() {
		return []byte(f.paint(f.colorOffline(), "Could not connect to the host.") + "\n"), nil
	}
	return []byte(fmt.Sprintf("Response time: %s ms\n", f.colorizeLatency(result.LatencyMs))), nil
}

// FormatPort formats a single port result as one line, for streaming output.
func (f *TextFormatter) FormatPort(result scan.PortResult) string {
	if !result.Open {
		return fmt.Sprintf("%5d  %s\n", result.Port, f.paint(f.colorOffline(), "closed"))
	}
	return fmt.Sprintf("%5d  %s  %s ms\n", result.Port, f.paint(f.colorOnline(), "open"), f.colorizeLatency(result.LatencyMs))
}

// FormatPortList renders ports as "[a, b, c]".
func FormatPortList(ports []int) string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, p := range ports {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(strconv.Itoa(p))
	}
	buf.WriteByte(']')
	return buf.String()
}

// colorizeLatency returns a colored latency string based on thresholds.
func (f *TextFormatter) colorizeLatency(ms float64) string {
	str := fmt.Sprintf("%.2f", ms)
	if f.colors == nil {
		return str
	}

	switch {
	case ms < 50:
		return f.colors.RTTLow.Sprint(str)
	case ms < 150:
		return f.colors.RTTMed.Sprint(str)
	default:
		return f.colors.RTTHigh.Sprint(str)
	}
}

func (f *TextFormatter) paint(c *color.Color, s string) string {
	if c == nil {
		return s
	}
	return c.Sprint(s)
}

func (f *TextFormatter) colorOnline() *color.Color {
	if f.colors == nil {
		return nil
	}
	return f.colors.Online
}

func (f *TextFormatter) colorOffline() *color.Color {
	if f.colors == nil {
		return nil
	}
	return f.colors.Offline
}

func (f *TextFormatter) colorPorts() *color.Color {
	if f.colors == nil {
		return nil
	}
	return f.colors.Port
}

// ContentType returns the MIME type for text output.
func (f *TextFormatter) ContentType() string {
	return "text/plain"
}

// FileExtension returns the file extension for text output.
func (f *TextFormatter) FileExtension() string {
	return "txt"
}

// ColorScheme defines colors for different output elements.
type ColorScheme struct {
	Online  *color.Color
	Offline *color.Color
	Port    *color.Color
	RTTLow  *color.Color // < 50ms
	RTTMed  *color.Color // 50-150ms
	RTTHigh *color.Color // > 150ms
	Header  *color.Color
}

// DefaultColorScheme returns the default color scheme.
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Online:  color.New(color.FgGreen, color.Bold),
		Offline: color.New(color.FgRed, color.Bold),
		Port:    color.New(color.FgCyan),
		RTTLow:  color.New(color.FgGreen),
		RTTMed:  color.New(color.FgYellow),
		RTTHigh: color.New(color.FgRed),
		Header:  color.New(color.FgWhite, color.Bold),
	}
}
