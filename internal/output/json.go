package output

import (
	"encoding/json"

	"github.com/Yonesj/Mini-Nmap/internal/scan"
)

// JSONFormatter formats scan results as JSON.
type JSONFormatter struct {
	config Config
	pretty bool
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(config Config) *JSONFormatter {
	return &JSONFormatter{
		config: config,
		pretty: true, // Default to pretty-printed
	}
}

// NewJSONFormatterCompact creates a JSON formatter with compact output.
func NewJSONFormatterCompact(config Config) *JSONFormatter {
	return &JSONFormatter{
		config: config,
		pretty: false,
	}
}

// SetPretty enables or disables pretty-printing.
func (f *JSONFormatter) SetPretty(pretty bool) {
	f.pretty = pretty
}

// Format formats the scan report as JSON.
func (f *JSONFormatter) Format(report *scan.Report) ([]byte, error) {
	return f.marshal(f.toJSONOutput(report))
}

// FormatLatency formats a latency measurement as JSON.
func (f *JSONFormatter) FormatLatency(result *LatencyResult) ([]byte, error) {
	out := JSONLatency{
		Target:    result.Target,
		Port:      result.Port,
		Reachable: result.Reachable(),
	}
	if result.Reachable() {
		ms := roundFloat(result.LatencyMs, 3)
		out.LatencyMs = &ms
	}
	return f.marshal(out)
}

func (f *JSONFormatter) marshal(v any) ([]byte, error) {
	var data []byte
	var err error
	if f.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// JSONOutput is the JSON-serializable representation of a scan report.
type JSONOutput struct {
	Target     string     `json:"target"`
	Timestamp  string     `json:"timestamp"`
	Host       string     `json:"host"`
	Mode       string     `json:"mode"`
	OpenPorts  []int      `json:"open_ports"`
	Ports      []JSONPort `json:"ports"`
	DurationMs float64    `json:"duration_ms"`
}

// JSONPort represents a single port in JSON format.
type JSONPort struct {
	Port      int     `json:"port"`
	Open      bool    `json:"open"`
	LatencyMs float64 `json:"latency_ms,omitempty"`
}

// JSONLatency represents a latency measurement in JSON format.
type JSONLatency struct {
	Target    string   `json:"target"`
	Port      int      `json:"port"`
	Reachable bool     `json:"reachable"`
	LatencyMs *float64 `json:"latency_ms,omitempty"`
}

// toJSONOutput converts a Report to JSONOutput.
func (f *JSONFormatter) toJSONOutput(report *scan.Report) *JSONOutput {
	output := &JSONOutput{
		Target:     report.Target,
		Timestamp:  report.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Host:       report.Host.String(),
		Mode:       report.Mode,
		OpenPorts:  report.OpenPorts(),
		Ports:      make([]JSONPort, len(report.Ports)),
		DurationMs: roundFloat(report.DurationMs, 3),
	}

	for i, p := range report.Ports {
		output.Ports[i] = JSONPort{
			Port:      p.Port,
			Open:      p.Open,
			LatencyMs: roundFloat(p.LatencyMs, 3),
		}
	}

	return output
}

// ContentType returns the MIME type for JSON output.
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

// FileExtension returns the file extension for JSON output.
func (f *JSONFormatter) FileExtension() string {
	return "json"
}

// Helper function to round floats
func roundFloat(val float64, precision int) float64 {
	if precision == 0 {
		return float64(int(val + 0.5))
	}
	p := float64(1)
	for i := 0; i < precision; i++ {
		p *= 10
	}
	return float64(int(val*p+0.5)) / p
}
