package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/Yonesj/Mini-Nmap/internal/scan"
)

// CSVFormatter formats scan results as CSV, one row per port.
type CSVFormatter struct {
	config  Config
	columns []string
}

// Default CSV columns
var defaultCSVColumns = []string{"target", "host", "port", "state", "latency_ms"}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(config Config) *CSVFormatter {
	return &CSVFormatter{
		config:  config,
		columns: defaultCSVColumns,
	}
}

// SetColumns allows customizing which columns to include.
func (f *CSVFormatter) SetColumns(columns []string) {
	f.columns = columns
}

// Format formats the scan report as CSV.
func (f *CSVFormatter) Format(report *scan.Report) ([]byte, error) {
	rows := make([][]string, 0, len(report.Ports))
	for _, p := range report.Ports {
		rows = append(rows, f.formatRow(report, p))
	}
	return f.write(f.columns, rows)
}

// FormatLatency formats a latency measurement as a single CSV row.
func (f *CSVFormatter) FormatLatency(result *LatencyResult) ([]byte, error) {
	latency := ""
	if result.Reachable() {
		latency = formatFloat(result.LatencyMs)
	}
	return f.write(
		[]string{"target", "port", "reachable", "latency_ms"},
		[][]string{{result.Target, strconv.Itoa(result.Port), strconv.FormatBool(result.Reachable()), latency}},
	)
}

func (f *CSVFormatter) write(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(header); err != nil {
		return nil, err
	}
	if err := writer.WriteAll(rows); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// formatRow formats a single port as a CSV row.
func (f *CSVFormatter) formatRow(report *scan.Report, p scan.PortResult) []string {
	row := make([]string, len(f.columns))

	for i, col := range f.columns {
		row[i] = f.getValue(report, p, col)
	}

	return row
}

// getValue returns the value for a specific column.
func (f *CSVFormatter) getValue(report *scan.Report, p scan.PortResult, column string) string {
	switch column {
	case "target":
		return report.Target

	case "host":
		return report.Host.String()

	case "port":
		return strconv.Itoa(p.Port)

	case "state":
		if p.Open {
			return "open"
		}
		return "closed"

	case "latency_ms":
		return formatFloat(p.LatencyMs)

	case "error":
		return p.Error

	default:
		return ""
	}
}

// formatFloat formats a float for CSV output.
func formatFloat(f float64) string {
	if f <= 0 {
		return ""
	}
	return fmt.Sprintf("%.3f", f)
}

// ContentType returns the MIME type for CSV output.
func (f *CSVFormatter) ContentType() string {
	return "text/csv"
}

// FileExtension returns the file extension for CSV output.
func (f *CSVFormatter) FileExtension() string {
	return "csv"
}
