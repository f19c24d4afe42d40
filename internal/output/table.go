package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Yonesj/Mini-Nmap/internal/scan"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter formats scan results as a detailed table.
type TableFormatter struct {
	config Config
	colors *ColorScheme
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(config Config) *TableFormatter {
	var colors *ColorScheme
	if config.Colors {
		colors = DefaultColorScheme()
	}

	return &TableFormatter{
		config: config,
		colors: colors,
	}
}

// Format formats the scan report as a detailed table.
func (f *TableFormatter) Format(report *scan.Report) ([]byte, error) {
	var buf bytes.Buffer

	f.writeHeader(&buf, report)

	if report.Scanned() && len(report.Ports) > 0 {
		table := tablewriter.NewWriter(&buf)
		f.configureTable(table)
		table.SetHeader([]string{"Port", "State", "Latency"})

		for _, p := range report.Ports {
			if !p.Open && !f.config.ShowClosed {
				continue
			}
			table.Append(f.formatPortRow(p))
		}

		table.Render()
	}

	f.writeSummary(&buf, report)

	return buf.Bytes(), nil
}

// FormatLatency formats a latency measurement as a one-row table.
func (f *TableFormatter) FormatLatency(result *LatencyResult) ([]byte, error) {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	f.configureTable(table)
	table.SetHeader([]string{"Target", "Port", "Latency"})

	latency := "unreachable"
	if result.Reachable() {
		latency = f.formatLatency(result.LatencyMs)
	}
	table.Append([]string{result.Target, strconv.Itoa(result.Port), latency})
	table.Render()

	return buf.Bytes(), nil
}

// writeHeader writes the scan header information.
func (f *TableFormatter) writeHeader(buf *bytes.Buffer, report *scan.Report) {
	header := fmt.Sprintf("Target: %s (%s)\n", report.Target, report.Host)
	header += fmt.Sprintf("Mode: %s | Time: %s\n\n",
		strings.ToUpper(report.Mode),
		report.Timestamp.Format("2006-01-02 15:04:05"))

	if f.colors != nil {
		header = f.colors.Header.Sprint(header)
	}
	buf.WriteString(header)
}

// configureTable sets up the table appearance.
func (f *TableFormatter) configureTable(table *tablewriter.Table) {
	table.SetBorder(true)
	table.SetRowLine(false)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("│")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetTablePadding(" ")
}

// formatPortRow formats a single port as a table row.
func (f *TableFormatter) formatPortRow(p scan.PortResult) []string {
	if !p.Open {
		state := "closed"
		if f.colors != nil {
			state = f.colors.Offline.Sprint(state)
		}
		return []string{strconv.Itoa(p.Port), state, "-"}
	}

	state := "open"
	if f.colors != nil {
		state = f.colors.Online.Sprint(state)
	}
	return []string{strconv.Itoa(p.Port), state, f.formatLatency(p.LatencyMs)}
}

// formatLatency formats a latency value with optional coloring.
func (f *TableFormatter) formatLatency(ms float64) string {
	str := fmt.Sprintf("%.2f ms", ms)

	if f.colors != nil {
		switch {
		case ms < 50:
			str = f.colors.RTTLow.Sprint(str)
		case ms < 150:
			str = f.colors.RTTMed.Sprint(str)
		default:
			str = f.colors.RTTHigh.Sprint(str)
		}
	}

	return str
}

// writeSummary writes the scan summary.
func (f *TableFormatter) writeSummary(buf *bytes.Buffer, report *scan.Report) {
	buf.WriteString("\nSummary:\n")

	fmt.Fprintf(buf, "  Scanned:       %d\n", len(report.Ports))
	fmt.Fprintf(buf, "  Open:          %d\n", len(report.OpenPorts()))
	fmt.Fprintf(buf, "  Total Time:    %.2f ms\n", report.DurationMs)

	buf.WriteString("  Host:          ")
	status := report.Host.String()
	if f.colors != nil {
		switch report.Host {
		case scan.HostOnline:
			status = f.colors.Online.Sprint(status)
		case scan.HostOffline:
			status = f.colors.Offline.Sprint(status)
		}
	}
	buf.WriteString(status)
	buf.WriteString("\n")
}

// ContentType returns the MIME type for table output.
func (f *TableFormatter) ContentType() string {
	return "text/plain"
}

// FileExtension returns the file extension for table output.
func (f *TableFormatter) FileExtension() string {
	return "txt"
}
