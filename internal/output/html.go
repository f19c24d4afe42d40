package output

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/Yonesj/Mini-Nmap/internal/scan"
)

// HTMLFormatter formats scan results as a standalone HTML report.
type HTMLFormatter struct {
	config   Config
	template *template.Template
}

// NewHTMLFormatter creates a new HTML formatter.
func NewHTMLFormatter(config Config) *HTMLFormatter {
	tmpl := template.Must(template.New("report").Funcs(template.FuncMap{
		"formatTime": func(t time.Time) string {
			return t.Format("2006-01-02 15:04:05 MST")
		},
	}).Parse(htmlTemplate))

	return &HTMLFormatter{
		config:   config,
		template: tmpl,
	}
}

// Format formats the scan report as an HTML page.
func (f *HTMLFormatter) Format(report *scan.Report) ([]byte, error) {
	return f.render(f.prepareData(report))
}

// FormatLatency renders a latency measurement as an HTML page.
func (f *HTMLFormatter) FormatLatency(result *LatencyResult) ([]byte, error) {
	data := &htmlData{
		Title:       fmt.Sprintf("Latency to %s:%d", result.Target, result.Port),
		Target:      result.Target,
		Timestamp:   time.Now(),
		GeneratedAt: time.Now(),
		Host:        "unreachable",
		HostClass:   "bad",
	}
	if result.Reachable() {
		data.Host = fmt.Sprintf("%.2f ms", result.LatencyMs)
		data.HostClass = latencyClass(result.LatencyMs)
	}
	return f.render(data)
}

func (f *HTMLFormatter) render(data *htmlData) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// htmlData holds the data for the HTML template.
type htmlData struct {
	Title       string
	Target      string
	Timestamp   time.Time
	Mode        string
	Host        string
	HostClass   string
	Ports       []htmlPort
	OpenCount   int
	Duration    string
	GeneratedAt time.Time
}

// htmlPort represents a port row for HTML rendering.
type htmlPort struct {
	Port    int
	State   string
	Latency string
	Class   string
}

// prepareData converts a Report to template data.
func (f *HTMLFormatter) prepareData(report *scan.Report) *htmlData {
	data := &htmlData{
		Title:       fmt.Sprintf("Port scan of %s", report.Target),
		Target:      report.Target,
		Timestamp:   report.Timestamp,
		Mode:        report.Mode,
		Host:        report.Host.String(),
		Duration:    fmt.Sprintf("%.2f ms", report.DurationMs),
		GeneratedAt: time.Now(),
	}

	switch report.Host {
	case scan.HostOnline:
		data.HostClass = "good"
	case scan.HostOffline:
		data.HostClass = "bad"
	default:
		data.HostClass = "neutral"
	}

	for _, p := range report.Ports {
		if !p.Open && !f.config.ShowClosed {
			continue
		}
		row := htmlPort{Port: p.Port, State: "closed", Latency: "-", Class: "bad"}
		if p.Open {
			data.OpenCount++
			row.State = "open"
			row.Latency = fmt.Sprintf("%.2f ms", p.LatencyMs)
			row.Class = latencyClass(p.LatencyMs)
		}
		data.Ports = append(data.Ports, row)
	}

	return data
}

// latencyClass returns CSS class based on latency.
func latencyClass(ms float64) string {
	switch {
	case ms < 0:
		return "bad"
	case ms < 50:
		return "good"
	case ms < 150:
		return "medium"
	default:
		return "bad"
	}
}

// ContentType returns the MIME type for HTML output.
func (f *HTMLFormatter) ContentType() string {
	return "text/html"
}

// FileExtension returns the file extension for HTML output.
func (f *HTMLFormatter) FileExtension() string {
	return "html"
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}} - mininmap</title>
    <style>
        body { font-family: -apple-system, "Segoe UI", sans-serif; background: #0f172a; color: #e2e8f0; margin: 2rem; }
        h1 { font-size: 1.4rem; }
        table { border-collapse: collapse; margin-top: 1rem; min-width: 24rem; }
        th, td { border-bottom: 1px solid #334155; padding: .4rem .8rem; text-align: left; }
        .good { color: #4ade80; }
        .medium { color: #facc15; }
        .bad { color: #f87171; }
        .neutral { color: #94a3b8; }
        footer { margin-top: 2rem; color: #64748b; font-size: .8rem; }
    </style>
</head>
<body>
    <h1>{{.Title}}</h1>
    <p>Target <strong>{{.Target}}</strong> is <span class="{{.HostClass}}">{{.Host}}</span></p>
    {{if .Mode}}<p>Mode: {{.Mode}} | Started: {{formatTime .Timestamp}} | Took: {{.Duration}} | Open: {{.OpenCount}}</p>{{end}}
    {{if .Ports}}
    <table>
        <thead><tr><th>Port</th><th>State</th><th>Latency</th></tr></thead>
        <tbody>
        {{range .Ports}}<tr><td>{{.Port}}</td><td class="{{.Class}}">{{.State}}</td><td>{{.Latency}}</td></tr>
        {{end}}
        </tbody>
    </table>
    {{end}}
    <footer>Generated by mininmap at {{formatTime .GeneratedAt}}</footer>
</body>
</html>
`
