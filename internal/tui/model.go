// Package tui provides an interactive terminal UI for port scans.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Yonesj/Mini-Nmap/internal/scan"
)

const progressWidth = 40

// State represents the current state of the TUI.
type State int

const (
	StateRunning State = iota
	StateComplete
	StateError
)

// Model is the Bubble Tea model for the scan TUI.
type Model struct {
	// Configuration
	target string
	ports  []int
	config *scan.Config
	width  int
	height int

	// State
	state     State
	results   []scan.PortResult
	open      []scan.PortResult
	report    *scan.Report
	err       error
	elapsed   time.Duration
	startTime time.Time

	// UI components
	spinner  spinner.Model
	progress progress.Model

	// Styles
	styles Styles

	// Port results streamed from the scanner
	ctx        context.Context
	cancel     context.CancelFunc
	resultChan chan scan.PortResult
}

// PortMsg is sent when a port has been probed.
type PortMsg struct {
	Result scan.PortResult
}

// CompleteMsg is sent when the scan is complete.
type CompleteMsg struct {
	Report *scan.Report
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Err error
}

// TickMsg is sent to update elapsed time.
type TickMsg time.Time

// New creates a new TUI model. The scan runs under ctx.
func New(ctx context.Context, target string, ports []int, config *scan.Config) *Model {
	if config == nil {
		config = scan.DefaultConfig()
	}

	styles := DefaultStyles()
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	ctx, cancel := context.WithCancel(ctx)

	return &Model{
		target:     target,
		ports:      ports,
		config:     config,
		state:      StateRunning,
		results:    make([]scan.PortResult, 0, len(ports)),
		spinner:    s,
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(progressWidth)),
		styles:     styles,
		width:      80,
		height:     24,
		startTime:  time.Now(),
		ctx:        ctx,
		cancel:     cancel,
		resultChan: make(chan scan.PortResult, len(ports)),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.runScan(),
		m.tickCmd(),
		m.waitForResult(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case TickMsg:
		m.elapsed = time.Since(m.startTime)
		if m.state == StateRunning {
			return m, m.tickCmd()
		}

	case PortMsg:
		m.results = append(m.results, msg.Result)
		if msg.Result.Open {
			m.open = append(m.open, msg.Result)
		}
		return m, m.waitForResult()

	case CompleteMsg:
		m.state = StateComplete
		m.report = msg.Report
		m.elapsed = time.Since(m.startTime)

	case ErrorMsg:
		m.state = StateError
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	b.WriteString(m.renderPorts())

	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// Report returns the finished scan report, or nil if the scan did not complete.
func (m Model) Report() *scan.Report {
	return m.report
}

// Err returns the scan error, if any.
func (m Model) Err() error {
	return m.err
}

// renderHeader renders the header section.
func (m Model) renderHeader() string {
	title := m.styles.Title.Render("mininmap")

	var status string
	switch m.state {
	case StateRunning:
		status = m.spinner.View() + " Scanning... " + m.progress.ViewAs(m.percent())
	case StateComplete:
		status = m.styles.Success.Render("✓ Complete")
		if m.report != nil && m.report.Host == scan.HostOffline {
			status = m.styles.Warning.Render("✗ Host offline or unreachable")
		}
	case StateError:
		status = m.styles.Error.Render("✗ Error")
	}

	mode := "concurrent"
	if m.config.Sequential {
		mode = "sequential"
	}
	info := fmt.Sprintf("Target: %s | Ports: %d | Mode: %s", m.target, len(m.ports), mode)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.styles.Subtle.Render(info),
		status,
	)
}

// renderPorts renders the open port list.
func (m Model) renderPorts() string {
	if len(m.open) == 0 {
		if m.state == StateRunning {
			return m.styles.Subtle.Render("Waiting for open ports...")
		}
		return m.styles.Subtle.Render("No open ports found.")
	}

	var rows []string

	header := fmt.Sprintf("%-8s %-8s %-12s", "Port", "State", "Latency")
	rows = append(rows, m.styles.Header.Render(header))
	rows = append(rows, m.styles.Subtle.Render(strings.Repeat("─", 30)))

	for _, r := range m.open {
		rows = append(rows, m.renderPortRow(r))
	}

	return strings.Join(rows, "\n")
}

// renderPortRow renders a single open port row.
func (m Model) renderPortRow(r scan.PortResult) string {
	latency := fmt.Sprintf("%.2f ms", r.LatencyMs)

	return fmt.Sprintf("%-8s %-8s %-12s",
		m.styles.Port.Render(fmt.Sprintf("%-8d", r.Port)),
		m.styles.Open.Render("open"),
		m.colorizeLatency(latency, r.LatencyMs),
	)
}

// colorizeLatency applies color based on latency.
func (m Model) colorizeLatency(s string, ms float64) string {
	switch {
	case ms < 50:
		return m.styles.RTTLow.Render(s)
	case ms < 150:
		return m.styles.RTTMed.Render(s)
	default:
		return m.styles.RTTHigh.Render(s)
	}
}

// renderFooter renders the footer section.
func (m Model) renderFooter() string {
	parts := []string{
		fmt.Sprintf("Scanned: %d/%d", len(m.results), len(m.ports)),
		fmt.Sprintf("Open: %d", len(m.open)),
		fmt.Sprintf("Elapsed: %s", m.elapsed.Round(100*time.Millisecond)),
		"Press 'q' to quit",
	}

	return m.styles.Subtle.Render(strings.Join(parts, " | "))
}

func (m Model) percent() float64 {
	if len(m.ports) == 0 {
		return 1
	}
	return float64(len(m.results)) / float64(len(m.ports))
}

// runScan runs the scan in the background.
func (m Model) runScan() tea.Cmd {
	return func() tea.Msg {
		// Stream every result to the UI in addition to any existing callback
		next := m.config.OnResult
		m.config.OnResult = func(r scan.PortResult) {
			if next != nil {
				next(r)
			}
			m.resultChan <- r
		}

		scanner, err := scan.New(m.config)
		if err != nil {
			return ErrorMsg{Err: err}
		}

		report, err := scanner.Scan(m.ctx, m.target, m.ports)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return CompleteMsg{Report: report}
	}
}

// waitForResult waits for a port result from the channel.
func (m Model) waitForResult() tea.Cmd {
	return func() tea.Msg {
		select {
		case r := <-m.resultChan:
			return PortMsg{Result: r}
		case <-m.ctx.Done():
			return nil
		}
	}
}

// tickCmd returns a command that sends tick messages.
func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Close stops a scan that is still running.
func (m *Model) Close() error {
	m.cancel()
	return nil
}
