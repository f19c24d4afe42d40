package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Yonesj/Mini-Nmap/internal/scan"
)

// Options controls how the scan view is drawn.
type Options struct {
	Colors bool
}

// Run shows scan progress for target until the user quits and returns the
// finished report. The report is nil if the user quit before the scan ended.
func Run(ctx context.Context, target string, ports []int, config *scan.Config, opts Options) (*scan.Report, error) {
	model := New(ctx, target, ports, config)
	defer model.Close()
	if !opts.Colors {
		model.WithoutColor()
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok {
		return nil, nil
	}
	if m.state == StateError && m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}
