package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds all the styles used in the TUI.
type Styles struct {
	// Text styles
	Title  lipgloss.Style
	Header lipgloss.Style
	Subtle lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style

	// Port styles
	Port lipgloss.Style
	Open lipgloss.Style

	// Activity indicator
	Spinner lipgloss.Style

	// Latency styles (color-coded)
	RTTLow  lipgloss.Style // < 50ms
	RTTMed  lipgloss.Style // 50-150ms
	RTTHigh lipgloss.Style // > 150ms
}

// DefaultStyles returns the default style set.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("46")), // Green

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")), // Red

		Warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")), // Orange

		Port: lipgloss.NewStyle().
			Foreground(lipgloss.Color("87")), // Cyan

		Open: lipgloss.NewStyle().
			Foreground(lipgloss.Color("114")), // Light green

		Spinner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")),

		RTTLow: lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")),

		RTTMed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")), // Yellow

		RTTHigh: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),
	}
}

// MinimalTheme returns a style set without colors, for --no-color.
func MinimalTheme() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).MarginBottom(1),
		Header:  lipgloss.NewStyle().Bold(true),
		Subtle:  plain,
		Success: lipgloss.NewStyle().Bold(true),
		Error:   lipgloss.NewStyle().Bold(true),
		Warning: lipgloss.NewStyle().Bold(true),
		Port:    plain,
		Open:    plain,
		Spinner: plain,
		RTTLow:  plain,
		RTTMed:  plain,
		RTTHigh: plain,
	}
}

// WithStyles replaces the model's style set.
func (m *Model) WithStyles(s Styles) *Model {
	m.styles = s
	m.spinner.Style = s.Spinner
	return m
}

// WithoutColor switches the model to MinimalTheme and an uncolored progress bar.
func (m *Model) WithoutColor() *Model {
	m.progress = progress.New(
		progress.WithSolidFill(""),
		progress.WithWidth(progressWidth),
		progress.WithColorProfile(termenv.Ascii),
	)
	return m.WithStyles(MinimalTheme())
}
