package output

import (
	"io"
	"os"

	"github.com/Yonesj/Mini-Nmap/internal/scan"
	"github.com/mattn/go-isatty"
)

// Writer handles output formatting and writing.
type Writer struct {
	formatter Formatter
	output    io.Writer
	isTTY     bool
}

// NewWriter creates a writer on out. Colors are disabled unless out is a terminal.
func NewWriter(out io.Writer, format Format, config Config) *Writer {
	isTTY := false
	if f, ok := out.(*os.File); ok {
		isTTY = isTerminal(f)
	}
	if !isTTY {
		config.Colors = false
	}

	return &Writer{
		formatter: NewFormatter(format, config),
		output:    out,
		isTTY:     isTTY,
	}
}

// Write formats and writes the scan report.
func (w *Writer) Write(report *scan.Report) error {
	data, err := w.formatter.Format(report)
	if err != nil {
		return err
	}
	return w.emit(data)
}

// WriteLatency formats and writes a latency measurement.
func (w *Writer) WriteLatency(result *LatencyResult) error {
	data, err := w.formatter.FormatLatency(result)
	if err != nil {
		return err
	}
	return w.emit(data)
}

func (w *Writer) emit(data []byte) error {
	if _, err := w.output.Write(data); err != nil {
		return err
	}

	// Flush output if it's a file (ensures output is visible immediately)
	if f, ok := w.output.(*os.File); ok {
		f.Sync()
	}

	return nil
}

// IsTTY returns whether the output is a terminal.
func (w *Writer) IsTTY() bool {
	return w.isTTY
}

func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteToFile writes the scan report to a file.
func WriteToFile(report *scan.Report, filename string, formatter Formatter) error {
	data, err := formatter.Format(report)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}
