package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Yonesj/Mini-Nmap/internal/config"
	"github.com/Yonesj/Mini-Nmap/internal/logger"
	"github.com/Yonesj/Mini-Nmap/internal/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile    string
	logLevel   string
	noColor    bool
	outputName string
	outFile    string

	cfg  *config.Config
	logr *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mininmap <command> [flags]",
	Short: "Minimal host and port prober",
	Long: `mininmap - a minimal ICMP/TCP probing toolkit

mininmap checks whether a host answers ICMP Echo, finds open TCP ports
with connect scans, measures TCP connect latency and talks to the
bundled toy user service.

Examples:
  mininmap status 192.168.1.1 22 80 443     Ping, then scan three ports
  mininmap status 192.168.1.1 -r 1 1024     Scan a port range
  mininmap latency 8.8.8.8 53               TCP connect time
  mininmap serve                            Start the toy user service
  mininmap curl 127.0.0.1 8080 GET 1        Query the toy user service
  mininmap config --init                    Create default config file

The old single-dash form (-status, -latency, -curl ... -GET/-POST) is
still accepted.

ICMP liveness checks need a raw socket (root or CAP_NET_RAW). Without it
the status command warns and scans anyway.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.config/mininmap/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&outputName, "output", "o", "", "Output format: text, table, json, csv, html")
	rootCmd.PersistentFlags().StringVar(&outFile, "out", "", "Also write the report to this file")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(latencyCmd)
	rootCmd.AddCommand(curlCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig loads configuration from file and applies defaults.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	applyConfigDefaults(cmd)

	if noColor {
		color.NoColor = true
	}
	logr = logger.New(os.Stderr, logLevel)

	return nil
}

// applyConfigDefaults applies config file values for unset flags.
func applyConfigDefaults(cmd *cobra.Command) {
	if cfg == nil {
		return
	}

	d := cfg.Defaults
	flags := cmd.Flags()

	if !flags.Changed("log-level") {
		logLevel = d.LogLevel
	}
	if !flags.Changed("no-color") && d.NoColor {
		noColor = true
	}
	if !flags.Changed("output") {
		outputName = d.Output
	}

	switch cmd {
	case statusCmd:
		if !flags.Changed("timeout") {
			scanTimeout = d.ScanTimeout
		}
		if !flags.Changed("ping-timeout") {
			pingTimeout = d.PingTimeout
		}
		if !flags.Changed("workers") {
			workers = d.Workers
		}
		if !flags.Changed("max-ports") {
			maxPorts = d.MaxPorts
		}
		if !flags.Changed("sequential") && d.Sequential {
			sequential = true
		}
		if !flags.Changed("skip-ping") && d.SkipPing {
			skipPing = true
		}
		if !flags.Changed("header-mode") {
			headerMode = d.HeaderMode
		}
		if !flags.Changed("tui") && d.TUI {
			tuiMode = true
		}

	case latencyCmd:
		if !flags.Changed("timeout") {
			latencyTimeout = d.LatencyTimeout
		}

	case serveCmd:
		if !flags.Changed("addr") {
			serveAddr = cfg.Server.Addr
		}
	}
}

// newWriter builds the writer for the selected output format on the
// command's stdout, and an uncolored formatter for report files.
func newWriter(cmd *cobra.Command) (*output.Writer, output.Formatter, error) {
	format, err := output.ParseFormat(outputName)
	if err != nil {
		return nil, nil, err
	}
	outConfig := output.Config{
		Colors:     !noColor,
		ShowClosed: showClosed,
	}
	writer := output.NewWriter(cmd.OutOrStdout(), format, outConfig)

	outConfig.Colors = false
	return writer, output.NewFormatter(format, outConfig), nil
}

// resolveTarget expands a config alias.
func resolveTarget(target string) string {
	if cfg == nil {
		return target
	}
	return cfg.ResolveAlias(target)
}

// warn prints a highlighted warning to stderr.
func warn(format string, args ...any) {
	yellow := color.New(color.FgYellow)
	yellow.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

// Execute runs the root command with the given arguments.
func Execute(ctx context.Context, args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// SetVersion sets version information for the CLI.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}
