package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Yonesj/Mini-Nmap/internal/output"
	"github.com/Yonesj/Mini-Nmap/internal/probe"
	"github.com/Yonesj/Mini-Nmap/internal/scan"
	"github.com/Yonesj/Mini-Nmap/internal/tui"
	"github.com/spf13/cobra"
)

var (
	rangeMode   bool
	scanTimeout time.Duration
	pingTimeout time.Duration
	workers     int
	maxPorts    int
	sequential  bool
	skipPing    bool
	headerMode  string
	tuiMode     bool
	showClosed  bool
)

var statusCmd = &cobra.Command{
	Use:   "status <ip> [ports...] | status <ip> -r <start> <end>",
	Short: "Check if a host is online and which TCP ports are open",
	Long: `Send one ICMP Echo Request to the host and, if it answers, try a TCP
connect to every listed port.

With -r the two numbers after the address are the ends of an inclusive
range, in either order.`,
	Args:    statusArgs,
	RunE:    runStatus,
	Example: "  mininmap status 10.0.0.1 22 80\n  mininmap status 10.0.0.1 -r 1 1024 --sequential",
}

func init() {
	statusCmd.Flags().BoolVarP(&rangeMode, "range", "r", false, "Treat the two ports as an inclusive range")
	statusCmd.Flags().DurationVarP(&scanTimeout, "timeout", "w", scan.DefaultTimeout, "Per-port connect timeout")
	statusCmd.Flags().DurationVar(&pingTimeout, "ping-timeout", scan.DefaultPingTimeout, "Echo Reply wait")
	statusCmd.Flags().IntVarP(&workers, "workers", "c", scan.DefaultConcurrency, "Concurrent connects")
	statusCmd.Flags().IntVar(&maxPorts, "max-ports", 0, "Refuse scans with more ports (0 = unlimited)")
	statusCmd.Flags().BoolVar(&sequential, "sequential", false, "Probe ports one at a time")
	statusCmd.Flags().BoolVar(&skipPing, "skip-ping", false, "Skip the ICMP liveness check")
	statusCmd.Flags().StringVar(&headerMode, "header-mode", "fixed", "Echo Reply IP header handling: fixed or ihl")
	statusCmd.Flags().BoolVarP(&tuiMode, "tui", "t", false, "Interactive progress view")
	statusCmd.Flags().BoolVar(&showClosed, "show-closed", false, "List closed ports in table and html output")
}

// statusArgs validates "<ip> [ports...]" or, with -r, "<ip> <start> <end>".
func statusArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return errors.New("requires an IPv4 address")
	}
	if rangeMode && len(args) != 3 {
		return fmt.Errorf("-r needs exactly a start and an end port, got %d values", len(args)-1)
	}
	return nil
}

// parsePorts converts port arguments to numbers.
func parsePorts(args []string) ([]int, error) {
	ports := make([]int, 0, len(args))
	for _, a := range args {
		p, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", a)
		}
		if err := probe.ValidatePort(p); err != nil {
			return nil, err
		}
		ports = append(ports, p)
	}
	return ports, nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	target := resolveTarget(args[0])
	if _, err := probe.ParseIPv4(target); err != nil {
		return err
	}

	ports, err := parsePorts(args[1:])
	if err != nil {
		return err
	}
	if rangeMode {
		ports = scan.PortRange(ports[0], ports[1])
	}

	mode, err := probe.ParseHeaderMode(headerMode)
	if err != nil {
		return err
	}

	scanConfig := scan.DefaultConfig()
	scanConfig.Timeout = scanTimeout
	scanConfig.PingTimeout = pingTimeout
	scanConfig.Concurrency = workers
	scanConfig.Sequential = sequential
	scanConfig.MaxPorts = maxPorts
	scanConfig.Logger = logr

	if !skipPing {
		prober, err := probe.NewLivenessProber(probe.LivenessConfig{
			Timeout:    pingTimeout,
			HeaderMode: mode,
			Logger:     logr,
		})
		switch {
		case err == nil:
			scanConfig.Pinger = prober
		case probe.IsPermissionError(err), errors.Is(err, probe.ErrUnsupportedPlatform):
			warn("%v; skipping the liveness check", err)
		default:
			return fmt.Errorf("liveness check: %w", err)
		}
	}

	writer, formatter, err := newWriter(cmd)
	if err != nil {
		return err
	}

	var report *scan.Report
	if tuiMode && writer.IsTTY() {
		report, err = tui.Run(cmd.Context(), target, ports, scanConfig, tui.Options{Colors: !noColor})
		if err != nil {
			return err
		}
		if report == nil {
			return nil // quit before the scan finished
		}
	} else {
		scanner, err := scan.New(scanConfig)
		if err != nil {
			return err
		}
		report, err = scanner.Scan(cmd.Context(), target, ports)
		if err != nil {
			return err
		}
	}

	if err := writer.Write(report); err != nil {
		return err
	}
	if outFile != "" {
		if err := output.WriteToFile(report, outFile, formatter); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logr.Info("report saved", "path", outFile)
	}
	return nil
}
