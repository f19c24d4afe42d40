package main

import (
	"fmt"
	"time"

	"github.com/Yonesj/Mini-Nmap/internal/output"
	"github.com/Yonesj/Mini-Nmap/internal/probe"
	"github.com/spf13/cobra"
)

var latencyTimeout time.Duration

var latencyCmd = &cobra.Command{
	Use:   "latency <ip> <port>",
	Short: "Measure TCP connect time to a port",
	Args:  cobra.ExactArgs(2),
	RunE:  runLatency,
}

func init() {
	latencyCmd.Flags().DurationVarP(&latencyTimeout, "timeout", "w", probe.DefaultLatencyTimeout, "Connect timeout")
}

func runLatency(cmd *cobra.Command, args []string) error {
	target := resolveTarget(args[0])
	if _, err := probe.ParseIPv4(target); err != nil {
		return err
	}

	ports, err := parsePorts(args[1:])
	if err != nil {
		return err
	}

	result := &output.LatencyResult{
		Target:    target,
		Port:      ports[0],
		LatencyMs: probe.MeasureLatency(target, ports[0], latencyTimeout),
	}
	logr.Debug("latency measured", "target", target, "port", ports[0], "ms", result.LatencyMs)

	writer, _, err := newWriter(cmd)
	if err != nil {
		return err
	}
	if err := writer.WriteLatency(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
