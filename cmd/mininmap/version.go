package main

import (
	"fmt"

	"github.com/Yonesj/Mini-Nmap/internal/config"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mininmap %s\n", version)
		fmt.Fprintf(out, "  Commit: %s\n", commit)
		fmt.Fprintf(out, "  Built:  %s\n", date)
		fmt.Fprintf(out, "  Config: %s\n", config.GetConfigPath())
	},
}
