package main

import (
	"fmt"
	"net"

	"github.com/Yonesj/Mini-Nmap/internal/toyhttp"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the toy user service",
	Long: `Run the toy user service used by the curl command.

The store starts with Alice (0), Bob (1) and Charlie (2) and lives in
memory only. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", toyhttp.DefaultAddress, "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	ln, err := net.Listen("tcp", serveAddr)
	if err != nil {
		return err
	}

	srv := toyhttp.NewServer(toyhttp.NewStore(), toyhttp.ServerOptions{
		Addr:   serveAddr,
		Logger: logr,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Server is listening on http://%s\n", ln.Addr())
	return srv.Serve(cmd.Context(), ln)
}
