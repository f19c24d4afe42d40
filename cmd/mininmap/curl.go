package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Yonesj/Mini-Nmap/internal/toyhttp"
	"github.com/spf13/cobra"
)

var curlTimeout time.Duration

var curlCmd = &cobra.Command{
	Use:   "curl <ip> <port> GET <id> | curl <ip> <port> POST <name> <age>",
	Short: "Send one request to the toy user service",
	Args:  curlArgs,
	RunE:  runCurl,
	Example: `  mininmap curl 127.0.0.1 8080 GET 1
  mininmap curl 127.0.0.1 8080 POST yabal 21`,
}

func init() {
	curlCmd.Flags().DurationVarP(&curlTimeout, "timeout", "w", toyhttp.DefaultClientTimeout, "Request timeout")
}

func curlArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: %s", cmd.Use)
	}
	switch args[2] {
	case "GET":
		if len(args) != 4 {
			return fmt.Errorf("GET takes exactly one id")
		}
	case "POST":
		if len(args) != 5 {
			return fmt.Errorf("POST takes a name and an age")
		}
	default:
		return fmt.Errorf("unknown method %q, want GET or POST", args[2])
	}
	return nil
}

func runCurl(cmd *cobra.Command, args []string) error {
	host := resolveTarget(args[0])
	port, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid port %q", args[1])
	}

	client := toyhttp.NewClient(host, port, curlTimeout)

	var resp string
	switch args[2] {
	case "GET":
		id, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[3])
		}
		resp, err = client.Get(cmd.Context(), id)
		if err != nil {
			return err
		}
	case "POST":
		age, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("invalid age %q", args[4])
		}
		resp, err = client.Post(cmd.Context(), args[3], age)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp)
	return nil
}
