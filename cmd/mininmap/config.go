package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Yonesj/Mini-Nmap/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage the mininmap configuration file.

Commands:
  mininmap config --init     Create default config file
  mininmap config --show     Show the effective configuration
  mininmap config --example  Show an annotated example file
  mininmap config --path     Show config file path`,
	RunE: runConfig,
}

var (
	configInit    bool
	configShow    bool
	configExample bool
	configPath    bool
)

func init() {
	configCmd.Flags().BoolVar(&configInit, "init", false, "Create default config file")
	configCmd.Flags().BoolVar(&configShow, "show", false, "Show the effective configuration")
	configCmd.Flags().BoolVar(&configExample, "example", false, "Show an annotated example file")
	configCmd.Flags().BoolVar(&configPath, "path", false, "Show config file path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	switch {
	case configPath:
		fmt.Fprintln(out, config.GetConfigPath())
		return nil

	case configInit:
		path := config.GetConfigPath()

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.GenerateExample()), 0644); err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}

		fmt.Fprintf(out, "Created config file: %s\n", path)
		fmt.Fprintln(out, "\nEdit this file to customize defaults.")
		fmt.Fprintln(out, "Example: set 'sequential: true' under 'defaults:' to always scan one port at a time.")
		return nil

	case configShow:
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		out.Write(data)
		return nil

	case configExample:
		fmt.Fprint(out, config.GenerateExample())
		return nil
	}

	// No flag specified, show help
	return cmd.Help()
}
