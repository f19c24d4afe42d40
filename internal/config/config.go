// Package config provides configuration file support for mininmap.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the mininmap configuration file structure.
type Config struct {
	// Defaults are applied when flags are not specified
	Defaults Defaults `yaml:"defaults"`

	// Server holds settings for the toy HTTP server
	Server Server `yaml:"server"`

	// Aliases for common targets
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// Defaults holds default values for probe and scan parameters.
type Defaults struct {
	// Timeouts
	PingTimeout    time.Duration `yaml:"ping_timeout"`
	ScanTimeout    time.Duration `yaml:"scan_timeout"`
	LatencyTimeout time.Duration `yaml:"latency_timeout"`

	// Scan mode
	Workers    int  `yaml:"workers"`
	Sequential bool `yaml:"sequential"`
	MaxPorts   int  `yaml:"max_ports"`
	SkipPing   bool `yaml:"skip_ping"`

	// Echo Reply parsing: fixed or ihl
	HeaderMode string `yaml:"header_mode"`

	// Output mode: text, table, json, csv, html
	Output  string `yaml:"output"`
	TUI     bool   `yaml:"tui"`
	NoColor bool   `yaml:"no_color"`

	// Log level: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// Server holds toy HTTP server settings.
type Server struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{
			PingTimeout:    2 * time.Second,
			ScanTimeout:    time.Second,
			LatencyTimeout: 5 * time.Second,
			Workers:        100,
			Sequential:     false,
			MaxPorts:       0, // unlimited
			SkipPing:       false,
			HeaderMode:     "fixed",
			Output:         "text",
			TUI:            false,
			NoColor:        false,
			LogLevel:       "warn",
		},
		Server: Server{
			Addr: "localhost:8080",
		},
		Aliases: make(map[string]string),
	}
}

// Validate checks the loaded values for obvious mistakes.
func (c *Config) Validate() error {
	d := c.Defaults
	if d.PingTimeout <= 0 || d.ScanTimeout <= 0 || d.LatencyTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if d.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", d.Workers)
	}
	if d.MaxPorts < 0 {
		return fmt.Errorf("max_ports must not be negative, got %d", d.MaxPorts)
	}
	switch strings.ToLower(d.HeaderMode) {
	case "fixed", "ihl":
	default:
		return fmt.Errorf("header_mode must be fixed or ihl, got %q", d.HeaderMode)
	}
	return nil
}

// ResolveAlias returns the address an alias points to, or target unchanged.
func (c *Config) ResolveAlias(target string) string {
	if addr, ok := c.Aliases[target]; ok {
		return addr
	}
	return target
}

// Load reads configuration from the default config file locations.
// It searches in order:
//  1. ./mininmap.yaml (current directory)
//  2. ~/.config/mininmap/config.yaml (Linux/macOS)
//  3. %APPDATA%\mininmap\config.yaml (Windows)
//
// If no config file is found, returns default configuration.
func Load() (*Config, error) {
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(path)
		}
	}

	// No config file found, return defaults
	return DefaultConfig(), nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return config, nil
}

// Save writes the configuration to the default user config path.
func (c *Config) Save() error {
	return c.SaveTo(getUserConfigPath())
}

// SaveTo writes the configuration to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// getConfigPaths returns the list of config file paths to search.
func getConfigPaths() []string {
	paths := []string{
		"mininmap.yaml",
		"mininmap.yml",
		".mininmap.yaml",
		".mininmap.yml",
	}

	if userPath := getUserConfigPath(); userPath != "" {
		paths = append(paths, userPath)
	}

	return paths
}

// getUserConfigPath returns the user-specific config file path.
func getUserConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "mininmap", "config.yaml")
		}
	default: // Linux, macOS, etc.
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "mininmap", "config.yaml")
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config", "mininmap", "config.yaml")
		}
	}
	return ""
}

// GetConfigPath returns the path where user config would be saved.
func GetConfigPath() string {
	return getUserConfigPath()
}

// GenerateExample generates an example configuration file content.
func GenerateExample() string {
	return `# mininmap configuration file
# Location: ~/.config/mininmap/config.yaml (Linux/macOS)
#           %APPDATA%\mininmap\config.yaml (Windows)
#           ./mininmap.yaml (current directory)

defaults:
  # Timeouts
  ping_timeout: 2s        # Wait for an ICMP Echo Reply
  scan_timeout: 1s        # Per-port TCP connect
  latency_timeout: 5s     # Latency probe connect

  # Scan mode
  workers: 100            # Concurrent connects
  sequential: false       # Probe ports one at a time
  max_ports: 0            # Refuse larger scans (0 = unlimited)
  skip_ping: false        # Scan without the liveness check

  # Echo Reply parsing: fixed (20-byte IP header) or ihl
  header_mode: fixed

  # Output: text, table, json, csv, html
  output: text
  tui: false              # Interactive progress view
  no_color: false         # Disable colors

  # Logging: debug, info, warn, error
  log_level: warn

server:
  addr: localhost:8080    # Toy HTTP server listen address

# Target aliases (optional)
aliases:
  dns: 8.8.8.8
  cf: 1.1.1.1
`
}
