// Package config loads and validates the wrapper's configuration: the
// entrypoint listen address, gateway credentials for the probe, and logging.
package config

import (
	"encoding/json"
	"fmt"
)

// Config represents the main reva configuration
type Config struct {
	// Runtime is the entrypoint server configuration
	Runtime RuntimeConfig `json:"runtime" mapstructure:"runtime"`

	// Gateway holds tool gateway connection settings for the probe
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// Probe holds manual probe behavior settings
	Probe ProbeConfig `json:"probe" mapstructure:"probe"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Data directory
	DataDir string `json:"data_dir" mapstructure:"data_dir"`
}

// RuntimeConfig holds entrypoint server settings
type RuntimeConfig struct {
	Host string `json:"host" mapstructure:"host"`
	Port int    `json:"port" mapstructure:"port"`
}

// GatewayConfig holds tool gateway settings. Environment variables from the
// fixed probe contract override these when set.
type GatewayConfig struct {
	URL            string `json:"url" mapstructure:"url"`
	ClientID       string `json:"client_id" mapstructure:"client_id"`
	ClientSecret   string `json:"client_secret" mapstructure:"client_secret"`
	UserPoolDomain string `json:"user_pool_domain" mapstructure:"user_pool_domain"`
}

// ProbeConfig holds manual probe settings
type ProbeConfig struct {
	// Schedule is an optional cron expression for repeated probing
	Schedule string `json:"schedule" mapstructure:"schedule"`
	// HistoryEnabled records probe runs in a local database
	HistoryEnabled bool `json:"history_enabled" mapstructure:"history_enabled"`
	// HistoryPath is the history database path
	HistoryPath string `json:"history_path" mapstructure:"history_path"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level"`
	File      string `json:"file" mapstructure:"file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Probe: ProbeConfig{
			HistoryEnabled: true,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Pretty:    true,
			Redaction: true,
		},
	}
}

// String returns a JSON representation with secrets masked
func (c *Config) String() string {
	masked := *c
	if masked.Gateway.ClientSecret != "" {
		masked.Gateway.ClientSecret = "***"
	}

	data, err := json.MarshalIndent(masked, "", "  ")
	if err != nil {
		return fmt.Sprintf("config marshal error: %v", err)
	}
	return string(data)
}
