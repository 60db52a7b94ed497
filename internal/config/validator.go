package config

import (
	"fmt"
	"strings"
)

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration for values that would fail at runtime.
func Validate(cfg *Config) error {
	if cfg.Runtime.Port <= 0 || cfg.Runtime.Port > 65535 {
		return fmt.Errorf("invalid runtime port: %d", cfg.Runtime.Port)
	}

	if cfg.Logging.Level != "" && !validLogLevels[strings.ToLower(cfg.Logging.Level)] {
		return fmt.Errorf("invalid log level: %q", cfg.Logging.Level)
	}

	if cfg.Gateway.URL != "" && !strings.HasPrefix(cfg.Gateway.URL, "http://") && !strings.HasPrefix(cfg.Gateway.URL, "https://") {
		return fmt.Errorf("gateway url must be http(s): %q", cfg.Gateway.URL)
	}
	if cfg.Gateway.UserPoolDomain != "" && !strings.HasPrefix(cfg.Gateway.UserPoolDomain, "http://") && !strings.HasPrefix(cfg.Gateway.UserPoolDomain, "https://") {
		return fmt.Errorf("user pool domain must be http(s): %q", cfg.Gateway.UserPoolDomain)
	}

	return nil
}
