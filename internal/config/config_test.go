package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0.0.0.0", cfg.Runtime.Host)
	assert.Equal(t, 8080, cfg.Runtime.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Redaction)
	assert.True(t, cfg.Probe.HistoryEnabled)
}

func TestString_MasksSecret(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gateway.ClientSecret = "very-secret-value"

	out := cfg.String()
	assert.NotContains(t, out, "very-secret-value")
	assert.Contains(t, out, "***")
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, Validate(cfg))

	bad := DefaultConfig()
	bad.Runtime.Port = 0
	assert.ErrorContains(t, Validate(bad), "invalid runtime port")

	bad = DefaultConfig()
	bad.Runtime.Port = 70000
	assert.ErrorContains(t, Validate(bad), "invalid runtime port")

	bad = DefaultConfig()
	bad.Logging.Level = "verbose"
	assert.ErrorContains(t, Validate(bad), "invalid log level")

	bad = DefaultConfig()
	bad.Gateway.URL = "gw.example.com"
	assert.ErrorContains(t, Validate(bad), "gateway url")

	bad = DefaultConfig()
	bad.Gateway.UserPoolDomain = "pool.example.com"
	assert.ErrorContains(t, Validate(bad), "user pool domain")
}
