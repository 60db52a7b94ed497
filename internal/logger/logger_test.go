package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "reva.log")

	l, err := New(Config{
		Level: "debug",
		File:  logFile,
	})
	require.NoError(t, err)

	zl := l.GetZerolog()
	zl.Info().Str("component", "test").Msg("file sink works")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file sink works")
}

func TestNew_RedactsSecretsInFileSink(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "reva.log")

	l, err := New(Config{
		Level:     "info",
		File:      logFile,
		Redaction: true,
	})
	require.NoError(t, err)

	zl := l.GetZerolog()
	zl.Info().Msg("sending Bearer super.secret.token")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super.secret.token")
}

func TestNew_InvalidLevelFallsBackToInfo(t *testing.T) {
	l, err := New(Config{Level: "chatty"})
	require.NoError(t, err)
	defer l.Close()

	assert.Equal(t, "info", l.GetZerolog().GetLevel().String())
}

func TestSetLevel(t *testing.T) {
	l, err := New(Config{Level: "info"})
	require.NoError(t, err)
	defer l.Close()

	require.NoError(t, l.SetLevel("debug"))
	assert.Equal(t, "debug", l.GetZerolog().GetLevel().String())

	assert.Error(t, l.SetLevel("nope"))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.True(t, cfg.Redaction)
}
