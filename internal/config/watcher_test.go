package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, level string) {
	t.Helper()
	content := `{"runtime":{"port":8080},"logging":{"level":"` + level + `"},"data_dir":"` + filepath.Dir(path) + `"}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "reva.json")
	writeConfig(t, configPath, "info")

	loader := NewLoader(configPath)

	var mu sync.Mutex
	var levels []string
	watcher, err := NewWatcher(loader, func(cfg *Config) {
		mu.Lock()
		levels = append(levels, cfg.Logging.Level)
		mu.Unlock()
	}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	writeConfig(t, configPath, "debug")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(levels) > 0 && levels[len(levels)-1] == "debug"
	}, 3*time.Second, 50*time.Millisecond)
}

func TestWatcher_KeepsOldConfigOnInvalidWrite(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "reva.json")
	writeConfig(t, configPath, "info")

	loader := NewLoader(configPath)

	reloaded := make(chan struct{}, 1)
	watcher, err := NewWatcher(loader, func(cfg *Config) {
		reloaded <- struct{}{}
	}, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, watcher.Start())
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(configPath, []byte(`{broken`), 0644))

	select {
	case <-reloaded:
		t.Fatal("invalid config must not trigger reload callback")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestNewWatcher_RequiresCallback(t *testing.T) {
	_, err := NewWatcher(NewLoader(""), nil, zerolog.Nop())
	assert.ErrorContains(t, err, "reload callback is required")
}
