package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ReloadCallback is called with the freshly loaded configuration after the
// config file changes on disk.
type ReloadCallback func(cfg *Config)

// Watcher reloads the configuration when its file changes, debouncing the
// write bursts editors produce.
type Watcher struct {
	watcher       *fsnotify.Watcher
	loader        *Loader
	configPath    string
	onReload      ReloadCallback
	logger        zerolog.Logger
	done          chan struct{}
	debounceTimer *time.Timer
	debounceMu    sync.Mutex
	stopOnce      sync.Once
}

// NewWatcher creates a watcher for the loader's config file.
func NewWatcher(loader *Loader, onReload ReloadCallback, logger zerolog.Logger) (*Watcher, error) {
	if onReload == nil {
		return nil, fmt.Errorf("reload callback is required")
	}

	configPath, err := loader.Path()
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:    fsWatcher,
		loader:     loader,
		configPath: configPath,
		onReload:   onReload,
		logger:     logger,
		done:       make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so atomic
// rename-into-place saves are seen too.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go w.eventLoop()
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.watcher.Close()
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.configPath) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.scheduleReload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Config watcher error")
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(100*time.Millisecond, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := w.loader.Load()
	if err != nil {
		w.logger.Warn().Err(err).Msg("Config reload failed, keeping previous configuration")
		return
	}

	w.logger.Info().Str("path", w.configPath).Msg("Configuration reloaded")
	w.onReload(cfg)
}
