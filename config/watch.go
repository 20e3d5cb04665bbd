package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval coalesces the burst of events an editor or provisioner
// emits for a single save.
const debounceInterval = 200 * time.Millisecond

// Watch reloads the file on every change and hands the result to onChange,
// until ctx is cancelled. The parent directory is watched rather than the
// file itself, so atomic replace-by-rename saves keep working.
func Watch(ctx context.Context, path string, logger *slog.Logger, onChange func(Config)) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "config")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer w.Close()
		target := filepath.Base(path)

		var timer *time.Timer
		var fire <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return

			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != target {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(debounceInterval)
				fire = timer.C

			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", "error", err)

			case <-fire:
				timer, fire = nil, nil
				cfg, err := Load(path)
				if err != nil {
					logger.Warn("reload failed, keeping previous config", "error", err)
					continue
				}
				if err := cfg.Validate(); err != nil {
					logger.Warn("reloaded config invalid, keeping previous config", "error", err)
					continue
				}
				logger.Info("configuration reloaded", "path", path)
				onChange(cfg)
			}
		}
	}()
	return nil
}
