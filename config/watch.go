package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long a file must be quiet before it is reloaded.
const watchDebounce = 100 * time.Millisecond

// Watch reloads the configuration whenever the file at path changes and
// passes each valid result to fn. Reloads use the same layering as Load,
// with path as the explicit file. Invalid edits are logged and skipped.
// The parent directory is watched so editors that replace the file are
// seen. Watching stops when ctx is done; fn runs on the watcher goroutine.
func (l *Loader) Watch(ctx context.Context, path string, fn func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	go l.processEvents(ctx, fsw, abs, fn)
	l.logger.Debug("Watching config file", slog.String("path", abs))
	return nil
}

func (l *Loader) processEvents(ctx context.Context, fsw *fsnotify.Watcher, path string, fn func(*Config)) {
	defer fsw.Close()

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timer.Reset(watchDebounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			l.logger.Error("Config watcher error", "error", err)

		case <-timer.C:
			config, err := l.Load(path)
			if err != nil {
				l.logger.Warn("Ignoring config change", slog.String("path", path), slog.String("error", err.Error()))
				continue
			}
			l.logger.Info("Reloaded config", slog.String("path", path))
			fn(config)
		}
	}
}
