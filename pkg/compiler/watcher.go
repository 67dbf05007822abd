package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher recompiles the compiler's paths whenever a configuration file
// under them changes. Changes are debounced so a burst of writes triggers a
// single run.
type Watcher struct {
	compiler *Compiler
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher creates a watcher over the compiler's configured paths.
func NewWatcher(c *Compiler, logger zerolog.Logger) *Watcher {
	return &Watcher{
		compiler: c,
		logger:   logger.With().Str("component", "watcher").Logger(),
		debounce: 500 * time.Millisecond,
	}
}

// Start begins watching and calls fn with the result of every successful
// recompilation. It returns after the watches are established; processing
// continues until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context, fn func(*Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	w.watcher = watcher

	for _, path := range w.compiler.Options().Paths {
		info, err := os.Stat(path)
		if err != nil {
			w.logger.Warn().Err(err).Str("path", path).Msg("Failed to stat path for watching")
			continue
		}

		if info.IsDir() {
			if err := w.watchDirectory(path); err != nil {
				w.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch directory")
			}
		} else {
			if err := watcher.Add(path); err != nil {
				w.logger.Warn().Err(err).Str("path", path).Msg("Failed to watch file")
			}
		}
	}

	go w.processEvents(ctx, fn)

	w.logger.Info().
		Int("paths", len(w.compiler.Options().Paths)).
		Msg("Started watching configuration paths")

	return nil
}

// watchDirectory adds a directory tree to the watcher. Events arrive per
// directory, so only directories need watches.
func (w *Watcher) watchDirectory(dirPath string) error {
	return filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.watcher.Add(path)
		}
		return nil
	})
}

// processEvents handles file system events and triggers debounced
// recompilations.
func (w *Watcher) processEvents(ctx context.Context, fn func(*Result)) {
	var timer *time.Timer

	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 || !isConfigFile(event.Name) {
				continue
			}

			w.logger.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("Configuration file changed")

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				w.recompile(ctx, fn)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}

func (w *Watcher) recompile(ctx context.Context, fn func(*Result)) {
	w.logger.Info().Msg("Recompiling...")

	result, err := w.compiler.Compile(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to recompile")
		return
	}

	fn(result)
}

// Stop stops watching for file changes.
func (w *Watcher) Stop() error {
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
