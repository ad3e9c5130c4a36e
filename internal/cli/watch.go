package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of writes into one re-render.
const watchDebounce = 100 * time.Millisecond

// Watch renders once, then re-renders whenever one of the configured input
// files is written or created. It returns when ctx is cancelled.
// Render errors are logged and do not stop the watch.
func (a *App) Watch(ctx context.Context) error {
	if _, err := a.GenerateFigure(ctx); err != nil {
		a.logger.Error("render failed", "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := a.cfg.DataDir
	if dir == "" {
		dir = "."
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	a.sendStatus("watching for changes", "dir", dir)

	a.watchLoop(ctx, watcher)
	return nil
}

// inputNames lists the base names of every configured input file.
func (a *App) inputNames() map[string]bool {
	names := make(map[string]bool)
	for _, pattern := range a.cfg.Patterns() {
		for _, n := range a.cfg.Sizes {
			names[filepath.Base(a.cfg.ResourceName(pattern, n))] = true
		}
	}
	return names
}

// watchLoop handles file system events until ctx is done.
func (a *App) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	inputs := a.inputNames()

	// Debounce timer
	var debounceTimer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !inputs[filepath.Base(event.Name)] {
				continue
			}
			a.logger.Debug("change detected", "file", filepath.Base(event.Name))

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.NewTimer(watchDebounce)
			fire = debounceTimer.C
		case <-fire:
			fire = nil
			if _, err := a.GenerateFigure(ctx); err != nil {
				a.logger.Error("render failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			a.logger.Error("watcher error", "error", err)
		}
	}
}
