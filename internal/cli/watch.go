package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay lets editors finish writing before a re-render.
const reloadDelay = 100 * time.Millisecond

// RunWatch renders the page, then renders it again every time the file
// changes, until ctx is cancelled. Render errors are reported and the
// watcher keeps waiting for a fix.
func RunWatch(ctx context.Context, stack *Stack, opts RunOptions, w io.Writer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory.
	target, err := filepath.Abs(opts.PagePath)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", opts.PagePath, err)
	}

	renderOnce := func() {
		if err := Render(ctx, stack, opts, w); err != nil {
			stack.Logger.Error("Render failed", "page", opts.PagePath, "error", err)
			printSystemMessage(w, "Render failed: %v", err)
		}
		printSystemMessage(w, "Waiting for changes...")
	}
	renderOnce()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isPageChange(ev, target) {
				continue
			}
			stack.Logger.Debug("Change detected", "event", ev.String())
			pending = time.After(reloadDelay)
		case <-pending:
			pending = nil
			printSystemMessage(w, "Change detected in '%s'.", filepath.Base(target))
			renderOnce()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			stack.Logger.Warn("Watcher error", "error", err)
		}
	}
}

func isPageChange(ev fsnotify.Event, target string) bool {
	if filepath.Clean(ev.Name) != target {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
