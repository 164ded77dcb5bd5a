// Package watch monitors the registry document for external changes.
//
// The server owns the registry file, but it is a plain JSON document and
// people do edit it by hand. The watcher notices writes it did not make and
// broadcasts a registry.updated event so open dashboards refetch the user
// list instead of showing stale data.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/myshelfapp/myshelf-server/internal/sse"
)

// debounceInterval collapses the burst of events a single save produces
// (create temp, write, rename) into one notification.
const debounceInterval = 500 * time.Millisecond

// RegistryWatcher watches the registry file's directory with fsnotify.
// Watching the directory rather than the file survives the atomic-rename
// save pattern, which replaces the inode on every write.
type RegistryWatcher struct {
	path    string
	logger  *slog.Logger
	manager *sse.Manager
	watcher *fsnotify.Watcher
}

// New creates a watcher for the registry document at path.
func New(path string, manager *sse.Manager, logger *slog.Logger) (*RegistryWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &RegistryWatcher{
		path:    filepath.Clean(path),
		logger:  logger,
		manager: manager,
		watcher: fw,
	}, nil
}

// Start watches until the context is canceled. It blocks; run it in a
// goroutine.
func (w *RegistryWatcher) Start(ctx context.Context) error {
	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create registry directory: %w", err)
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch registry directory: %w", err)
	}
	w.logger.Info("watching registry document", "path", w.path)

	// Inactive until the first relevant event.
	debounce := time.NewTimer(debounceInterval)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	base := filepath.Base(w.path)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			debounce.Reset(debounceInterval)

		case <-debounce.C:
			w.logger.Info("registry document changed", "path", w.path)
			w.manager.Emit(sse.NewRegistryUpdatedEvent(w.path))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("registry watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *RegistryWatcher) Close() error {
	return w.watcher.Close()
}
