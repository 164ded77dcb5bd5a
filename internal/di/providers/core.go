package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/myshelfapp/myshelf-server/internal/config"
	"github.com/myshelfapp/myshelf-server/internal/logger"
	"github.com/myshelfapp/myshelf-server/internal/page"
	"github.com/myshelfapp/myshelf-server/internal/registry"
	"github.com/myshelfapp/myshelf-server/internal/sse"
	"github.com/myshelfapp/myshelf-server/internal/status"
	"github.com/myshelfapp/myshelf-server/internal/watch"
)

// ProvideStatusTracker provides the shared generation status tracker.
func ProvideStatusTracker(i do.Injector) (*status.Tracker, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return status.NewTracker(log.Logger), nil
}

// ProvideRegistryStore provides the registry document store.
func ProvideRegistryStore(i do.Injector) (*registry.Store, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	return registry.New(cfg.Data.RegistryPath, log.Logger), nil
}

// ProvidePageRenderer provides the profile page renderer.
func ProvidePageRenderer(i do.Injector) (*page.Renderer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	return page.NewRenderer(cfg.Data.PagesDir, log.Logger)
}

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager with the status
// bridge already attached.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	tracker := do.MustInvoke[*status.Tracker](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)
	go sse.RunStatusBridge(ctx, tracker, manager)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// RegistryWatcherHandle wraps the registry watcher for lifecycle management.
// Watcher is nil when watching is disabled by configuration.
type RegistryWatcherHandle struct {
	Watcher *watch.RegistryWatcher
	cancel  context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *RegistryWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Close()
}

// ProvideRegistryWatcher provides the registry file watcher.
func ProvideRegistryWatcher(i do.Injector) (*RegistryWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Data.WatchRegistry {
		log.Info("registry watcher disabled")
		return &RegistryWatcherHandle{}, nil
	}

	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	watcher, err := watch.New(cfg.Data.RegistryPath, sseHandle.Manager, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := watcher.Start(ctx); err != nil {
			log.Warn("registry watcher stopped", "error", err)
		}
	}()

	return &RegistryWatcherHandle{Watcher: watcher, cancel: cancel}, nil
}
