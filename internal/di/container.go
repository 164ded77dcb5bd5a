// Package di provides dependency injection configuration for the MyShelf server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/myshelfapp/myshelf-server/internal/config"
	"github.com/myshelfapp/myshelf-server/internal/di/providers"
	"github.com/myshelfapp/myshelf-server/internal/logger"
	"github.com/myshelfapp/myshelf-server/internal/page"
	"github.com/myshelfapp/myshelf-server/internal/registry"
	"github.com/myshelfapp/myshelf-server/internal/service"
	"github.com/myshelfapp/myshelf-server/internal/status"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideStatusTracker)

	// Storage and rendering
	do.Provide(injector, providers.ProvideRegistryStore)
	do.Provide(injector, providers.ProvidePageRenderer)

	// Event streaming
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideRegistryWatcher)

	// Business services
	do.Provide(injector, providers.ProvideGenerationService)
	do.Provide(injector, providers.ProvideUserService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*status.Tracker](injector)
	_ = do.MustInvoke[*registry.Store](injector)
	_ = do.MustInvoke[*page.Renderer](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.RegistryWatcherHandle](injector)
	_ = do.MustInvoke[*service.Generation](injector)
	_ = do.MustInvoke[*service.Users](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
