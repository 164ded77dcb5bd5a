package providers

import (
	"github.com/samber/do/v2"

	"github.com/myshelfapp/myshelf-server/internal/logger"
	"github.com/myshelfapp/myshelf-server/internal/page"
	"github.com/myshelfapp/myshelf-server/internal/registry"
	"github.com/myshelfapp/myshelf-server/internal/service"
	"github.com/myshelfapp/myshelf-server/internal/status"
)

// ProvideGenerationService provides the TSV-to-profile generation pipeline.
func ProvideGenerationService(i do.Injector) (*service.Generation, error) {
	store := do.MustInvoke[*registry.Store](i)
	renderer := do.MustInvoke[*page.Renderer](i)
	tracker := do.MustInvoke[*status.Tracker](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGeneration(store, renderer, tracker, log.Logger), nil
}

// ProvideUserService provides user listing and deletion.
func ProvideUserService(i do.Injector) (*service.Users, error) {
	store := do.MustInvoke[*registry.Store](i)
	renderer := do.MustInvoke[*page.Renderer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUsers(store, renderer, log.Logger), nil
}
