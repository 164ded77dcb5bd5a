package service

import (
	"context"
	"log/slog"

	"github.com/myshelfapp/myshelf-server/internal/domain"
	"github.com/myshelfapp/myshelf-server/internal/page"
	"github.com/myshelfapp/myshelf-server/internal/registry"
)

// Users manages the registered user list.
type Users struct {
	store    *registry.Store
	renderer *page.Renderer
	logger   *slog.Logger
}

// NewUsers creates the user service.
func NewUsers(store *registry.Store, renderer *page.Renderer, logger *slog.Logger) *Users {
	return &Users{
		store:    store,
		renderer: renderer,
		logger:   logger,
	}
}

// List returns all registered users. A registry that does not exist yet
// yields an empty list.
func (u *Users) List(ctx context.Context) ([]domain.UserProfile, error) {
	return u.store.ListUsers()
}

// Delete removes the user from the registry (including its network node and
// edges) and deletes the generated page artifact. A not-found error from the
// registry propagates and nothing is deleted.
func (u *Users) Delete(ctx context.Context, id string) error {
	if err := u.store.DeleteUser(id); err != nil {
		return err
	}
	if err := u.renderer.Remove(id); err != nil {
		// The registry entry is already gone; a leftover page is only
		// cosmetic and regenerates on the next upload.
		u.logger.Warn("failed to remove page artifact", "user_id", id, "error", err)
	}
	u.logger.Info("deleted user", "user_id", id)
	return nil
}
