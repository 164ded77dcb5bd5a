package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/myshelfapp/myshelf-server/internal/api"
	"github.com/myshelfapp/myshelf-server/internal/config"
	"github.com/myshelfapp/myshelf-server/internal/logger"
	"github.com/myshelfapp/myshelf-server/internal/ratelimit"
	"github.com/myshelfapp/myshelf-server/internal/service"
	"github.com/myshelfapp/myshelf-server/internal/sse"
	"github.com/myshelfapp/myshelf-server/internal/status"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	tracker := do.MustInvoke[*status.Tracker](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	generation := do.MustInvoke[*service.Generation](i)
	users := do.MustInvoke[*service.Users](i)

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)
	limiter := ratelimit.New(cfg.Upload.RatePerSecond, cfg.Upload.RateBurst)

	handler := api.NewServer(cfg, generation, users, tracker, sseHandler, limiter, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv}, nil
}
