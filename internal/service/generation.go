// Package service implements the generation pipeline and user management on
// top of the registry store, page renderer, and status tracker.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/myshelfapp/myshelf-server/internal/ingest"
	"github.com/myshelfapp/myshelf-server/internal/page"
	"github.com/myshelfapp/myshelf-server/internal/profile"
	"github.com/myshelfapp/myshelf-server/internal/registry"
	"github.com/myshelfapp/myshelf-server/internal/status"
)

// Job describes one generation run: the uploaded TSV plus the user identity
// fields from the upload form.
type Job struct {
	ID         string
	UploadPath string
	UserID     string
	UserName   string
	Position   string
	Email      string
	AvatarURL  string
}

// Generation runs the TSV-to-profile pipeline. One run at a time; the caller
// claims the tracker with TryStart before invoking Run.
type Generation struct {
	store    *registry.Store
	renderer *page.Renderer
	tracker  *status.Tracker
	logger   *slog.Logger
	now      func() time.Time
}

// NewGeneration creates the generation service.
func NewGeneration(store *registry.Store, renderer *page.Renderer, tracker *status.Tracker, logger *slog.Logger) *Generation {
	return &Generation{
		store:    store,
		renderer: renderer,
		tracker:  tracker,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes one generation pass and reports progress on the tracker.
// All failures are recorded there rather than returned; the registry and the
// page artifact are only written once every earlier step has succeeded.
// The uploaded temp file is removed best-effort when the run ends.
func (g *Generation) Run(ctx context.Context, job Job) {
	logger := g.logger.With("job_id", job.ID, "user_id", job.UserID)
	logger.Info("generation run starting", "upload", job.UploadPath)

	defer g.cleanupUpload(job.UploadPath)

	if ctx.Err() != nil {
		g.tracker.Fail("サーバーが停止中のため処理を中断しました")
		return
	}

	g.tracker.Update(10, fmt.Sprintf("ユーザー %s の処理を開始...", job.UserName))

	g.tracker.Update(20, "貸出データを解析中...")
	records, err := ingest.ParseFile(job.UploadPath)
	if err != nil {
		g.tracker.Fail(err.Error())
		return
	}

	now := g.now()
	patterns, err := profile.Analyze(records, now)
	if err != nil {
		g.tracker.Fail(err.Error())
		return
	}

	categories, err := g.store.Categories()
	if err != nil {
		g.tracker.Fail(err.Error())
		return
	}

	g.tracker.Update(60, "プロファイルを生成中...")
	avatar := job.AvatarURL
	if avatar == "" {
		avatar = profile.DefaultAvatarURL(job.UserID)
	}
	userProfile := profile.Build(profile.Params{
		ID:       job.UserID,
		Name:     job.UserName,
		Position: job.Position,
		Avatar:   avatar,
		Email:    job.Email,
	}, patterns, categories)

	g.tracker.Update(80, "マイページを生成中...")
	if err := g.renderer.Render(userProfile, categories, now); err != nil {
		g.tracker.Fail(err.Error())
		return
	}
	g.tracker.Update(90, fmt.Sprintf("マイページファイル確認: %s", filepath.Base(g.renderer.FilePath(job.UserID))))

	g.tracker.Update(95, "users.jsonを更新中...")
	if err := g.store.PublishProfile(userProfile); err != nil {
		g.tracker.Fail(err.Error())
		return
	}

	g.tracker.Finish(fmt.Sprintf("✅ %s のマイページ生成完了！", job.UserName))
	logger.Info("generation run complete",
		"total_books", userProfile.Stats.TotalBooks,
		"this_year_books", userProfile.Stats.ThisYearBooks)
}

// cleanupUpload removes the uploaded temp file. Failures are logged, never
// surfaced; the run's outcome was decided before this point.
func (g *Generation) cleanupUpload(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			g.logger.Warn("failed to remove uploaded temp file", "path", path, "error", err)
		}
		return
	}
	g.tracker.Log("info", fmt.Sprintf("一時ファイル削除: %s", filepath.Base(path)))
}
