package api

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/myshelfapp/myshelf-server/internal/http/response"
	"github.com/myshelfapp/myshelf-server/internal/id"
	"github.com/myshelfapp/myshelf-server/internal/service"
	"github.com/myshelfapp/myshelf-server/internal/util"
)

// UploadRequest carries the form fields accompanying a checkout-export upload.
type UploadRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	UserName  string `json:"user_name" validate:"required"`
	Position  string `json:"position" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
}

// allowedUploadExt lists accepted checkout-export file extensions.
var allowedUploadExt = map[string]bool{
	".tsv": true,
	".txt": true,
}

// handleUpload accepts a TSV upload plus user identity fields and starts a
// generation run in the background. Exactly one run at a time; a busy tracker
// rejects the request before any file is saved.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.Allow(clientIP(r)) {
		response.TooManyRequests(w, "アップロードの頻度が高すぎます", s.logger)
		return
	}

	if err := r.ParseMultipartForm(s.cfg.Upload.MaxSize); err != nil {
		response.BadRequest(w, "フォームデータの解析に失敗しました", s.logger)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "ファイルが選択されていません", s.logger)
		return
	}
	defer file.Close()

	if !allowedUploadExt[strings.ToLower(filepath.Ext(header.Filename))] {
		response.BadRequest(w, "許可されていないファイル形式です", s.logger)
		return
	}
	if header.Size > s.cfg.Upload.MaxSize {
		response.BadRequest(w, "ファイルサイズが上限を超えています", s.logger)
		return
	}

	req := UploadRequest{
		UserID:    r.FormValue("user_id"),
		UserName:  r.FormValue("user_name"),
		Position:  r.FormValue("position"),
		Email:     r.FormValue("email"),
		AvatarURL: r.FormValue("avatar_url"),
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if !s.tracker.TryStart() {
		response.Conflict(w, "別の処理が実行中です", s.logger)
		return
	}

	uploadPath, err := s.saveUpload(file, header.Filename)
	if err != nil {
		s.logger.Error("failed to save upload", "error", err)
		s.tracker.Fail("アップロードファイルの保存に失敗しました")
		response.InternalError(w, "アップロードファイルの保存に失敗しました", s.logger)
		return
	}

	job := service.Job{
		ID:         id.MustGenerate("job"),
		UploadPath: uploadPath,
		UserID:     req.UserID,
		UserName:   req.UserName,
		Position:   req.Position,
		Email:      req.Email,
		AvatarURL:  req.AvatarURL,
	}

	s.logger.Info("upload accepted",
		"job_id", job.ID,
		"user_id", job.UserID,
		"filename", header.Filename,
		"size", header.Size)

	// The run outlives this request; progress is reported via the tracker.
	go s.generation.Run(context.Background(), job)

	response.Accepted(w, map[string]string{
		"message": "処理を開始しました",
		"status":  "started",
		"job_id":  job.ID,
	}, s.logger)
}

// saveUpload writes the uploaded file into the uploads directory under a
// collision-free name.
func (s *Server) saveUpload(file io.Reader, originalName string) (string, error) {
	if err := os.MkdirAll(s.cfg.Data.UploadsDir, 0o750); err != nil {
		return "", err
	}

	name := uuid.New().String() + "_" + util.SanitizeFilename(originalName)
	path := filepath.Join(s.cfg.Data.UploadsDir, name)

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, file); err != nil {
		out.Close()
		os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// clientIP keys the rate limiter. RealIP middleware has already resolved
// proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
