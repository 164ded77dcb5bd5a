package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myshelfapp/myshelf-server/internal/config"
	"github.com/myshelfapp/myshelf-server/internal/domain"
	"github.com/myshelfapp/myshelf-server/internal/page"
	"github.com/myshelfapp/myshelf-server/internal/ratelimit"
	"github.com/myshelfapp/myshelf-server/internal/registry"
	"github.com/myshelfapp/myshelf-server/internal/service"
	"github.com/myshelfapp/myshelf-server/internal/sse"
	"github.com/myshelfapp/myshelf-server/internal/status"
)

type testServer struct {
	srv     *Server
	store   *registry.Store
	tracker *status.Tracker
}

type testEnvelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Success bool            `json:"success"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	tmpDir := t.TempDir()

	cfg := &config.Config{
		App: config.AppConfig{Environment: "test"},
		Data: config.DataConfig{
			BaseDir:      tmpDir,
			RegistryPath: filepath.Join(tmpDir, "data", "users.json"),
			PagesDir:     filepath.Join(tmpDir, "pages"),
			UploadsDir:   filepath.Join(tmpDir, "uploads"),
		},
		Upload: config.UploadConfig{
			MaxSize:       10 << 20,
			RatePerSecond: 1000, // effectively unlimited in tests
			RateBurst:     1000,
		},
	}

	store := registry.New(cfg.Data.RegistryPath, logger)
	renderer, err := page.NewRenderer(cfg.Data.PagesDir, logger)
	require.NoError(t, err)
	tracker := status.NewTracker(logger)
	manager := sse.NewManager(logger)

	gen := service.NewGeneration(store, renderer, tracker, logger)
	users := service.NewUsers(store, renderer, logger)
	limiter := ratelimit.New(cfg.Upload.RatePerSecond, cfg.Upload.RateBurst)

	srv := NewServer(cfg, gen, users, tracker, sse.NewHandler(manager, logger), limiter, logger)
	return &testServer{srv: srv, store: store, tracker: tracker}
}

func (ts *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	ts.srv.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return ts.do(t, req)
}

// uploadRequest builds a multipart upload request.
func uploadRequest(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"user_id":   "amane",
		"user_name": "Amane Tanaka",
		"position":  "M1",
	}
}

const uploadTSV = "1\tB001\t2026-04-01\t2026-04-15\t本館\t007.1\t現代制御理論入門 / 山田太郎\n"

// waitForIdle blocks until the async generation run finishes.
func (ts *testServer) waitForIdle(t *testing.T) status.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := ts.tracker.Get()
		if !snap.IsProcessing && snap.Progress == 100 {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("generation run did not finish in time")
	return status.Snapshot{}
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestUploadStartsGeneration(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, uploadRequest(t, "checkouts.tsv", uploadTSV, validFields()))
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "started")

	snap := ts.waitForIdle(t)
	assert.Empty(t, snap.Error)

	users, err := ts.store.ListUsers()
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "amane", users[0].ID)
}

func TestUploadMissingRequiredFields(t *testing.T) {
	ts := newTestServer(t)

	fields := validFields()
	delete(fields, "position")
	rec := ts.do(t, uploadRequest(t, "checkouts.tsv", uploadTSV, fields))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Nothing was started.
	assert.False(t, ts.tracker.Get().IsProcessing)
}

func TestUploadNoFile(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, uploadRequest(t, "", "", validFields()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, uploadRequest(t, "checkouts.csv", uploadTSV, validFields()))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "許可されていないファイル形式")
}

func TestUploadConflictWhileBusy(t *testing.T) {
	ts := newTestServer(t)
	require.True(t, ts.tracker.TryStart())

	rec := ts.do(t, uploadRequest(t, "checkouts.tsv", uploadTSV, validFields()))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "別の処理が実行中です")
}

func TestUploadRateLimited(t *testing.T) {
	ts := newTestServer(t)
	// Replace the permissive test limiter with a strict one.
	ts.srv.limiter = ratelimit.New(0, 0)

	rec := ts.do(t, uploadRequest(t, "checkouts.tsv", uploadTSV, validFields()))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	ts := newTestServer(t)
	require.True(t, ts.tracker.TryStart())
	ts.tracker.Update(20, "貸出データを解析中...")

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var snap status.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	assert.True(t, snap.IsProcessing)
	assert.Equal(t, 20, snap.Progress)
}

func TestListUsersEmpty(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":0`)
}

func TestDeleteUser(t *testing.T) {
	ts := newTestServer(t)
	require.NoError(t, ts.store.Update(func(reg *domain.Registry) error {
		reg.Users = append(reg.Users, domain.UserProfile{ID: "amane", Name: "Amane"})
		return nil
	}))

	rec := ts.postJSON(t, "/api/user/delete", map[string]string{"user_id": "amane"})
	assert.Equal(t, http.StatusOK, rec.Code)

	users, err := ts.store.ListUsers()
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestDeleteUnknownUserIs404(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postJSON(t, "/api/user/delete", map[string]string{"user_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMissingUserIDIs400(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postJSON(t, "/api/user/delete", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResetClearsStatus(t *testing.T) {
	ts := newTestServer(t)
	require.True(t, ts.tracker.TryStart())
	ts.tracker.Update(60, "working")

	rec := ts.do(t, httptest.NewRequest(http.MethodPost, "/api/reset", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	snap := ts.tracker.Get()
	assert.False(t, snap.IsProcessing)
	assert.Zero(t, snap.Progress)
}

func TestUploadTwiceSequentially(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, uploadRequest(t, "a.tsv", uploadTSV, validFields()))
	require.Equal(t, http.StatusAccepted, rec.Code)
	ts.waitForIdle(t)

	fields := validFields()
	fields["user_id"] = "yohei"
	fields["user_name"] = "Yohei Sato"
	rec = ts.do(t, uploadRequest(t, "b.tsv", uploadTSV, fields))
	require.Equal(t, http.StatusAccepted, rec.Code)
	ts.waitForIdle(t)

	users, err := ts.store.ListUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)

	body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/users", nil)).Body.String()
	assert.True(t, strings.Contains(body, "amane") && strings.Contains(body, "yohei"))
}
