package api

import (
	"net/http"

	"github.com/myshelfapp/myshelf-server/internal/http/response"
)

// handleStatus returns the current generation status snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, s.tracker.Get(), s.logger)
}

// handleReset unconditionally clears the status record. It does not stop an
// in-flight run.
func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.tracker.Reset()
	s.logger.Info("status record reset")
	response.Success(w, map[string]string{
		"message": "処理状況をリセットしました",
	}, s.logger)
}
