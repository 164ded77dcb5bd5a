package api

import (
	"encoding/json/v2"
	"fmt"
	"net/http"

	"github.com/myshelfapp/myshelf-server/internal/http/response"
)

// DeleteUserRequest identifies the user to remove.
type DeleteUserRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// handleListUsers returns the registered user list. A registry that does not
// exist yet yields an empty list, not an error.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]any{
		"users": users,
		"total": len(users),
	}, s.logger)
}

// handleDeleteUser removes a user from the registry along with its network
// node, incident edges, and generated page.
func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	var req DeleteUserRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "リクエストボディの解析に失敗しました", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.users.Delete(r.Context(), req.UserID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]string{
		"message": fmt.Sprintf("ユーザー %s を削除しました", req.UserID),
	}, s.logger)
}
