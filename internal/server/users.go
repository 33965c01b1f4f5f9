package server

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/koustreak/z3console/internal/iam"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	users, err := s.iam.ListUsers(r.Context())
	if err != nil {
		s.respondError(w, err, "User not found", "Failed to list users")
		return
	}
	respondList(w, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &req); err != nil || req.Login == "" {
		respondMessage(w, http.StatusBadRequest, "Login is required")
		return
	}

	user := iam.User{
		ID:       uuid.NewString(),
		Login:    req.Login,
		Status:   iam.UserActive,
		Groups:   []string{},
		Policies: []string{},
		Keys:     []iam.KeyMeta{},
		Metadata: map[string]interface{}{},
	}

	created, err := s.iam.CreateUser(r.Context(), user)
	if err != nil {
		s.respondError(w, err, "User not found", "Failed to create user")
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		ID       string         `json:"id"`
		Login    string         `json:"login"`
		Status   iam.UserStatus `json:"status"`
		Groups   []string       `json:"groups"`
		Policies []string       `json:"policies"`
	}
	if err := decodeBody(r, &req); err != nil || req.ID == "" {
		respondMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	updated, err := s.iam.UpdateUser(r.Context(), req.ID, iam.UserUpdate{
		Login:    req.Login,
		Status:   req.Status,
		Groups:   req.Groups,
		Policies: req.Policies,
	})
	if err != nil {
		s.respondError(w, err, "User not found", "Failed to update user")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := decodeBody(r, &req); err != nil || req.ID == "" {
		respondMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := s.iam.DeleteUser(r.Context(), req.ID); err != nil {
		s.respondError(w, err, "User not found", "Failed to delete user")
		return
	}
	respondMessage(w, http.StatusOK, "User deleted successfully")
}
