package server

import (
	"net/http"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/iam"
)

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	groups, err := s.iam.ListGroups(r.Context())
	if err != nil {
		s.respondError(w, err, "Group not found", "Failed to list groups")
		return
	}
	respondList(w, groups)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req iam.Group
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Members == nil {
		req.Members = []string{}
	}
	if req.Policies == nil {
		req.Policies = []string{}
	}

	created, err := s.iam.CreateGroup(r.Context(), req)
	if err != nil {
		if errs.IsAlreadyExists(err) {
			respondMessage(w, http.StatusBadRequest, "Group already exists")
			return
		}
		s.respondError(w, err, "Group not found", "Failed to create group")
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req iam.Group
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	if req.Members == nil {
		req.Members = []string{}
	}
	if req.Policies == nil {
		req.Policies = []string{}
	}

	updated, err := s.iam.UpdateGroup(r.Context(), req)
	if err != nil {
		s.respondError(w, err, "Group not found", "Failed to update group")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	if err := s.iam.DeleteGroup(r.Context(), req.Name); err != nil {
		s.respondError(w, err, "Group not found", "Failed to delete group")
		return
	}
	respondMessage(w, http.StatusOK, "Group deleted")
}
