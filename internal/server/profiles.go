package server

import (
	"net/http"

	"github.com/koustreak/z3console/internal/iam"
)

func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	profiles, err := s.iam.ListProfiles(r.Context())
	if err != nil {
		s.respondError(w, err, "Profile not found", "Failed to list profiles")
		return
	}
	respondList(w, profiles)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req iam.Profile
	if err := decodeBody(r, &req); err != nil || req.Label == "" || req.Endpoint == "" {
		respondMessage(w, http.StatusBadRequest, "Label and endpoint are required")
		return
	}
	if req.AuthMode == "" {
		req.AuthMode = iam.AuthModeAccessKey
	}

	created, err := s.iam.CreateProfile(r.Context(), req)
	if err != nil {
		s.respondError(w, err, "Profile not found", "Failed to create profile")
		return
	}
	respondJSON(w, http.StatusOK, created)
}
