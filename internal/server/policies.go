package server

import (
	"net/http"

	"github.com/koustreak/z3console/internal/iam"
)

func (s *Server) handleListPolicies(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	policies, err := s.iam.ListPolicies(r.Context())
	if err != nil {
		s.respondError(w, err, "Policy not found", "Failed to list policies")
		return
	}
	respondList(w, policies)
}

func (s *Server) handleCreatePolicy(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		Name     string             `json:"name"`
		Document iam.PolicyDocument `json:"document"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	policy := iam.Policy{
		Name:     req.Name,
		Document: req.Document,
		Checksum: iam.DocumentChecksum(req.Document),
		Version:  "1.0.0",
		Labels:   map[string]string{},
	}

	created, err := s.iam.CreatePolicy(r.Context(), policy)
	if err != nil {
		s.respondError(w, err, "Policy not found", "Failed to create policy")
		return
	}
	respondJSON(w, http.StatusOK, created)
}

func (s *Server) handleUpdatePolicy(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		Name     string             `json:"name"`
		Document iam.PolicyDocument `json:"document"`
	}
	if err := decodeBody(r, &req); err != nil || req.Name == "" {
		respondMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	updated, err := s.iam.UpdatePolicy(r.Context(), req.Name, req.Document)
	if err != nil {
		s.respondError(w, err, "Policy not found", "Failed to update policy")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeletePolicy(w http.ResponseWriter, r *http.Request) {
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

	if err := s.iam.DeletePolicy(r.Context(), req.Name); err != nil {
		s.respondError(w, err, "Policy not found", "Failed to delete policy")
		return
	}
	respondMessage(w, http.StatusOK, "Policy deleted successfully")
}
