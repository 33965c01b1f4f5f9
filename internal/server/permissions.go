package server

import (
	"net/http"

	"github.com/koustreak/z3console/internal/iam"
)

// handlePermissionCheck answers whether the stored policies allow an
// action on a resource. The evaluation is a deterministic shallow match
// (see iam.Evaluate), not a full policy engine.
func (s *Server) handlePermissionCheck(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		Action   string `json:"action"`
		Resource string `json:"resource"`
		UserID   string `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil || req.Action == "" || req.Resource == "" {
		respondMessage(w, http.StatusBadRequest, "Action and resource are required")
		return
	}

	policies, err := s.iam.ListPolicies(r.Context())
	if err != nil {
		s.respondError(w, err, "Policy not found", "Failed to check permission")
		return
	}

	respondJSON(w, http.StatusOK, iam.Evaluate(policies, req.Action, req.Resource))
}
