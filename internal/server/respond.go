package server

import (
	"encoding/json"
	"net/http"

	"github.com/koustreak/z3console/internal/errs"
)

// listResponse is the envelope every list endpoint returns.
type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"message": msg})
}

func respondList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	respondJSON(w, http.StatusOK, listResponse[T]{Items: items, Total: len(items)})
}

// decodeBody reads the JSON request body into dst.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "malformed request body", err)
	}
	return nil
}

// respondError maps a subsystem error onto the response taxonomy:
// not-found → 404 with notFoundMsg, bad input → 400, credential
// rejection → 401, everything else → 500 with fallbackMsg. The cause
// is logged server-side only and never leaks to the client.
func (s *Server) respondError(w http.ResponseWriter, err error, notFoundMsg, fallbackMsg string) {
	switch errs.KindOf(err) {
	case errs.ErrKindNotFound:
		respondMessage(w, http.StatusNotFound, notFoundMsg)
	case errs.ErrKindAlreadyExists:
		respondMessage(w, http.StatusBadRequest, "Already exists")
	case errs.ErrKindInvalidInput:
		respondMessage(w, http.StatusBadRequest, "Invalid request")
	case errs.ErrKindPermissionDenied:
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
	default:
		s.log.ErrorWith(fallbackMsg, err, nil)
		respondMessage(w, http.StatusInternalServerError, fallbackMsg)
	}
}
