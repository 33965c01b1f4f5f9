package server

import (
	"net/http"

	"github.com/koustreak/z3console/internal/endpoint"
	"github.com/koustreak/z3console/internal/iam"
	"github.com/koustreak/z3console/internal/session"
)

// handleLogin validates the supplied access/secret key pair against the
// configured storage endpoint and, on success, seals the authenticated
// session into the cookie.
//
// All validation failures — unreachable backend, rejected keys,
// malformed responses — collapse into one generic 401 so the response
// does not reveal which factor failed.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessKey string `json:"accessKey"`
		SecretKey string `json:"secretKey"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Access Key and Secret Key are required")
		return
	}
	if req.AccessKey == "" || req.SecretKey == "" {
		respondMessage(w, http.StatusBadRequest, "Access Key and Secret Key are required")
		return
	}

	ep := endpoint.Parse(s.cfg.MinIO.Endpoint)
	profile := iam.Profile{
		Label:     "Default",
		Endpoint:  s.cfg.MinIO.Endpoint,
		Region:    s.cfg.MinIO.Region,
		UseSSL:    ep.UseTLS,
		VerifyTLS: s.cfg.MinIO.VerifyTLS,
		AuthMode:  iam.AuthModeAccessKey,
	}

	store, err := s.storage(session.Record{
		Profile:     profile,
		Credentials: &session.Credentials{AccessKey: req.AccessKey, SecretKey: req.SecretKey},
	})
	if err == nil {
		defer store.Close()
		err = store.Ping(r.Context())
	}
	if err != nil {
		s.log.ErrorWith("login rejected", err, map[string]interface{}{
			"endpoint": ep.Addr(),
		})
		respondMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	// Identity projection for the UI. The storage backend has no user
	// lookup on this path, so the validated key pair maps to the admin
	// identity.
	user := iam.User{
		ID:       "admin",
		Login:    "admin",
		Status:   iam.UserActive,
		Groups:   []string{},
		Policies: []string{},
		Keys:     []iam.KeyMeta{},
		Metadata: map[string]interface{}{},
	}

	rec := s.sessions.Get(r)
	rec.User = &user
	rec.Profile = profile
	rec.Credentials = &session.Credentials{AccessKey: req.AccessKey, SecretKey: req.SecretKey}

	if err := s.sessions.Save(w, rec); err != nil {
		s.log.ErrorWith("failed to save session", err, nil)
		respondMessage(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// handleLogout destroys the session server-side and tells the client to
// drop the cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	rec := s.sessions.Get(r)
	if !rec.Authenticated() {
		respondMessage(w, http.StatusBadRequest, "No active session")
		return
	}

	s.sessions.Destroy(w)
	respondMessage(w, http.StatusOK, "Logged out successfully")
}

// handleMe returns the authenticated identity, trimmed to the fields
// the UI shows. Credentials never leave the sealed cookie.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	rec := s.sessions.Get(r)
	if !rec.Authenticated() {
		respondJSON(w, http.StatusUnauthorized, map[string]interface{}{"user": nil})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"id":     rec.User.ID,
			"login":  rec.User.Login,
			"status": rec.User.Status,
		},
	})
}
