package server

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"time"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/iam"
)

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomToken draws n characters from keyAlphabet using crypto/rand.
func randomToken(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(keyAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", errs.Wrap(errs.ErrKindStoreFailed, "failed to generate key material", err)
		}
		out[i] = keyAlphabet[idx.Int64()]
	}
	return string(out), nil
}

func (s *Server) handleListKeys(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	keys, err := s.iam.ListKeys(r.Context())
	if err != nil {
		s.respondError(w, err, "Key not found", "Failed to list keys")
		return
	}
	respondList(w, keys)
}

// handleCreateKey issues a fresh access/secret key pair. Only the key
// metadata is persisted; the secret is part of this response and is
// never retrievable again.
func (s *Server) handleCreateKey(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireUser(w, r); !ok {
		return
	}

	var req struct {
		UserID string `json:"userId"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}

	accessSuffix, err := randomToken(10)
	if err != nil {
		s.respondError(w, err, "Key not found", "Failed to create key")
		return
	}
	secretSuffix, err := randomToken(20)
	if err != nil {
		s.respondError(w, err, "Key not found", "Failed to create key")
		return
	}

	key := iam.KeyMeta{
		AccessKey: "AKIA" + accessSuffix,
		CreatedAt: time.Now().UTC(),
		Status:    iam.KeyActive,
	}

	created, err := s.iam.CreateKey(r.Context(), key)
	if err != nil {
		s.respondError(w, err, "Key not found", "Failed to create key")
		return
	}

	// secretKey is shown exactly once
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"accessKey": created.AccessKey,
		"createdAt": created.CreatedAt,
		"expiresAt": created.ExpiresAt,
		"status":    created.Status,
		"secretKey": "SECRET" + secretSuffix,
	})
}
