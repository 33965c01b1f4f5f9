package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"

	"github.com/koustreak/z3console/internal/errs"
)

// Codec seals session records into opaque tokens and opens them again.
// The token is AES-256-GCM over the JSON-encoded record, keyed from the
// server-held secret, so the client can neither read nor forge it.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives the sealing key from secret. The secret must be a
// high-entropy value from configuration.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "session secret must not be empty")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to initialise cipher", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "failed to initialise AEAD", err)
	}

	return &Codec{aead: aead}, nil
}

// Seal encrypts rec into a cookie-safe token.
func (c *Codec) Seal(rec Record) (string, error) {
	plain, err := json.Marshal(rec)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindInvalidInput, "failed to encode session record", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", errs.Wrap(errs.ErrKindStoreFailed, "failed to generate nonce", err)
	}

	sealed := c.aead.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open decrypts and decodes token. It fails on any tampering, trunca-
// tion, or a token sealed under a different secret; callers treat that
// as "no session", not as a fault.
func (c *Codec) Open(token string) (Record, error) {
	sealed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Record{}, errs.Wrap(errs.ErrKindInvalidInput, "malformed session token", err)
	}
	if len(sealed) < c.aead.NonceSize() {
		return Record{}, errs.New(errs.ErrKindInvalidInput, "session token too short")
	}

	nonce, ciphertext := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Record{}, errs.Wrap(errs.ErrKindPermissionDenied, "session token rejected", err)
	}

	var rec Record
	if err := json.Unmarshal(plain, &rec); err != nil {
		return Record{}, errs.Wrap(errs.ErrKindInvalidInput, "failed to decode session record", err)
	}
	return rec, nil
}
