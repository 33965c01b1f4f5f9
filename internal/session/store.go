package session

import "net/http"

// CookieName is the session cookie the console sets and reads.
const CookieName = "z3-session"

// Store reads and writes sealed session records on HTTP exchanges.
type Store struct {
	codec  *Codec
	secure bool
}

// NewStore builds a Store sealing with secret. secure controls the
// cookie's Secure attribute and should be on in production.
func NewStore(secret string, secure bool) (*Store, error) {
	codec, err := NewCodec(secret)
	if err != nil {
		return nil, err
	}
	return &Store{codec: codec, secure: secure}, nil
}

// Get returns the session record carried by r. A missing, malformed, or
// forged cookie yields an empty record — never an error. Callers decide
// authentication by checking Record.Authenticated.
func (s *Store) Get(r *http.Request) Record {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Record{}
	}
	rec, err := s.codec.Open(cookie.Value)
	if err != nil {
		return Record{}
	}
	return rec
}

// Save seals rec and writes it as the session cookie on w. The caller
// read the current record with Get, replaced the top-level fields it
// needed, and hands back the whole record (shallow merge semantics).
func (s *Store) Save(w http.ResponseWriter, rec Record) error {
	token, err := s.codec.Seal(rec)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
	return nil
}

// Destroy instructs the client to drop the session cookie. Calling it
// on a request with no session is a no-op with the same end state.
func (s *Store) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.secure,
	})
}
