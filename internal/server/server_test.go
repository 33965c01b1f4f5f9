package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/koustreak/z3console/internal/config"
	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/filestore"
	"github.com/koustreak/z3console/internal/iam/memory"
	"github.com/koustreak/z3console/internal/logger"
	"github.com/koustreak/z3console/internal/session"
)

// fakeStorage implements filestore.Store in memory so handler tests
// never touch a real MinIO.
type fakeStorage struct {
	pingErr   error
	buckets   []filestore.BucketInfo
	counts    map[string]int
	countErr  error
	makeErr   error
	removeErr error

	made    []string
	removed []string
	calls   int
}

func (f *fakeStorage) Ping(ctx context.Context) error {
	f.calls++
	return f.pingErr
}

func (f *fakeStorage) Close() error { return nil }

func (f *fakeStorage) ListBuckets(ctx context.Context) ([]filestore.BucketInfo, error) {
	f.calls++
	return f.buckets, nil
}

func (f *fakeStorage) CountObjects(ctx context.Context, bucket string) (int, error) {
	f.calls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[bucket], nil
}

func (f *fakeStorage) MakeBucket(ctx context.Context, bucket, region string) error {
	f.calls++
	if f.makeErr != nil {
		return f.makeErr
	}
	f.made = append(f.made, bucket)
	return nil
}

func (f *fakeStorage) RemoveBucket(ctx context.Context, bucket string) error {
	f.calls++
	if f.removeErr != nil {
		return f.removeErr
	}
	f.removed = append(f.removed, bucket)
	return nil
}

// testServer wires a Server over the seeded in-memory repository and
// the given fake backend.
func testServer(t *testing.T, storage *fakeStorage) *Server {
	t.Helper()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	log := logger.New(&logger.Config{Level: "error", Format: "json", Output: io.Discard})

	sessions, err := session.NewStore(cfg.Session.Secret, false)
	require.NoError(t, err)

	s := New(cfg, log, sessions, memory.Seeded())
	s.connect = func(c *filestore.Config) (filestore.Store, error) {
		return storage, nil
	}
	return s
}

func defaultStorage() *fakeStorage {
	return &fakeStorage{
		buckets: []filestore.BucketInfo{
			{Name: "alpha", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
			{Name: "beta", CreatedAt: time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)},
		},
		counts: map[string]int{"alpha": 3, "beta": 0},
	}
}

// doJSON performs a request against the router and decodes the JSON body.
func doJSON(t *testing.T, s *Server, method, path string, body interface{}, cookie *http.Cookie) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(method, path, reader)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, r)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

// login authenticates against the test server and returns the session cookie.
func login(t *testing.T, s *Server) *http.Cookie {
	t.Helper()

	w, _ := doJSON(t, s, http.MethodPost, "/api/auth/login",
		map[string]string{"accessKey": "minioadmin", "secretKey": "minioadmin"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookie := findSessionCookie(w)
	require.NotNil(t, cookie, "login must set the session cookie")
	return cookie
}

func findSessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

// permissionDenied builds the error a backend returns for rejected credentials.
func permissionDenied() error {
	return errs.New(errs.ErrKindPermissionDenied, "access denied")
}
