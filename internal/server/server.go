// Package server wires the console's REST API: authentication against
// the storage backend, the encrypted session cookie, and the
// bucket/user/group/policy/key/profile management routes.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/koustreak/z3console/internal/config"
	"github.com/koustreak/z3console/internal/filestore"
	"github.com/koustreak/z3console/internal/filestore/minio"
	"github.com/koustreak/z3console/internal/iam"
	"github.com/koustreak/z3console/internal/logger"
	"github.com/koustreak/z3console/internal/session"
)

// ConnectFunc builds an object storage client from a config. It exists
// as an indirection so tests can substitute a fake backend.
type ConnectFunc func(cfg *filestore.Config) (filestore.Store, error)

// Server holds the dependencies shared by all route handlers.
type Server struct {
	cfg      *config.Config
	log      *logger.Logger
	sessions *session.Store
	iam      iam.Store
	connect  ConnectFunc
}

// New assembles a Server over the given configuration, session store,
// and IAM repository. Storage clients are constructed per request via
// the minio driver.
func New(cfg *config.Config, log *logger.Logger, sessions *session.Store, store iam.Store) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		iam:      store,
		connect: func(c *filestore.Config) (filestore.Store, error) {
			return minio.New(c)
		},
	}
}

// Router builds the chi router with all console routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
		})

		r.Route("/buckets", func(r chi.Router) {
			r.Get("/", s.handleListBuckets)
			r.Post("/", s.handleCreateBucket)
			r.Delete("/", s.handleDeleteBucket)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", s.handleListUsers)
			r.Post("/", s.handleCreateUser)
			r.Put("/", s.handleUpdateUser)
			r.Delete("/", s.handleDeleteUser)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", s.handleListGroups)
			r.Post("/", s.handleCreateGroup)
			r.Put("/", s.handleUpdateGroup)
			r.Delete("/", s.handleDeleteGroup)
		})

		r.Route("/policies", func(r chi.Router) {
			r.Get("/", s.handleListPolicies)
			r.Post("/", s.handleCreatePolicy)
			r.Put("/", s.handleUpdatePolicy)
			r.Delete("/", s.handleDeletePolicy)
		})

		r.Route("/keys", func(r chi.Router) {
			r.Get("/", s.handleListKeys)
			r.Post("/", s.handleCreateKey)
		})

		r.Route("/profiles", func(r chi.Router) {
			r.Get("/", s.handleListProfiles)
			r.Post("/", s.handleCreateProfile)
		})

		r.Post("/permissions/check", s.handlePermissionCheck)
	})

	return r
}

// requireUser is the guard every protected handler calls first: absent
// or invalid session means 401 and no further work, in particular no
// backend calls.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (session.Record, bool) {
	rec := s.sessions.Get(r)
	if !rec.Authenticated() {
		respondMessage(w, http.StatusUnauthorized, "Unauthorized")
		return session.Record{}, false
	}
	return rec, true
}

// storage reconstructs the object storage client for the session's
// profile and credentials. Each call builds a fresh client, configured
// exactly like the one validated at login.
func (s *Server) storage(rec session.Record) (filestore.Store, error) {
	cfg := filestore.ConfigFromProfile(rec.Profile, rec.Credentials.AccessKey, rec.Credentials.SecretKey)
	return s.connect(cfg)
}
