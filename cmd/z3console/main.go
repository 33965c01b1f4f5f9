// Command z3console serves the administrative console API for a MinIO
// deployment. Configuration comes from Z3_* environment variables and
// an optional YAML file named by Z3_CONFIG.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/koustreak/z3console/internal/config"
	"github.com/koustreak/z3console/internal/iam"
	"github.com/koustreak/z3console/internal/iam/memory"
	"github.com/koustreak/z3console/internal/iam/mysql"
	"github.com/koustreak/z3console/internal/iam/postgres"
	"github.com/koustreak/z3console/internal/logger"
	"github.com/koustreak/z3console/internal/server"
	"github.com/koustreak/z3console/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(nil).Fatalf("invalid configuration: %v", err)
	}

	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})

	if cfg.Session.Secret == config.DevSessionSecret {
		log.Warn("using the built-in development session secret; set Z3_SESSION_SECRET")
	}

	sessions, err := session.NewStore(cfg.Session.Secret, cfg.CookieSecure())
	if err != nil {
		log.Fatalf("failed to initialise session store: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open iam store: %v", err)
	}
	defer store.Close()

	srv := server.New(cfg, log, sessions, store)

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.With().
			Str("addr", cfg.HTTP.Addr).
			Str("endpoint", cfg.MinIO.Endpoint).
			Str("store", string(cfg.Store.Driver)).
			Logger().
			Info("z3console listening")

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown incomplete: %v", err)
	}
}

// openStore builds the configured IAM repository. The memory driver
// ships with the development fixture data.
func openStore(ctx context.Context, cfg *config.Config) (iam.Store, error) {
	switch cfg.Store.Driver {
	case iam.DriverPostgres:
		return postgres.New(ctx, cfg.Store)
	case iam.DriverMySQL:
		return mysql.New(ctx, cfg.Store)
	default:
		return memory.Seeded(), nil
	}
}
