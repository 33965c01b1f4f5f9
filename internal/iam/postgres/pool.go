package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/iam"
)

const (
	defaultMaxConns = 10
	defaultMinConns = 2
	defaultPort     = 5432
)

// buildPool creates a pgxpool from the given config.
func buildPool(ctx context.Context, cfg iam.Config) (*pgxpool.Pool, error) {
	dsn := buildDSN(cfg)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid postgres config", err)
	}

	poolCfg.MaxConns = withDefault(cfg.MaxConns, defaultMaxConns)
	poolCfg.MinConns = withDefault(cfg.MinConns, defaultMinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, mapError(err, "failed to create postgres pool")
	}

	return pool, nil
}

// buildDSN constructs the postgres connection string.
func buildDSN(cfg iam.Config) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, port, cfg.User, cfg.Password, cfg.Database, sslMode,
	)
}

// withDefault returns val if non-zero, otherwise def.
func withDefault(val, def int32) int32 {
	if val == 0 {
		return def
	}
	return val
}
