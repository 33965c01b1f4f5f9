package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/koustreak/z3console/internal/errs"
	"github.com/koustreak/z3console/internal/iam"
)

const (
	defaultMaxOpenConns    = 10
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	defaultConnMaxIdleTime = 10 * time.Minute
	defaultPort            = 3306
)

// buildPool configures and returns a *sql.DB with pool settings.
func buildPool(cfg iam.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", buildDSN(cfg))
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid mysql config", err)
	}

	maxOpen := int(cfg.MaxConns)
	if maxOpen == 0 {
		maxOpen = defaultMaxOpenConns
	}
	maxIdle := int(cfg.MinConns)
	if maxIdle == 0 {
		maxIdle = defaultMaxIdleConns
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(defaultConnMaxLifetime)
	db.SetConnMaxIdleTime(defaultConnMaxIdleTime)

	return db, nil
}

// buildDSN constructs the MySQL DSN string.
func buildDSN(cfg iam.Config) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	// format: user:pass@tcp(host:port)/dbname?parseTime=true
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true",
		cfg.User, cfg.Password, cfg.Host, port, cfg.Database,
	)
}
