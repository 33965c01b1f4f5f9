package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/koustreak/z3console/internal/errs"
)

// PostgreSQL SQLSTATE error codes relevant to the console.
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrUniqueViolation   = "23505"
	pgErrConnectionFailure = "08006"
	pgErrUndefinedTable    = "42P01"
	pgErrUndefinedColumn   = "42703"
)

// mapError converts a pgx error into a *errs.Error.
// It mirrors the mapError pattern used by the mysql and minio drivers.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrUniqueViolation:
			return errs.Wrap(errs.ErrKindAlreadyExists, msg, err)
		case pgErrConnectionFailure:
			return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
		case pgErrUndefinedTable, pgErrUndefinedColumn:
			return errs.Wrap(errs.ErrKindStoreFailed, msg, err)
		}
	}

	return errs.Wrap(errs.ErrKindStoreFailed, msg, err)
}
