package mysql

import (
	"context"
	"database/sql"
	"errors"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/koustreak/z3console/internal/errs"
)

// MySQL error numbers relevant to the console.
// Full list: https://dev.mysql.com/doc/mysql-errors/8.0/en/server-error-reference.html
const (
	errDuplicateEntry  = 1062
	errBadFieldError   = 1054
	errAccessDenied    = 1045
	errConnRefused     = 2003
	errUnknownDatabase = 1049
)

// mapError converts a MySQL driver error into a *errs.Error.
// It mirrors the mapError pattern used by the postgres and minio drivers.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var mysqlErr *gomysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case errDuplicateEntry:
			return errs.Wrap(errs.ErrKindAlreadyExists, msg, err)
		case errAccessDenied, errConnRefused, errUnknownDatabase:
			return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
		case errBadFieldError:
			return errs.Wrap(errs.ErrKindStoreFailed, msg, err)
		}
	}

	return errs.Wrap(errs.ErrKindStoreFailed, msg, err)
}
