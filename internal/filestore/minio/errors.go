package minio

import (
	"context"
	"errors"
	"net/http"

	minioErr "github.com/minio/minio-go/v7"

	"github.com/koustreak/z3console/internal/errs"
)

// mapError translates a MinIO SDK error into a *errs.Error.
// It mirrors the mapError pattern used by the postgres and mysql drivers.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	// Context cancellation / deadline
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}

	// MinIO SDK exposes a typed ErrorResponse for S3-protocol errors
	var resp minioErr.ErrorResponse
	if errors.As(err, &resp) {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case http.StatusForbidden, http.StatusUnauthorized:
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case http.StatusConflict:
			return errs.Wrap(errs.ErrKindAlreadyExists, msg, err)
		case http.StatusBadRequest:
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		}

		// S3 error codes that may arrive with other statuses
		switch resp.Code {
		case "NoSuchBucket", "NoSuchKey":
			return errs.Wrap(errs.ErrKindNotFound, msg, err)
		case "BucketAlreadyExists", "BucketAlreadyOwnedByYou":
			return errs.Wrap(errs.ErrKindAlreadyExists, msg, err)
		case "BucketNotEmpty":
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return errs.Wrap(errs.ErrKindPermissionDenied, msg, err)
		case "InvalidBucketName":
			return errs.Wrap(errs.ErrKindInvalidInput, msg, err)
		case "RequestTimeout", "SlowDown":
			return errs.Wrap(errs.ErrKindTimeout, msg, err)
		}
	}

	// Anything else — treat as a generic connection / I/O failure
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}
