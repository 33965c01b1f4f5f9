package minio

import (
	"context"
	"errors"
	"net/http"
	"testing"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"github.com/koustreak/z3console/internal/errs"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind errs.ErrKind
	}{
		{"nil passes through", nil, errs.ErrKindUnknown},
		{"deadline", context.DeadlineExceeded, errs.ErrKindTimeout},
		{"cancelled", context.Canceled, errs.ErrKindTimeout},
		{
			"403 response",
			miniogo.ErrorResponse{StatusCode: http.StatusForbidden, Code: "AccessDenied"},
			errs.ErrKindPermissionDenied,
		},
		{
			"bad signature",
			miniogo.ErrorResponse{Code: "SignatureDoesNotMatch"},
			errs.ErrKindPermissionDenied,
		},
		{
			"missing bucket",
			miniogo.ErrorResponse{StatusCode: http.StatusNotFound, Code: "NoSuchBucket"},
			errs.ErrKindNotFound,
		},
		{
			"bucket exists",
			miniogo.ErrorResponse{StatusCode: http.StatusConflict, Code: "BucketAlreadyOwnedByYou"},
			errs.ErrKindAlreadyExists,
		},
		{
			"bucket not empty",
			miniogo.ErrorResponse{Code: "BucketNotEmpty"},
			errs.ErrKindInvalidInput,
		},
		{"network failure", errors.New("connection refused"), errs.ErrKindConnectionFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err, "op failed")
			if tt.err == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.kind, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}
