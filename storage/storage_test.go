package storage

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvidenceKey(t *testing.T) {
	at := time.Date(2024, 1, 2, 23, 30, 0, 0, time.FixedZone("UTC+2", 2*3600))

	key, err := EvidenceKey(42, at, "image/png")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^evidence/42/2024-01-02/[0-9a-f-]{36}\.png$`), key)

	_, err = EvidenceKey(42, at, "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestCheckUpload(t *testing.T) {
	assert.NoError(t, CheckUpload("image/jpeg", 1024, 2048))
	assert.NoError(t, CheckUpload("image/webp", 1<<30, 0))
	assert.ErrorIs(t, CheckUpload("image/jpeg", 4096, 2048), ErrTooLarge)
	assert.ErrorIs(t, CheckUpload("text/plain", 1, 2048), ErrUnsupportedType)
}

func TestClassifyStorageError(t *testing.T) {
	assert.Nil(t, classifyStorageError(nil, "op"))
	assert.ErrorIs(t, classifyStorageError(minio.ErrorResponse{Code: "NoSuchKey"}, "op"), ErrObjectNotFound)
	assert.ErrorIs(t, classifyStorageError(minio.ErrorResponse{Code: "AccessDenied"}, "op"), ErrAccessDenied)
	assert.ErrorIs(t, classifyStorageError(errors.New("dial tcp: connection refused"), "op"), ErrNetworkError)

	other := errors.New("checksum mismatch")
	assert.ErrorIs(t, classifyStorageError(other, "op"), other)
}
