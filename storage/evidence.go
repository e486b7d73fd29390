package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrAccessDenied   = errors.New("access denied")
	ErrNetworkError   = errors.New("network error")

	ErrUnsupportedType = errors.New("unsupported evidence content type")
	ErrTooLarge        = errors.New("evidence file too large")
)

// EvidenceStore persists clock-attempt evidence images.
type EvidenceStore interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// EvidenceKey returns the object key for a new image uploaded by userID at the given time.
func EvidenceKey(userID uint, at time.Time, contentType string) (string, error) {
	ext, ok := extensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	return fmt.Sprintf("evidence/%d/%s/%s%s", userID, at.UTC().Format("2006-01-02"), uuid.NewString(), ext), nil
}

// CheckUpload validates an upload before anything is written.
func CheckUpload(contentType string, size, maxBytes int64) error {
	if _, ok := extensions[contentType]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, size, maxBytes)
	}
	return nil
}
