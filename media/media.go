// Package media persists uploaded video payloads and hands back stable
// references the displays can resolve. Backends: local disk served under
// /uploads, or an S3 bucket for deployments where displays pull straight
// from object storage.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/oyarzun/hoteltv/config"
)

var SupportedExt = mapset.NewSet(
	".mp4", ".MP4",
	".webm", ".WEBM",
	".ogg", ".OGG",
)

var supportedContentTypes = mapset.NewSet(
	"video/mp4",
	"video/webm",
	"video/ogg",
	"application/ogg",
)

var (
	ErrUnsupportedType = errors.New("unsupported video type")
	ErrTooLarge        = errors.New("payload exceeds size ceiling")
)

// Store persists video payloads. Save must either commit the whole payload
// and return a resolvable reference, or leave no partial object behind.
type Store interface {
	Save(ctx context.Context, cat, filename string, r io.Reader, size int64) (string, error)

	// Remove deletes the object behind ref. References the store doesn't
	// recognize are ignored so backends can be swapped without a sweep of
	// old rows.
	Remove(ctx context.Context, ref string) error
}

// ValidateUpload rejects payloads outside the container allow-list before
// any bytes are written.
func ValidateUpload(filename, contentType string, size, maxBytes int64) error {
	ext := extOf(filename)
	if !SupportedExt.Contains(ext) {
		return fmt.Errorf("%w: extension %q, supported: .mp4, .webm, .ogg", ErrUnsupportedType, ext)
	}
	if baseType(contentType) != "" && !supportedContentTypes.Contains(baseType(contentType)) {
		return fmt.Errorf("%w: content type %q", ErrUnsupportedType, contentType)
	}
	if size > maxBytes {
		return fmt.Errorf("%w: %d bytes, ceiling %d", ErrTooLarge, size, maxBytes)
	}
	return nil
}

func extOf(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return ""
	}
	return filename[idx:]
}

func baseType(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}

// NewFromConfig creates a Store implementation based on the configured
// media backend.
func NewFromConfig(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.MediaBackend {
	case config.MediaLocal:
		return NewLocalStore(cfg.UploadsDir(), cfg.PublicURL)
	case config.MediaS3:
		return NewS3Store(ctx, cfg.AWSProfile, cfg.S3Bucket)
	default:
		return nil, fmt.Errorf("unknown media backend: %s", cfg.MediaBackend)
	}
}
