// Package screens implements the per-category screen state operations the
// API exposes: lazy reads, rotation changes, and video replacement.
package screens

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/oyarzun/hoteltv/category"
	"github.com/oyarzun/hoteltv/media"
	"github.com/oyarzun/hoteltv/store"
)

var ErrInvalidRotation = errors.New("rotation must be a multiple of 90")

type Service struct {
	screens store.ScreenStore
	media   media.Store
}

func NewService(screens store.ScreenStore, mediaStore media.Store) *Service {
	return &Service{
		screens: screens,
		media:   mediaStore,
	}
}

// GetState returns the state row for a category, creating it with defaults
// (no video, rotation 0) on first sight. Reading an unseen category is not
// an error; reading an unknown one is.
func (s *Service) GetState(cat string) (*store.ScreenState, error) {
	if err := category.Validate(cat); err != nil {
		return nil, err
	}
	return s.screens.EnsureScreen(cat)
}

// SetRotation normalizes degrees to a cardinal value and upserts it.
// Only multiples of 90 are accepted; anything else is a validation error.
func (s *Service) SetRotation(cat string, degrees int) (*store.ScreenState, error) {
	if err := category.Validate(cat); err != nil {
		return nil, err
	}
	normalized, err := NormalizeRotation(degrees)
	if err != nil {
		return nil, err
	}
	return s.screens.UpsertRotation(cat, normalized)
}

// SetVideo persists the payload through the media store and upserts the
// resulting reference, replacing any prior assignment. The displaced object
// is removed only after the new one is durably committed and the row
// updated, so the category never points at a missing video.
func (s *Service) SetVideo(ctx context.Context, cat, filename string, r io.Reader, size int64) (*store.ScreenState, error) {
	if err := category.Validate(cat); err != nil {
		return nil, err
	}

	ref, err := s.media.Save(ctx, cat, filename, r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to store video payload: %w", err)
	}

	state, prev, err := s.screens.UpsertVideo(cat, ref)
	if err != nil {
		// The row still points at the old video; retire the object we just
		// wrote so the failure leaves nothing orphaned.
		if rmErr := s.media.Remove(ctx, ref); rmErr != nil {
			slog.Warn("unable to remove uncommitted video object", "ref", ref, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to update screen row: %w", err)
	}

	if prev != "" && prev != ref {
		if err := s.media.Remove(ctx, prev); err != nil {
			slog.Warn("unable to remove replaced video object", "ref", prev, "error", err)
		}
	}

	return state, nil
}

// NormalizeRotation maps any multiple of 90 onto {0, 90, 180, 270}.
func NormalizeRotation(degrees int) (int, error) {
	if degrees%90 != 0 {
		return 0, fmt.Errorf("%w, got %d", ErrInvalidRotation, degrees)
	}
	return ((degrees % 360) + 360) % 360, nil
}
