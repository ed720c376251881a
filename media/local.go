package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore keeps video files under a single uploads directory served by
// the web server. Objects are committed with a temp-write-then-rename so a
// failed upload never leaves a half-written file the displays could fetch.
type LocalStore struct {
	dir       string
	publicURL string
}

func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (l *LocalStore) Save(ctx context.Context, cat, filename string, r io.Reader, size int64) (string, error) {
	name := fmt.Sprintf("%s-%s%s", cat, uuid.New().String(), extOf(filename))
	finalPath := filepath.Join(l.dir, name)

	tmp, err := os.CreateTemp(l.dir, name+".part-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	written, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil && written != size {
		err = fmt.Errorf("short write: expected %d bytes, got %d", size, written)
	}
	if err == nil {
		err = os.Rename(tmpPath, finalPath)
	}
	if err != nil {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.Warn("unable to remove partial upload", "path", tmpPath, "error", rmErr)
		}
		return "", fmt.Errorf("failed to store upload %s: %w", name, err)
	}

	return l.publicURL + "/uploads/" + name, nil
}

func (l *LocalStore) Remove(ctx context.Context, ref string) error {
	name, ok := l.objectName(ref)
	if !ok {
		slog.Debug("skipping removal of foreign media ref", "ref", ref)
		return nil
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media object %s: %w", name, err)
	}
	return nil
}

// objectName maps a stored reference back to a file in the uploads
// directory, rejecting anything that would escape it.
func (l *LocalStore) objectName(ref string) (string, bool) {
	idx := strings.Index(ref, "/uploads/")
	if idx < 0 {
		return "", false
	}
	name := ref[idx+len("/uploads/"):]
	if name == "" || name != filepath.Base(name) {
		return "", false
	}
	return name, true
}
