// Package store persists screen state and admin credentials. Two engines
// implement the same capability interfaces: an embedded sqlite database and
// Postgres, selected by configuration so the service layer never touches a
// specific driver.
package store

import (
	"errors"
	"fmt"

	"github.com/oyarzun/hoteltv/config"
)

var ErrUserNotFound = errors.New("user not found")

// ScreenStore is the durable category -> (video, rotation) mapping. All
// writes are insert-or-update on the category key; implementations must be
// safe under concurrent writers for the same category.
type ScreenStore interface {
	// EnsureScreen returns the row for category, creating it with defaults
	// (no video, rotation 0) when absent. Concurrent calls for an unseen
	// category must settle on exactly one row.
	EnsureScreen(cat string) (*ScreenState, error)

	// UpsertRotation stores degrees for category and returns the resulting
	// row. The caller is responsible for normalizing degrees beforehand.
	UpsertRotation(cat string, degrees int) (*ScreenState, error)

	// UpsertVideo replaces the video reference for category and returns the
	// resulting row along with the reference it displaced (empty when the
	// row was absent or held no video).
	UpsertVideo(cat string, ref string) (*ScreenState, string, error)
}

type UserStore interface {
	GetUserByUsername(username string) (*User, error)
	CreateUser(username, passwordHash string) (*User, error)
	CountUsers() (int64, error)
}

type Store interface {
	ScreenStore
	UserStore
	Close() error
}

// NewFromConfig creates a Store implementation based on the configured
// database engine.
func NewFromConfig(cfg *config.Config) (Store, error) {
	switch cfg.DBEngine {
	case config.DBSqlite:
		return NewSqliteStore(cfg.SqlitePath())
	case config.DBPostgres:
		if cfg.DBDSN == "" {
			return nil, errors.New("postgres engine requires HTV_DB_DSN to be set")
		}
		return NewPostgresStore(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unknown database engine: %s", cfg.DBEngine)
	}
}
