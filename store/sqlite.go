package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type SqliteStore struct {
	db *sql.DB
}

func NewSqliteStore(dbPath string) (*SqliteStore, error) {
	// Create directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows one writer; a second pooled connection would surface
	// SQLITE_BUSY under concurrent upserts.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SqliteStore{db: db}

	if err := s.migrateUp(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *SqliteStore) migrateUp() error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Closing m would close the db connection, which this store owns.

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func (s *SqliteStore) EnsureScreen(cat string) (*ScreenState, error) {
	const insert = `
		INSERT INTO screens (category, video_ref, rotation_degrees)
		VALUES (?, '', 0)
		ON CONFLICT(category) DO NOTHING
	`
	if _, err := s.db.Exec(insert, cat); err != nil {
		return nil, fmt.Errorf("failed to ensure screen row: %w", err)
	}
	return s.getScreen(cat)
}

func (s *SqliteStore) getScreen(cat string) (*ScreenState, error) {
	const query = `
		SELECT category, video_ref, rotation_degrees
		FROM screens
		WHERE category = ?
	`
	var state ScreenState
	err := s.db.QueryRow(query, cat).Scan(&state.Category, &state.VideoRef, &state.RotationDegrees)
	if err != nil {
		return nil, fmt.Errorf("failed to get screen row: %w", err)
	}
	return &state, nil
}

func (s *SqliteStore) UpsertRotation(cat string, degrees int) (*ScreenState, error) {
	const stmt = `
		INSERT INTO screens (category, video_ref, rotation_degrees)
		VALUES (?, '', ?)
		ON CONFLICT(category) DO UPDATE SET
			rotation_degrees = excluded.rotation_degrees
	`
	if _, err := s.db.Exec(stmt, cat, degrees); err != nil {
		return nil, fmt.Errorf("failed to upsert rotation: %w", err)
	}
	return s.getScreen(cat)
}

func (s *SqliteStore) UpsertVideo(cat string, ref string) (*ScreenState, string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var prev string
	err = tx.QueryRow(`SELECT video_ref FROM screens WHERE category = ?`, cat).Scan(&prev)
	if err != nil && err != sql.ErrNoRows {
		return nil, "", fmt.Errorf("failed to read prior video ref: %w", err)
	}

	const stmt = `
		INSERT INTO screens (category, video_ref, rotation_degrees)
		VALUES (?, ?, 0)
		ON CONFLICT(category) DO UPDATE SET
			video_ref = excluded.video_ref
	`
	if _, err := tx.Exec(stmt, cat, ref); err != nil {
		return nil, "", fmt.Errorf("failed to upsert video ref: %w", err)
	}

	var state ScreenState
	err = tx.QueryRow(
		`SELECT category, video_ref, rotation_degrees FROM screens WHERE category = ?`, cat,
	).Scan(&state.Category, &state.VideoRef, &state.RotationDegrees)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read screen row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", fmt.Errorf("failed to commit video upsert: %w", err)
	}
	return &state, prev, nil
}

func (s *SqliteStore) GetUserByUsername(username string) (*User, error) {
	const query = `SELECT id, username, password_hash FROM users WHERE username = ?`
	var u User
	err := s.db.QueryRow(query, username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *SqliteStore) CreateUser(username, passwordHash string) (*User, error) {
	const stmt = `INSERT INTO users (username, password_hash) VALUES (?, ?)`
	res, err := s.db.Exec(stmt, username, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}
	return &User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

func (s *SqliteStore) CountUsers() (int64, error) {
	var count int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}
