package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// PostgresStore backs the screen state with Postgres for deployments where
// the server doesn't own its disk (the embedded sqlite engine remains the
// default).
type PostgresStore struct {
	db *gorm.DB
}

func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	if err := db.AutoMigrate(&ScreenState{}, &User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate postgres schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) EnsureScreen(cat string) (*ScreenState, error) {
	row := &ScreenState{Category: cat}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoNothing: true,
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure screen row: %w", err)
	}
	return s.getScreen(cat)
}

func (s *PostgresStore) getScreen(cat string) (*ScreenState, error) {
	var state ScreenState
	if err := s.db.Where("category = ?", cat).First(&state).Error; err != nil {
		return nil, fmt.Errorf("failed to get screen row: %w", err)
	}
	return &state, nil
}

func (s *PostgresStore) UpsertRotation(cat string, degrees int) (*ScreenState, error) {
	row := &ScreenState{Category: cat, RotationDegrees: degrees}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"rotation_degrees"}),
	}).Create(row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rotation: %w", err)
	}
	return s.getScreen(cat)
}

func (s *PostgresStore) UpsertVideo(cat string, ref string) (*ScreenState, string, error) {
	var state ScreenState
	var prev string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing ScreenState
		err := tx.Where("category = ?", cat).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to read prior video ref: %w", err)
		}
		prev = existing.VideoRef

		row := &ScreenState{Category: cat, VideoRef: ref}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"video_ref"}),
		}).Create(row).Error
		if err != nil {
			return fmt.Errorf("failed to upsert video ref: %w", err)
		}

		return tx.Where("category = ?", cat).First(&state).Error
	})
	if err != nil {
		return nil, "", err
	}
	return &state, prev, nil
}

func (s *PostgresStore) GetUserByUsername(username string) (*User, error) {
	var u User
	err := s.db.Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (s *PostgresStore) CreateUser(username, passwordHash string) (*User, error) {
	u := &User{Username: username, PasswordHash: passwordHash}
	if err := s.db.Create(u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) CountUsers() (int64, error) {
	var count int64
	if err := s.db.Model(&User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) Close() error {
	db, err := s.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
