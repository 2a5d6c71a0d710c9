package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// credentialRecord is one stored key/value row
type credentialRecord struct {
	Key       string `gorm:"primaryKey;size:32"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName sets the table name for credential records
func (credentialRecord) TableName() string {
	return "credentials"
}

// SQLiteStore persists the credential pair in a local SQLite database.
// Intended for installs where several tools share one credential database;
// concurrent writers are last-write-wins, matching the file driver.
type SQLiteStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewSQLiteStore opens (or creates) the credential database at the given path
func NewSQLiteStore(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create keystore directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open credential database: %w", err)
	}

	if err := db.AutoMigrate(&credentialRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate credential database: %w", err)
	}

	logger.Debug("credential database opened", zap.String("path", path))

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Pair returns the persisted credential pair.
// Missing rows yield empty values, not an error.
func (s *SQLiteStore) Pair() (Pair, error) {
	var records []credentialRecord
	if err := s.db.Where("key IN ?", []string{KeyAccessToken, KeyRefreshToken}).Find(&records).Error; err != nil {
		return Pair{}, fmt.Errorf("failed to load credentials: %w", err)
	}

	var pair Pair
	for _, record := range records {
		switch record.Key {
		case KeyAccessToken:
			pair.Access = record.Value
		case KeyRefreshToken:
			pair.Refresh = record.Value
		}
	}
	return pair, nil
}

// StoreAccess persists the access token
func (s *SQLiteStore) StoreAccess(token string) error {
	return s.upsert(KeyAccessToken, token)
}

// StoreRefresh persists the refresh token
func (s *SQLiteStore) StoreRefresh(token string) error {
	return s.upsert(KeyRefreshToken, token)
}

// Clear removes both credential rows in one statement
func (s *SQLiteStore) Clear() error {
	err := s.db.Where("key IN ?", []string{KeyAccessToken, KeyRefreshToken}).
		Delete(&credentialRecord{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

func (s *SQLiteStore) upsert(key, value string) error {
	record := credentialRecord{Key: key, Value: value}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to store credential %s: %w", key, err)
	}
	return nil
}
