package session

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is one key/value row of the file store
type Entry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;type:varchar(255)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName pins the table name
func (Entry) TableName() string {
	return "storage_entries"
}

// FileStore persists values in a local SQLite file, for machines without a keychain
type FileStore struct {
	db *gorm.DB
}

// DefaultStorePath returns ~/.config/gestione/storage.db
func DefaultStorePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "gestione", "storage.db"), nil
}

// OpenFileStore opens (creating if needed) the SQLite store at path
func OpenFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stderr, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	// One writer at a time; the token slot is never contended anyway
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA busy_timeout=5000").Error; err != nil {
		return nil, fmt.Errorf("failed to configure store: %w", err)
	}

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	if err := os.Chmod(path, 0600); err != nil {
		return nil, fmt.Errorf("failed to restrict store permissions: %w", err)
	}

	return &FileStore{db: db}, nil
}

func (f *FileStore) Get(key string) (string, error) {
	var entry Entry
	if err := f.db.Where("storage_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read store: %w", err)
	}
	return entry.Value, nil
}

func (f *FileStore) Set(key, value string) error {
	entry := Entry{Key: key, Value: value}
	err := f.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}

func (f *FileStore) Delete(key string) error {
	if err := f.db.Where("storage_key = ?", key).Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to delete from store: %w", err)
	}
	return nil
}

// Close releases the database handle
func (f *FileStore) Close() error {
	sqlDB, err := f.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
