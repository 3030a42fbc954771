// Package localstore is the durable on-device store. Every key holds the
// complete serialized value for one entity type; writers always replace the
// whole list, never patch it, so a read is a single source of truth.
package localstore

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	apperrors "moneta/internal/errors"
)

// Keys of the persisted local layout.
const (
	KeyTransactions     = "transactions"
	KeyWallets          = "wallets"
	KeyCustomCategories = "customCategories"
	KeyDashboardCards   = "dashboardCards"

	KeyPendingTransactions     = "pendingTransactions"
	KeyPendingWallets          = "pendingWallets"
	KeyPendingCustomCategories = "pendingCustomCategories"

	KeyLastSync = "lastSync"
)

// kvEntry is the single table backing the store.
type kvEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName overrides the default table name.
func (kvEntry) TableName() string { return "kv_entries" }

// Store is a key→value store over an embedded sqlite database.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the sqlite database at path and migrates
// the schema.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return New(db)
}

// New wraps an existing gorm connection, migrating the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return sqlDB.Close()
}

// LoadRaw returns the stored value for key, or nil if the key is absent.
func (s *Store) LoadRaw(key string) ([]byte, error) {
	var entry kvEntry
	if err := s.db.First(&entry, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return entry.Value, nil
}

// SaveRaw replaces the stored value for key.
func (s *Store) SaveRaw(key string, value []byte) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	if err := s.db.Save(&entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return nil
}

// Delete removes the stored value for key. Deleting an absent key is not an
// error.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&kvEntry{}, "key = ?", key).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return nil
}

// Load reads the full record list stored under key. An absent key yields an
// empty list.
func Load[T any](s *Store, key string) ([]T, error) {
	raw, err := s.LoadRaw(key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []T{}, nil
	}
	var records []T
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return records, nil
}

// Save persists the complete record list under key, replacing any prior
// content.
func Save[T any](s *Store, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternal, err)
	}
	return s.SaveRaw(key, raw)
}

// LoadString reads a scalar string value (e.g. the lastSync timestamp).
// An absent key yields "".
func (s *Store) LoadString(key string) (string, error) {
	raw, err := s.LoadRaw(key)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// SaveString persists a scalar string value under key.
func (s *Store) SaveString(key, value string) error {
	return s.SaveRaw(key, []byte(value))
}
