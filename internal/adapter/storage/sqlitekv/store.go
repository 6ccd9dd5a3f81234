// Package sqlitekv backs the slot store with a single sqlite file, the local
// analogue of a browser profile: no server, state survives restarts, wiping
// the file is a fresh install.
package sqlitekv

import (
	"context"
	"errors"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"tredgate-loan-portal/internal/storage"
)

// Slot is one keyed value. The whole collection for a key lives in one row,
// matching the full-state read/write contract.
type Slot struct {
	Key   string `gorm:"primaryKey;size:64"`
	Value []byte `gorm:"type:blob"`
}

func (Slot) TableName() string { return "slots" }

type Store struct{ db *gorm.DB }

var _ storage.Store = (*Store)(nil)

// Open opens (or creates) the sqlite file at path and migrates the slots
// table. Use ":memory:" for throwaway stores in tests.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&Slot{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var out Slot
	res := s.db.WithContext(ctx).Where("key = ?", key).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if res.Error != nil {
		return nil, false, res.Error
	}
	return out.Value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&Slot{Key: key, Value: value}).Error
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("key = ?", key).Delete(&Slot{}).Error
}
