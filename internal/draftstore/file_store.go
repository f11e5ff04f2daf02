package draftstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/gonyrida/sitedaily/internal/models/dtos"
	"github.com/gonyrida/sitedaily/internal/normalize"
)

// draftRecord is one key/value row of the on-device draft database.
type draftRecord struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(64)"`
	Payload   []byte    `gorm:"column:payload;type:blob"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (draftRecord) TableName() string {
	return "drafts"
}

// FileStore persists drafts in a local SQLite database, the on-device
// equivalent of the browser's localStorage.
type FileStore struct {
	db *gorm.DB
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (creating if needed) the draft database at path.
// ":memory:" is accepted for tests.
func NewFileStore(path string) (*FileStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open draft store %s: %w", path, err)
	}
	if err := db.AutoMigrate(&draftRecord{}); err != nil {
		return nil, fmt.Errorf("migrate draft store: %w", err)
	}
	return &FileStore{db: db}, nil
}

func (s *FileStore) Get(date string) (*dtos.ReportDraft, bool, error) {
	var rec draftRecord
	err := s.db.Where("key = ?", Key(date)).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read draft for %s: %w", date, err)
	}
	draft, err := normalize.DecodeDraft(rec.Payload)
	if err != nil {
		return nil, false, err
	}
	return draft, true, nil
}

func (s *FileStore) Put(date string, draft *dtos.ReportDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft for %s: %w", date, err)
	}
	rec := draftRecord{Key: Key(date), Payload: data}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("write draft for %s: %w", date, err)
	}
	return nil
}

func (s *FileStore) Delete(date string) error {
	if err := s.db.Where("key = ?", Key(date)).Delete(&draftRecord{}).Error; err != nil {
		return fmt.Errorf("delete draft for %s: %w", date, err)
	}
	return nil
}

func (s *FileStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
