package options

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"blog-toolkit/models"
)

// ErrNotFound is returned by a Store holding no record.
var ErrNotFound = errors.New("options record not found")

// Store persists the raw settings record.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// GormStore keeps the record in the options table.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Load(ctx context.Context) ([]byte, error) {
	var opt models.Option
	err := s.db.WithContext(ctx).Where("key = ?", OptionKey).First(&opt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load options: %w", err)
	}
	return []byte(opt.Value), nil
}

func (s *GormStore) Save(ctx context.Context, data []byte) error {
	opt := models.Option{Key: OptionKey, Value: string(data)}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&opt).Error
	if err != nil {
		return fmt.Errorf("save options: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("key = ?", OptionKey).Delete(&models.Option{}).Error; err != nil {
		return fmt.Errorf("delete options: %w", err)
	}
	return nil
}

// MemoryStore keeps the record in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStore) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
