package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
)

// Ensure SignaturesStore implements store.SignaturesStore
var _ store.SignaturesStore = (*SignaturesStore)(nil)

// SignaturesStore implements store.SignaturesStore using GORM
type SignaturesStore struct {
	db *gorm.DB
}

// NewSignaturesStore creates a new SignaturesStore
func NewSignaturesStore(db *gorm.DB) *SignaturesStore {
	return &SignaturesStore{db: db}
}

// Count returns the total number of signatures
func (s *SignaturesStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Signature{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns a window of signatures ordered by signing time, then id
func (s *SignaturesStore) List(ctx context.Context, offset, limit int) ([]model.Signature, error) {
	signatures := make([]model.Signature, 0, limit)
	tx := s.db.WithContext(ctx).
		Order("signed, id").
		Offset(offset).
		Limit(limit).
		Find(&signatures)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return signatures, nil
}

// Create stores a new signature
func (s *SignaturesStore) Create(ctx context.Context, signature *model.Signature) error {
	return translateError(s.db.WithContext(ctx).Create(signature).Error)
}

// Delete removes a signature by id in a single statement
func (s *SignaturesStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&model.Signature{}, id).Error
}
