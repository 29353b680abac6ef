package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
)

// Ensure PrincipalsStore implements store.PrincipalsStore
var _ store.PrincipalsStore = (*PrincipalsStore)(nil)

// PrincipalsStore implements store.PrincipalsStore using GORM
type PrincipalsStore struct {
	db *gorm.DB
}

// NewPrincipalsStore creates a new PrincipalsStore
func NewPrincipalsStore(db *gorm.DB) *PrincipalsStore {
	return &PrincipalsStore{db: db}
}

// FindByUsername retrieves a principal by exact username
func (s *PrincipalsStore) FindByUsername(ctx context.Context, username string) (*model.Principal, error) {
	var principal model.Principal
	tx := s.db.WithContext(ctx).Where("username = ?", username).First(&principal)
	if tx.Error != nil {
		return nil, translateError(tx.Error)
	}
	return &principal, nil
}

// FindByID retrieves a principal by id
func (s *PrincipalsStore) FindByID(ctx context.Context, id uint) (*model.Principal, error) {
	var principal model.Principal
	tx := s.db.WithContext(ctx).Where("id = ?", id).First(&principal)
	if tx.Error != nil {
		return nil, translateError(tx.Error)
	}
	return &principal, nil
}

// Create stores a new principal
func (s *PrincipalsStore) Create(ctx context.Context, principal *model.Principal) error {
	return translateError(s.db.WithContext(ctx).Create(principal).Error)
}

// UpdatePassword replaces the password hash of a principal
func (s *PrincipalsStore) UpdatePassword(ctx context.Context, username string, passwordHash string) error {
	tx := s.db.WithContext(ctx).
		Model(&model.Principal{}).
		Where("username = ?", username).
		Update("password", passwordHash)
	if tx.Error != nil {
		return translateError(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
