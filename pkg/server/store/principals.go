package store

import (
	"context"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
)

// PrincipalsStore abstracts principal storage operations
type PrincipalsStore interface {
	// FindByUsername retrieves a principal by exact (case-sensitive) username.
	// Returns ErrNotFound if no principal has that username.
	FindByUsername(ctx context.Context, username string) (*model.Principal, error)

	// FindByID retrieves a principal by id.
	// Returns ErrNotFound if the principal no longer exists.
	FindByID(ctx context.Context, id uint) (*model.Principal, error)

	// Create stores a new principal. Returns ErrDuplicate if the username is taken.
	Create(ctx context.Context, principal *model.Principal) error

	// UpdatePassword replaces the password hash of a principal
	UpdatePassword(ctx context.Context, username string, passwordHash string) error
}
