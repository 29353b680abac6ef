package store

import (
	"context"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
)

// SignaturesStore abstracts signature storage operations
type SignaturesStore interface {
	// Count returns the total number of signatures
	Count(ctx context.Context) (int64, error)

	// List returns up to limit signatures starting at offset, in creation order
	List(ctx context.Context, offset, limit int) ([]model.Signature, error)

	// Create stores a new signature. Returns ErrDuplicate if the national id
	// has already signed.
	Create(ctx context.Context, signature *model.Signature) error

	// Delete removes a signature by id. Deleting a missing id is not an error.
	Delete(ctx context.Context, id uint) error
}
