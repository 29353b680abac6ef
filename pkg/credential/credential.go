// Package credential verifies principal secrets against stored bcrypt hashes.
package credential

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
)

var (
	// ErrNotFound is returned when no principal has the given username
	ErrNotFound = errors.New("credential: principal not found")
	// ErrMismatch is returned when the secret does not match the stored hash
	ErrMismatch = errors.New("credential: secret mismatch")
)

// Verifier checks a username and secret pair
type Verifier interface {
	Verify(ctx context.Context, username, secret string) (*model.Principal, error)
}

// Ensure Store implements Verifier
var _ Verifier = (*Store)(nil)

// Store verifies credentials against a PrincipalsStore
type Store struct {
	principals store.PrincipalsStore
	dummyHash  []byte
}

// NewStore creates a new credential Store. It fails only if the dummy hash
// used for unknown usernames cannot be generated.
func NewStore(principals store.PrincipalsStore) (*Store, error) {
	return newStore(principals, bcrypt.DefaultCost)
}

func newStore(principals store.PrincipalsStore, cost int) (*Store, error) {
	// Compared against when the username is unknown, so both failure paths
	// pay for one bcrypt comparison.
	dummy, err := bcrypt.GenerateFromPassword([]byte("petition-dummy-secret"), cost)
	if err != nil {
		return nil, fmt.Errorf("credential: generate dummy hash: %w", err)
	}
	return &Store{principals: principals, dummyHash: dummy}, nil
}

// Verify looks up the principal by exact username and compares the secret
// with the stored hash. The returned error is ErrNotFound, ErrMismatch, or a
// wrapped repository error.
func (s *Store) Verify(ctx context.Context, username, secret string) (*model.Principal, error) {
	principal, err := s.principals.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(secret))
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("credential: lookup %q: %w", username, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(secret)); err != nil {
		return nil, ErrMismatch
	}
	return principal, nil
}
