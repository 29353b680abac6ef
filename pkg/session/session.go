package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"
)

// DefaultTTL is the session lifetime used when none is configured
const DefaultTTL = 20 * time.Second

// ErrNotFound is returned for unknown, destroyed or expired sessions
var ErrNotFound = errors.New("session: not found")

// Session is the server-side record behind a session token.
// It stores only the principal id, never the principal itself.
type Session struct {
	ID          string
	PrincipalID uint // zero for guest sessions
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Messages    []string
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Authenticated reports whether the session references a principal
func (s *Session) Authenticated() bool {
	return s.PrincipalID != 0
}

// Store defines how sessions are created, read and destroyed.
type Store interface {
	// Create stores a new session for principalID (zero for a guest session)
	// and returns its identifier.
	Create(ctx context.Context, principalID uint) (string, error)

	// Get returns the session or ErrNotFound if it is unknown or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Destroy removes the session. Destroying an unknown session is a no-op.
	Destroy(ctx context.Context, id string) error

	// PushMessage appends a flash message. Returns ErrNotFound if the session
	// is unknown or expired.
	PushMessage(ctx context.Context, id string, text string) error

	// DrainMessages returns the queued flash messages and clears the queue.
	DrainMessages(ctx context.Context, id string) ([]string, error)
}

// Option configures a store
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source used for expiry
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// GenerateID generates a cryptographically secure session ID.
// 32 bytes = 256 bits of entropy.
func GenerateID() (string, error) {
	const size = 32

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
