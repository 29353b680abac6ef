package identity

import (
	"context"

	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity is the caller of a request as resolved once at the top of
// request handling.
type Identity struct {
	// SessionID is the session the client presented, if it is still live.
	// Guest sessions keep their id so flash messages can be read.
	SessionID string

	// Principal is set only when the session is authenticated
	Principal *model.Principal

	// Request context
	RemoteIP  string
	RequestID string
}

// Anonymous creates an Identity without a principal.
func Anonymous(remoteIP string) *Identity {
	return &Identity{RemoteIP: remoteIP}
}

// Authenticated reports whether the identity carries a principal.
func (i *Identity) Authenticated() bool {
	return i != nil && i.Principal != nil
}

// Username returns the principal's username, or "" when anonymous.
func (i *Identity) Username() string {
	if !i.Authenticated() {
		return ""
	}
	return i.Principal.Username
}

// WithSession sets the session id.
func (i *Identity) WithSession(sessionID string) *Identity {
	i.SessionID = sessionID
	return i
}

// WithPrincipal sets the authenticated principal.
func (i *Identity) WithPrincipal(principal *model.Principal) *Identity {
	i.Principal = principal
	return i
}

// WithRequestID sets the request id.
func (i *Identity) WithRequestID(requestID string) *Identity {
	i.RequestID = requestID
	return i
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}

// RemoteIP returns the client address recorded in ctx, or "" if none.
func RemoteIP(ctx context.Context) string {
	if id, ok := Get(ctx); ok {
		return id.RemoteIP
	}
	return ""
}
