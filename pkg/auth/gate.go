package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/doodlesbykumbi/petition-in-go/pkg/audit"
	"github.com/doodlesbykumbi/petition-in-go/pkg/credential"
	"github.com/doodlesbykumbi/petition-in-go/pkg/identity"
	"github.com/doodlesbykumbi/petition-in-go/pkg/model"
	"github.com/doodlesbykumbi/petition-in-go/pkg/server/store"
	"github.com/doodlesbykumbi/petition-in-go/pkg/session"
)

// Flash messages pushed on rejected logins
const (
	MessageInvalidCredentials = "invalid username or password"
	MessageTooManyAttempts    = "too many login attempts, try again later"
)

// LoginRequest is a submitted login form
type LoginRequest struct {
	// SessionID is the session the client currently holds, if any
	SessionID string
	Username  string
	Password  string
	ClientIP  string
}

// LoginOutcome is the result of a login attempt.
// State is StateAuthenticated or StateRejected. SessionID is the session the
// client must hold afterwards: a fresh one on success, the one carrying the
// flash message on rejection.
type LoginOutcome struct {
	State     State
	SessionID string
	Principal *model.Principal
}

// Resolution is the state of a request holding a session token
type Resolution struct {
	State State
	// SessionID is kept for live guest sessions so their messages can be read
	SessionID string
	Principal *model.Principal
}

// Authenticated reports whether the request may perform protected operations
func (r Resolution) Authenticated() bool {
	return r.State == StateAuthenticated && r.Principal != nil
}

// Gate is the authentication state machine
type Gate struct {
	verifier   credential.Verifier
	principals store.PrincipalsStore
	sessions   session.Store
	limiter    *Limiter
	auditor    audit.Recorder
}

// GateOption configures a Gate
type GateOption func(*Gate)

// WithLimiter enables login lockout
func WithLimiter(l *Limiter) GateOption {
	return func(g *Gate) {
		g.limiter = l
	}
}

// WithAuditor records login and logout events
func WithAuditor(a audit.Recorder) GateOption {
	return func(g *Gate) {
		if a != nil {
			g.auditor = a
		}
	}
}

// NewGate creates a Gate over its collaborators
func NewGate(
	verifier credential.Verifier,
	principals store.PrincipalsStore,
	sessions session.Store,
	opts ...GateOption,
) *Gate {
	g := &Gate{
		verifier:   verifier,
		principals: principals,
		sessions:   sessions,
		auditor:    audit.Discard,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login runs Anonymous -> Authenticating -> Authenticated|Rejected.
// Authentication failures are outcomes, not errors; an error means the
// attempt could not be decided (repository or session store failure).
func (g *Gate) Login(ctx context.Context, req LoginRequest) (LoginOutcome, error) {
	if g.limiter.Check(req.ClientIP) > 0 {
		return g.reject(ctx, req, MessageTooManyAttempts, "locked out")
	}

	principal, err := g.verifier.Verify(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, credential.ErrNotFound), errors.Is(err, credential.ErrMismatch):
		g.limiter.RecordFailure(req.ClientIP)
		return g.reject(ctx, req, MessageInvalidCredentials, "invalid credentials")
	case err != nil:
		return LoginOutcome{}, fmt.Errorf("auth: verify credentials: %w", err)
	}

	if !principal.IsAdmin {
		g.limiter.RecordFailure(req.ClientIP)
		return g.reject(ctx, req, MessageInvalidCredentials, "not an administrator")
	}

	g.limiter.Reset(req.ClientIP)

	// Rotate the session id on privilege change
	if req.SessionID != "" {
		if err := g.sessions.Destroy(ctx, req.SessionID); err != nil {
			return LoginOutcome{}, fmt.Errorf("auth: destroy previous session: %w", err)
		}
	}

	sessionID, err := g.sessions.Create(ctx, principal.ID)
	if err != nil {
		return LoginOutcome{}, fmt.Errorf("auth: create session: %w", err)
	}

	g.auditor.Log(ctx, audit.LoginEvent{
		Username: principal.Username,
		ClientIP: req.ClientIP,
		Success:  true,
	})

	return LoginOutcome{
		State:     StateAuthenticated,
		SessionID: sessionID,
		Principal: principal,
	}, nil
}

// reject pushes a single flash message onto the caller's session, creating a
// guest session if the caller has none.
func (g *Gate) reject(ctx context.Context, req LoginRequest, message, reason string) (LoginOutcome, error) {
	g.auditor.Log(ctx, audit.LoginEvent{
		Username: req.Username,
		ClientIP: req.ClientIP,
		Reason:   reason,
	})

	sessionID := req.SessionID
	if sessionID != "" {
		err := g.sessions.PushMessage(ctx, sessionID, message)
		if err == nil {
			return LoginOutcome{State: StateRejected, SessionID: sessionID}, nil
		}
		if !errors.Is(err, session.ErrNotFound) {
			return LoginOutcome{}, fmt.Errorf("auth: push flash message: %w", err)
		}
	}

	sessionID, err := g.sessions.Create(ctx, 0)
	if err != nil {
		return LoginOutcome{}, fmt.Errorf("auth: create guest session: %w", err)
	}
	if err := g.sessions.PushMessage(ctx, sessionID, message); err != nil {
		return LoginOutcome{}, fmt.Errorf("auth: push flash message: %w", err)
	}
	return LoginOutcome{State: StateRejected, SessionID: sessionID}, nil
}

// Resolve maps a session token to the request's state. Unknown, expired and
// guest sessions resolve to Anonymous without error. A session whose
// principal no longer exists or is no longer an administrator is destroyed.
func (g *Gate) Resolve(ctx context.Context, sessionID string) (Resolution, error) {
	anonymous := Resolution{State: StateAnonymous}
	if sessionID == "" {
		return anonymous, nil
	}

	sess, err := g.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return anonymous, nil
	}
	if err != nil {
		return anonymous, fmt.Errorf("auth: read session: %w", err)
	}
	if !sess.Authenticated() {
		return Resolution{State: StateAnonymous, SessionID: sessionID}, nil
	}

	principal, err := g.principals.FindByID(ctx, sess.PrincipalID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !principal.IsAdmin) {
		if err := g.sessions.Destroy(ctx, sessionID); err != nil {
			return anonymous, fmt.Errorf("auth: destroy stale session: %w", err)
		}
		return anonymous, nil
	}
	if err != nil {
		return anonymous, fmt.Errorf("auth: resolve principal %d: %w", sess.PrincipalID, err)
	}

	return Resolution{
		State:     StateAuthenticated,
		SessionID: sessionID,
		Principal: principal,
	}, nil
}

// Logout destroys the session. It is a no-op for an empty or unknown id.
func (g *Gate) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	res, resolveErr := g.Resolve(ctx, sessionID)
	if err := g.sessions.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("auth: destroy session: %w", err)
	}
	if resolveErr == nil && res.Authenticated() {
		g.auditor.Log(ctx, audit.LogoutEvent{
			Username: res.Principal.Username,
			ClientIP: identity.RemoteIP(ctx),
		})
	}
	return nil
}

// Messages drains the session's flash messages
func (g *Gate) Messages(ctx context.Context, sessionID string) ([]string, error) {
	if sessionID == "" {
		return nil, nil
	}
	messages, err := g.sessions.DrainMessages(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("auth: drain messages: %w", err)
	}
	return messages, nil
}
