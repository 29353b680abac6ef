package auth

import (
	"context"
	"sync"
	"time"
)

// Default lockout policy for repeated login failures from one client
const (
	DefaultMaxAttempts  = 5
	DefaultLoginWindow  = 15 * time.Minute
	DefaultLockDuration = 10 * time.Minute
)

type attemptState struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// Limiter locks out a client after too many failed logins within a window.
// A nil *Limiter never locks anyone out.
type Limiter struct {
	maxAttempts  int
	window       time.Duration
	lockDuration time.Duration
	now          func() time.Time

	mu       sync.Mutex
	attempts map[string]*attemptState
}

// NewLimiter returns a limiter allowing maxAttempts failures per window.
// maxAttempts <= 0 disables limiting and returns nil.
func NewLimiter(maxAttempts int, window, lockDuration time.Duration) *Limiter {
	if maxAttempts <= 0 {
		return nil
	}
	return &Limiter{
		maxAttempts:  maxAttempts,
		window:       window,
		lockDuration: lockDuration,
		now:          time.Now,
		attempts:     make(map[string]*attemptState),
	}
}

// Check returns how long the client stays locked out, zero if it is not
func (l *Limiter) Check(client string) time.Duration {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	state, ok := l.attempts[client]
	if !ok {
		return 0
	}
	now := l.now()
	if now.Before(state.lockedUntil) {
		return state.lockedUntil.Sub(now)
	}
	if l.stale(state, now) {
		delete(l.attempts, client)
	}
	return 0
}

// RecordFailure counts a failed attempt and returns the attempts left
// before lockout
func (l *Limiter) RecordFailure(client string) int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	state, ok := l.attempts[client]
	if !ok || l.stale(state, now) {
		state = &attemptState{firstAttempt: now}
		l.attempts[client] = state
	}

	state.count++
	if state.count >= l.maxAttempts {
		state.lockedUntil = now.Add(l.lockDuration)
		state.count = l.maxAttempts
	}

	return l.maxAttempts - state.count
}

// stale reports whether a state no longer counts: its window passed or its
// lockout was served.
func (l *Limiter) stale(state *attemptState, now time.Time) bool {
	if !state.lockedUntil.IsZero() {
		return !now.Before(state.lockedUntil)
	}
	return now.Sub(state.firstAttempt) > l.window
}

// Reset forgets the client's failures
func (l *Limiter) Reset(client string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, client)
}

// Len reports how many clients are tracked
func (l *Limiter) Len() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}

// Sweep forgets every client whose window passed or whose lockout was served
// at now, and returns how many were removed
func (l *Limiter) Sweep(now time.Time) int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for client, state := range l.attempts {
		if l.stale(state, now) {
			delete(l.attempts, client)
			removed++
		}
	}
	return removed
}

// Run sweeps stale clients every interval until ctx is done
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	if l == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep(l.now())
		}
	}
}
