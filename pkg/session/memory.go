package session

import (
	"context"
	"sync"
	"time"
)

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)

type memoryEntry struct {
	mu      sync.Mutex
	session Session
	removed bool
}

// MemoryStore keeps sessions in process memory. Each session has its own
// lock, so operations on unrelated sessions never wait on each other.
type MemoryStore struct {
	entries sync.Map // string -> *memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore whose sessions live for ttl
func NewMemoryStore(ttl time.Duration, opts ...Option) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	o := buildOptions(opts)
	return &MemoryStore{ttl: ttl, now: o.now}
}

func (m *MemoryStore) Create(ctx context.Context, principalID uint) (string, error) {
	now := m.now()
	for {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		e := &memoryEntry{session: Session{
			ID:          id,
			PrincipalID: principalID,
			CreatedAt:   now,
			ExpiresAt:   now.Add(m.ttl),
		}}
		if _, loaded := m.entries.LoadOrStore(id, e); !loaded {
			return id, nil
		}
	}
}

// acquire returns the locked live entry for id, evicting it if expired.
// The caller must unlock the returned entry.
func (m *MemoryStore) acquire(id string) (*memoryEntry, error) {
	v, ok := m.entries.Load(id)
	if !ok {
		return nil, ErrNotFound
	}
	e := v.(*memoryEntry)
	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return nil, ErrNotFound
	}
	if e.session.Expired(m.now()) {
		e.removed = true
		m.entries.CompareAndDelete(id, e)
		e.mu.Unlock()
		return nil, ErrNotFound
	}
	return e, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	s := e.session
	s.Messages = append([]string(nil), e.session.Messages...)
	return &s, nil
}

func (m *MemoryStore) Destroy(ctx context.Context, id string) error {
	v, ok := m.entries.LoadAndDelete(id)
	if !ok {
		return nil
	}
	e := v.(*memoryEntry)
	e.mu.Lock()
	e.removed = true
	e.mu.Unlock()
	return nil
}

func (m *MemoryStore) PushMessage(ctx context.Context, id string, text string) error {
	e, err := m.acquire(id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	e.session.Messages = append(e.session.Messages, text)
	return nil
}

func (m *MemoryStore) DrainMessages(ctx context.Context, id string) ([]string, error) {
	e, err := m.acquire(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	messages := e.session.Messages
	e.session.Messages = nil
	return messages, nil
}

// Len returns the number of stored sessions, expired ones included until
// they are evicted.
func (m *MemoryStore) Len() int {
	n := 0
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep evicts every session expired at now and returns how many were removed
func (m *MemoryStore) Sweep(now time.Time) int {
	removed := 0
	m.entries.Range(func(key, value any) bool {
		e := value.(*memoryEntry)
		e.mu.Lock()
		if !e.removed && e.session.Expired(now) {
			e.removed = true
			if m.entries.CompareAndDelete(key, e) {
				removed++
			}
		}
		e.mu.Unlock()
		return true
	})
	return removed
}

// Run sweeps expired sessions every interval until ctx is done
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(m.now())
		}
	}
}
