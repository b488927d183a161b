// Package session implements server-side sessions keyed by an opaque token.
// The token travels in a cookie; the session record {userId, username, role}
// lives in Redis when available, or in an in-process store otherwise.
package session

import (
	"context"
	"sync"
	"time"

	"propertyadda/internal/observability"

	"github.com/google/uuid"
)

// Session is the server-side record attached to a logged-in user.
type Session struct {
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Store persists session records by token. Get returns (nil, nil) for an
// unknown or expired token.
type Store interface {
	Get(ctx context.Context, token string) (*Session, error)
	Save(ctx context.Context, token string, sess Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// Manager issues, resolves, and destroys sessions against a Store.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager returns a Manager with the given backing store and session TTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue stores a new session and returns its opaque token.
func (m *Manager) Issue(ctx context.Context, sess Session) (string, error) {
	token := uuid.NewString()
	if err := m.store.Save(ctx, token, sess, m.ttl); err != nil {
		return "", err
	}
	observability.SessionsIssued.Inc()
	return token, nil
}

// Get resolves a token to its session, or (nil, nil) when absent.
func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}
	return m.store.Get(ctx, token)
}

// Destroy removes the session for the given token. Destroying an unknown
// token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil {
		return err
	}
	observability.SessionsDestroyed.Inc()
	return nil
}

// MemoryStore is the in-process fallback Store. Expired entries are dropped
// lazily on read.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry

	// now is swappable so tests can control expiry.
	now func() time.Time
}

type memoryEntry struct {
	sess      Session
	expiresAt time.Time
}

// NewMemoryStore returns an empty in-process session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, nil
	}
	sess := entry.sess
	return &sess, nil
}

func (s *MemoryStore) Save(_ context.Context, token string, sess Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memoryEntry{sess: sess, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
