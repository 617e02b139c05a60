package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned by a SessionStore for unknown or expired ids.
var ErrSessionNotFound = errors.New("auth session not found")

// Principal is the identity an auth session resolves to.
type Principal struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

// SessionStore keeps server-side auth sessions. Implementations must be
// safe for concurrent use.
type SessionStore interface {
	Save(ctx context.Context, id string, p Principal, ttl time.Duration) error
	Get(ctx context.Context, id string) (Principal, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a process-local SessionStore for tests and single-node dev runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	p         Principal
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (m *MemoryStore) Save(_ context.Context, id string, p Principal, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[id] = memoryEntry{p: p, expiresAt: m.now().Add(ttl)}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Principal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return Principal{}, ErrSessionNotFound
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, id)
		return Principal{}, ErrSessionNotFound
	}
	return e.p, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}
