package session

import (
	"context"
	"sync"
	"time"

	"github.com/molisezx/luct-reporting/internal/models"
)

type memoryEntry struct {
	snapshot  models.UserInfo
	expiresAt time.Time
}

// MemoryRegistry keeps sessions in a mutex-guarded map. State lives for
// the lifetime of the serving process only, so a restart invalidates all
// sessions and the registry cannot be shared across instances.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
}

// NewMemoryRegistry builds an in-process registry. A zero ttl disables
// expiry entirely.
func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
	}
}

// Create stores the snapshot and returns the fresh token.
func (r *MemoryRegistry) Create(_ context.Context, snapshot models.UserInfo) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	entry := memoryEntry{snapshot: snapshot}
	if r.ttl > 0 {
		entry.expiresAt = time.Now().Add(r.ttl)
	}

	r.mu.Lock()
	r.sessions[token] = entry
	r.mu.Unlock()

	return token, nil
}

// Lookup returns the snapshot for a live token, nil otherwise.
func (r *MemoryRegistry) Lookup(_ context.Context, token string) (*models.UserInfo, error) {
	r.mu.RLock()
	entry, ok := r.sessions[token]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		r.mu.Lock()
		delete(r.sessions, token)
		r.mu.Unlock()
		return nil, nil
	}

	snapshot := entry.snapshot
	return &snapshot, nil
}

// Invalidate removes the token; absent tokens are ignored.
func (r *MemoryRegistry) Invalidate(_ context.Context, token string) error {
	r.mu.Lock()
	delete(r.sessions, token)
	r.mu.Unlock()
	return nil
}
