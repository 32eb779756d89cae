package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session Session
	expires time.Time
}

// MemoryBackend keeps sessions in-process. Suitable for a single portal
// instance; use the Redis backend when running more than one.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: map[string]memoryEntry{}}
}

func (b *MemoryBackend) Get(ctx context.Context, id string) (Session, bool, error) {
	b.mu.RLock()
	entry, ok := b.sessions[id]
	b.mu.RUnlock()
	if !ok {
		return Session{}, false, nil
	}
	if time.Now().After(entry.expires) {
		b.mu.Lock()
		delete(b.sessions, id)
		b.mu.Unlock()
		return Session{}, false, nil
	}
	return entry.session, true, nil
}

func (b *MemoryBackend) Put(ctx context.Context, s Session, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessions[s.ID] = memoryEntry{session: s, expires: time.Now().Add(ttl)}
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, id)
	return nil
}

// Purge drops expired entries. The server runs this periodically so the
// map does not grow with abandoned sessions.
func (b *MemoryBackend) Purge() int {
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	removed := 0
	for id, entry := range b.sessions {
		if now.After(entry.expires) {
			delete(b.sessions, id)
			removed++
		}
	}
	return removed
}
