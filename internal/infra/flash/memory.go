package flash

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   Payload
	expiresAt time.Time
}

// MemoryStore is the single-process Store used when no Redis is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an empty store. ttl <= 0 means DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, p Payload) error {
	if err := CheckSessionID(sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.entries[sessionID] = memoryEntry{payload: p, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Take(_ context.Context, sessionID string) (*Payload, bool, error) {
	if err := CheckSessionID(sessionID); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		return nil, false, nil
	}
	delete(s.entries, sessionID)
	if !s.now().Before(e.expiresAt) {
		return nil, false, nil
	}
	p := e.payload
	return &p, true, nil
}

// sweep drops expired entries. Caller holds the lock.
func (s *MemoryStore) sweep() {
	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
