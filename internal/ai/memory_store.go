package ai

import (
	"context"
	"sync"
	"time"
)

// MemoryStore: контексты в памяти процесса. Истёкшие записи удаляются
// лениво, при PurgeExpired и при чтении.
type MemoryStore struct {
	mu       sync.RWMutex
	contexts map[int64]UserContext
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		contexts: make(map[int64]UserContext),
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, userID int64) (*UserContext, error) {
	s.mu.RLock()
	uc, ok := s.contexts[userID]
	s.mu.RUnlock()

	if !ok || s.now().Sub(uc.CreatedAt) > ContextTTL {
		return nil, nil
	}
	return &uc, nil
}

func (s *MemoryStore) Save(_ context.Context, userID int64, uc UserContext) error {
	s.mu.Lock()
	s.contexts[userID] = uc
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.contexts, userID)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) PurgeExpired(_ context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, uc := range s.contexts {
		if now.Sub(uc.CreatedAt) > ContextTTL {
			delete(s.contexts, id)
		}
	}
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contexts)
}
