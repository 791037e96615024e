package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	store map[int64]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{store: make(map[int64]*Session)}
}

func (m *MemoryStore) Get(_ context.Context, owner int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.store[owner]
	if !ok {
		return New(owner), nil
	}
	return s.clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Idle() {
		delete(m.store, s.Owner)
		return nil
	}
	m.store[s.Owner] = s.clone()
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, owner int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, owner)
	return nil
}

func (s *Session) clone() *Session {
	c := *s
	if s.Candidates != nil {
		c.Candidates = make(map[string]int64, len(s.Candidates))
		for k, v := range s.Candidates {
			c.Candidates[k] = v
		}
	}
	return &c
}
