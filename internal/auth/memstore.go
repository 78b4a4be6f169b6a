package auth

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps staff accounts in memory, for the memory data backend
// and for tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]User
}

var _ UserStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]User)}
}

func (m *MemoryStore) GetUser(_ context.Context, username string) (User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[username]
	if !ok {
		return User{}, fmt.Errorf("user %s not found", username)
	}
	return u, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[u.Username]; exists {
		return nil
	}
	m.users[u.Username] = u
	return nil
}
