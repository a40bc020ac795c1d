package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the Session in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	fields map[string]string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{fields: make(map[string]string)}
}

// Load implements Store.
func (m *MemoryStore) Load(context.Context) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return FromFields(m.fields), nil
}

// Save implements Store and replaces every key.
func (m *MemoryStore) Save(_ context.Context, session Session) error {
	fields := make(map[string]string, len(Keys))
	for key, value := range session.Fields() {
		if value != "" {
			fields[key] = value
		}
	}
	m.mu.Lock()
	m.fields = fields
	m.mu.Unlock()
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	m.fields = make(map[string]string)
	m.mu.Unlock()
	return nil
}

// Len reports how many keys are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.fields)
}
