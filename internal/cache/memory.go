package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	data       []byte
	insertedAt time.Time
}

// Memory is the default in-process store: a map behind a mutex, bounded only
// by process lifetime and available memory. Expired entries are dropped
// lazily on read.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration // zero means no expiry
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return ErrMiss
	}
	if m.ttl > 0 && m.now().Sub(e.insertedAt) > m.ttl {
		m.mu.Lock()
		// A writer may have replaced the entry since the read; only a
		// still-expired entry gets dropped.
		if cur, ok := m.entries[key]; ok && m.now().Sub(cur.insertedAt) > m.ttl {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return ErrMiss
	}
	return json.Unmarshal(e.data, dest)
}

func (m *Memory) Put(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}

	m.mu.Lock()
	m.entries[key] = entry{data: data, insertedAt: m.now()}
	m.mu.Unlock()
	return nil
}

// Len reports the number of live entries, for tests and health reporting.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
