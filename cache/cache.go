// Package cache provides the keyed, time-boxed byte store used for
// home feed page caching and token revocation. The Store interface is
// injected so handlers can run against Redis in production and an
// in-memory map in tests or Redis-less deployments.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store is a keyed byte cache with per-entry TTL.
type Store interface {
	// Get returns the cached bytes for key, and whether the entry exists and is live.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key for ttl. Concurrent setters are last-write-wins.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Clear removes every entry whose key starts with prefix.
	Clear(ctx context.Context, prefix string)
}

// Memory is a process-local Store. Entries expire lazily on Get.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return entry.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

func (m *Memory) Clear(_ context.Context, prefix string) {
	m.mu.Lock()
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	m.mu.Unlock()
}
