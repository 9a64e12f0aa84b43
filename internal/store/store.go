// Package store holds the stats persistence back ends and the in-memory
// session registry.
package store

import (
	"context"
	"sync"
	"time"

	"scrawl/internal/stats"
)

// Nop never keeps anything; statistics live only in the session object.
type Nop struct{}

func (Nop) LoadStats(context.Context, string) (stats.Stats, bool, error) { return stats.Stats{}, false, nil }
func (Nop) SaveStats(context.Context, string, stats.Stats) error         { return nil }

// Memory keeps the last snapshot per key in process memory. Snapshots expire
// ttl after their last save, matching the Redis store.
type Memory struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]memoryEntry
	now  func() time.Time
}

type memoryEntry struct {
	stats   stats.Stats
	expires time.Time
}

// NewMemory keeps snapshots for ttl; a non-positive ttl selects 30 minutes.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Memory{ttl: ttl, data: make(map[string]memoryEntry), now: time.Now}
}

func (m *Memory) LoadStats(_ context.Context, key string) (stats.Stats, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok || !m.now().Before(e.expires) {
		return stats.Stats{}, false, nil
	}
	return e.stats, true, nil
}

func (m *Memory) SaveStats(_ context.Context, key string, s stats.Stats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = memoryEntry{stats: s, expires: m.now().Add(m.ttl)}
	return nil
}

// Delete drops the snapshot for key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}

// Len returns the number of snapshots held, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Prune drops expired snapshots and returns how many were removed.
func (m *Memory) Prune() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for key, e := range m.data {
		if !now.Before(e.expires) {
			delete(m.data, key)
			n++
		}
	}
	return n
}
