// Package cache provides the recommendation cache backends: an in-process
// map for tests and credential-less development, and Redis for deployments.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/krishisetu/agri-advisor/recommend"
)

// now is swappable for expiry tests.
var now = time.Now

// Memory is a map-backed recommendation cache. Entries are never evicted in
// the background; expiry is judged lazily by the reader and a Put always
// replaces whatever is stored.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]recommend.CacheEntry
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]recommend.CacheEntry)}
}

// Get returns the stored entry for the farmer. Expired entries behave as
// absent; they are not deleted, only never served.
func (m *Memory) Get(ctx context.Context, farmerID string) (*recommend.CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[farmerID]
	if !ok {
		return nil, nil
	}
	if !now().Before(entry.ExpiresAt) {
		return nil, nil
	}
	return &entry, nil
}

// Put upserts the farmer's entry. The ttl parameter exists for backend
// parity with Redis; the authoritative deadline is entry.ExpiresAt.
func (m *Memory) Put(ctx context.Context, entry recommend.CacheEntry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[entry.FarmerID] = entry
	return nil
}

// Invalidate removes the farmer's entry. Removing an absent entry is a no-op.
func (m *Memory) Invalidate(ctx context.Context, farmerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, farmerID)
	return nil
}
