package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Hashemselim/findabatherapy/internal/domain/providers"
)

// MemoryAdapter implements CacheProvider with a process-local map.
// Used when Redis is unavailable and as the geocode cache in tests.
// Expired entries are evicted lazily on read.
type MemoryAdapter struct {
	mu    sync.RWMutex
	items map[string]memoryItem
}

type memoryItem struct {
	value  []byte
	expiry time.Time // zero means no expiry
}

// NewMemoryAdapter creates a new in-memory cache adapter
func NewMemoryAdapter() providers.CacheProvider {
	return &MemoryAdapter{
		items: make(map[string]memoryItem),
	}
}

// Get retrieves a value from cache
func (a *MemoryAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.RLock()
	item, found := a.items[key]
	a.mu.RUnlock()

	if !found {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if !item.expiry.IsZero() && time.Now().After(item.expiry) {
		a.mu.Lock()
		delete(a.items, key)
		a.mu.Unlock()
		return nil, fmt.Errorf("key not found: %s", key)
	}
	return item.value, nil
}

// Set stores a value in cache with expiration
func (a *MemoryAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	item := memoryItem{value: value}
	if expirationSeconds > 0 {
		item.expiry = time.Now().Add(time.Duration(expirationSeconds) * time.Second)
	}

	a.mu.Lock()
	a.items[key] = item
	a.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (a *MemoryAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	delete(a.items, key)
	a.mu.Unlock()
	return nil
}

// Exists checks if a key exists in cache
func (a *MemoryAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	return err == nil, nil
}
