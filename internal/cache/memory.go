package cache

import (
	"context"
	"sync"
	"time"
)

const defaultCleanupInterval = time.Minute

// cacheItem represents an item stored in memory cache
type cacheItem struct {
	value     []byte
	expiresAt time.Time
}

func (i cacheItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// memoryCache implements Cache with a mutex-guarded map and a janitor
// goroutine that drops expired items.
type memoryCache struct {
	mu   sync.RWMutex
	data map[string]cacheItem
	now  func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemoryCache creates an in-process cache. Close stops its janitor.
func NewMemoryCache() Cache {
	return newMemoryCache(defaultCleanupInterval, time.Now)
}

func newMemoryCache(cleanupInterval time.Duration, now func() time.Time) *memoryCache {
	m := &memoryCache{
		data: make(map[string]cacheItem),
		now:  now,
		stop: make(chan struct{}),
	}
	go m.cleanup(cleanupInterval)
	return m
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}

	// copy to avoid external modifications
	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	m.mu.Lock()
	m.data[key] = cacheItem{value: valueCopy, expiresAt: expiresAt}
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	item, ok := m.data[key]
	m.mu.RUnlock()

	if !ok || item.expired(m.now()) {
		return nil, ErrCacheKeyNotFound
	}

	result := make([]byte, len(item.value))
	copy(result, item.value)
	return result, nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Close() error {
	m.closeOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *memoryCache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.removeExpired()
		case <-m.stop:
			return
		}
	}
}

func (m *memoryCache) removeExpired() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, item := range m.data {
		if item.expired(now) {
			delete(m.data, key)
		}
	}
}

func (m *memoryCache) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
