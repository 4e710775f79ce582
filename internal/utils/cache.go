package utils

import (
	"os"
	"sync"
	"time"
)

// CacheItem represents a cached item with metadata for invalidation
type CacheItem[T any] struct {
	Value   T
	ModTime time.Time
	Size    int64
}

// Cache provides a generic caching utility with file-based invalidation
type Cache[K comparable, V any] struct {
	items map[K]*CacheItem[V]
	mutex sync.RWMutex
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]*CacheItem[V]),
	}
}

// GetWithFileValidation retrieves an item from the cache, dropping it when
// the backing file changed since it was stored.
func (c *Cache[K, V]) GetWithFileValidation(key K, filePath string) (V, bool) {
	c.mutex.RLock()
	item, exists := c.items[key]
	c.mutex.RUnlock()

	if !exists {
		var zero V
		return zero, false
	}

	if stat, err := os.Stat(filePath); err == nil {
		if stat.ModTime().Equal(item.ModTime) && stat.Size() == item.Size {
			return item.Value, true
		}
	}

	c.mutex.Lock()
	delete(c.items, key)
	c.mutex.Unlock()

	var zero V
	return zero, false
}

// SetWithFileInfo stores an item in the cache with file metadata for validation
func (c *Cache[K, V]) SetWithFileInfo(key K, value V, filePath string) error {
	stat, err := os.Stat(filePath)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items[key] = &CacheItem[V]{
		Value:   value,
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
	}
	return nil
}

// Delete removes an item from the cache
func (c *Cache[K, V]) Delete(key K) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.items, key)
}

// Clear removes all items from the cache
func (c *Cache[K, V]) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.items = make(map[K]*CacheItem[V])
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}
