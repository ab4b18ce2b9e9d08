// Package cache provides a minimal in-process TTL cache.
package cache

import (
	"sync"
	"time"
)

type entry struct {
	value     string
	expiresAt time.Time
}

type InMemory struct {
	storage map[string]entry

	mx sync.RWMutex
}

func NewInMemory() *InMemory {
	return &InMemory{
		storage: make(map[string]entry, 100),
	}
}

// Get returns the cached value unless it expired. Expired entries are left
// for the janitor goroutine spawned by Set.
func (c *InMemory) Get(key string) (string, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	e, ok := c.storage[key]
	if !ok || time.Now().After(e.expiresAt) {
		return "", false
	}
	return e.value, true
}

func (c *InMemory) Set(key, value string, ttl time.Duration) {
	expiresAt := time.Now().Add(ttl)

	c.mx.Lock()
	c.storage[key] = entry{value: value, expiresAt: expiresAt}
	c.mx.Unlock()

	go func() {
		time.Sleep(ttl + time.Minute) // add extra minute
		c.mx.Lock()
		defer c.mx.Unlock()
		if e, ok := c.storage[key]; ok && time.Now().After(e.expiresAt) {
			delete(c.storage, key)
		}
	}()
}
