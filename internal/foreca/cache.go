package foreca

import (
	"strings"
	"sync"
	"time"
)

// idCache remembers city name -> provider id resolutions so repeated
// lookups for the same place skip the search endpoint. Entries live for
// a bounded TTL and are dropped wholesale on process restart; ids are
// opaque and not guaranteed stable across sessions.
type idCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]idEntry
}

type idEntry struct {
	id       LocationID
	storedAt time.Time
}

func newIDCache(ttl time.Duration) *idCache {
	return &idCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]idEntry),
	}
}

func cacheKey(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

func (c *idCache) get(city string) (LocationID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[cacheKey(city)]
	if !ok {
		return 0, false
	}
	if c.ttl > 0 && c.now().Sub(e.storedAt) > c.ttl {
		return 0, false
	}
	return e.id, true
}

func (c *idCache) put(city string, id LocationID) {
	c.mu.Lock()
	c.entries[cacheKey(city)] = idEntry{id: id, storedAt: c.now()}
	c.mu.Unlock()
}

// prune removes expired entries and reports how many were dropped.
func (c *idCache) prune() int {
	if c.ttl <= 0 {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.ttl)
	removed := 0
	for key, e := range c.entries {
		if e.storedAt.Before(cutoff) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
