package highlights

import (
	"sync"
	"time"

	"github.com/touchline-tv/touchline/internal/models"
)

// Cache holds ranked fixture lists keyed by calendar day with a fixed
// TTL. Fixture lists are small; entries are purged lazily on access.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	fixtures  []models.Highlight
	expiresAt time.Time
}

// NewCache creates a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

func dayKey(day time.Time) string {
	return day.UTC().Format("2006-01-02")
}

// Get returns the cached fixtures for the day, or false when missing or
// expired.
func (c *Cache) Get(day time.Time) ([]models.Highlight, bool) {
	c.mu.RLock()
	entry, ok := c.entries[dayKey(day)]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.fixtures, true
}

// Set stores the day's fixtures and drops any expired entries.
func (c *Cache) Set(day time.Time, fixtures []models.Highlight) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.entries[dayKey(day)] = cacheEntry{
		fixtures:  fixtures,
		expiresAt: now.Add(c.ttl),
	}
}

// Invalidate removes the day's entry, forcing the next read to refetch.
func (c *Cache) Invalidate(day time.Time) {
	c.mu.Lock()
	delete(c.entries, dayKey(day))
	c.mu.Unlock()
}
