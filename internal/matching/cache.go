package matching

import (
	"sync"
	"time"

	"github.com/spigell/cupid-matcher/internal/profile"
)

const DefaultCacheTTL = 5 * time.Minute

type cacheEntry struct {
	timestamp time.Time
	data      profile.MatchedProfile
}

// Cache keeps successful match results for a short time.
// Expired entries are evicted lazily on Get.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

// NewCache creates a cache. A non-positive ttl means DefaultCacheTTL and a
// nil clock means time.Now.
func NewCache(ttl time.Duration, clock func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     clock,
		entries: make(map[string]cacheEntry),
	}
}

// CacheKey builds the key for a lookup. (a, b) and (b, a) are different keys.
func CacheKey(requesterID, targetID string) string {
	return "match:" + requesterID + ":" + targetID
}

func (c *Cache) Get(key string) (profile.MatchedProfile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return profile.MatchedProfile{}, false
	}
	if c.now().Sub(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		return profile.MatchedProfile{}, false
	}
	return entry.data, true
}

func (c *Cache) Set(key string, data profile.MatchedProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{timestamp: c.now(), data: data}
}

func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}
