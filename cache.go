package sqlbridge

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/sqlbridge/sqlbridge/shared/types"
)

// Fingerprint derives the deterministic cache key for a query: a pure
// function of the database name, the trimmed query text and the ordered
// parameters.
func Fingerprint(database, query string, params []string) string {
	h := md5.New()
	h.Write([]byte(database))
	h.Write([]byte{0})
	h.Write([]byte(strings.TrimSpace(query)))
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// defaultCacheCapacity bounds the entry map so a long-lived process cannot
// grow it without limit.
const defaultCacheCapacity = 1024

type cacheEntry struct {
	result     types.QueryResult
	insertedAt time.Time
}

// QueryCache is a TTL-bounded map from query fingerprints to previously
// computed results. Expired entries are logically absent and evicted lazily.
// Entries are immutable once inserted and replaced wholesale.
type QueryCache struct {
	ttl      time.Duration
	capacity int
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewQueryCache creates a cache with the given TTL. A zero or negative
// capacity selects the default bound.
func NewQueryCache(ttl time.Duration, capacity int) *QueryCache {
	if capacity <= 0 {
		capacity = defaultCacheCapacity
	}
	return &QueryCache{
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		entries:  map[string]cacheEntry{},
	}
}

// Get returns the cached result for key while it is fresh. Both absent and
// expired entries report a miss; expired ones are dropped on the way out.
func (c *QueryCache) Get(key string) (types.QueryResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return types.QueryResult{}, false
	}
	if c.now().Sub(entry.insertedAt) >= c.ttl {
		delete(c.entries, key)
		return types.QueryResult{}, false
	}
	return entry.result, true
}

// Put stores a result under key with the current timestamp, evicting the
// oldest entry when the capacity bound is reached.
func (c *QueryCache) Put(key string, result types.QueryResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}
	c.entries[key] = cacheEntry{result: result, insertedAt: c.now()}
}

// Len reports the number of stored entries, expired ones included.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Purge drops every stored entry.
func (c *QueryCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]cacheEntry{}
}

// evictOldestLocked removes the entry with the oldest insertion time.
// Caller holds the lock.
func (c *QueryCache) evictOldestLocked() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, entry := range c.entries {
		if first || entry.insertedAt.Before(oldest) {
			oldestKey, oldest, first = key, entry.insertedAt, false
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
