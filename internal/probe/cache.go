package probe

import "sync"

// Cache memoizes probe results for the lifetime of the process.
//
// Capability availability is assumed stable while the process runs, so
// there is no eviction and no TTL: the first result computed for a key
// is the result every later query sees. Negative results are cached
// too, reason included, so a missing tool is reported without
// re-invoking external processes.
//
// Concurrent first-time evaluations of the same key may both run their
// compute function; the first store wins and both callers observe it.
// The table itself is never corrupted: all reads and writes happen
// under one mutex. The lock is not held across compute, because probes
// evaluate their dependencies through the same cache.
type Cache struct {
	mu      sync.Mutex
	results map[string]Result
}

// NewCache creates an empty result cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]Result)}
}

// GetOrCompute returns the cached result for key, or runs compute,
// stores its outcome, and returns it. If another goroutine stored a
// result for key while compute ran, that result is returned instead so
// every caller sees one consistent verdict per key.
func (c *Cache) GetOrCompute(key string, compute func() Result) Result {
	c.mu.Lock()
	if r, ok := c.results[key]; ok {
		c.mu.Unlock()
		return r
	}
	c.mu.Unlock()

	r := compute()

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.results[key]; ok {
		return prev
	}
	c.results[key] = r
	return r
}

// Get returns the cached result for key, if any.
func (c *Cache) Get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[key]
	return r, ok
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Snapshot returns a copy of the cached results keyed by cache key.
func (c *Cache) Snapshot() map[string]Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]Result, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}

// defaultCache is the process-wide cache used by probes that are not
// given one explicitly. Created at process start, torn down at exit,
// never persisted.
var defaultCache = NewCache()

// DefaultCache returns the process-wide result cache.
func DefaultCache() *Cache {
	return defaultCache
}
