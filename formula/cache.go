package formula

import (
	"sync"
	"sync/atomic"

	"github.com/zeebo/xxh3"
)

// DefaultMaxCacheSize is the default bound on cached parse trees.
const DefaultMaxCacheSize = 1000

// evictFraction is the coarse share of entries removed in one eviction
// pass once the cache exceeds its bound.
const evictFraction = 5 // one fifth

// astCache is a process-wide bounded cache of parsed expressions keyed by
// the xxh3 hash of the source text. Reads are lock-free; eviction runs
// under a single mutex and removes the oldest entries in insertion (FIFO)
// order.
type astCache struct {
	entries sync.Map // uint64 → *cacheEntry
	evictMu sync.Mutex
	count   atomic.Int64
	max     atomic.Int64
	seq     atomic.Uint64
}

type cacheEntry struct {
	root node
	seq  uint64
}

//nolint:gochecknoglobals
var sharedCache = newASTCache()

func newASTCache() *astCache {
	c := &astCache{}
	c.max.Store(DefaultMaxCacheSize)

	return c
}

func cacheKey(src string) uint64 {
	return xxh3.Hash([]byte(src))
}

func (c *astCache) load(src string) (node, bool) {
	v, ok := c.entries.Load(cacheKey(src))
	if !ok {
		return nil, false
	}

	entry, ok := v.(*cacheEntry)
	if !ok {
		return nil, false
	}

	return entry.root, true
}

func (c *astCache) store(src string, root node) {
	entry := &cacheEntry{root: root, seq: c.seq.Add(1)}

	if _, loaded := c.entries.LoadOrStore(cacheKey(src), entry); loaded {
		// A concurrent compile of the same source won the race;
		// this tree is discarded.
		return
	}

	if c.count.Add(1) > c.max.Load() {
		c.evict()
	}
}

// evict removes roughly a fifth of the cache, oldest first, in a single
// critical section. Concurrent reads continue lock-free throughout.
func (c *astCache) evict() {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	max := c.max.Load()
	if c.count.Load() <= max {
		return
	}

	type keyed struct {
		key uint64
		seq uint64
	}

	all := make([]keyed, 0, c.count.Load())

	c.entries.Range(func(k, v any) bool {
		key, kok := k.(uint64)

		entry, eok := v.(*cacheEntry)
		if kok && eok {
			all = append(all, keyed{key: key, seq: entry.seq})
		}

		return true
	})

	drop := len(all) / evictFraction
	if drop < 1 {
		drop = 1
	}

	// Selection sort over the drop count is adequate: drop is small and
	// eviction is already the slow path.
	for range drop {
		oldest := 0

		for j := 1; j < len(all); j++ {
			if all[j].seq < all[oldest].seq {
				oldest = j
			}
		}

		c.entries.Delete(all[oldest].key)
		c.count.Add(-1)

		all[oldest] = all[len(all)-1]
		all = all[:len(all)-1]
	}
}

func (c *astCache) clear() {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	c.entries.Range(func(k, _ any) bool {
		c.entries.Delete(k)

		return true
	})

	c.count.Store(0)
}

// CacheStats reports compilation cache occupancy.
type CacheStats struct {
	// Entries is the number of cached parse trees.
	Entries int

	// MaxSize is the configured bound.
	MaxSize int
}

// Stats returns current cache occupancy.
func Stats() CacheStats {
	return CacheStats{
		Entries: int(sharedCache.count.Load()),
		MaxSize: int(sharedCache.max.Load()),
	}
}

// ClearCache empties the process-wide compilation cache.
func ClearCache() {
	sharedCache.clear()
}

// MaxCacheSize returns the configured cache bound.
func MaxCacheSize() int {
	return int(sharedCache.max.Load())
}

// SetMaxCacheSize reconfigures the cache bound. Values below one are
// clamped to one. Shrinking triggers an immediate eviction pass.
func SetMaxCacheSize(n int) {
	if n < 1 {
		n = 1
	}

	sharedCache.max.Store(int64(n))

	if sharedCache.count.Load() > int64(n) {
		sharedCache.evict()
	}
}
