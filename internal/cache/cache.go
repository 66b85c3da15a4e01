// Package cache provides a bounded, staleness-aware memoization layer for
// analysis results.
package cache

import (
	"sync"
	"time"

	"wavescan/internal/models"
)

// Key is a cheap fingerprint of a bar series: first timestamp, last timestamp
// and bar count. It is not a content hash, so two different series with an
// identical shape collide; that false-positive risk is an accepted tradeoff
// for keeping key construction O(1).
type Key struct {
	FirstTimestamp int64
	LastTimestamp  int64
	Count          int
}

// KeyFor builds the fingerprint key for a bar series.
func KeyFor(bars []models.Bar) Key {
	if len(bars) == 0 {
		return Key{}
	}
	return Key{
		FirstTimestamp: bars[0].Timestamp,
		LastTimestamp:  bars[len(bars)-1].Timestamp,
		Count:          len(bars),
	}
}

type entry struct {
	result     *models.AnalysisResult
	insertedAt time.Time
}

// AnalysisCache memoizes analysis results with a bounded capacity and a
// fixed staleness window. Entries older than the window are treated as
// absent even while still stored; when the capacity is exceeded the single
// oldest-inserted entry is evicted (FIFO, not LRU).
//
// Individual operations are mutex-guarded. A concurrent
// check-miss-then-recompute race between two callers of the same key is
// tolerated: both compute, the later Put wins, nothing is corrupted.
type AnalysisCache struct {
	mu       sync.Mutex
	entries  map[Key]entry
	order    []Key // insertion order, oldest first
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

// New creates an AnalysisCache holding at most capacity entries, each valid
// for ttl after insertion.
func New(capacity int, ttl time.Duration) *AnalysisCache {
	return &AnalysisCache{
		entries:  make(map[Key]entry, capacity),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the cached result for key, or (nil, false) when the key is
// absent or its entry has gone stale.
func (c *AnalysisCache) Get(key Key) (*models.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.insertedAt) > c.ttl {
		return nil, false
	}
	return e.result, true
}

// Put stores a result under key, evicting the oldest-inserted entry when the
// capacity bound is exceeded. Re-inserting an existing key refreshes its
// insertion time and moves it to the back of the eviction order.
func (c *AnalysisCache) Put(key Key, result *models.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.removeFromOrder(key)
	}
	c.entries[key] = entry{result: result, insertedAt: c.now()}
	c.order = append(c.order, key)

	for len(c.entries) > c.capacity && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len returns the number of stored entries, stale ones included.
func (c *AnalysisCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *AnalysisCache) removeFromOrder(key Key) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}
