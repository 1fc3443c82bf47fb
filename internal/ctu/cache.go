package ctu

import (
	"math"
	"sync"
	"time"

	"cloudeng.io/algo/container/list"

	"github.com/litescript/ls-ctu/internal/astro"
	"github.com/litescript/ls-ctu/internal/logging"
)

// DefaultCacheSize holds one year of noons for a single longitude.
const DefaultCacheSize = 365

// noonKey identifies one solar noon: a longitude and a UTC calendar day.
type noonKey struct {
	lon float64
	day int64 // Unix seconds of 00:00 UTC
}

type noonEntry struct {
	noon time.Time
	id   list.DoubleID[noonKey]
}

// CacheStats is a point-in-time view of cache usage.
type CacheStats struct {
	Len       int    `json:"len"`
	Capacity  int    `json:"capacity"`
	Hits      uint64 `json:"hits"`
	Misses    uint64 `json:"misses"`
	Evictions uint64 `json:"evictions"`
}

// NoonCache memoizes astro.SolarNoon per (longitude, day) with least
// recently used eviction. It is safe for concurrent use. A nil *NoonCache
// computes every noon afresh.
type NoonCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[noonKey]*noonEntry
	order    *list.Double[noonKey] // most recently used first
	compute  func(lonDeg float64, day time.Time) time.Time
	log      *logging.Logger

	hits, misses, evictions uint64
}

// NewNoonCache creates a cache holding at most capacity noons. A capacity
// below one uses DefaultCacheSize.
func NewNoonCache(capacity int) *NoonCache {
	if capacity < 1 {
		capacity = DefaultCacheSize
	}
	return &NoonCache{
		capacity: capacity,
		entries:  make(map[noonKey]*noonEntry, capacity),
		order:    list.NewDouble[noonKey](),
		compute:  astro.SolarNoon,
		log:      logging.Discard(),
	}
}

// SetLogger sets the logger evictions are reported to.
func (c *NoonCache) SetLogger(log *logging.Logger) {
	if c == nil || log == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.log = log
}

// Get returns solar noon at lonDeg on the UTC calendar day containing day.
func (c *NoonCache) Get(lonDeg float64, day time.Time) time.Time {
	midnight := astro.UTCMidnight(day)
	if c == nil || math.IsNaN(lonDeg) {
		return astro.SolarNoon(lonDeg, midnight)
	}
	key := noonKey{lon: lonDeg, day: midnight.Unix()}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.hits++
		c.order.RemoveItem(e.id)
		e.id = c.order.Prepend(key)
		return e.noon
	}

	c.misses++
	noon := c.compute(lonDeg, midnight)
	if c.order.Len() >= c.capacity {
		oldest := c.order.Tail()
		c.order.RemoveItem(c.entries[oldest].id)
		delete(c.entries, oldest)
		c.evictions++
		c.log.Debug("evicted noon for %.4f° on %s", oldest.lon,
			time.Unix(oldest.day, 0).UTC().Format(time.DateOnly))
	}
	c.entries[key] = &noonEntry{noon: noon, id: c.order.Prepend(key)}
	return noon
}

// Stats returns current usage counters.
func (c *NoonCache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Len:       c.order.Len(),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

// Purge removes every entry. Counters are kept.
func (c *NoonCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[noonKey]*noonEntry, c.capacity)
	c.order.Reset()
}
