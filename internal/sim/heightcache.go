package sim

import (
	"math"
)

// HeightCache memoizes terrain elevation per grid cell so the expensive
// height function is not re-evaluated for every nearby query. Keys snap to
// the lower-left corner of a fixed-resolution cell; two queries inside the
// same cell share one entry.
//
// Eviction is oldest-inserted-first, not LRU. A hot cell inserted long ago
// can still be evicted while a colder, newer one survives. That keeps Set
// at O(1) with no per-access bookkeeping, which is the right trade for a
// cache refilled from a time-invariant height field.
//
// There is no invalidation: if the terrain is regenerated the owner must
// discard the cache and build a new one.
type HeightCache struct {
	resolution float64
	maxEntries int
	entries    map[cacheKey]float64
	order      []cacheKey // insertion order, oldest first
	head       int        // index of the oldest live key in order
}

type cacheKey struct {
	X, Z float64
}

const (
	// DefaultCacheResolution is the grid cell size in world units. It is
	// independent of the 1-unit sampling distance used for terrain normals
	// and the two must not be conflated.
	DefaultCacheResolution = 32.0

	// DefaultCacheEntries bounds the cache footprint.
	DefaultCacheEntries = 1000
)

func NewHeightCache(resolution float64, maxEntries int) *HeightCache {
	if resolution <= 0 {
		resolution = DefaultCacheResolution
	}
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &HeightCache{
		resolution: resolution,
		maxEntries: maxEntries,
		entries:    make(map[cacheKey]float64, maxEntries),
	}
}

func (c *HeightCache) key(x, z float64) cacheKey {
	return cacheKey{
		X: math.Floor(x/c.resolution) * c.resolution,
		Z: math.Floor(z/c.resolution) * c.resolution,
	}
}

// CellOrigin returns the lower-left corner of the cell containing (x, z),
// the representative point a populator should evaluate the height field at.
func (c *HeightCache) CellOrigin(x, z float64) (float64, float64) {
	k := c.key(x, z)
	return k.X, k.Z
}

// Get returns the cached elevation for the cell containing (x, z).
// It never computes; a miss simply reports false.
func (c *HeightCache) Get(x, z float64) (float64, bool) {
	h, ok := c.entries[c.key(x, z)]
	return h, ok
}

// Set stores elevation under the snapped cell key, evicting exactly one
// entry (the oldest-inserted) when the cache is full.
func (c *HeightCache) Set(x, z, elevation float64) {
	k := c.key(x, z)
	if _, exists := c.entries[k]; exists {
		c.entries[k] = elevation
		return
	}
	if len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}
	c.entries[k] = elevation
	c.order = append(c.order, k)
	c.compact()
}

func (c *HeightCache) evictOldest() {
	for c.head < len(c.order) {
		k := c.order[c.head]
		c.head++
		if _, live := c.entries[k]; live {
			delete(c.entries, k)
			return
		}
	}
}

// compact reclaims the consumed prefix of the order slice once it dominates,
// keeping memory proportional to the live entry count.
func (c *HeightCache) compact() {
	if c.head > 0 && c.head >= len(c.order)/2 && len(c.order) > 64 {
		c.order = append(c.order[:0], c.order[c.head:]...)
		c.head = 0
	}
}

// Len reports the number of stored cells.
func (c *HeightCache) Len() int {
	return len(c.entries)
}

// Resolution returns the grid cell size in world units.
func (c *HeightCache) Resolution() float64 {
	return c.resolution
}
