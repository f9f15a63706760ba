package engine

import (
	"sort"
	"sync"
)

// FieldStats summarizes the finite-numeric observations of one field across
// a feature collection. Count is the number of valid samples, not the total
// feature count.
type FieldStats struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Count  int
}

// ComputeFieldStats computes min/max/mean/median/count for a named field.
//
// Non-numeric, nil, NaN, and infinite values are excluded from the sample,
// not coerced. Returns nil when zero valid samples exist; callers must treat
// nil as "no graduated styling possible for this field", not as zero.
//
// Median is the sorted sample at index count/2 (floor division), not the
// interpolated midpoint for even-length samples. That convention is kept
// deliberately; changing it would shift existing graduated defaults.
func ComputeFieldStats(records []Record, field string) *FieldStats {
	samples := make([]float64, 0, len(records))
	for _, r := range records {
		if v, ok := numericValue(r[field]); ok {
			samples = append(samples, v)
		}
	}
	if len(samples) == 0 {
		return nil
	}

	sort.Float64s(samples)
	sum := 0.0
	for _, v := range samples {
		sum += v
	}

	return &FieldStats{
		Min:    samples[0],
		Max:    samples[len(samples)-1],
		Mean:   sum / float64(len(samples)),
		Median: samples[len(samples)/2],
		Count:  len(samples),
	}
}

// statsKey identifies one cached statistics entry.
type statsKey struct {
	layer string
	field string
}

// StatsCache memoizes FieldStats per (layer, field) pair.
//
// Computing statistics is O(n) over all features of a layer, so the engine
// computes them once per configuration change and reuses the result across
// render passes. Entries are invalidated per layer when the underlying
// feature set changes. A nil result (field absent or entirely non-numeric)
// is cached like any other.
type StatsCache struct {
	mu      sync.RWMutex
	entries map[statsKey]*FieldStats
}

// NewStatsCache creates an empty cache.
func NewStatsCache() *StatsCache {
	return &StatsCache{
		entries: make(map[statsKey]*FieldStats),
	}
}

// Get returns the cached stats for (layer, field), calling load on a miss.
//
// The loader runs outside the lock; concurrent misses for the same key may
// both compute, with one result kept. Statistics are deterministic for a
// fixed feature set, so duplicate computation is harmless.
func (c *StatsCache) Get(layer, field string, load func() *FieldStats) *FieldStats {
	key := statsKey{layer: layer, field: field}

	c.mu.RLock()
	stats, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return stats
	}

	stats = load()

	c.mu.Lock()
	c.entries[key] = stats
	c.mu.Unlock()
	return stats
}

// Invalidate drops every cached field for the given layer.
func (c *StatsCache) Invalidate(layer string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.layer == layer {
			delete(c.entries, key)
		}
	}
}

// Len returns the number of cached entries.
func (c *StatsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
