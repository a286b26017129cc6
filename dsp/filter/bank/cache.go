package bank

import (
	"sync"

	"github.com/cwbudde/algo-acoustics/dsp/octave"
)

// Cache memoises filter designs. It is safe for concurrent use. Each key is
// designed at most once; concurrent requests for the same key wait for the
// first design instead of racing to redo it. Entries are never mutated.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]*cacheEntry
}

// DefaultCache is the process-wide cache used unless WithCache is given.
var DefaultCache = NewCache()

// Band edges fully determine a design, so they stand in for the grid
// parameters (fraction, base, reference, index) that produced them.
type cacheKey struct {
	lower, upper float64
	sampleRate   float64
	order        int
}

type cacheEntry struct {
	once sync.Once
	spec *FilterSpec
	err  error
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]*cacheEntry)}
}

// Design returns the cached design for the band, designing it on first use.
// Failed designs are cached too.
func (c *Cache) Design(band octave.Band, sampleRate float64, order int) (*FilterSpec, error) {
	key := cacheKey{lower: band.Lower, upper: band.Upper, sampleRate: sampleRate, order: order}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.mu.Lock()

		e, ok = c.entries[key]
		if !ok {
			e = &cacheEntry{}
			c.entries[key] = e
		}

		c.mu.Unlock()
	}

	e.once.Do(func() {
		e.spec, e.err = Design(band, sampleRate, order)
	})

	if e.spec == nil || e.spec.Band == band {
		return e.spec, e.err
	}

	// Same edges, different labels (index or nominal): share the sections.
	spec := *e.spec
	spec.Band = band

	return &spec, nil
}

// Len returns the number of cached keys.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Reset drops every entry. Specs already handed out stay valid.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]*cacheEntry)
	c.mu.Unlock()
}
