package typist

import (
	"log/slog"
	"sync"

	"github.com/corona10/goimagehash"

	"github.com/typistry/typist/imageutil"
)

// matchCache remembers which palette index a tile resolved to, keyed by
// the tile's 64-bit average perceptual hash. Exact hash repeats are common
// in flat image regions; a positive distance additionally collapses near
// duplicates at the cost of a linear probe over prior entries.
type matchCache struct {
	mu          sync.Mutex
	exact       map[uint64]int
	entries     []cacheEntry
	maxDistance int
	hits        int
	misses      int
}

type cacheEntry struct {
	hash  *goimagehash.ImageHash
	index int
}

func newMatchCache(maxDistance int) *matchCache {
	return &matchCache{
		exact:       make(map[uint64]int),
		maxDistance: maxDistance,
	}
}

// tileHash computes the average perceptual hash of a tile, or nil when the
// tile cannot be hashed. Callers hash once and reuse the result for both
// lookup and store.
func tileHash(img *imageutil.RGBAImage) *goimagehash.ImageHash {
	hash, err := goimagehash.AverageHash(img)
	if err != nil {
		slog.Debug("tile hash failed", "error", err)
		return nil
	}
	return hash
}

// lookup resolves a hash to a previously stored palette index. Every call
// counts as a hit or a miss.
func (c *matchCache) lookup(hash *goimagehash.ImageHash) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if idx, ok := c.exact[hash.GetHash()]; ok {
		c.hits++
		return idx, true
	}
	if c.maxDistance > 0 {
		for _, e := range c.entries {
			d, err := hash.Distance(e.hash)
			if err != nil {
				continue
			}
			if d <= c.maxDistance {
				c.hits++
				return e.index, true
			}
		}
	}
	c.misses++
	return 0, false
}

// store records the palette index a hash resolved to. The first entry for
// a hash wins; concurrent duplicate stores resolve to the same index
// anyway because the palette is fixed for the run.
func (c *matchCache) store(hash *goimagehash.ImageHash, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := hash.GetHash()
	if _, ok := c.exact[key]; ok {
		return
	}
	c.exact[key] = index
	if c.maxDistance > 0 {
		c.entries = append(c.entries, cacheEntry{hash: hash, index: index})
	}
}

func (c *matchCache) stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
