package typist

import (
	"testing"

	"github.com/typistry/typist/imageutil"
)

func TestMatchCacheExact(t *testing.T) {
	cache := newMatchCache(0)

	checker := tileHash(imageutil.CreateCheckerboardImage(20, 20, 5))
	gradient := tileHash(imageutil.CreateGradientImage(20, 20))
	if checker == nil || gradient == nil {
		t.Fatal("Hashing test tiles failed")
	}

	if _, ok := cache.lookup(checker); ok {
		t.Error("Expected a miss on an empty cache")
	}
	cache.store(checker, 7)

	idx, ok := cache.lookup(checker)
	if !ok || idx != 7 {
		t.Errorf("Expected a hit with index 7, got %d, %v", idx, ok)
	}
	if _, ok := cache.lookup(gradient); ok {
		t.Error("Expected a different pattern to miss at distance 0")
	}

	hits, misses := cache.stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Expected 1 hit and 2 misses, got %d and %d", hits, misses)
	}
}

func TestMatchCacheApproximate(t *testing.T) {
	// At the maximum distance every 64-bit hash is within range, so any
	// stored entry serves any lookup.
	cache := newMatchCache(64)

	cache.store(tileHash(imageutil.CreateCheckerboardImage(20, 20, 5)), 3)

	idx, ok := cache.lookup(tileHash(imageutil.CreateGradientImage(20, 20)))
	if !ok || idx != 3 {
		t.Errorf("Expected an approximate hit with index 3, got %d, %v", idx, ok)
	}
}

func TestMatchCacheFirstStoreWins(t *testing.T) {
	cache := newMatchCache(0)
	hash := tileHash(imageutil.CreateCheckerboardImage(20, 20, 5))

	cache.store(hash, 1)
	cache.store(hash, 2)

	if idx, ok := cache.lookup(hash); !ok || idx != 1 {
		t.Errorf("Expected the first stored index, got %d, %v", idx, ok)
	}
}
