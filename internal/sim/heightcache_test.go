package sim_test

import (
	"testing"

	sim "github.com/dusterbloom/magical-carpet-sub004/internal/sim"
)

func TestCacheQuantization(t *testing.T) {
	c := sim.NewHeightCache(32, 100)
	c.Set(5, 5, 7.5)

	// Any point inside the same 32x32 cell shares the entry
	if h, ok := c.Get(20, 31.9); !ok || h != 7.5 {
		t.Fatalf("expected hit with 7.5, got %v ok=%v", h, ok)
	}
	// The neighboring cell does not
	if _, ok := c.Get(33, 5); ok {
		t.Fatalf("expected miss in adjacent cell")
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestCacheNegativeCoordinates(t *testing.T) {
	c := sim.NewHeightCache(32, 100)
	c.Set(-31, -1, 3.0)

	// Floor snapping puts (-31,-1) and (-1,-31) in the cell at (-32,-32)
	if h, ok := c.Get(-1, -31); !ok || h != 3.0 {
		t.Fatalf("expected hit with 3.0, got %v ok=%v", h, ok)
	}
	// (0,0) is a different cell
	if _, ok := c.Get(0, 0); ok {
		t.Fatalf("expected miss at origin")
	}
}

func TestCellOrigin(t *testing.T) {
	c := sim.NewHeightCache(32, 100)
	x, z := c.CellOrigin(40.9, -0.1)
	if x != 32 || z != -32 {
		t.Fatalf("expected cell origin (32,-32), got (%v,%v)", x, z)
	}
	x, z = c.CellOrigin(0, 0)
	if x != 0 || z != 0 {
		t.Fatalf("expected cell origin (0,0), got (%v,%v)", x, z)
	}
}

func TestCacheGetNeverInserts(t *testing.T) {
	c := sim.NewHeightCache(32, 100)
	if _, ok := c.Get(10, 10); ok {
		t.Fatalf("expected miss on empty cache")
	}
	if c.Len() != 0 {
		t.Fatalf("Get must not insert, got len %d", c.Len())
	}
}

func TestCacheBound(t *testing.T) {
	c := sim.NewHeightCache(1, 10)
	for i := 0; i < 25; i++ {
		c.Set(float64(i), 0, float64(i))
	}
	if c.Len() != 10 {
		t.Fatalf("expected len capped at 10, got %d", c.Len())
	}
}

func TestCacheEvictsOldestInserted(t *testing.T) {
	c := sim.NewHeightCache(1, 3)
	c.Set(0, 0, 0)
	c.Set(1, 0, 1)
	c.Set(2, 0, 2)

	// Re-reading the oldest entry must not refresh its eviction position
	if _, ok := c.Get(0, 0); !ok {
		t.Fatalf("expected hit before eviction")
	}

	c.Set(3, 0, 3)
	if _, ok := c.Get(0, 0); ok {
		t.Fatalf("expected oldest entry evicted")
	}
	for i := 1; i <= 3; i++ {
		if h, ok := c.Get(float64(i), 0); !ok || h != float64(i) {
			t.Fatalf("expected entry %d to survive, got %v ok=%v", i, h, ok)
		}
	}
}

func TestCacheUpdateInPlace(t *testing.T) {
	c := sim.NewHeightCache(1, 3)
	c.Set(0, 0, 0)
	c.Set(1, 0, 1)
	c.Set(2, 0, 2)

	// Overwriting a full cache's existing cell must not evict anything
	c.Set(0, 0, 9)
	if c.Len() != 3 {
		t.Fatalf("expected len 3 after update, got %d", c.Len())
	}
	if h, _ := c.Get(0, 0); h != 9 {
		t.Fatalf("expected updated value 9, got %v", h)
	}
	if _, ok := c.Get(1, 0); !ok {
		t.Fatalf("update must not evict")
	}
}
