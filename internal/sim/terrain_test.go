package sim_test

import (
	"math"
	"testing"

	sim "github.com/dusterbloom/magical-carpet-sub004/internal/sim"
)

func TestTerrainDeterministic(t *testing.T) {
	a := sim.NewTerrain(42)
	b := sim.NewTerrain(42)
	for _, p := range [][2]float64{{0, 0}, {13.7, -882.2}, {5000, 5000}, {-31.5, 0.01}} {
		ha := a.HeightAt(p[0], p[1])
		hb := b.HeightAt(p[0], p[1])
		if ha != hb {
			t.Fatalf("same seed diverged at %v: %v vs %v", p, ha, hb)
		}
	}
}

func TestTerrainSeedChangesShape(t *testing.T) {
	a := sim.NewTerrain(1)
	b := sim.NewTerrain(2)
	diff := false
	for x := -500.0; x <= 500.0 && !diff; x += 97 {
		for z := -500.0; z <= 500.0; z += 97 {
			if a.HeightAt(x, z) != b.HeightAt(x, z) {
				diff = true
				break
			}
		}
	}
	if !diff {
		t.Fatalf("different seeds produced identical terrain")
	}
}

func TestTerrainBounded(t *testing.T) {
	tr := sim.NewTerrain(7)
	// Swells contribute at most 21; octaves at most 2*Amplitude
	limit := 21.0 + 2*tr.Amplitude
	for x := -3000.0; x <= 3000.0; x += 211 {
		for z := -3000.0; z <= 3000.0; z += 211 {
			h := tr.HeightAt(x, z)
			if math.IsNaN(h) || math.Abs(h) > limit {
				t.Fatalf("height out of range at (%v,%v): %v", x, z, h)
			}
		}
	}
}

func TestTerrainFieldMatchesHeightAt(t *testing.T) {
	tr := sim.NewTerrain(9)
	f := tr.Field()
	if f(123.4, -56.7) != tr.HeightAt(123.4, -56.7) {
		t.Fatalf("Field() must sample the same surface")
	}
}
