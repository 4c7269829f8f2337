package sim

import (
	"math"
)

// HeightField is the external terrain elevation collaborator: a pure,
// deterministic function of world (x, z). The physics core only ever reads
// it, through the height cache.
type HeightField func(x, z float64) float64

// Terrain is the default height provider: seeded fractal value noise over
// long sine swells. Sampling is seam-safe because it hashes world
// coordinates directly instead of walking an RNG.
type Terrain struct {
	Seed      uint32
	Amplitude float64 // peak height of the noise octaves
	Scale     float64 // world units per noise cell at the base octave
	Octaves   int
}

func NewTerrain(seed uint32) *Terrain {
	return &Terrain{
		Seed:      seed,
		Amplitude: 38.0,
		Scale:     180.0,
		Octaves:   4,
	}
}

// Field returns the terrain as a plain HeightField value.
func (t *Terrain) Field() HeightField {
	return t.HeightAt
}

// HeightAt returns the elevation at world (x, z).
func (t *Terrain) HeightAt(x, z float64) float64 {
	// Broad rolling swells so the world reads as hills even far from spawn
	swell := 12.0*math.Sin(x/640.0) + 9.0*math.Sin((x+z)/410.0)

	amp := t.Amplitude
	scale := t.Scale
	sum := 0.0
	for o := 0; o < t.Octaves; o++ {
		sum += amp * t.valueNoise(x/scale, z/scale, uint32(o))
		amp *= 0.5
		scale *= 0.5
	}
	return swell + sum
}

// valueNoise is bilinear-interpolated lattice noise in [-1, 1].
func (t *Terrain) valueNoise(x, z float64, octave uint32) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	fx := x - x0
	fz := z - z0
	// Smoothstep fade removes lattice creasing
	fx = fx * fx * (3 - 2*fx)
	fz = fz * fz * (3 - 2*fz)

	ix := int32(x0)
	iz := int32(z0)
	seed := t.Seed ^ (octave * 0x9e3779b1)
	h00 := latticeValue(seed, ix, iz)
	h10 := latticeValue(seed, ix+1, iz)
	h01 := latticeValue(seed, ix, iz+1)
	h11 := latticeValue(seed, ix+1, iz+1)

	top := h00 + (h10-h00)*fx
	bot := h01 + (h11-h01)*fx
	return top + (bot-top)*fz
}

// latticeValue maps an integer lattice point to a stable value in [-1, 1].
func latticeValue(seed uint32, x, z int32) float64 {
	h := hash2(seed, x, z)
	return float64(h)/float64(math.MaxUint32)*2 - 1
}

// hash2 mixes 2D integer coordinates and a seed into a well-distributed
// 32-bit value (Murmur-finalizer style avalanche).
func hash2(seed uint32, x, z int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(z) * 0x85ebca6b
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}
