package sim

import (
	"fmt"
	"math"
)

const (
	// FixedTimeStep is the stable integration step; frames longer than this
	// are split into sub-steps.
	FixedTimeStep = 1.0 / 60.0

	// MaxSubSteps caps per-frame physics work so a frame hitch (a
	// backgrounded window, a debugger pause) cannot explode into an
	// unbounded number of catch-up steps.
	MaxSubSteps = 3

	// HoverClearance is how far above the terrain surface a body floats;
	// the carpet never touches the ground itself.
	HoverClearance = 2.0

	// normalSampleDist is the finite-difference offset for terrain normal
	// estimation. Independent of the height cache resolution; do not
	// conflate the two scales.
	normalSampleDist = 1.0

	airDensity = 1.225

	// minAirSpeed gates aerodynamics: below this there is nothing to
	// normalize against and lift/drag are physically negligible anyway.
	minAirSpeed = 1e-4

	// restingSpeed is the impact speed below which the normal velocity
	// component is absorbed instead of reflected, so a settled body comes
	// to an exact rest on the clearance plane.
	restingSpeed = 0.5
)

// World owns every rigid body and advances them against a terrain height
// field. Bodies are keyed by caller-chosen ids; iteration order is the
// creation order, so stepping is deterministic.
//
// World is frame-driven and single-threaded: Step is never re-entered and
// nothing here locks.
type World struct {
	Gravity     float64 // m/s^2 along world -Y; zero disables
	Restitution float64 // fraction of impact velocity reflected
	Friction    float64 // Coulomb-like coefficient against tangential sliding

	bodies map[string]*RigidBody
	order  []string
	cache  *HeightCache
}

func NewWorld() *World {
	return &World{
		Gravity:     9.81,
		Restitution: 0.3,
		Friction:    0.4,
		bodies:      make(map[string]*RigidBody),
		cache:       NewHeightCache(DefaultCacheResolution, DefaultCacheEntries),
	}
}

// CreateBody registers a new body under id. Mass must be positive and the
// id must be unused.
func (w *World) CreateBody(id string, mass float64) (*RigidBody, error) {
	if mass <= 0 {
		return nil, fmt.Errorf("create body %q: mass must be > 0, got %v", id, mass)
	}
	if _, exists := w.bodies[id]; exists {
		return nil, fmt.Errorf("create body %q: id already exists", id)
	}
	b := newRigidBody(id, mass)
	w.bodies[id] = b
	w.order = append(w.order, id)
	return b, nil
}

// RemoveBody unregisters a body. Removing an unknown id is a no-op.
func (w *World) RemoveBody(id string) {
	if _, exists := w.bodies[id]; !exists {
		return
	}
	delete(w.bodies, id)
	for i, bid := range w.order {
		if bid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
}

// Body returns the body registered under id, or nil.
func (w *World) Body(id string) *RigidBody {
	return w.bodies[id]
}

// Bodies returns the registered bodies in creation order.
func (w *World) Bodies() []*RigidBody {
	out := make([]*RigidBody, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.bodies[id])
	}
	return out
}

// CacheLen reports the height cache occupancy, for telemetry.
func (w *World) CacheLen() int {
	return w.cache.Len()
}

// ResetCache discards all memoized heights. Required after the terrain is
// regenerated; the cache itself has no invalidation.
func (w *World) ResetCache() {
	w.cache = NewHeightCache(w.cache.resolution, w.cache.maxEntries)
}

// Step advances every body by dt seconds against field. dt is split into
// at most MaxSubSteps equal sub-steps no longer than FixedTimeStep where
// possible. Callers must not pass a zero or negative dt.
func (w *World) Step(dt float64, field HeightField) {
	numSteps := int(math.Ceil(dt / FixedTimeStep))
	if numSteps < 1 {
		numSteps = 1
	}
	if numSteps > MaxSubSteps {
		numSteps = MaxSubSteps
	}
	sub := dt / float64(numSteps)

	for _, id := range w.order {
		b := w.bodies[id]
		b.PrevPosition = b.Position
		b.PrevRotation = b.Rotation

		// Controller/input writes accumulated before this call act for the
		// whole frame: re-seed the accumulator each sub-step so gravity and
		// aero from one sub-step never leak into the next.
		extForces := b.Forces
		extTorques := b.Torques

		for i := 0; i < numSteps; i++ {
			b.Forces = extForces
			b.Torques = extTorques

			b.ApplyForce(Vec3{Y: -w.Gravity * b.Mass})
			w.applyAerodynamics(b)

			b.Acceleration = b.Forces.Mul(1.0 / b.Mass)
			b.Position = b.Position.Add(b.Velocity.Mul(sub))
			b.Velocity = b.Velocity.Add(b.Acceleration.Mul(sub))

			w.integrateOrientation(b, sub)
			w.resolveTerrain(b, field)
		}

		b.Forces = Vec3{}
		b.Torques = Vec3{}
	}
}

// applyAerodynamics accumulates angle-of-attack lift and drag. Skipped
// entirely near zero airspeed: normalizing a near-zero velocity is the
// unstable operation, and hover-speed aero forces are negligible.
func (w *World) applyAerodynamics(b *RigidBody) {
	airSpeed := b.Velocity.Length()
	if airSpeed < minAirSpeed {
		return
	}
	dir := b.Velocity.Mul(1.0 / airSpeed)
	angleOfAttack := b.AngleOfAttack()

	sinAoA := math.Sin(angleOfAttack)
	effectiveLift := b.LiftCoefficient * math.Sin(2*angleOfAttack)
	effectiveDrag := b.DragCoefficient + b.LiftCoefficient*sinAoA*sinAoA

	dynamicPressure := 0.5 * airDensity * airSpeed * airSpeed
	b.ApplyForce(b.Up().Mul(effectiveLift * dynamicPressure * b.SurfaceArea))
	b.ApplyForce(dir.Mul(-effectiveDrag * dynamicPressure * b.SurfaceArea))
}

// integrateOrientation composes a world-space delta rotation from the
// angular velocity. Pre-multiplying keeps turn-rate input in world axes
// regardless of the current bank or pitch; post-multiplying would couple
// the two. The quaternion is renormalized every step to bound drift, and
// the Euler view is re-derived from it.
func (w *World) integrateOrientation(b *RigidBody, dt float64) {
	speed := b.AngularVel.Length()
	if speed > minAirSpeed {
		axis := b.AngularVel.Mul(1.0 / speed)
		delta := QuatFromAxisAngle(axis, speed*dt)
		b.Orientation = delta.Mul(b.Orientation)
	}
	b.Orientation = b.Orientation.Normalize()
	b.Rotation = b.Orientation.Euler()
}

// resolveTerrain clamps the body to the terrain clearance plane and
// redirects its velocity. Friction scales with the collision normal impulse,
// not a tracked contact force; do not "correct" this, the flight feel is
// tuned against it.
func (w *World) resolveTerrain(b *RigidBody, field HeightField) {
	ground := w.sampleHeight(field, b.Position.X, b.Position.Z)
	minHeight := ground + HoverClearance
	if b.Position.Y > minHeight {
		return
	}
	b.Position.Y = minHeight

	normal := w.terrainNormal(field, b.Position.X, b.Position.Z)
	vn := b.Velocity.Dot(normal)
	if vn >= 0 {
		return
	}

	if -vn < restingSpeed {
		// Too slow to bounce: absorb the normal component completely
		b.Velocity = b.Velocity.Sub(normal.Mul(vn))
	} else {
		b.Velocity = b.Velocity.Add(normal.Mul(-vn * (1 + w.Restitution)))
	}

	// Coulomb-like friction against the tangential remainder, scaled by
	// the normal impulse that this same contact produced
	tangent := b.Velocity.Sub(normal.Mul(b.Velocity.Dot(normal)))
	tSpeed := tangent.Length()
	if tSpeed < minAirSpeed {
		return
	}
	reduce := w.Friction * -vn
	if reduce > tSpeed {
		reduce = tSpeed
	}
	b.Velocity = b.Velocity.Sub(tangent.Mul(reduce / tSpeed))
}

// terrainNormal estimates the surface normal from two short finite
// differences. The probes bypass the height cache: its cells are far
// coarser than the 1-unit offset, and a gradient taken through them would
// read flat inside a cell and cliff-sized across a cell seam. Three field
// calls per contact is the accepted cost.
func (w *World) terrainNormal(field HeightField, x, z float64) Vec3 {
	h := field(x, z)
	hx := field(x+normalSampleDist, z)
	hz := field(x, z+normalSampleDist)
	return Vec3{
		X: -(hx - h) / normalSampleDist,
		Y: 1,
		Z: -(hz - h) / normalSampleDist,
	}.Normalize()
}

// sampleHeight serves a terrain height through the cache. On a miss the
// field is evaluated at the cell's origin, not at the query point, so a
// later hit anywhere in the cell returns the same height the field would
// produce for that representative point.
func (w *World) sampleHeight(field HeightField, x, z float64) float64 {
	if h, ok := w.cache.Get(x, z); ok {
		return h
	}
	cx, cz := w.cache.CellOrigin(x, z)
	h := field(cx, cz)
	w.cache.Set(x, z, h)
	return h
}
