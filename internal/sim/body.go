package sim

import (
	"math"
)

// RigidBody is a flying body simulated by the World: the magical carpet,
// and anything else that needs gravity, lift and terrain following.
type RigidBody struct {
	ID string

	// Kinematic state, world space
	Position     Vec3
	Velocity     Vec3
	Acceleration Vec3

	// Orientation is the authoritative rotation. Rotation is the derived
	// Euler view (pitch X, yaw Y, roll Z), recomputed from the quaternion
	// every step and never written back into it.
	Orientation Quat
	Rotation    Vec3
	AngularVel  Vec3 // rad/s, world axes

	// Single-frame accumulators. Anything written here acts for exactly one
	// World.Step call; the step clears them. A force that should persist
	// must be re-applied every frame.
	Forces  Vec3
	Torques Vec3

	// Previous state for render interpolation
	PrevPosition Vec3
	PrevRotation Vec3

	// Fixed at creation
	Mass float64

	// Aerodynamic parameters, tunable by the controller layer
	SurfaceArea     float64
	DragCoefficient float64
	LiftCoefficient float64

	// Visual footprint in meters (length, height, width)
	Dimensions Vec3
}

func newRigidBody(id string, mass float64) *RigidBody {
	return &RigidBody{
		ID:          id,
		Orientation: IdentityQuat(),
		Mass:        mass,

		// Carpet-ish defaults; a 2x3 m rug with a generous lift surface
		SurfaceArea:     6.0,
		DragCoefficient: 0.08,
		LiftCoefficient: 0.6,
		Dimensions:      Vec3{X: 2.0, Y: 0.12, Z: 3.0},
	}
}

// ApplyForce accumulates a world-space force for the current frame.
func (b *RigidBody) ApplyForce(f Vec3) {
	b.Forces = b.Forces.Add(f)
}

// ApplyTorque accumulates a world-space torque for the current frame.
func (b *RigidBody) ApplyTorque(t Vec3) {
	b.Torques = b.Torques.Add(t)
}

// Forward is the body's local +Z axis in world space.
func (b *RigidBody) Forward() Vec3 {
	return b.Orientation.Rotate(Vec3{Z: 1})
}

// Up is the body's local +Y axis in world space.
func (b *RigidBody) Up() Vec3 {
	return b.Orientation.Rotate(Vec3{Y: 1})
}

// Right is the body's local +X axis in world space.
func (b *RigidBody) Right() Vec3 {
	return b.Orientation.Rotate(Vec3{X: 1})
}

// AirSpeed is the magnitude of the body's velocity.
func (b *RigidBody) AirSpeed() float64 {
	return b.Velocity.Length()
}

// AngleOfAttack is the angle between the nose and the flight path, in
// radians. Zero when the body is not meaningfully moving.
func (b *RigidBody) AngleOfAttack() float64 {
	speed := b.Velocity.Length()
	if speed < minAirSpeed {
		return 0
	}
	cos := b.Forward().Dot(b.Velocity.Mul(1.0 / speed))
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

// GetTransformMatrix builds the model matrix for rendering: T * R * S with
// the same Yaw*Pitch*Roll rotation order the Euler view uses.
func (b *RigidBody) GetTransformMatrix() Mat4 {
	return transformAt(b.Position, b.Rotation, b.Dimensions)
}

// GetTransformMatrixInterpolated blends previous and current state by
// alpha in [0,1] so rendering between fixed steps stays smooth.
func (b *RigidBody) GetTransformMatrixInterpolated(alpha float64) Mat4 {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	p := b.PrevPosition.Add(b.Position.Sub(b.PrevPosition).Mul(alpha))
	r := b.PrevRotation.Add(b.Rotation.Sub(b.PrevRotation).Mul(alpha))
	return transformAt(p, r, b.Dimensions)
}

func transformAt(p, r, dims Vec3) Mat4 {
	translation := TranslationMat4(p)
	rot := RotationYMat4(r.Y).Mul(RotationXMat4(r.X)).Mul(RotationZMat4(r.Z))
	scale := ScaleMat4(dims.X, dims.Y, dims.Z)
	return translation.Mul(rot).Mul(scale)
}
