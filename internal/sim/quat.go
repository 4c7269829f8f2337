package sim

import (
	"math"
)

// Quat is a unit quaternion (W scalar part). It is the authoritative
// rotation for a rigid body; Euler angles are only ever derived from it.
type Quat struct {
	W, X, Y, Z float64
}

func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle builds a rotation of angle radians about a unit axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	half := angle * 0.5
	s := math.Sin(half)
	return Quat{
		W: math.Cos(half),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}
}

// QuatFromEuler builds a quaternion from pitch (X), yaw (Y), roll (Z)
// using the same Yaw*Pitch*Roll composition the matrix helpers use.
func QuatFromEuler(pitch, yaw, roll float64) Quat {
	qy := QuatFromAxisAngle(Vec3{0, 1, 0}, yaw)
	qx := QuatFromAxisAngle(Vec3{1, 0, 0}, pitch)
	qz := QuatFromAxisAngle(Vec3{0, 0, 1}, roll)
	return qy.Mul(qx).Mul(qz)
}

// Mul composes rotations: (q.Mul(r)).Rotate(v) == q.Rotate(r.Rotate(v)).
func (q Quat) Mul(r Quat) Quat {
	return Quat{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

func (q Quat) Length() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize rescales to unit length. A degenerate zero quaternion becomes
// the identity rather than propagating NaNs into the physics state.
func (q Quat) Normalize() Quat {
	l := q.Length()
	if l == 0 {
		return IdentityQuat()
	}
	inv := 1.0 / l
	return Quat{q.W * inv, q.X * inv, q.Y * inv, q.Z * inv}
}

// Rotate applies the rotation to a vector: v' = q v q*.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v + 2*qv x (qv x v + w*v), one cross fewer than the naive triple product
	qv := Vec3{q.X, q.Y, q.Z}
	t := qv.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(qv.Cross(t))
}

// Euler projects the quaternion onto pitch (X), yaw (Y), roll (Z) for the
// Yaw*Pitch*Roll order. This is a derived view only; gimbal ambiguity here
// never feeds back into the stored orientation.
func (q Quat) Euler() Vec3 {
	// Rotation matrix elements needed for the extraction
	m02 := 2 * (q.X*q.Z + q.W*q.Y)
	m10 := 2 * (q.X*q.Y + q.W*q.Z)
	m11 := 1 - 2*(q.X*q.X+q.Z*q.Z)
	m12 := 2 * (q.Y*q.Z - q.W*q.X)
	m22 := 1 - 2*(q.X*q.X+q.Y*q.Y)

	sp := -m12
	if sp > 1 {
		sp = 1
	}
	if sp < -1 {
		sp = -1
	}
	return Vec3{
		X: math.Asin(sp),
		Y: math.Atan2(m02, m22),
		Z: math.Atan2(m10, m11),
	}
}
