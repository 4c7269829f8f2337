package sim

import (
	"math"
)

// Vec3 is a world-space vector or point. Methods are value-based; nothing
// here mutates the receiver.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3    { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3    { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Length() float64    { return math.Sqrt(v.Dot(v)) }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Mul(1 / l)
}

// NormalizeSafe normalizes unless |v| < eps, in which case it returns zero.
func (v Vec3) NormalizeSafe(eps float64) Vec3 {
	if v.Length() < eps {
		return Vec3{}
	}
	return v.Normalize()
}

func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

// Mat4 is a 4x4 matrix in column-major order, ready for OpenGL upload.
type Mat4 [16]float64

func IdentityMat4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// PerspectiveMat4 builds a right-handed projection. fovy is in degrees,
// aspect = width/height, NDC z spans [-1,1].
func PerspectiveMat4(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy*math.Pi/360.0)
	nf := 1.0 / (near - far)
	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// LookAtMat4 builds a right-handed view matrix. A view direction parallel
// to up gets a substitute up axis instead of a degenerate basis.
func LookAtMat4(eye, center, up Vec3) Mat4 {
	const eps = 1e-8

	f := center.Sub(eye).NormalizeSafe(eps)
	s := f.Cross(up)
	if s.Length() < eps {
		alt := Vec3{X: 1}
		if math.Abs(f.X) >= 0.9 {
			alt = Vec3{Y: 1}
		}
		s = f.Cross(alt)
	}
	s = s.Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, s.Y, s.Z, 0,
		u.X, u.Y, u.Z, 0,
		-f.X, -f.Y, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

func TranslationMat4(v Vec3) Mat4 {
	m := IdentityMat4()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

func RotationXMat4(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := IdentityMat4()
	m[5], m[9] = c, -s
	m[6], m[10] = s, c
	return m
}

func RotationYMat4(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := IdentityMat4()
	m[0], m[8] = c, s
	m[2], m[10] = -s, c
	return m
}

func RotationZMat4(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := IdentityMat4()
	m[0], m[4] = c, -s
	m[1], m[5] = s, c
	return m
}

func ScaleMat4(sx, sy, sz float64) Mat4 {
	m := IdentityMat4()
	m[0], m[5], m[10] = sx, sy, sz
	return m
}

// Mul returns m * other (column-major composition).
func (m Mat4) Mul(other Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * other[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// MulDirection rotates a direction through the upper-left 3x3, ignoring
// translation.
func (m Mat4) MulDirection(d Vec3) Vec3 {
	return Vec3{
		m[0]*d.X + m[4]*d.Y + m[8]*d.Z,
		m[1]*d.X + m[5]*d.Y + m[9]*d.Z,
		m[2]*d.X + m[6]*d.Y + m[10]*d.Z,
	}
}
