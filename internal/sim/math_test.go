package sim_test

import (
	"math"
	"testing"

	sim "github.com/dusterbloom/magical-carpet-sub004/internal/sim"
)

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func approxVec(a, b sim.Vec3, eps float64) bool {
	return approx(a.X, b.X, eps) && approx(a.Y, b.Y, eps) && approx(a.Z, b.Z, eps)
}

func TestVec3Normalize(t *testing.T) {
	v := sim.Vec3{X: 3, Y: 0, Z: 4}.Normalize()
	if !approx(v.Length(), 1, 1e-12) {
		t.Fatalf("expected unit length, got %v", v.Length())
	}
	z := sim.Vec3{}.Normalize()
	if z != (sim.Vec3{}) {
		t.Fatalf("expected zero vector unchanged, got %v", z)
	}
}

func TestVec3Cross(t *testing.T) {
	c := sim.Vec3{X: 1}.Cross(sim.Vec3{Y: 1})
	if !approxVec(c, sim.Vec3{Z: 1}, 1e-12) {
		t.Fatalf("expected +Z, got %v", c)
	}
}

func TestQuatIdentityRotate(t *testing.T) {
	v := sim.Vec3{X: 1, Y: 2, Z: 3}
	if got := sim.IdentityQuat().Rotate(v); !approxVec(got, v, 1e-12) {
		t.Fatalf("identity rotation changed vector: %v", got)
	}
}

func TestQuatAxisAngleRotate(t *testing.T) {
	q := sim.QuatFromAxisAngle(sim.Vec3{Y: 1}, math.Pi/2)
	got := q.Rotate(sim.Vec3{Z: 1})
	if !approxVec(got, sim.Vec3{X: 1}, 1e-12) {
		t.Fatalf("expected quarter yaw to map +Z to +X, got %v", got)
	}
}

func TestQuatMulComposes(t *testing.T) {
	qy := sim.QuatFromAxisAngle(sim.Vec3{Y: 1}, 0.7)
	qx := sim.QuatFromAxisAngle(sim.Vec3{X: 1}, -0.3)
	v := sim.Vec3{X: 0.2, Y: -1.1, Z: 0.6}

	composed := qy.Mul(qx).Rotate(v)
	sequential := qy.Rotate(qx.Rotate(v))
	if !approxVec(composed, sequential, 1e-12) {
		t.Fatalf("composition mismatch: %v vs %v", composed, sequential)
	}
}

func TestQuatRotateMatchesMatrix(t *testing.T) {
	pitch, yaw, roll := 0.4, -1.2, 0.25
	q := sim.QuatFromEuler(pitch, yaw, roll)
	m := sim.RotationYMat4(yaw).Mul(sim.RotationXMat4(pitch)).Mul(sim.RotationZMat4(roll))

	for _, v := range []sim.Vec3{{X: 1}, {Y: 1}, {Z: 1}, {X: 0.3, Y: -0.7, Z: 1.1}} {
		qv := q.Rotate(v)
		mv := m.MulDirection(v)
		if !approxVec(qv, mv, 1e-9) {
			t.Fatalf("quaternion and matrix disagree for %v: %v vs %v", v, qv, mv)
		}
	}
}

func TestQuatEulerRoundTrip(t *testing.T) {
	cases := []sim.Vec3{
		{X: 0.3, Y: 1.1, Z: -0.4},
		{X: -0.9, Y: -2.5, Z: 0.1},
		{X: 0, Y: 0, Z: 0},
	}
	for _, want := range cases {
		got := sim.QuatFromEuler(want.X, want.Y, want.Z).Euler()
		if !approxVec(got, want, 1e-9) {
			t.Fatalf("round trip %v gave %v", want, got)
		}
	}
}

func TestQuatNormalizeDegenerate(t *testing.T) {
	q := sim.Quat{}.Normalize()
	if q != sim.IdentityQuat() {
		t.Fatalf("expected identity from zero quaternion, got %v", q)
	}
	n := sim.Quat{W: 2, X: 0, Y: 2, Z: 0}.Normalize()
	if !approx(n.Length(), 1, 1e-12) {
		t.Fatalf("expected unit length, got %v", n.Length())
	}
}
