package sim_test

import (
	"math"
	"testing"

	sim "github.com/dusterbloom/magical-carpet-sub004/internal/sim"
)

func flatField(x, z float64) float64 { return 0 }

func TestCreateBodyValidation(t *testing.T) {
	w := sim.NewWorld()
	if _, err := w.CreateBody("a", 0); err == nil {
		t.Fatalf("expected error for zero mass")
	}
	if _, err := w.CreateBody("a", -5); err == nil {
		t.Fatalf("expected error for negative mass")
	}
	if _, err := w.CreateBody("a", 40); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := w.CreateBody("a", 40); err == nil {
		t.Fatalf("expected error for duplicate id")
	}
	if w.Body("a") == nil {
		t.Fatalf("expected body lookup to succeed")
	}
	if w.Body("missing") != nil {
		t.Fatalf("expected nil for unknown id")
	}

	w.RemoveBody("missing") // no-op
	w.RemoveBody("a")
	if w.Body("a") != nil {
		t.Fatalf("expected body removed")
	}
	if len(w.Bodies()) != 0 {
		t.Fatalf("expected no bodies, got %d", len(w.Bodies()))
	}
}

func TestGravityFreeFall(t *testing.T) {
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}

	w.Step(sim.FixedTimeStep, flatField)
	want := -9.81 * sim.FixedTimeStep
	if math.Abs(b.Velocity.Y-want) > 1e-9 {
		t.Fatalf("expected velocity %v, got %v", want, b.Velocity.Y)
	}
	// Position integrates before velocity, so the first step does not move
	if b.Position.Y != 100 {
		t.Fatalf("expected position unchanged on first step, got %v", b.Position.Y)
	}
}

func TestStepSubStepCap(t *testing.T) {
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}

	// A 1-second frame is split into exactly MaxSubSteps sub-steps. With
	// semi-implicit-in-reverse integration starting from rest, the drop
	// after n sub-steps of h seconds is g*h^2*(0+1+...+(n-1)).
	w.Step(1.0, flatField)

	h := 1.0 / float64(sim.MaxSubSteps)
	wantDrop := 9.81 * h * h * float64(sim.MaxSubSteps*(sim.MaxSubSteps-1)/2)
	drop := 100 - b.Position.Y
	if math.Abs(drop-wantDrop) > 1e-9 {
		t.Fatalf("expected drop %v, got %v", wantDrop, drop)
	}
	if math.Abs(b.Velocity.Y+9.81) > 1e-9 {
		t.Fatalf("expected full-frame velocity -9.81, got %v", b.Velocity.Y)
	}
}

func TestStepTinyDtSingleSubStep(t *testing.T) {
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}

	w.Step(1e-6, flatField)
	if math.Abs(b.Velocity.Y+9.81*1e-6) > 1e-12 {
		t.Fatalf("expected single sub-step gravity, got %v", b.Velocity.Y)
	}
}

func TestAerodynamicsSkippedAtRest(t *testing.T) {
	w := sim.NewWorld()
	w.Gravity = 0
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}

	w.Step(sim.FixedTimeStep, flatField)
	if b.Velocity.Length() != 0 {
		t.Fatalf("expected body at rest to stay at rest, got %v", b.Velocity)
	}
}

func TestDragAlongFlightPath(t *testing.T) {
	w := sim.NewWorld()
	w.Gravity = 0
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}
	b.Velocity = sim.Vec3{Z: 10} // straight along the nose, zero AoA

	w.Step(sim.FixedTimeStep, flatField)

	// At zero AoA only parasitic drag acts: F = Cd * q * S
	q := 0.5 * 1.225 * 10 * 10
	wantDv := b.DragCoefficient * q * b.SurfaceArea / b.Mass * sim.FixedTimeStep
	if math.Abs((10-b.Velocity.Z)-wantDv) > 1e-9 {
		t.Fatalf("expected speed loss %v, got %v", wantDv, 10-b.Velocity.Z)
	}
	if math.Abs(b.Velocity.Y) > 1e-12 {
		t.Fatalf("expected no lift at zero AoA, got vy=%v", b.Velocity.Y)
	}
}

func TestLiftAtAngleOfAttack(t *testing.T) {
	w := sim.NewWorld()
	w.Gravity = 0
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}
	// Nose pitched up 10 degrees relative to a horizontal flight path
	b.Orientation = sim.QuatFromEuler(-sim.DegToRad(10), 0, 0)
	b.Velocity = sim.Vec3{Z: 20}

	w.Step(sim.FixedTimeStep, flatField)
	if b.Velocity.Y <= 0 {
		t.Fatalf("expected positive lift at positive AoA, got vy=%v", b.Velocity.Y)
	}
	if b.Velocity.Z >= 20 {
		t.Fatalf("expected drag to slow the body, got vz=%v", b.Velocity.Z)
	}
}

func TestForceActsForWholeFrame(t *testing.T) {
	w := sim.NewWorld()
	w.Gravity = 0
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}

	// One 40 N force over a frame split into 3 sub-steps must produce the
	// same velocity change as over a single-step frame: a*dt, not a*dt/3.
	dt := 3 * sim.FixedTimeStep
	b.ApplyForce(sim.Vec3{X: 40})
	w.Step(dt, flatField)

	want := 1.0 * dt // a = 40 N / 40 kg
	if math.Abs(b.Velocity.X-want) > 1e-4 {
		t.Fatalf("expected velocity %v, got %v", want, b.Velocity.X)
	}
	if (b.Forces != sim.Vec3{}) {
		t.Fatalf("expected force accumulator cleared, got %v", b.Forces)
	}
}

func TestRestOnClearancePlane(t *testing.T) {
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: sim.HoverClearance}

	for i := 0; i < 600; i++ {
		w.Step(sim.FixedTimeStep, flatField)
	}
	if b.Position.Y != sim.HoverClearance {
		t.Fatalf("expected exact rest at %v, got %v", sim.HoverClearance, b.Position.Y)
	}
	if b.Velocity.Y != 0 {
		t.Fatalf("expected exact zero vertical velocity at rest, got %v", b.Velocity.Y)
	}
}

func TestDropBounceAndSettle(t *testing.T) {
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 12}

	bounced := false
	for i := 0; i < 6*60; i++ {
		w.Step(sim.FixedTimeStep, flatField)
		if b.Velocity.Y > 0.5 {
			bounced = true
		}
		if b.Position.Y < sim.HoverClearance-1e-9 {
			t.Fatalf("body below clearance plane: %v", b.Position.Y)
		}
	}
	if !bounced {
		t.Fatalf("expected at least one restitution bounce")
	}
	if b.Position.Y != sim.HoverClearance {
		t.Fatalf("expected settled at %v, got %v", sim.HoverClearance, b.Position.Y)
	}
	if b.Velocity.Y != 0 {
		t.Fatalf("expected settled vertical velocity 0, got %v", b.Velocity.Y)
	}
}

func TestBallisticDropClampsExactly(t *testing.T) {
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 1)
	b.Position = sim.Vec3{Y: 100}
	b.LiftCoefficient = 0
	b.DragCoefficient = 0

	// Pure ballistics: 98 m of fall plus the bounce cascade takes ~8.3 s
	for i := 0; i < 10*60; i++ {
		w.Step(sim.FixedTimeStep, flatField)
	}
	if b.Position.Y != sim.HoverClearance {
		t.Fatalf("expected exact clamp at %v, got %v", sim.HoverClearance, b.Position.Y)
	}
	if b.Velocity.Y != 0 {
		t.Fatalf("expected vertical velocity clamped to 0, got %v", b.Velocity.Y)
	}
}

func TestSlopePushesDownhill(t *testing.T) {
	slope := func(x, z float64) float64 { return 0.5 * x }
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: sim.HoverClearance}
	b.Velocity = sim.Vec3{Y: -2}

	// The 1-unit normal probes land in the body's own cache cell; they must
	// still see the true gradient, not the memoized cell height.
	w.Step(sim.FixedTimeStep, slope)
	if b.Velocity.X >= 0 {
		t.Fatalf("expected downhill velocity component, got vx=%v", b.Velocity.X)
	}
}

func TestFootprintHeightFromCellOrigin(t *testing.T) {
	ramp := func(x, z float64) float64 { return x }
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	// X=40 sits in the cell with origin 32; the cached footprint height must
	// be the field's value there, not at the query point.
	b.Position = sim.Vec3{X: 40, Y: 33}

	w.Step(sim.FixedTimeStep, ramp)
	want := ramp(32, 0) + sim.HoverClearance
	if b.Position.Y != want {
		t.Fatalf("expected clamp to cell-origin height %v, got %v", want, b.Position.Y)
	}
}

func TestFrictionSlowsSliding(t *testing.T) {
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: sim.HoverClearance}
	b.Velocity = sim.Vec3{X: 5, Y: -2}

	w.Step(sim.FixedTimeStep, flatField)
	if b.Velocity.X >= 5 {
		t.Fatalf("expected friction to slow tangential motion, got vx=%v", b.Velocity.X)
	}
	if b.Velocity.X <= 0 {
		t.Fatalf("friction must not reverse motion, got vx=%v", b.Velocity.X)
	}
}

func TestHeightFieldCalledOncePerCell(t *testing.T) {
	calls := 0
	counting := func(x, z float64) float64 {
		calls++
		return 0
	}
	w := sim.NewWorld()
	w.Gravity = 0
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{X: 5, Y: 50}

	// Hovering clear of the terrain, only the footprint query runs. Two
	// positions in the same cache cell share one field evaluation.
	for i := 0; i < 50; i++ {
		w.Step(sim.FixedTimeStep, counting)
	}
	b.Position.X = 20
	for i := 0; i < 50; i++ {
		w.Step(sim.FixedTimeStep, counting)
	}
	if calls != 1 {
		t.Fatalf("expected exactly 1 height field call, got %d", calls)
	}
	if w.CacheLen() != 1 {
		t.Fatalf("expected 1 cached cell, got %d", w.CacheLen())
	}
}

func TestHeightQueriesBoundedPerStep(t *testing.T) {
	calls := 0
	counting := func(x, z float64) float64 {
		calls++
		return 0
	}
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}
	b.Velocity = sim.Vec3{X: 200}

	// A 10x oversized frame still runs at most MaxSubSteps sub-steps; clear
	// of the terrain there is one footprint query per sub-step at most.
	w.Step(10*sim.FixedTimeStep, counting)
	if calls == 0 {
		t.Fatalf("expected at least one footprint query")
	}
	if calls > sim.MaxSubSteps {
		t.Fatalf("expected at most %d height queries, got %d", sim.MaxSubSteps, calls)
	}
}

func TestAngleOfAttack(t *testing.T) {
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	if b.AngleOfAttack() != 0 {
		t.Fatalf("expected zero AoA at rest, got %v", b.AngleOfAttack())
	}
	b.Velocity = sim.Vec3{Z: 10}
	if b.AngleOfAttack() != 0 {
		t.Fatalf("expected zero AoA along the nose, got %v", b.AngleOfAttack())
	}
	b.Velocity = sim.Vec3{Y: 10}
	if math.Abs(b.AngleOfAttack()-math.Pi/2) > 1e-12 {
		t.Fatalf("expected pi/2 AoA for vertical motion, got %v", b.AngleOfAttack())
	}
}

func TestResetCacheForcesResample(t *testing.T) {
	calls := 0
	counting := func(x, z float64) float64 {
		calls++
		return 0
	}
	w := sim.NewWorld()
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 50}

	w.Step(sim.FixedTimeStep, counting)
	w.ResetCache()
	if w.CacheLen() != 0 {
		t.Fatalf("expected empty cache after reset, got %d", w.CacheLen())
	}
	w.Step(sim.FixedTimeStep, counting)
	if calls != 2 {
		t.Fatalf("expected a resample after reset, got %d calls", calls)
	}
}

func TestOrientationStaysUnit(t *testing.T) {
	w := sim.NewWorld()
	w.Gravity = 0
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}
	b.AngularVel = sim.Vec3{X: 0.3, Y: 1.1, Z: -0.7}

	for i := 0; i < 2000; i++ {
		w.Step(sim.FixedTimeStep, flatField)
	}
	if math.Abs(b.Orientation.Length()-1) > 1e-9 {
		t.Fatalf("expected unit quaternion, got length %v", b.Orientation.Length())
	}
}

func TestYawIntegration(t *testing.T) {
	w := sim.NewWorld()
	w.Gravity = 0
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}
	b.AngularVel = sim.Vec3{Y: math.Pi / 2}

	for i := 0; i < 60; i++ {
		w.Step(sim.FixedTimeStep, flatField)
	}
	if math.Abs(b.Rotation.Y-math.Pi/2) > 1e-6 {
		t.Fatalf("expected yaw pi/2, got %v", b.Rotation.Y)
	}
	fwd := b.Forward()
	if math.Abs(fwd.X-1) > 1e-6 || math.Abs(fwd.Z) > 1e-6 {
		t.Fatalf("expected forward +X after quarter turn, got %v", fwd)
	}
}

func TestYawIndependentOfBank(t *testing.T) {
	w := sim.NewWorld()
	w.Gravity = 0
	b, _ := w.CreateBody("carpet", 40)
	b.Position = sim.Vec3{Y: 100}
	// Start banked hard; a world-axis yaw must still turn about world +Y
	b.Orientation = sim.QuatFromEuler(0, 0, 0.5)
	b.AngularVel = sim.Vec3{Y: math.Pi / 2}

	for i := 0; i < 60; i++ {
		w.Step(sim.FixedTimeStep, flatField)
	}
	if math.Abs(b.Rotation.Y-math.Pi/2) > 1e-6 {
		t.Fatalf("expected yaw pi/2 regardless of bank, got %v", b.Rotation.Y)
	}
	if math.Abs(b.Rotation.Z-0.5) > 1e-6 {
		t.Fatalf("expected bank preserved, got %v", b.Rotation.Z)
	}
}
