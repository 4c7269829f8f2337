package sim

import (
	"math"
)

// ControllerConfig collects the tuning knobs for translating raw input into
// forces. Passed in explicitly; nothing here reads ambient global state.
type ControllerConfig struct {
	ForwardForce  float64 // N at full forward input
	SideForce     float64 // N at full side input
	AltitudeForce float64 // N at full climb/descend input

	TurnRate  float64 // rad/s yaw at full turn input
	PitchRate float64 // rad/s pitch at full pitch input
	MaxBank   float64 // roll at full turn input, radians

	// InputSmoothing is the per-second retention applied to every raw axis
	// (see Smoothed); BankGain converts bank error into roll rate.
	InputSmoothing float64
	BankGain       float64
}

func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		ForwardForce:   260.0,
		SideForce:      140.0,
		AltitudeForce:  180.0,
		TurnRate:       1.6,
		PitchRate:      0.9,
		MaxBank:        0.6,
		InputSmoothing: 0.001,
		BankGain:       6.0,
	}
}

// CarpetController turns per-frame input axes into accumulator writes on a
// single body. Call the Apply/Set methods as input arrives, then Update
// once per frame before World.Step.
type CarpetController struct {
	body *RigidBody
	cfg  ControllerConfig

	forward  Smoothed
	side     Smoothed
	altitude Smoothed
	turn     Smoothed
	pitch    Smoothed

	rawForward  float64
	rawSide     float64
	rawAltitude float64
	rawTurn     float64
	rawPitch    float64
}

func NewCarpetController(body *RigidBody, cfg ControllerConfig) *CarpetController {
	return &CarpetController{
		body:     body,
		cfg:      cfg,
		forward:  NewSmoothed(cfg.InputSmoothing),
		side:     NewSmoothed(cfg.InputSmoothing),
		altitude: NewSmoothed(cfg.InputSmoothing),
		turn:     NewSmoothed(cfg.InputSmoothing),
		pitch:    NewSmoothed(cfg.InputSmoothing),
	}
}

// Body returns the controlled body.
func (c *CarpetController) Body() *RigidBody {
	return c.body
}

// ApplyForwardForce sets the forward/backward axis for this frame,
// -1 (full brake) to +1 (full drive).
func (c *CarpetController) ApplyForwardForce(amount float64) {
	c.rawForward = clampAxis(amount)
}

// ApplySideForce sets the strafe axis for this frame, -1 left to +1 right.
func (c *CarpetController) ApplySideForce(amount float64) {
	c.rawSide = clampAxis(amount)
}

// ApplyAltitudeChange sets the climb axis for this frame, -1 to +1.
func (c *CarpetController) ApplyAltitudeChange(amount float64) {
	c.rawAltitude = clampAxis(amount)
}

// SetTurnInput sets the yaw axis, -1 (right) to +1 (left); banking follows.
func (c *CarpetController) SetTurnInput(amount float64) {
	c.rawTurn = clampAxis(amount)
}

// SetPitchInput sets the pitch axis, -1 (nose up) to +1 (nose down).
func (c *CarpetController) SetPitchInput(amount float64) {
	c.rawPitch = clampAxis(amount)
}

// Update advances the smoothed axes and writes this frame's forces and
// angular velocity onto the body. Axes not re-applied since the last frame
// decay toward zero rather than sticking.
func (c *CarpetController) Update(dt float64) {
	fwd := c.forward.Advance(c.rawForward, dt)
	side := c.side.Advance(c.rawSide, dt)
	alt := c.altitude.Advance(c.rawAltitude, dt)
	turn := c.turn.Advance(c.rawTurn, dt)
	pitch := c.pitch.Advance(c.rawPitch, dt)

	b := c.body
	b.ApplyForce(b.Forward().Mul(fwd * c.cfg.ForwardForce))
	b.ApplyForce(b.Right().Mul(side * c.cfg.SideForce))
	b.ApplyForce(Vec3{Y: alt * c.cfg.AltitudeForce})

	// Yaw follows the turn axis directly; roll chases the bank target so
	// the carpet leans into turns instead of snapping
	yawRate := turn * c.cfg.TurnRate
	bankTarget := -turn * c.cfg.MaxBank
	rollRate := (bankTarget - b.Rotation.Z) * c.cfg.BankGain
	pitchRate := pitch * c.cfg.PitchRate

	// The integrator reads AngularVel in world axes. Pitch and roll are
	// meant about the carpet's own right and nose axes, so rotate those
	// rates through the current heading before writing them.
	sinH, cosH := math.Sincos(b.Rotation.Y)
	b.AngularVel = Vec3{
		X: pitchRate*cosH + rollRate*sinH,
		Y: yawRate,
		Z: -pitchRate*sinH + rollRate*cosH,
	}

	c.rawForward = 0
	c.rawSide = 0
	c.rawAltitude = 0
	c.rawTurn = 0
	c.rawPitch = 0
}

func clampAxis(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
