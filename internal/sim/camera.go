package sim

import (
	"math"
)

type CameraMode int

const (
	CameraModeFollow CameraMode = iota
	CameraModeTopDown
	CameraModeFPV
)

type Camera struct {
	Position      Vec3
	Target        Vec3
	Up            Vec3
	Yaw           float64
	Pitch         float64
	Distance      float64
	FollowTarget  bool
	Mode          CameraMode
	TopDownHeight float64
}

func NewCamera() *Camera {
	return &Camera{
		Up:            Vec3{0, 1, 0},
		Yaw:           45,  // look from behind-right
		Pitch:         -15, // look down slightly
		Distance:      9,
		FollowTarget:  true,
		Mode:          CameraModeFollow,
		TopDownHeight: 60,
	}
}

// Update repositions the camera around the tracked body.
func (c *Camera) Update(body *RigidBody) {
	if body == nil {
		return
	}
	if c.FollowTarget {
		c.Target = body.Position
	}

	switch c.Mode {
	case CameraModeFollow:
		c.updateFollowPosition()
	case CameraModeTopDown:
		c.updateTopDownPosition()
	case CameraModeFPV:
		c.updateFPVPosition(body)
	}
}

// Orbital chase camera in spherical coordinates around the target.
func (c *Camera) updateFollowPosition() {
	yawRad := c.Yaw * math.Pi / 180.0
	pitchRad := c.Pitch * math.Pi / 180.0

	c.Position.X = c.Target.X + c.Distance*math.Cos(pitchRad)*math.Sin(yawRad)
	c.Position.Y = c.Target.Y + c.Distance*math.Sin(pitchRad)
	c.Position.Z = c.Target.Z + c.Distance*math.Cos(pitchRad)*math.Cos(yawRad)
}

// Bird's eye view straight down on the carpet.
func (c *Camera) updateTopDownPosition() {
	c.Position.X = c.Target.X
	c.Position.Y = c.Target.Y + c.TopDownHeight
	c.Position.Z = c.Target.Z
	c.Up = Vec3{0, 0, -1}
}

// Rider's view: slightly above the carpet, looking along its nose.
func (c *Camera) updateFPVPosition(body *RigidBody) {
	c.Position = body.Position.Add(Vec3{Y: 0.6})

	lookDistance := 12.0
	c.Target = c.Position.Add(body.Forward().Mul(lookDistance))
	c.Up = Vec3{0, 1, 0}
}

func (c *Camera) SetMode(mode CameraMode) {
	c.Mode = mode
	if mode != CameraModeTopDown {
		c.Up = Vec3{0, 1, 0}
	}
}

func (c *Camera) AdjustTopDownHeight(delta float64) {
	c.TopDownHeight += delta
	if c.TopDownHeight < 10.0 {
		c.TopDownHeight = 10.0
	}
	if c.TopDownHeight > 300.0 {
		c.TopDownHeight = 300.0
	}
}

func (c *Camera) GetViewMatrix() Mat4 {
	return LookAtMat4(c.Position, c.Target, c.Up)
}

func (c *Camera) GetProjectionMatrix(width, height int) Mat4 {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	aspect := float64(width) / float64(height)
	return PerspectiveMat4(50.0, aspect, 0.1, 2500.0)
}
