//go:build !test
// +build !test

package sim

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

type InputHandler struct {
	keys       map[glfw.Key]bool
	keyPressed map[glfw.Key]bool // single key press detection
	// Mouse input for universal camera control
	rotating    bool
	lastX       float64
	lastY       float64
	scrollDelta float64
	mouseDX     float64
	mouseDY     float64
}

func NewInputHandler() *InputHandler {
	return &InputHandler{
		keys:       make(map[glfw.Key]bool),
		keyPressed: make(map[glfw.Key]bool),
	}
}

func (i *InputHandler) SetupCallbacks(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Press {
			i.keys[key] = true
			i.keyPressed[key] = true
		} else if action == glfw.Release {
			i.keys[key] = false
		}
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button == glfw.MouseButton2 { // right mouse button orbits the camera
			if action == glfw.Press {
				i.rotating = true
				i.lastX, i.lastY = w.GetCursorPos()
			} else if action == glfw.Release {
				i.rotating = false
			}
		}
	})

	window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if i.rotating {
			dx := xpos - i.lastX
			dy := ypos - i.lastY
			i.lastX = xpos
			i.lastY = ypos
			i.mouseDX += dx
			i.mouseDY += dy
		}
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff float64, yoff float64) {
		i.scrollDelta += yoff
	})
}

func (i *InputHandler) IsKeyPressed(key glfw.Key) bool {
	return i.keys[key]
}

func (i *InputHandler) WasKeyPressed(key glfw.Key) bool {
	if i.keyPressed[key] {
		i.keyPressed[key] = false // reset for next frame
		return true
	}
	return false
}

// ProcessInput maps held keys onto the carpet controller's axes and handles
// camera control. The controller smooths the raw axes itself.
func (i *InputHandler) ProcessInput(controller *CarpetController, camera *Camera, dt float64) {
	// Flight axes
	forward := 0.0
	if i.IsKeyPressed(glfw.KeyW) {
		forward += 1
	}
	if i.IsKeyPressed(glfw.KeyS) {
		forward -= 1
	}
	controller.ApplyForwardForce(forward)

	side := 0.0
	if i.IsKeyPressed(glfw.KeyE) {
		side += 1
	}
	if i.IsKeyPressed(glfw.KeyQ) {
		side -= 1
	}
	controller.ApplySideForce(side)

	turn := 0.0
	if i.IsKeyPressed(glfw.KeyA) {
		turn += 1
	}
	if i.IsKeyPressed(glfw.KeyD) {
		turn -= 1
	}
	controller.SetTurnInput(turn)

	pitch := 0.0
	if i.IsKeyPressed(glfw.KeyUp) {
		pitch -= 1
	}
	if i.IsKeyPressed(glfw.KeyDown) {
		pitch += 1
	}
	controller.SetPitchInput(pitch)

	climb := 0.0
	if i.IsKeyPressed(glfw.KeySpace) {
		climb += 1
	}
	if i.IsKeyPressed(glfw.KeyLeftShift) {
		climb -= 1
	}
	controller.ApplyAltitudeChange(climb)

	// Camera mode switching
	if i.WasKeyPressed(glfw.KeyC) {
		switch camera.Mode {
		case CameraModeFollow:
			camera.SetMode(CameraModeTopDown)
		case CameraModeTopDown:
			camera.SetMode(CameraModeFPV)
		case CameraModeFPV:
			camera.SetMode(CameraModeFollow)
		}
	}

	// Top-down height
	if camera.Mode == CameraModeTopDown {
		if i.IsKeyPressed(glfw.KeyMinus) {
			camera.AdjustTopDownHeight(40.0 * dt)
		}
		if i.IsKeyPressed(glfw.KeyEqual) {
			camera.AdjustTopDownHeight(-40.0 * dt)
		}
	}

	// Follow camera orbit/zoom
	if camera.Mode == CameraModeFollow {
		yawSpeed := 60.0
		zoomSpeed := 10.0
		if i.IsKeyPressed(glfw.KeyLeftAlt) || i.IsKeyPressed(glfw.KeyRightAlt) {
			yawSpeed *= 0.5
			zoomSpeed *= 0.7
		}

		if i.IsKeyPressed(glfw.KeyLeft) {
			camera.Yaw -= yawSpeed * dt
		}
		if i.IsKeyPressed(glfw.KeyRight) {
			camera.Yaw += yawSpeed * dt
		}
		if i.IsKeyPressed(glfw.KeyMinus) {
			camera.Distance += zoomSpeed * dt
			if camera.Distance > 80.0 {
				camera.Distance = 80.0
			}
		}
		if i.IsKeyPressed(glfw.KeyEqual) {
			camera.Distance -= zoomSpeed * dt
			if camera.Distance < 2.0 {
				camera.Distance = 2.0
			}
		}
	}

	// Mouse orbit (follow mode)
	if camera.Mode == CameraModeFollow && i.rotating {
		camera.Yaw += i.mouseDX * 0.2
		camera.Pitch += -i.mouseDY * 0.2
		i.mouseDX = 0
		i.mouseDY = 0
		if camera.Pitch > 80 {
			camera.Pitch = 80
		}
		if camera.Pitch < -80 {
			camera.Pitch = -80
		}
	}

	// Scroll zoom / height
	if i.scrollDelta != 0 {
		if camera.Mode == CameraModeFollow {
			camera.Distance -= i.scrollDelta * 1.5
			if camera.Distance < 2.0 {
				camera.Distance = 2.0
			}
			if camera.Distance > 80.0 {
				camera.Distance = 80.0
			}
		} else if camera.Mode == CameraModeTopDown {
			camera.AdjustTopDownHeight(-i.scrollDelta * 4.0)
		}
		i.scrollDelta = 0
	}
}
