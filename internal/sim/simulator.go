//go:build !test
// +build !test

package sim

import (
	"fmt"
	"log"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const carpetCount = 3

type Simulator struct {
	world       *World
	terrain     *Terrain
	field       HeightField
	controllers []*CarpetController
	selected    int
	camera      *Camera
	renderer    *Renderer
	input       *InputHandler
	hud         *HUDRenderer
	audio       *AudioSystem
	lastDt      float64
	fps         float64
	fpsHistory  []float64
	fpsIdx      int
	hudVisible  bool
}

func (s *Simulator) activeController() *CarpetController {
	if len(s.controllers) == 0 {
		return nil
	}
	if s.selected < 0 {
		s.selected = 0
	}
	if s.selected >= len(s.controllers) {
		s.selected = len(s.controllers) - 1
	}
	return s.controllers[s.selected]
}

func (s *Simulator) activeBody() *RigidBody {
	c := s.activeController()
	if c == nil {
		return nil
	}
	return c.Body()
}

// ActiveBody exposes the currently selected carpet for external callers.
func (s *Simulator) ActiveBody() *RigidBody { return s.activeBody() }

// ActiveController exposes the selected carpet's controller.
func (s *Simulator) ActiveController() *CarpetController { return s.activeController() }

// World exposes the physics world for external callers.
func (s *Simulator) World() *World { return s.world }

func newSimulatorCore(seed uint32) *Simulator {
	terrain := NewTerrain(seed)
	field := terrain.Field()
	world := NewWorld()

	s := &Simulator{
		world:      world,
		terrain:    terrain,
		field:      field,
		selected:   0,
		fpsHistory: make([]float64, 120),
	}

	for i := 0; i < carpetCount; i++ {
		id := "carpet-" + itoa(i+1)
		body, err := world.CreateBody(id, 40.0)
		if err != nil {
			log.Fatal(err)
		}
		s.spawn(body, i)
		s.controllers = append(s.controllers, NewCarpetController(body, DefaultControllerConfig()))
	}
	return s
}

// spawn places a carpet hovering above the terrain near the origin.
func (s *Simulator) spawn(body *RigidBody, slot int) {
	x := float64(slot%2) * 8.0
	z := float64(slot/2) * 8.0
	body.Position = Vec3{X: x, Y: s.field(x, z) + HoverClearance + 6.0, Z: z}
	body.PrevPosition = body.Position
	body.Velocity = Vec3{}
	body.Orientation = IdentityQuat()
	body.Rotation = Vec3{}
	body.PrevRotation = Vec3{}
	body.AngularVel = Vec3{}
}

func NewSimulator() *Simulator {
	s := newSimulatorCore(1337)
	s.camera = NewCamera()
	s.camera.Target = s.activeBody().Position
	s.renderer = NewRenderer(s.field)
	s.input = NewInputHandler()
	s.hud = NewHUDRenderer()
	s.hudVisible = true
	return s
}

// NewSimulatorHeadless constructs a simulator without GL, HUD, or input,
// for CI and benchmarks.
func NewSimulatorHeadless(seed uint32) *Simulator {
	s := newSimulatorCore(seed)
	s.camera = NewCamera()
	s.camera.Target = s.activeBody().Position
	return s
}

func (s *Simulator) Run(window *glfw.Window) {
	s.input.SetupCallbacks(window)
	s.initAudio()
	if s.audio != nil {
		defer s.audio.Close()
	}
	s.camera.Update(s.activeBody())

	fmt.Println("=== MAGICAL CARPET FLIGHT ===")
	fmt.Printf("Carpets: %d | Mass: %.0fkg each\n", len(s.controllers), s.activeBody().Mass)
	fmt.Println()
	fmt.Println("FLIGHT CONTROLS (selected carpet):")
	fmt.Println("  W/S - Drive forward / brake")
	fmt.Println("  A/D - Turn left/right (carpet banks into the turn)")
	fmt.Println("  Q/E - Slide left/right")
	fmt.Println("  Up/Down - Pitch nose up/down")
	fmt.Println("  Space/LShift - Climb / descend")
	fmt.Println("  R - Respawn carpet  [/] - Select carpet")
	fmt.Println()
	fmt.Println("CAMERA MODES:")
	fmt.Println("  C - Cycle camera modes (Follow → Top-Down → Rider)")
	fmt.Println("  FOLLOW: Right mouse drag - Orbit, Scroll - Zoom, +/- - Zoom")
	fmt.Println("  TOP-DOWN: Scroll or +/- - Height adjustment")
	fmt.Println("  RIDER: View along the carpet's nose")
	fmt.Println()
	fmt.Println("  F1 - Toggle HUD")
	fmt.Println()

	// Fixed timestep configuration
	target := time.Second / 120 // 120 Hz frame pacing; physics sub-steps inside World.Step
	acc := time.Duration(0)
	prev := time.Now()

	telemetryTimer := 0.0

	for !window.ShouldClose() {
		now := time.Now()
		frame := now.Sub(prev)
		prev = now

		// Clamp to avoid spiral-of-death on stalls
		if frame > time.Second/4 {
			frame = time.Second / 4
		}
		acc += frame

		// For HUD metrics and FPS smoothing, use frame time
		dtFrame := frame.Seconds()
		s.lastDt = dtFrame
		if dtFrame > 0 {
			currentFPS := 1.0 / dtFrame
			s.fps = s.fps*0.9 + currentFPS*0.1
		}
		s.fpsHistory[s.fpsIdx] = s.fps
		s.fpsIdx = (s.fpsIdx + 1) % len(s.fpsHistory)

		// Process input once per frame using fixed-step seconds for consistent feel
		s.processInput(target.Seconds())

		// Step simulation at a fixed rate
		steps := 0
		maxSteps := 5 // safety cap per frame
		for acc >= target && steps < maxSteps {
			s.update(target.Seconds())
			acc -= target
			steps++
		}

		if s.audio != nil {
			if err := s.audio.Update(s.camera, s.world.Bodies()); err != nil {
				log.Fatal(err)
			}
		}

		// Interpolation factor for rendering between last completed updates
		alpha := float64(acc) / float64(target)
		if alpha < 0 {
			alpha = 0
		} else if alpha > 1 {
			alpha = 1
		}

		s.renderInterpolated(window, alpha)

		// Telemetry every ~2 seconds in real time
		telemetryTimer += dtFrame
		if telemetryTimer >= 2.0 {
			s.displayTelemetry()
			telemetryTimer = 0.0
		}

		window.SwapBuffers()
		glfw.PollEvents()
	}
}

func (s *Simulator) initAudio() {
	if s.audio != nil {
		return
	}
	audio, err := NewAudioSystem(len(s.controllers))
	if err != nil {
		// Non-darwin platforms have no backend; fly silently
		log.Printf("audio disabled: %v", err)
		return
	}
	s.audio = audio
}

func (s *Simulator) displayTelemetry() {
	body := s.activeBody()
	ground := s.field(body.Position.X, body.Position.Z)

	fmt.Printf("\r\033[K") // Clear current line
	fmt.Printf("TELEMETRY | CARPET %d/%d | Alt: %.1fm | AGL: %.1fm | Airspeed: %.1fm/s | Cache: %d/%d",
		s.selected+1, len(s.controllers),
		body.Position.Y, body.Position.Y-ground, body.AirSpeed(),
		s.world.CacheLen(), DefaultCacheEntries)
}

func (s *Simulator) processInput(dt float64) {
	s.input.ProcessInput(s.activeController(), s.camera, dt)
	// Toggle HUD visibility
	if s.input.WasKeyPressed(glfw.KeyF1) {
		s.hudVisible = !s.hudVisible
	}
	// Cycle selected carpet for control and camera focus
	if s.input.WasKeyPressed(glfw.KeyLeftBracket) {
		s.selected--
		if s.selected < 0 {
			s.selected = len(s.controllers) - 1
		}
	}
	if s.input.WasKeyPressed(glfw.KeyRightBracket) {
		s.selected++
		if s.selected >= len(s.controllers) {
			s.selected = 0
		}
	}
	// Respawn the selected carpet above the terrain
	if s.input.WasKeyPressed(glfw.KeyR) {
		s.spawn(s.activeBody(), s.selected)
	}
}

func (s *Simulator) update(dt float64) {
	// Controllers write forces and angular velocity onto their bodies
	for _, c := range s.controllers {
		c.Update(dt)
	}
	// Physics consumes them
	s.world.Step(dt, s.field)
	// Camera tracks the selected carpet
	s.camera.Update(s.activeBody())
}

// Render with interpolation factor alpha in [0,1]
func (s *Simulator) renderInterpolated(window *glfw.Window, alpha float64) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	width, height := window.GetFramebufferSize()
	gl.Viewport(0, 0, int32(width), int32(height))

	projection := s.camera.GetProjectionMatrix(width, height)
	view := s.camera.GetViewMatrix()

	s.renderer.SetCamera(s.camera.Position)

	// Terrain mesh lives in world space
	s.renderer.SetMatrices(IdentityMat4(), view, projection)
	s.renderer.RenderTerrain()

	// Carpets (interpolated)
	for _, b := range s.world.Bodies() {
		model := b.GetTransformMatrixInterpolated(alpha)
		s.renderer.SetMatrices(model, view, projection)
		s.renderer.RenderCarpet()
	}

	if s.hudVisible {
		s.renderHUD(width, height)
	}
}

// RunHeadless executes fixed-step updates without creating a window. A
// positive steps runs exactly that many updates; otherwise dur worth of
// simulated time is run (default one second). perStep, when non-nil, runs
// before every update so the caller can feed input. Returns the number of
// updates performed.
func (s *Simulator) RunHeadless(steps, ups int, dur time.Duration, perStep func(*Simulator)) int {
	if ups <= 0 {
		ups = 120
	}
	if steps <= 0 {
		if dur <= 0 {
			dur = time.Second
		}
		steps = int(dur.Seconds() * float64(ups))
	}
	dt := 1.0 / float64(ups)
	for performed := 0; performed < steps; performed++ {
		if perStep != nil {
			perStep(s)
		}
		s.update(dt)
	}
	return steps
}

func (s *Simulator) renderHUD(width, height int) {
	panelWidth := 340 // pixels
	scaleHeader := 4
	scaleBody := 2
	lineHeight := 8 * scaleBody // 7px font + spacing
	x := 12
	y := 16
	body := s.activeBody()
	ground := s.field(body.Position.X, body.Position.Z)

	// Draw HUD on top of depth by disabling depth test temporarily
	gl.Disable(gl.DEPTH_TEST)
	// Clip all HUD content to the panel bounds
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(0, 0, int32(panelWidth), int32(height))
	s.hud.Begin(width, height)
	// Panel background
	s.hud.AddRect(0, 0, panelWidth, height, Color{0, 0, 0, 0.45})

	// Header
	s.hud.DrawText(x, y, "CARPET STATUS", scaleHeader, Color{1, 1, 1, 1})
	y += lineHeight * 2

	camStr := "FOL"
	switch s.camera.Mode {
	case CameraModeTopDown:
		camStr = "TOP"
	case CameraModeFPV:
		camStr = "RDR"
	}
	s.hud.DrawText(x, y, "CARPET "+itoa(s.selected+1)+"/"+itoa(len(s.controllers))+"  CAM "+camStr, scaleBody, Color{0.9, 0.95, 1, 1})
	y += lineHeight

	fps := int(s.fps + 0.5)
	ms := int(s.lastDt*1000.0 + 0.5)
	s.hud.DrawText(x, y, "SIM FPS "+itoa(fps)+" DT "+itoa(ms)+"MS", scaleBody, Color{0.9, 1, 0.9, 1})
	y += lineHeight

	// FPS graph just below
	gx := x
	gy := y
	gw := panelWidth - x - 10
	gh := 48
	s.hud.AddRect(gx, gy, gw, gh, Color{0, 0, 0, 0.25})
	bars := gw
	if bars > len(s.fpsHistory) {
		bars = len(s.fpsHistory)
	}
	for i := 0; i < bars; i++ {
		idx := (s.fpsIdx - 1 - i + len(s.fpsHistory)) % len(s.fpsHistory)
		v := s.fpsHistory[idx]
		if v < 0 {
			v = 0
		}
		if v > 120 {
			v = 120
		}
		h := int((v/120.0)*float64(gh) + 0.5)
		if h < 1 {
			h = 1
		}
		s.hud.AddRect(gx+gw-1-i, gy+gh-h, 1, h, Color{0.2, 0.9, 0.4, 0.9})
	}
	y += gh + 6

	// Flight numbers
	alt := int(body.Position.Y + 0.5)
	agl := int(body.Position.Y - ground + 0.5)
	hspd := int((Vec3{X: body.Velocity.X, Z: body.Velocity.Z}.Length()) + 0.5)
	vspd := int(body.Velocity.Y + 0.5)
	s.hud.DrawText(x, y, "ALT "+itoa(alt)+"   AGL "+itoa(agl), scaleBody, Color{1, 1, 1, 1})
	y += lineHeight
	s.hud.DrawText(x, y, "AIRSPD "+fmt1(body.AirSpeed())+"   HSPD "+itoa(hspd)+"   VSPD "+itoa(vspd), scaleBody, Color{1, 0.95, 0.8, 1})
	y += lineHeight
	s.hud.DrawText(x, y, "AOA "+itoa(int(RadToDeg(body.AngleOfAttack())+0.5)), scaleBody, Color{1, 0.95, 0.8, 1})
	y += lineHeight

	// Low-altitude warning
	if body.Position.Y-ground <= HoverClearance+1.0 {
		s.hud.DrawText(x, y, "TERRAIN LOW", scaleBody, Color{1.0, 0.45, 0.35, 1})
		y += lineHeight
	}

	y += lineHeight // spacer
	s.hud.DrawText(x, y, "POS", scaleBody, Color{0.7, 0.9, 1, 1})
	y += lineHeight
	s.hud.DrawText(x, y, "X "+itoa(int(body.Position.X+0.5)), scaleBody, Color{0.85, 0.9, 1, 1})
	y += lineHeight
	s.hud.DrawText(x, y, "Y "+itoa(int(body.Position.Y+0.5)), scaleBody, Color{0.85, 0.9, 1, 1})
	y += lineHeight
	s.hud.DrawText(x, y, "Z "+itoa(int(body.Position.Z+0.5)), scaleBody, Color{0.85, 0.9, 1, 1})
	y += lineHeight

	y += lineHeight // spacer
	s.hud.DrawText(x, y, "ATT", scaleBody, Color{0.7, 0.9, 1, 1})
	y += lineHeight
	deg := func(rad float64) int { return int(RadToDeg(rad) + 0.5) }
	s.hud.DrawText(x, y, "PITCH "+itoa(deg(body.Rotation.X)), scaleBody, Color{0.9, 0.85, 1, 1})
	y += lineHeight
	s.hud.DrawText(x, y, "HDG "+itoa(deg(body.Rotation.Y)), scaleBody, Color{0.9, 0.85, 1, 1})
	y += lineHeight
	s.hud.DrawText(x, y, "BANK "+itoa(deg(body.Rotation.Z)), scaleBody, Color{0.9, 0.85, 1, 1})
	y += lineHeight

	y += lineHeight // spacer
	// Height cache occupancy
	occ := s.world.CacheLen()
	s.hud.DrawText(x, y, "HCACHE "+itoa(occ)+"/"+itoa(DefaultCacheEntries), scaleBody, Color{0.9, 1, 1, 1})
	y += lineHeight
	s.hud.DrawGauge(x, y, panelWidth-x-10, 8, float64(occ)/float64(DefaultCacheEntries),
		Color{0, 0, 0, 0.25}, Color{0.4, 0.7, 1.0, 0.9})
	y += 8 + 6

	// Camera parameters
	switch s.camera.Mode {
	case CameraModeFollow:
		s.hud.DrawText(x, y, "CAMF Y "+itoa(int(s.camera.Yaw+0.5))+" P "+itoa(int(s.camera.Pitch+0.5))+" D "+itoa(int(s.camera.Distance+0.5)), scaleBody, Color{0.9, 0.9, 1, 1})
		y += lineHeight
	case CameraModeTopDown:
		s.hud.DrawText(x, y, "CAMT H "+itoa(int(s.camera.TopDownHeight+0.5)), scaleBody, Color{0.9, 0.9, 1, 1})
		y += lineHeight
	case CameraModeFPV:
		s.hud.DrawText(x, y, "CAMR", scaleBody, Color{0.9, 0.9, 1, 1})
		y += lineHeight
	}

	s.hud.DrawText(x, y, "SELECT: [ ]  RESPAWN: R", scaleBody, Color{0.9, 0.95, 1, 1})
	y += lineHeight

	s.hud.Flush()
	gl.Disable(gl.SCISSOR_TEST)
	gl.Enable(gl.DEPTH_TEST)
}
