//go:build !test
// +build !test

package sim

import (
	"errors"
	"fmt"
	"math"

	"github.com/dusterbloom/magical-carpet-sub004/internal/sim/avaudio"
)

const (
	audioSampleRate   = 48000
	audioLoopSeconds  = 4
	audioNominalSpeed = 18.0 // m/s at which the loop plays at unity rate
	audioMaxSpeed     = 60.0
)

// AudioSystem plays a looping wind-rush sample at each carpet's position,
// with gain and pitch tracking its airspeed.
type AudioSystem struct {
	backend *avaudio.System
	closed  bool
}

func NewAudioSystem(sourceCount int) (*AudioSystem, error) {
	if sourceCount <= 0 {
		return nil, errors.New("audio init: source count must be > 0")
	}

	data, err := synthWindSample(audioSampleRate, audioLoopSeconds)
	if err != nil {
		return nil, err
	}
	backend, err := avaudio.NewSystem(sourceCount, audioSampleRate, data)
	if err != nil {
		return nil, fmt.Errorf("audio init: %w", err)
	}

	return &AudioSystem{backend: backend}, nil
}

func (a *AudioSystem) Update(camera *Camera, bodies []*RigidBody) error {
	if a == nil || a.closed {
		return errors.New("audio update: audio system not initialized")
	}
	if camera == nil {
		return errors.New("audio update: camera is nil")
	}
	if len(bodies) != a.backend.SourceCount() {
		return fmt.Errorf("audio update: body count %d does not match sources %d", len(bodies), a.backend.SourceCount())
	}

	forward := camera.Target.Sub(camera.Position)
	if forward.Length() <= 1e-6 {
		return errors.New("audio update: camera forward vector is zero")
	}
	forward = forward.Normalize()

	yawDeg := math.Atan2(forward.X, forward.Z) * 180.0 / math.Pi
	pitchDeg := -math.Asin(forward.Y) * 180.0 / math.Pi
	if err := a.backend.SetListener(camera.Position.X, camera.Position.Y, camera.Position.Z, yawDeg, pitchDeg); err != nil {
		return err
	}

	for i, b := range bodies {
		if b == nil {
			return fmt.Errorf("audio update: body %d is nil", i)
		}
		speed := b.AirSpeed()
		src := avaudio.Source{
			X:    b.Position.X,
			Y:    b.Position.Y,
			Z:    b.Position.Z,
			Gain: windGain(speed),
			Rate: windRate(speed),
		}
		if err := a.backend.SetSource(i, src); err != nil {
			return err
		}
	}
	return nil
}

func (a *AudioSystem) Close() {
	if a == nil || a.closed {
		return
	}
	if a.backend != nil {
		a.backend.Close()
	}
	a.closed = true
}

func windGain(speed float64) float32 {
	norm := speed / audioMaxSpeed
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	// Quadratic ramp: a drifting carpet is nearly silent, a diving one roars
	return float32(0.04 + 0.7*norm*norm)
}

func windRate(speed float64) float32 {
	ratio := speed / audioNominalSpeed
	if ratio < 0.5 {
		ratio = 0.5
	}
	if ratio > 2.4 {
		ratio = 2.4
	}
	return float32(ratio)
}

// synthWindSample builds a seamless wind loop: band-limited noise from
// detuned non-harmonic partials under a slow amplitude swell. Loop length
// divides every partial's period so the seam is inaudible.
func synthWindSample(sampleRate, seconds int) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, errors.New("audio init: sample rate must be > 0")
	}
	if seconds <= 0 {
		return nil, errors.New("audio init: loop length must be > 0")
	}

	sampleCount := sampleRate * seconds
	samples := make([]float64, sampleCount)

	// Whole cycles per loop keeps each partial loop-periodic
	partials := []struct {
		cycles float64
		amp    float64
	}{
		{cycles: 220, amp: 1.0},
		{cycles: 341, amp: 0.8},
		{cycles: 523, amp: 0.55},
		{cycles: 797, amp: 0.35},
		{cycles: 1201, amp: 0.22},
	}
	swellCycles := 3.0

	for i := 0; i < sampleCount; i++ {
		t := float64(i) / float64(sampleCount) // 0..1 through the loop
		v := 0.0
		for _, p := range partials {
			v += p.amp * math.Sin(2*math.Pi*p.cycles*t+p.cycles)
		}
		swell := 0.75 + 0.25*math.Sin(2*math.Pi*swellCycles*t)
		samples[i] = v * swell
	}

	maxAbs := 0.0
	for _, v := range samples {
		if v < 0 {
			v = -v
		}
		if v > maxAbs {
			maxAbs = v
		}
	}
	if maxAbs <= 0 {
		return nil, errors.New("audio init: sample amplitude is zero")
	}

	scale := 0.85 / maxAbs
	data := make([]float32, sampleCount)
	for i, v := range samples {
		data[i] = float32(v * scale)
	}
	return data, nil
}
