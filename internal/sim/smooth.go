package sim

import (
	"math"
)

// Smoothed is an exponentially damped value: every Advance moves Current
// toward Target by a frame-rate independent fraction. Used to de-jitter raw
// control input, but generic enough for anything that wants critically
// boring easing.
type Smoothed struct {
	Current   float64
	Target    float64
	Smoothing float64 // per-second retention in (0,1); smaller reacts faster
}

func NewSmoothed(smoothing float64) Smoothed {
	return Smoothed{Smoothing: smoothing}
}

// Advance sets a new target and moves Current toward it for a dt-second
// frame: current += (target - current) * (1 - smoothing^dt).
func (s *Smoothed) Advance(target, dt float64) float64 {
	s.Target = target
	s.Current += (target - s.Current) * (1 - math.Pow(s.Smoothing, dt))
	return s.Current
}

// Reset snaps both current and target to v.
func (s *Smoothed) Reset(v float64) {
	s.Current = v
	s.Target = v
}
