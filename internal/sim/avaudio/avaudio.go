package avaudio

// Source is one positional emitter's state for a frame.
type Source struct {
	X, Y, Z float64
	Gain    float32
	Rate    float32
}

// Playback rate bounds; AVAudioUnitVarispeed distorts badly outside them.
const (
	RateMin = 0.25
	RateMax = 3.0
)

func clampRate(r float32) float32 {
	if r < RateMin {
		return RateMin
	}
	if r > RateMax {
		return RateMax
	}
	return r
}
