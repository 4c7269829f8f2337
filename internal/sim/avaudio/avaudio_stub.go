//go:build !darwin && !test
// +build !darwin,!test

package avaudio

import "errors"

var errUnsupported = errors.New("AVAudioEngine is only supported on darwin")

type System struct {
	sourceCount int
}

func NewSystem(sourceCount int, sampleRate int, samples []float32) (*System, error) {
	return nil, errUnsupported
}

func (s *System) SourceCount() int {
	if s == nil {
		return 0
	}
	return s.sourceCount
}

func (s *System) SetListener(x, y, z, yawDeg, pitchDeg float64) error {
	return errUnsupported
}

func (s *System) SetSource(idx int, src Source) error {
	return errUnsupported
}

func (s *System) Close() {}
