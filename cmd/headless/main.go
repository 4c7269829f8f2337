//go:build !test
// +build !test

package main

import (
	"flag"
	"fmt"

	"github.com/dusterbloom/magical-carpet-sub004/internal/sim"
)

func main() {
	steps := flag.Int("steps", 1000, "Number of fixed updates to run")
	ups := flag.Int("ups", 120, "Fixed updates per second")
	duration := flag.Duration("duration", 0, "Simulated time to run if steps=0 (e.g., 2s)")
	drive := flag.Float64("drive", 1.0, "Forward input held on the lead carpet, -1..1")
	seed := flag.Uint("seed", 1337, "Terrain seed")
	flag.Parse()

	s := sim.NewSimulatorHeadless(uint32(*seed))
	performed := s.RunHeadless(*steps, *ups, *duration, func(s *sim.Simulator) {
		s.ActiveController().ApplyForwardForce(*drive)
	})

	lead := s.ActiveBody()
	fmt.Printf("Completed %d steps. Lead pos=(%.2f, %.2f, %.2f) airspeed=%.1fm/s cache=%d\n",
		performed, lead.Position.X, lead.Position.Y, lead.Position.Z,
		lead.AirSpeed(), s.World().CacheLen())
}
