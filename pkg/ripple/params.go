package ripple

import "fmt"

// Tunable defaults.
const (
	DefaultRadius       = 6
	DefaultEnergy       = 600
	DefaultDampingShift = 5
	DefaultRefraction   = 1024
)

// Params holds the tunable constants of a simulation.
type Params struct {
	// Radius is half the side of the square a disturbance covers.
	Radius int
	// Energy is added to every cell of a disturbance.
	Energy int
	// DampingShift sets the per-step decay to 1/(1<<DampingShift).
	DampingShift uint
	// Refraction divides the displacement; smaller means stronger distortion.
	Refraction int
	// Workers bounds the goroutines used per Render. Zero or less uses all CPUs.
	Workers int
}

// DefaultParams returns the standard ripple constants.
func DefaultParams() Params {
	return Params{
		Radius:       DefaultRadius,
		Energy:       DefaultEnergy,
		DampingShift: DefaultDampingShift,
		Refraction:   DefaultRefraction,
	}
}

// Validate reports whether the parameters can drive a simulation.
func (p Params) Validate() error {
	if p.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %d", p.Radius)
	}
	if p.Refraction <= 0 {
		return fmt.Errorf("refraction must be positive, got %d", p.Refraction)
	}
	if p.DampingShift < 1 || p.DampingShift > 15 {
		return fmt.Errorf("damping shift must be within 1..15, got %d", p.DampingShift)
	}
	return nil
}
