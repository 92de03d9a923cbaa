package irt

import (
	"fmt"
	"math"
)

// Bounds is a closed interval [Min, Max] for theta.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultBounds is the theta interval used when none is configured.
var DefaultBounds = Bounds{Min: -4, Max: 4}

// IsZero reports whether b is the zero value.
func (b Bounds) IsZero() bool { return b.Min == 0 && b.Max == 0 }

// Clip returns v limited to [Min, Max].
func (b Bounds) Clip(v float64) float64 { return clamp(v, b.Min, b.Max) }

// Contains reports whether v lies in [Min, Max].
func (b Bounds) Contains(v float64) bool { return v >= b.Min && v <= b.Max }

// Validate checks that the interval is finite and non-empty.
func (b Bounds) Validate() error {
	if math.IsNaN(b.Min) || math.IsInf(b.Min, 0) {
		return invalid("bounds.min", b.Min, "must be a finite number")
	}
	if math.IsNaN(b.Max) || math.IsInf(b.Max, 0) {
		return invalid("bounds.max", b.Max, "must be a finite number")
	}
	if b.Min >= b.Max {
		return invalid("bounds.max", b.Max, fmt.Sprintf("must be greater than bounds.min (%v)", b.Min))
	}
	return nil
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%g, %g]", b.Min, b.Max)
}
