package ejection

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
)

// Hyperbola defines a body centered escape (or capture) hyperbola from its hyperbolic excess velocity
// and its periapsis radius.
type Hyperbola struct {
	μ, vInf, rP float64
	a, b, e     float64
}

// NewHyperbola returns the hyperbola of hyperbolic excess velocity vInf (m/s) and periapsis radius rP (m)
// around a body of gravitational parameter μ.
func NewHyperbola(μ, vInf, rP float64) (Hyperbola, error) {
	if floats.EqualWithinAbs(vInf, 0, velocityε) {
		return Hyperbola{}, fmt.Errorf("v∞=%g: %w", vInf, ErrDegenerateInput)
	}
	if μ <= 0 || rP <= 0 {
		return Hyperbola{}, fmt.Errorf("μ=%g rP=%g: %w", μ, rP, ErrInvalidConfiguration)
	}
	h := Hyperbola{μ: μ, vInf: vInf, rP: rP}
	h.a = -μ / (vInf * vInf)
	h.b = math.Sqrt(rP*rP - 2*h.a*rP)
	h.e = math.Sqrt(1 + (h.b*h.b)/(h.a*h.a))
	return h, nil
}

// SemiMajorAxis returns the (negative) semi-major axis.
func (h Hyperbola) SemiMajorAxis() float64 {
	return h.a
}

// SemiMinorAxis returns the semi-minor axis, which is also the B-plane miss distance |B|.
func (h Hyperbola) SemiMinorAxis() float64 {
	return h.b
}

// Eccentricity returns the eccentricity, always greater than one.
func (h Hyperbola) Eccentricity() float64 {
	return h.e
}

// AsymptoteAngle returns the angle between the periapsis direction and the outgoing asymptote.
func (h Hyperbola) AsymptoteAngle() float64 {
	return math.Acos(1 / h.e)
}

// EjectionAngle returns the angle from the host's velocity direction at which the burn at periapsis
// must be performed for the outgoing asymptote to be aligned with the host's velocity.
func (h Hyperbola) EjectionAngle() float64 {
	return math.Pi - h.AsymptoteAngle()
}

// TurnAngle returns the total turning angle ψ between the incoming and outgoing asymptotes.
func (h Hyperbola) TurnAngle() float64 {
	return 2 * math.Asin(1/h.e)
}

// PeriapsisVelocity returns the speed at periapsis (energy conservation from infinity).
func (h Hyperbola) PeriapsisVelocity() float64 {
	return math.Sqrt(h.vInf*h.vInf + 2*h.μ/h.rP)
}

// String implements the stringer interface.
func (h Hyperbola) String() string {
	return fmt.Sprintf("a=%.1f b=%.1f e=%.6f v∞=%.3f rP=%.1f", h.a, h.b, h.e, h.vInf, h.rP)
}
