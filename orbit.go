package ejection

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
)

const (
	eccentricityε = 5e-5                         // 0.00005
	angleε        = (5e-3 / 360) * (2 * math.Pi) // 0.005 degrees
	distanceε     = 1e-3                         // 1 mm
	velocityε     = 1e-9                         // in m/s
)

// Orbit defines a coplanar elliptical orbit via its apsides around a host body.
// The host is not owned by the orbit and is nil for a root body (e.g. the Sun).
type Orbit struct {
	apo, peri float64 // apsides, in meters
	a, e      float64 // derived
	i         float64 // inclination; informational only
	period    float64 // derived, in seconds
	host      *Body
}

// NewOrbit returns a new orbit from its apsides (in meters) around the provided host.
// The inclination is in radians and is not used in any computation.
// A zero periapsis is only allowed for the point orbit of a root body (both apsides zero).
func NewOrbit(apoapsis, periapsis float64, host *Body, inclination float64) (*Orbit, error) {
	if err := checkApsides(apoapsis, periapsis); err != nil {
		return nil, err
	}
	o := &Orbit{apo: apoapsis, peri: periapsis, i: inclination, host: host}
	o.derive()
	return o, nil
}

// NewCircularOrbit returns a circular orbit at the provided altitude above the body's surface.
func NewCircularOrbit(body *Body, altitude float64) (*Orbit, error) {
	if body == nil {
		return nil, fmt.Errorf("no body to orbit: %w", ErrInvalidConfiguration)
	}
	if !finite(altitude) {
		return nil, fmt.Errorf("altitude=%g: %w", altitude, ErrInvalidOrbitBounds)
	}
	r := body.Radius() + altitude
	return NewOrbit(r, r, body, 0)
}

// checkApsides returns an error wrapping ErrInvalidOrbitBounds unless 0 < rP <= rA, both finite, or rA = rP = 0.
func checkApsides(apoapsis, periapsis float64) error {
	switch {
	case !finite(apoapsis) || !finite(periapsis):
		return fmt.Errorf("apoapsis=%g periapsis=%g not finite: %w", apoapsis, periapsis, ErrInvalidOrbitBounds)
	case periapsis < 0 || periapsis > apoapsis:
		return fmt.Errorf("apoapsis=%g periapsis=%g: %w", apoapsis, periapsis, ErrInvalidOrbitBounds)
	case periapsis == 0 && apoapsis > 0:
		// Radial orbit, e=1.
		return fmt.Errorf("apoapsis=%g with a zero periapsis: %w", apoapsis, ErrInvalidOrbitBounds)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// derive recomputes the semi-major axis, eccentricity and period from the apsides.
func (o *Orbit) derive() {
	o.a = (o.apo + o.peri) / 2
	if o.apo+o.peri == 0 {
		// Point orbit, e.g. the root body.
		o.e = 0
	} else {
		o.e = (o.apo - o.peri) / (o.apo + o.peri)
	}
	if o.host == nil || o.host.GM() == 0 {
		// No gravitational parent: no period.
		o.period = 0
	} else {
		o.period = 2 * math.Pi * math.Sqrt(math.Pow(o.a, 3)/o.host.GM())
	}
}

// Apoapsis returns the apoapsis.
func (o *Orbit) Apoapsis() float64 {
	return o.apo
}

// SetApoapsis sets the apoapsis, which may not be smaller than the periapsis.
func (o *Orbit) SetApoapsis(apoapsis float64) error {
	if err := checkApsides(apoapsis, o.peri); err != nil {
		return err
	}
	o.apo = apoapsis
	o.derive()
	return nil
}

// Periapsis returns the periapsis.
func (o *Orbit) Periapsis() float64 {
	return o.peri
}

// SetPeriapsis sets the periapsis, which may not be greater than the apoapsis.
func (o *Orbit) SetPeriapsis(periapsis float64) error {
	if err := checkApsides(o.apo, periapsis); err != nil {
		return err
	}
	o.peri = periapsis
	o.derive()
	return nil
}

// SemiMajorAxis returns the semi-major axis.
func (o *Orbit) SemiMajorAxis() float64 {
	return o.a
}

// Eccentricity returns the eccentricity.
func (o *Orbit) Eccentricity() float64 {
	return o.e
}

// Inclination returns the inclination in radians.
func (o *Orbit) Inclination() float64 {
	return o.i
}

// SetInclination sets the inclination (in radians).
func (o *Orbit) SetInclination(inclination float64) {
	o.i = inclination
}

// Period returns the orbital period in seconds, or zero if there is no host.
func (o *Orbit) Period() float64 {
	return o.period
}

// PeriodDuration returns the orbital period as a time.Duration.
func (o *Orbit) PeriodDuration() time.Duration {
	return time.Duration(o.period * float64(time.Second))
}

// Host returns the body this orbit is around, nil for a root body.
func (o *Orbit) Host() *Body {
	return o.host
}

// VelocityAt returns the speed at the provided radius from the vis-viva equation.
func (o *Orbit) VelocityAt(radius float64) (float64, error) {
	if radius < o.peri || radius > o.apo {
		return 0, fmt.Errorf("r=%g not in [%g, %g]: %w", radius, o.peri, o.apo, ErrInvalidRadius)
	}
	if o.host == nil {
		return 0, fmt.Errorf("orbit has no host: %w", ErrInvalidConfiguration)
	}
	return math.Sqrt(o.host.GM() * (2/radius - 1/o.a)), nil
}

// String implements the stringer interface.
func (o *Orbit) String() string {
	host := "none"
	if o.host != nil {
		host = o.host.Name()
	}
	return fmt.Sprintf("rA=%.1f rP=%.1f a=%.1f e=%.4f i=%.3f T=%.1fs host=%s", o.apo, o.peri, o.a, o.e, Rad2deg(o.i), o.period, host)
}

// Equals returns whether two orbits are identical within tolerance.
func (o *Orbit) Equals(o1 *Orbit) (bool, error) {
	if o.host != o1.host {
		if o.host == nil || o1.host == nil || !o.host.SamePhysicalBody(o1.host) {
			return false, errors.New("different host")
		}
	}
	if !floats.EqualWithinAbs(o.a, o1.a, distanceε) {
		return false, errors.New("semi major axis invalid")
	}
	if !floats.EqualWithinAbs(o.e, o1.e, eccentricityε) {
		return false, errors.New("eccentricity invalid")
	}
	if !floats.EqualWithinAbs(o.i, o1.i, angleε) {
		return false, errors.New("inclination invalid")
	}
	return true, nil
}

// Radii2ae returns the semi major axis and the eccentricty from the radii.
func Radii2ae(rA, rP float64) (a, e float64, err error) {
	if rA < rP {
		return 0, 0, fmt.Errorf("periapsis cannot be greater than apoapsis: %w", ErrInvalidOrbitBounds)
	}
	a = (rP + rA) / 2
	if rA+rP == 0 {
		return a, 0, nil
	}
	e = (rA - rP) / (rA + rP)
	return
}
