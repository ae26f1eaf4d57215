package ejection

import (
	"fmt"
	"math"
)

const (
	// G is the gravitational constant in m^3/(kg s^2).
	G = 6.67408e-11
)

// Body defines a physical mass occupying an orbit around its host.
// Note: the embedded Orbit describes the path of this body around its host, not an orbit around this body.
type Body struct {
	Orbit
	name     string
	colour   string
	mass     float64 // kg
	μ        float64 // G*mass
	radius   float64 // m
	altitude float64 // display (default parking) altitude, m
	soi      float64 // sphere of influence radius, m
}

// NewBody returns a new body of the provided mass (kg) and radius (m) orbiting host between the provided
// apsides. The host may be nil for a root body.
func NewBody(name string, mass, radius, apoapsis, periapsis float64, host *Body, inclination float64, colour string, altitude float64) (*Body, error) {
	if mass < 0 || !finite(mass) {
		return nil, fmt.Errorf("%s: mass=%g: %w", name, mass, ErrInvalidBody)
	}
	if radius < 0 || !finite(radius) {
		return nil, fmt.Errorf("%s: radius=%g: %w", name, radius, ErrInvalidBody)
	}
	o, err := NewOrbit(apoapsis, periapsis, host, inclination)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	b := &Body{Orbit: *o, name: name, colour: colour, mass: mass, μ: G * mass, radius: radius, altitude: altitude}
	b.RefreshSOI()
	return b, nil
}

// NewRootBody returns a body which has no host, such as the primary of a planetary system.
func NewRootBody(name string, mass, radius float64, colour string) (*Body, error) {
	return NewBody(name, mass, radius, 0, 0, nil, 0, colour, 0)
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (b *Body) GM() float64 {
	if b == nil {
		return 0
	}
	return b.μ
}

// Mass returns the mass in kilograms.
func (b *Body) Mass() float64 {
	return b.mass
}

// SetMass sets the mass and updates μ.
// The sphere of influence is *not* refreshed, call RefreshSOI if needed.
func (b *Body) SetMass(mass float64) error {
	if mass < 0 || !finite(mass) {
		return fmt.Errorf("%s: mass=%g: %w", b.name, mass, ErrInvalidBody)
	}
	b.mass = mass
	b.μ = G * mass
	return nil
}

// SOI returns the sphere of influence radius with respect to the host, +Inf for a root body.
func (b *Body) SOI() float64 {
	return b.soi
}

// RefreshSOI recomputes the sphere of influence from the Laplace approximation.
func (b *Body) RefreshSOI() {
	host := b.Host()
	if host == nil || host.mass == 0 {
		b.soi = math.Inf(1)
		return
	}
	b.soi = b.SemiMajorAxis() * math.Pow(b.mass/host.mass, 2/5.)
}

// Radius returns the mean radius in meters.
func (b *Body) Radius() float64 {
	return b.radius
}

// SetRadius sets the mean radius.
func (b *Body) SetRadius(radius float64) {
	b.radius = radius
}

// Altitude returns the display altitude, used as the default parking altitude.
func (b *Body) Altitude() float64 {
	return b.altitude
}

// SetAltitude sets the display altitude.
func (b *Body) SetAltitude(altitude float64) {
	b.altitude = altitude
}

// Name returns the name of this body.
func (b *Body) Name() string {
	return b.name
}

// SetName sets the name.
func (b *Body) SetName(name string) {
	b.name = name
}

// Colour returns the display colour.
func (b *Body) Colour() string {
	return b.colour
}

// SetColour sets the display colour.
func (b *Body) SetColour(colour string) {
	b.colour = colour
}

// IsRoot returns whether this body has no host.
func (b *Body) IsRoot() bool {
	return b.Host() == nil
}

// SamePhysicalBody returns whether both bodies describe the same physical body.
// Hosts are compared by name because a data provider may build a new host for each lookup.
func (b *Body) SamePhysicalBody(o *Body) bool {
	if b == nil || o == nil {
		return false
	}
	return b == o || b.name == o.name
}

// SharesPrimaryWith returns whether both bodies orbit the same host.
func (b *Body) SharesPrimaryWith(o *Body) bool {
	return b.Host().SamePhysicalBody(o.Host())
}

// String implements the Stringer interface.
func (b *Body) String() string {
	return b.name + " body"
}
