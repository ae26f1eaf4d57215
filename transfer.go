package ejection

import (
	"fmt"
	"math"
	"time"

	"github.com/gonum/floats"
)

// TransferResult stores the outcome of a Hohmann transfer computation.
// Angles are in radians, velocities in m/s and the transfer time in seconds.
type TransferResult struct {
	PhaseAngle    float64 // in (-π, π]
	EjectionAngle float64 // in [0, π]
	EjectionΔv    float64
	CaptureΔv     float64
	TransferTime  float64
}

// Transfer computes a patched-conic Hohmann transfer between a parking orbit around an origin body
// and a target orbit around a destination body, both bodies orbiting the same primary.
// The result is computed once upon creation: create a new Transfer if any input changes.
type Transfer struct {
	origin, destination *Body
	parking, target     *Orbit
	rslt                TransferResult
}

// NewTransfer returns the transfer from the parking orbit around origin to the target orbit around destination.
func NewTransfer(origin, destination *Body, parking, target *Orbit) (*Transfer, error) {
	if origin == nil || destination == nil || parking == nil || target == nil {
		return nil, fmt.Errorf("missing body or orbit: %w", ErrInvalidConfiguration)
	}
	if parking.Host() != origin {
		return nil, fmt.Errorf("parking orbit is not around %s: %w", origin.Name(), ErrInvalidConfiguration)
	}
	if target.Host() != destination {
		return nil, fmt.Errorf("target orbit is not around %s: %w", destination.Name(), ErrInvalidConfiguration)
	}
	if origin.IsRoot() || destination.IsRoot() {
		return nil, fmt.Errorf("%s and %s must both orbit a primary: %w", origin.Name(), destination.Name(), ErrInvalidConfiguration)
	}
	if !origin.SharesPrimaryWith(destination) {
		return nil, fmt.Errorf("%s orbits %s but %s orbits %s: %w", origin.Name(), origin.Host().Name(), destination.Name(), destination.Host().Name(), ErrInvalidConfiguration)
	}
	rslt, err := hohmann(origin, destination, parking, target)
	if err != nil {
		return nil, fmt.Errorf("%s -> %s: %w", origin.Name(), destination.Name(), err)
	}
	return &Transfer{origin, destination, parking, target, rslt}, nil
}

// hohmann performs the computation itself. The host consistency must have been checked already.
func hohmann(origin, destination *Body, parking, target *Orbit) (rslt TransferResult, err error) {
	aOrigin := origin.SemiMajorAxis()
	aDestination := destination.SemiMajorAxis()
	if floats.EqualWithinAbs(aOrigin, aDestination, distanceε) {
		err = fmt.Errorf("coincident orbits (a=%g): %w", aOrigin, ErrDegenerateInput)
		return
	}
	xfer, err := NewOrbit(math.Max(aOrigin, aDestination), math.Min(aOrigin, aDestination), origin.Host(), 0)
	if err != nil {
		return
	}
	rslt.TransferTime = xfer.Period() / 2

	vInfOrigin, err := excessVelocity(&origin.Orbit, xfer, aOrigin)
	if err != nil {
		return
	}
	vInfDestination, err := excessVelocity(&destination.Orbit, xfer, aDestination)
	if err != nil {
		return
	}

	if rslt.EjectionΔv, err = burnΔv(origin, parking, vInfOrigin); err != nil {
		return
	}
	if rslt.CaptureΔv, err = burnΔv(destination, target, vInfDestination); err != nil {
		return
	}

	rslt.PhaseAngle = normalizePhaseAngle(math.Pi * (1 - (1/math.Sqrt(8))*math.Sqrt(math.Pow(aOrigin/aDestination+1, 3))))

	esc, err := NewHyperbola(origin.GM(), vInfOrigin, parking.SemiMajorAxis())
	if err != nil {
		return
	}
	rslt.EjectionAngle = esc.EjectionAngle()
	return
}

// excessVelocity returns the hyperbolic excess velocity of the transfer orbit with respect to the body's
// orbit at radius r.
func excessVelocity(body, xfer *Orbit, r float64) (float64, error) {
	vBody, err := body.VelocityAt(r)
	if err != nil {
		return 0, err
	}
	vXfer, err := xfer.VelocityAt(r)
	if err != nil {
		return 0, err
	}
	vInf := math.Abs(vBody - vXfer)
	if floats.EqualWithinAbs(vInf, 0, velocityε) {
		return 0, fmt.Errorf("no excess velocity at r=%g: %w", r, ErrDegenerateInput)
	}
	return vInf, nil
}

// burnΔv returns the Δv needed between the provided orbit and the hyperbola patched at the body's SOI.
func burnΔv(body *Body, orbit *Orbit, vInf float64) (float64, error) {
	r := orbit.SemiMajorAxis()
	vPe2 := vInf*vInf + 2*body.GM()*(1/r-1/body.SOI())
	if vPe2 < 0 || math.IsNaN(vPe2) {
		return 0, fmt.Errorf("no hyperbola from r=%g with SOI=%g around %s: %w", r, body.SOI(), body.Name(), ErrDegenerateInput)
	}
	vOrbit, err := orbit.VelocityAt(r)
	if err != nil {
		return 0, err
	}
	return math.Abs(math.Sqrt(vPe2) - vOrbit), nil
}

// normalizePhaseAngle wraps the angle by 2π until its magnitude is at most 2π, and then shifts angles
// below -π by 2π.
func normalizePhaseAngle(θ float64) float64 {
	for math.Abs(θ) > 2*math.Pi {
		if θ > 0 {
			θ -= 2 * math.Pi
		} else {
			θ += 2 * math.Pi
		}
	}
	if θ < -math.Pi {
		θ += 2 * math.Pi
	}
	return θ
}

// Origin returns the origin body.
func (t *Transfer) Origin() *Body {
	return t.origin
}

// Destination returns the destination body.
func (t *Transfer) Destination() *Body {
	return t.destination
}

// ParkingOrbit returns the orbit around the origin from which the ejection burn is performed.
func (t *Transfer) ParkingOrbit() *Orbit {
	return t.parking
}

// TargetOrbit returns the orbit around the destination into which the capture burn inserts.
func (t *Transfer) TargetOrbit() *Orbit {
	return t.target
}

// Result returns a copy of the computed result.
func (t *Transfer) Result() TransferResult {
	return t.rslt
}

// PhaseAngle returns the angle by which the destination must lead the origin at departure.
func (t *Transfer) PhaseAngle() float64 {
	return t.rslt.PhaseAngle
}

// EjectionAngle returns the angle from the origin's velocity direction at which to burn.
func (t *Transfer) EjectionAngle() float64 {
	return t.rslt.EjectionAngle
}

// EjectionΔv returns the departure burn magnitude.
func (t *Transfer) EjectionΔv() float64 {
	return t.rslt.EjectionΔv
}

// CaptureΔv returns the arrival burn magnitude.
func (t *Transfer) CaptureΔv() float64 {
	return t.rslt.CaptureΔv
}

// TransferTime returns the time of flight in seconds.
func (t *Transfer) TransferTime() float64 {
	return t.rslt.TransferTime
}

// TransferDuration returns the time of flight as a time.Duration.
func (t *Transfer) TransferDuration() time.Duration {
	return time.Duration(t.rslt.TransferTime * float64(time.Second))
}

// Outward returns whether the destination is further from the primary than the origin.
func (t *Transfer) Outward() bool {
	return t.origin.SemiMajorAxis() < t.destination.SemiMajorAxis()
}

// String implements the stringer interface.
func (t *Transfer) String() string {
	return fmt.Sprintf("Phase Angle: %.2f°\nEjection Angle: %.2f°\nEjection Δv: %d m/s\nCapture Δv: %d m/s\nTransfer Time: %ds",
		t.rslt.PhaseAngle*180/math.Pi, t.rslt.EjectionAngle*180/math.Pi,
		int(math.Round(t.rslt.EjectionΔv)), int(math.Round(t.rslt.CaptureΔv)), int(math.Round(t.rslt.TransferTime)))
}
