package ejection

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// Geometry is a snapshot of the departure configuration in the primary's frame (z is always zero).
// The origin is on the +X axis and moves towards +Y.
type Geometry struct {
	Origin, Destination *mat64.Vector // positions of the bodies at departure
	Burn                *mat64.Vector // position of the ejection burn
	BurnDirection       *mat64.Vector // unit vector from the origin to the burn point
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// rotate rotates the vector counter-clockwise by θ about the Z axis.
// R3 is a frame rotation, hence the sign.
func rotate(θ float64, v *mat64.Vector) *mat64.Vector {
	var rVec mat64.Vector
	rVec.MulVec(R3(-θ), v)
	return &rVec
}

// DepartureGeometry returns the positions of both bodies and of the burn point at departure.
// The destination leads the origin by the phase angle. The burn is performed at the periapsis of the
// escape hyperbola, whose outgoing asymptote is prograde for outward transfers and retrograde otherwise.
func (t *Transfer) DepartureGeometry() Geometry {
	xHat := mat64.NewVector(3, []float64{1, 0, 0})
	origin := mat64.NewVector(3, nil)
	origin.ScaleVec(t.origin.SemiMajorAxis(), xHat)
	destination := rotate(t.rslt.PhaseAngle, xHat)
	destination.ScaleVec(t.destination.SemiMajorAxis(), destination)

	asymptote := math.Pi / 2
	if !t.Outward() {
		asymptote = -math.Pi / 2
	}
	burnDir := rotate(asymptote-t.rslt.EjectionAngle, xHat)
	burn := mat64.NewVector(3, nil)
	burn.AddScaledVec(origin, t.parking.SemiMajorAxis(), burnDir)
	return Geometry{Origin: origin, Destination: destination, Burn: burn, BurnDirection: burnDir}
}
