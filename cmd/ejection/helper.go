package main

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ejection"
	"github.com/gonum/matrix/mat64"
)

type positionsStatus uint8

const (
	leading positionsStatus = iota + 1
	trailing
)

func (p positionsStatus) String() string {
	switch p {
	case leading:
		return "leading"
	default:
		return "trailing"
	}
}

// alignment describes where the destination must be with respect to the origin at departure.
func alignment(xfer *ejection.Transfer) string {
	status := leading
	if xfer.PhaseAngle() < 0 {
		status = trailing
	}
	return fmt.Sprintf("%s must be %s %s by %.2f°", xfer.Destination().Name(), status, xfer.Origin().Name(), math.Abs(xfer.PhaseAngle())*180/math.Pi)
}

// vec formats a position in km.
func vec(v *mat64.Vector) string {
	return fmt.Sprintf("[%.0f %.0f %.0f] km", v.At(0, 0)/1e3, v.At(1, 0)/1e3, v.At(2, 0)/1e3)
}
