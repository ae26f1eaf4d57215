package ejection

import (
	"fmt"
	"math"
	"testing"

	"github.com/gonum/matrix/mat64"
)

const μSun = 1.32712e20

type system struct {
	sun, earth, mars, moon *Body
}

func newSystem(t *testing.T) system {
	t.Helper()
	sun, err := NewRootBody("Sun", μSun/G, 6.957e8, "yellow")
	if err != nil {
		t.Fatalf("sun: %s", err)
	}
	earth, err := NewBody("Earth", 5.972e24, 6.371e6, 1.496e11, 1.496e11, sun, 0, "blue", 300e3)
	if err != nil {
		t.Fatalf("earth: %s", err)
	}
	mars, err := NewBody("Mars", 6.417e23, 3.3895e6, 2.279e11, 2.279e11, sun, 0, "red", 200e3)
	if err != nil {
		t.Fatalf("mars: %s", err)
	}
	moon, err := NewBody("Moon", 7.342e22, 1.7374e6, 4.055e8, 3.633e8, earth, Deg2rad(5.145), "grey", 100e3)
	if err != nil {
		t.Fatalf("moon: %s", err)
	}
	return system{sun, earth, mars, moon}
}

// earthToMars returns the reference transfer from a 300 km parking orbit to a 200 km target orbit.
func earthToMars(t *testing.T, s system) *Transfer {
	t.Helper()
	xfer, err := NewCircularTransfer(s.earth, s.mars, 300e3, 200e3)
	if err != nil {
		t.Fatalf("Earth -> Mars: %s", err)
	}
	return xfer
}

// anglesEqual returns whether two angles in radians are equal.
func anglesEqual(a, b float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff < angleε || 2*math.Pi-diff < angleε {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10f degrees", math.Abs(Rad2deg(diff)))
}

// angleBetween returns the unsigned angle between two vectors.
func angleBetween(a, b *mat64.Vector) float64 {
	return math.Acos(mat64.Dot(a, b) / (mat64.Norm(a, 2) * mat64.Norm(b, 2)))
}
