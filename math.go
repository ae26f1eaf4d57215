package ejection

import (
	"math"
)

const (
	deg2rad = math.Pi / 180
)

// Deg2rad converts degrees to radians in [0, 2π).
func Deg2rad(a float64) float64 {
	r := math.Mod(a*deg2rad, 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	return r
}

// Rad2deg converts radians to degrees in [0, 360).
func Rad2deg(a float64) float64 {
	d := math.Mod(a/deg2rad, 360)
	if d < 0 {
		d += 360
	}
	return d
}
