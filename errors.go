package ejection

import "errors"

var (
	// ErrInvalidOrbitBounds is returned when the periapsis would exceed the apoapsis (or is negative).
	ErrInvalidOrbitBounds = errors.New("invalid orbit bounds")
	// ErrInvalidRadius is returned when a velocity is requested outside of [periapsis, apoapsis].
	ErrInvalidRadius = errors.New("radius outside of orbit")
	// ErrInvalidConfiguration is returned when bodies and orbits are not hosted as a transfer requires.
	ErrInvalidConfiguration = errors.New("invalid transfer configuration")
	// ErrDegenerateInput is returned when the closed form transfer geometry is undefined.
	ErrDegenerateInput = errors.New("degenerate transfer geometry")
	// ErrInvalidBody is returned for non physical body parameters (e.g. a negative mass).
	ErrInvalidBody = errors.New("invalid body")
)
