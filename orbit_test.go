package ejection

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gonum/floats"
)

func TestOrbitCircular(t *testing.T) {
	s := newSystem(t)
	for _, r := range []float64{6.671e6, 4.2164e7, 3.84e8} {
		o, err := NewOrbit(r, r, s.earth, 0)
		if err != nil {
			t.Fatalf("r=%f: %s", r, err)
		}
		if o.Eccentricity() != 0 {
			t.Fatalf("circular orbit has e=%f", o.Eccentricity())
		}
		if o.SemiMajorAxis() != r {
			t.Fatalf("a=%f != r=%f", o.SemiMajorAxis(), r)
		}
		expT := 2 * math.Pi * math.Sqrt(r*r*r/s.earth.GM())
		if !floats.EqualWithinRel(o.Period(), expT, 1e-12) {
			t.Fatalf("T=%f expected %f", o.Period(), expT)
		}
		v, err := o.VelocityAt(r)
		if err != nil {
			t.Fatalf("v(r): %s", err)
		}
		if !floats.EqualWithinRel(v, math.Sqrt(s.earth.GM()/r), 1e-14) {
			t.Fatalf("v=%f expected %f", v, math.Sqrt(s.earth.GM()/r))
		}
	}
}

func TestOrbitEccentricityBounds(t *testing.T) {
	s := newSystem(t)
	for peri := 1e6; peri <= 1e9; peri += 1e8 {
		for apo := peri; apo <= 2e9; apo += 1.5e8 {
			o, err := NewOrbit(apo, peri, s.earth, 0)
			if err != nil {
				t.Fatalf("rA=%f rP=%f: %s", apo, peri, err)
			}
			if o.Eccentricity() < 0 || o.Eccentricity() >= 1 {
				t.Fatalf("e=%f not in [0, 1) for rA=%f rP=%f", o.Eccentricity(), apo, peri)
			}
		}
	}
	// Point orbit
	o, err := NewOrbit(0, 0, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if o.Eccentricity() != 0 || o.SemiMajorAxis() != 0 || o.Period() != 0 {
		t.Fatalf("point orbit invalid: %s", o)
	}
}

func TestOrbitInvalidBounds(t *testing.T) {
	s := newSystem(t)
	if _, err := NewOrbit(1e7, 2e7, s.earth, 0); !errors.Is(err, ErrInvalidOrbitBounds) {
		t.Fatalf("expected ErrInvalidOrbitBounds, got %v", err)
	}
	if _, err := NewOrbit(1e7, -1, s.earth, 0); !errors.Is(err, ErrInvalidOrbitBounds) {
		t.Fatalf("expected ErrInvalidOrbitBounds for negative periapsis, got %v", err)
	}
	o, err := NewOrbit(2e7, 1e7, s.earth, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.SetApoapsis(5e6); !errors.Is(err, ErrInvalidOrbitBounds) {
		t.Fatalf("expected ErrInvalidOrbitBounds, got %v", err)
	}
	if err := o.SetPeriapsis(3e7); !errors.Is(err, ErrInvalidOrbitBounds) {
		t.Fatalf("expected ErrInvalidOrbitBounds, got %v", err)
	}
	if o.Apoapsis() != 2e7 || o.Periapsis() != 1e7 || o.SemiMajorAxis() != 1.5e7 {
		t.Fatalf("failed mutation altered the orbit: %s", o)
	}
}

func TestOrbitNonFiniteBounds(t *testing.T) {
	s := newSystem(t)
	nan, inf := math.NaN(), math.Inf(1)
	for _, tc := range []struct {
		name      string
		apo, peri float64
	}{
		{"nan", nan, nan},
		{"nan apoapsis", nan, 1e7},
		{"nan periapsis", 2e7, nan},
		{"inf", inf, inf},
		{"inf apoapsis", inf, 1e7},
		{"negative inf periapsis", 2e7, math.Inf(-1)},
		{"radial", 2e7, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if o, err := NewOrbit(tc.apo, tc.peri, s.earth, 0); !errors.Is(err, ErrInvalidOrbitBounds) {
				t.Fatalf("expected ErrInvalidOrbitBounds, got %v (%v)", err, o)
			}
		})
	}
	o, err := NewOrbit(2e7, 1e7, s.earth, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []float64{nan, inf} {
		if err := o.SetApoapsis(f); !errors.Is(err, ErrInvalidOrbitBounds) {
			t.Fatalf("SetApoapsis(%f): expected ErrInvalidOrbitBounds, got %v", f, err)
		}
		if err := o.SetPeriapsis(f); !errors.Is(err, ErrInvalidOrbitBounds) {
			t.Fatalf("SetPeriapsis(%f): expected ErrInvalidOrbitBounds, got %v", f, err)
		}
		if _, err := NewCircularOrbit(s.earth, f); !errors.Is(err, ErrInvalidOrbitBounds) {
			t.Fatalf("NewCircularOrbit(%f): expected ErrInvalidOrbitBounds, got %v", f, err)
		}
	}
	if err := o.SetPeriapsis(0); !errors.Is(err, ErrInvalidOrbitBounds) {
		t.Fatalf("SetPeriapsis(0): expected ErrInvalidOrbitBounds, got %v", err)
	}
	if o.Apoapsis() != 2e7 || o.Periapsis() != 1e7 || math.IsNaN(o.Eccentricity()) {
		t.Fatalf("failed mutation altered the orbit: %s", o)
	}
	if _, err := NewCircularTransfer(s.earth, s.mars, inf, 200e3); !errors.Is(err, ErrInvalidOrbitBounds) {
		t.Fatalf("transfer from an infinite parking orbit: expected ErrInvalidOrbitBounds, got %v", err)
	}
	if _, err := NewBody("Void", nan, 1, 1e9, 1e9, s.sun, 0, "", 0); !errors.Is(err, ErrInvalidBody) {
		t.Fatalf("NaN mass: expected ErrInvalidBody, got %v", err)
	}
}

// Every valid orbit with a host has a finite speed at periapsis.
func TestOrbitVelocityAtPeriapsis(t *testing.T) {
	s := newSystem(t)
	for _, peri := range []float64{1, 6.671e6, 1e9} {
		o, err := NewOrbit(2e9, peri, s.earth, 0)
		if err != nil {
			t.Fatal(err)
		}
		v, err := o.VelocityAt(o.Periapsis())
		if err != nil {
			t.Fatalf("rP=%f: %s", peri, err)
		}
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("rP=%f: v=%f", peri, v)
		}
	}
}

func TestOrbitMutation(t *testing.T) {
	s := newSystem(t)
	o, err := NewOrbit(1e7, 1e7, s.earth, 0)
	if err != nil {
		t.Fatal(err)
	}
	initT := o.Period()
	if err := o.SetApoapsis(3e7); err != nil {
		t.Fatal(err)
	}
	if o.SemiMajorAxis() != 2e7 {
		t.Fatalf("a=%f expected 2e7", o.SemiMajorAxis())
	}
	if !floats.EqualWithinAbs(o.Eccentricity(), 0.5, 1e-15) {
		t.Fatalf("e=%f expected 0.5", o.Eccentricity())
	}
	if o.Period() <= initT {
		t.Fatal("period did not increase with the semi-major axis")
	}
	if err := o.SetPeriapsis(3e7); err != nil {
		t.Fatal(err)
	}
	if o.Eccentricity() != 0 || o.SemiMajorAxis() != 3e7 {
		t.Fatalf("orbit not circular after raising periapsis: %s", o)
	}
	o.SetInclination(Deg2rad(28.5))
	if ok, err := anglesEqual(o.Inclination(), Deg2rad(28.5)); !ok {
		t.Fatalf("inclination: %s", err)
	}
	if d := o.PeriodDuration(); !floats.EqualWithinAbs(d.Seconds(), o.Period(), 1e-6) {
		t.Fatalf("duration %s != %f s", d, o.Period())
	}
}

func TestOrbitNoHost(t *testing.T) {
	o, err := NewOrbit(1e7, 1e7, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if o.Period() != 0 {
		t.Fatalf("period without host should be zero, got %f", o.Period())
	}
	if o.PeriodDuration() != time.Duration(0) {
		t.Fatal("period duration without host should be zero")
	}
	if _, err := o.VelocityAt(1e7); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestOrbitVelocityAt(t *testing.T) {
	s := newSystem(t)
	rA, rP := 4.2164e7, 6.671e6
	o, err := NewOrbit(rA, rP, s.earth, 0)
	if err != nil {
		t.Fatal(err)
	}
	a := (rA + rP) / 2
	for _, r := range []float64{rP, rA} {
		v, err := o.VelocityAt(r)
		if err != nil {
			t.Fatalf("r=%f: %s", r, err)
		}
		if exp := math.Sqrt(s.earth.GM() * (2/r - 1/a)); v != exp {
			t.Fatalf("v(%f)=%f expected %f", r, v, exp)
		}
	}
	vP, _ := o.VelocityAt(rP)
	vA, _ := o.VelocityAt(rA)
	// Conservation of angular momentum at the apsides.
	if !floats.EqualWithinRel(vP*rP, vA*rA, 1e-12) {
		t.Fatalf("h at periapsis (%f) != h at apoapsis (%f)", vP*rP, vA*rA)
	}
	for _, r := range []float64{rP - 1, rA + 1, 0, -rA} {
		if _, err := o.VelocityAt(r); !errors.Is(err, ErrInvalidRadius) {
			t.Fatalf("r=%f: expected ErrInvalidRadius, got %v", r, err)
		}
	}
}

func TestOrbitCircularAltitude(t *testing.T) {
	s := newSystem(t)
	o, err := NewCircularOrbit(s.earth, 300e3)
	if err != nil {
		t.Fatal(err)
	}
	if o.Apoapsis() != s.earth.Radius()+300e3 || o.Periapsis() != o.Apoapsis() {
		t.Fatalf("invalid circular orbit: %s", o)
	}
	if o.Host() != s.earth {
		t.Fatal("circular orbit not around Earth")
	}
	if _, err := NewCircularOrbit(nil, 300e3); !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestOrbitEquality(t *testing.T) {
	s := newSystem(t)
	o0, _ := NewOrbit(2e7, 1e7, s.earth, Deg2rad(10))
	o1, _ := NewOrbit(2e7+1e-4, 1e7, s.earth, Deg2rad(10))
	if ok, err := o0.Equals(o1); !ok {
		t.Fatalf("orbits not equal: %s", err)
	}
	o2, _ := NewOrbit(2e7, 1e7, s.mars, Deg2rad(10))
	if ok, _ := o0.Equals(o2); ok {
		t.Fatal("orbits around different hosts are equal")
	}
	o3, _ := NewOrbit(2e7, 1e7, s.earth, Deg2rad(20))
	if ok, _ := o0.Equals(o3); ok {
		t.Fatal("orbits of different inclination are equal")
	}
	o4, _ := NewOrbit(3e7, 1e7, s.earth, Deg2rad(10))
	if ok, _ := o0.Equals(o4); ok {
		t.Fatal("orbits of different a are equal")
	}
}

func TestRadii2ae(t *testing.T) {
	a, e, err := Radii2ae(3e7, 1e7)
	if err != nil {
		t.Fatal(err)
	}
	if a != 2e7 || !floats.EqualWithinAbs(e, 0.5, 1e-15) {
		t.Fatalf("a=%f e=%f", a, e)
	}
	if _, _, err := Radii2ae(1e7, 3e7); !errors.Is(err, ErrInvalidOrbitBounds) {
		t.Fatalf("expected ErrInvalidOrbitBounds, got %v", err)
	}
	if _, e, _ := Radii2ae(0, 0); e != 0 {
		t.Fatalf("e=%f for a point orbit", e)
	}
}
