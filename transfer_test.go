package ejection

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gonum/floats"
)

func TestTransferEarthMars(t *testing.T) {
	s := newSystem(t)
	xfer := earthToMars(t, s)
	if !floats.EqualWithinAbs(xfer.EjectionΔv(), 3600, 100) {
		t.Fatalf("ejection Δv=%f m/s expected ~3.6 km/s", xfer.EjectionΔv())
	}
	if !floats.EqualWithinAbs(xfer.CaptureΔv(), 2100, 100) {
		t.Fatalf("capture Δv=%f m/s expected ~2.1 km/s", xfer.CaptureΔv())
	}
	if !floats.EqualWithinRel(xfer.TransferTime(), 2.24e7, 1e-2) {
		t.Fatalf("transfer time=%f s expected ~2.24e7 s", xfer.TransferTime())
	}
	if days := xfer.TransferDuration().Hours() / 24; !floats.EqualWithinAbs(days, 259, 1) {
		t.Fatalf("transfer time=%f days expected ~259", days)
	}
	if !floats.EqualWithinAbs(Rad2deg(xfer.PhaseAngle()), 44.3, 0.1) {
		t.Fatalf("phase angle=%f deg expected ~44.3", Rad2deg(xfer.PhaseAngle()))
	}
	if !floats.EqualWithinAbs(Rad2deg(xfer.EjectionAngle()), 150.8, 1) {
		t.Fatalf("ejection angle=%f deg expected ~150.8", Rad2deg(xfer.EjectionAngle()))
	}
	if xfer.Origin() != s.earth || xfer.Destination() != s.mars {
		t.Fatal("transfer bodies not retained")
	}
	if xfer.ParkingOrbit().Host() != s.earth || xfer.TargetOrbit().Host() != s.mars {
		t.Fatal("transfer orbits not retained")
	}
	if !xfer.Outward() {
		t.Fatal("Earth -> Mars is outward")
	}
}

func TestTransferMarsEarth(t *testing.T) {
	s := newSystem(t)
	out := earthToMars(t, s)
	in, err := NewCircularTransfer(s.mars, s.earth, 200e3, 300e3)
	if err != nil {
		t.Fatal(err)
	}
	if in.Outward() {
		t.Fatal("Mars -> Earth is inward")
	}
	// Same ellipse, swapped burns.
	if in.TransferTime() != out.TransferTime() {
		t.Fatalf("transfer time differs: %f != %f", in.TransferTime(), out.TransferTime())
	}
	if !floats.EqualWithinRel(in.EjectionΔv(), out.CaptureΔv(), 1e-12) {
		t.Fatalf("inbound ejection Δv %f != outbound capture Δv %f", in.EjectionΔv(), out.CaptureΔv())
	}
	if !floats.EqualWithinRel(in.CaptureΔv(), out.EjectionΔv(), 1e-12) {
		t.Fatalf("inbound capture Δv %f != outbound ejection Δv %f", in.CaptureΔv(), out.EjectionΔv())
	}
	if in.PhaseAngle() >= 0 {
		t.Fatalf("inbound phase angle should be negative, got %f", in.PhaseAngle())
	}
}

func TestTransferResultIsImmutable(t *testing.T) {
	s := newSystem(t)
	xfer := earthToMars(t, s)
	rslt := xfer.Result()
	rslt.EjectionΔv = 0
	if err := s.earth.SetMass(1); err != nil {
		t.Fatal(err)
	}
	if xfer.EjectionΔv() == 0 || xfer.Result() == rslt {
		t.Fatal("transfer result changed after creation")
	}
}

func TestTransferInvalidConfiguration(t *testing.T) {
	s := newSystem(t)
	parking, _ := NewCircularOrbit(s.earth, 300e3)
	target, _ := NewCircularOrbit(s.mars, 200e3)
	aroundMoon, _ := NewCircularOrbit(s.moon, 100e3)
	aroundSun, _ := NewCircularOrbit(s.sun, 1e9)
	for _, tc := range []struct {
		name                string
		origin, destination *Body
		parking, target     *Orbit
	}{
		{"parking host is not origin", s.earth, s.mars, target, target},
		{"target host is not destination", s.earth, s.mars, parking, parking},
		{"different primaries", s.moon, s.mars, aroundMoon, target},
		{"root origin", s.sun, s.mars, aroundSun, target},
		{"root destination", s.earth, s.sun, parking, aroundSun},
		{"nil orbit", s.earth, s.mars, nil, target},
		{"nil body", nil, s.mars, parking, target},
	} {
		t.Run(tc.name, func(t *testing.T) {
			xfer, err := NewTransfer(tc.origin, tc.destination, tc.parking, tc.target)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
			if xfer != nil {
				t.Fatal("partial result returned")
			}
		})
	}
}

func TestTransferDegenerate(t *testing.T) {
	s := newSystem(t)
	twin, err := NewBody("Twin", 5.972e24, 6.371e6, 1.496e11, 1.496e11, s.sun, 0, "", 300e3)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewCircularTransfer(s.earth, twin, 300e3, 300e3); !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput for coincident orbits, got %v", err)
	}
	// Only μ is updated by SetMass: the stale SOI is now well inside the parking orbit.
	heavy, err := NewBody("Heavy", 1e10, 6.371e6, 1.496e11, 1.496e11, s.sun, 0, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := heavy.SetMass(1e30); err != nil {
		t.Fatal(err)
	}
	if _, err := NewCircularTransfer(heavy, s.mars, 300e3, 200e3); !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput for a parking orbit outside the SOI, got %v", err)
	}
}

func TestExcessVelocityZero(t *testing.T) {
	s := newSystem(t)
	xfer, err := NewOrbit(2.279e11, 1.496e11, s.sun, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := excessVelocity(xfer, xfer, 1.496e11); !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestTransferAngleBounds(t *testing.T) {
	s := newSystem(t)
	for aO := 5e10; aO < 5e12; aO *= 1.7 {
		for aD := 5e10; aD < 5e12; aD *= 1.3 {
			origin, err := NewBody("Origin", 1e24, 5e6, aO, aO, s.sun, 0, "", 0)
			if err != nil {
				t.Fatal(err)
			}
			destination, err := NewBody("Destination", 1e24, 5e6, aD, aD, s.sun, 0, "", 0)
			if err != nil {
				t.Fatal(err)
			}
			xfer, err := NewCircularTransfer(origin, destination, 500e3, 500e3)
			if err != nil {
				if errors.Is(err, ErrDegenerateInput) && floats.EqualWithinAbs(aO, aD, distanceε) {
					continue
				}
				t.Fatalf("aO=%g aD=%g: %s", aO, aD, err)
			}
			if θ := xfer.PhaseAngle(); θ <= -math.Pi || θ > math.Pi {
				t.Fatalf("aO=%g aD=%g: phase angle %f not in (-π, π]", aO, aD, θ)
			}
			if θ := xfer.EjectionAngle(); θ < 0 || θ > math.Pi {
				t.Fatalf("aO=%g aD=%g: ejection angle %f not in [0, π]", aO, aD, θ)
			}
			if xfer.EjectionΔv() < 0 || xfer.CaptureΔv() < 0 || xfer.TransferTime() < 0 {
				t.Fatalf("aO=%g aD=%g: negative result %+v", aO, aD, xfer.Result())
			}
		}
	}
}

func TestNormalizePhaseAngle(t *testing.T) {
	for _, tc := range []struct {
		θ, exp float64
	}{
		{0, 0},
		{1, 1},
		{math.Pi, math.Pi},
		{-1, -1},
		{-4, -4 + 2*math.Pi},
		{-7, -7 + 2*math.Pi},
		{-20, -20 + 6*math.Pi},
		{7, 7 - 2*math.Pi},
		{-2 * math.Pi, 0},
	} {
		if got := normalizePhaseAngle(tc.θ); !floats.EqualWithinAbs(got, tc.exp, 1e-12) {
			t.Fatalf("normalizePhaseAngle(%f)=%f expected %f", tc.θ, got, tc.exp)
		}
	}
}

func TestTransferString(t *testing.T) {
	s := newSystem(t)
	xfer := earthToMars(t, s)
	str := xfer.String()
	for _, exp := range []string{"Phase Angle: 44.3", "Ejection Angle: ", "Ejection Δv: 35", "Capture Δv: 20", "Transfer Time: 223"} {
		if !strings.Contains(str, exp) {
			t.Fatalf("`%s` not found in:\n%s", exp, str)
		}
	}
}
