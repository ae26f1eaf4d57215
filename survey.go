package ejection

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

const (
	secondsPerYear = 31536000 // 365 days
)

// SurveyEntry is one origin/destination pair of a survey.
type SurveyEntry struct {
	Origin, Destination string
	Result              TransferResult
}

// AltitudeFunc returns the altitude of the circular parking (or target) orbit to use around a body.
type AltitudeFunc func(*Body) float64

// DisplayAltitude uses the display altitude of each body.
func DisplayAltitude(b *Body) float64 {
	return b.Altitude()
}

// Survey computes the transfer between every ordered pair of distinct bodies, using circular orbits at
// the altitudes returned by parkingFor around the origin and targetFor around the destination (the
// display altitude if nil). Pairs which cannot be computed, such as bodies around different primaries,
// are skipped and their error returned.
func Survey(bodies []*Body, parkingFor, targetFor AltitudeFunc) (entries []SurveyEntry, errs []error) {
	if parkingFor == nil {
		parkingFor = DisplayAltitude
	}
	if targetFor == nil {
		targetFor = DisplayAltitude
	}
	for _, origin := range bodies {
		for _, destination := range bodies {
			if origin.SamePhysicalBody(destination) {
				continue
			}
			xfer, err := NewCircularTransfer(origin, destination, parkingFor(origin), targetFor(destination))
			if err != nil {
				errs = append(errs, err)
				continue
			}
			entries = append(entries, SurveyEntry{origin.Name(), destination.Name(), xfer.Result()})
		}
	}
	return
}

// NewCircularTransfer returns the transfer between circular orbits at the provided altitudes.
func NewCircularTransfer(origin, destination *Body, parkingAltitude, targetAltitude float64) (*Transfer, error) {
	parking, err := NewCircularOrbit(origin, parkingAltitude)
	if err != nil {
		return nil, fmt.Errorf("parking orbit around %s: %w", origin, err)
	}
	target, err := NewCircularOrbit(destination, targetAltitude)
	if err != nil {
		return nil, fmt.Errorf("target orbit around %s: %w", destination, err)
	}
	return NewTransfer(origin, destination, parking, target)
}

// WriteSurveyCSV writes the survey entries as CSV, with the transfer time in years.
func WriteSurveyCSV(w io.Writer, entries []SurveyEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"origin", "destination", "phase_angle_deg", "ejection_angle_deg", "ejection_dv_mps", "capture_dv_mps", "transfer_time_yr"}); err != nil {
		return err
	}
	for _, entry := range entries {
		r := entry.Result
		record := []string{
			entry.Origin,
			entry.Destination,
			strconv.FormatFloat(r.PhaseAngle/deg2rad, 'f', 2, 64),
			strconv.FormatFloat(r.EjectionAngle/deg2rad, 'f', 2, 64),
			strconv.FormatFloat(r.EjectionΔv, 'f', 2, 64),
			strconv.FormatFloat(r.CaptureΔv, 'f', 2, 64),
			strconv.FormatFloat(r.TransferTime/secondsPerYear, 'f', 3, 64),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
