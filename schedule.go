package ejection

import (
	"fmt"
	"strconv"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// Schedule stores the departure and arrival epochs of a transfer.
type Schedule struct {
	Departure, Arrival     time.Time
	DepartureJD, ArrivalJD float64
}

// Schedule returns the arrival epoch for a departure at the provided time (converted to UTC).
func (t *Transfer) Schedule(departure time.Time) Schedule {
	departure = departure.UTC()
	arrival := departure.Add(t.TransferDuration())
	return Schedule{departure, arrival, julian.TimeToJD(departure), julian.TimeToJD(arrival)}
}

// ParseEpoch parses an epoch either as a Julian date or as a "2006-01-02 15:04:05" / RFC3339 UTC date.
func ParseEpoch(s string) (time.Time, error) {
	if isNumeric(s) {
		jd, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("could not parse Julian date `%s`: %w", s, err)
		}
		return julian.JDToTime(jd).UTC(), nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, "2006-01-02"} {
		if dt, err := time.Parse(layout, s); err == nil {
			return dt.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse epoch `%s`", s)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

// String implements the stringer interface.
func (s Schedule) String() string {
	return fmt.Sprintf("departure: %s (JD %.4f)\narrival: %s (JD %.4f)", s.Departure.Format(time.RFC3339), s.DepartureJD, s.Arrival.Format(time.RFC3339), s.ArrivalJD)
}
