// Package catalog provides the physical data of the bodies available to transfers.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrNotFound is returned when a body is not in the catalog.
var ErrNotFound = errors.New("body not found")

// Record is the stored description of a body. Distances are in meters, the mass in kg and the
// inclination in degrees. An empty Host denotes a root body (e.g. the Sun).
type Record struct {
	Name        string  `toml:"name" json:"name"`
	Mass        float64 `toml:"mass" json:"mass"`
	Radius      float64 `toml:"radius" json:"radius"`
	Apoapsis    float64 `toml:"apoapsis" json:"apoapsis"`
	Periapsis   float64 `toml:"periapsis" json:"periapsis"`
	Host        string  `toml:"host,omitempty" json:"host,omitempty"`
	Inclination float64 `toml:"inclination" json:"inclination"`
	Colour      string  `toml:"colour,omitempty" json:"colour,omitempty"`
	Altitude    float64 `toml:"altitude" json:"altitude"`
}

// Validate checks that the record describes a physical body.
func (r Record) Validate() error {
	if r.Name == "" {
		return errors.New("record without a name")
	}
	for _, f := range []float64{r.Mass, r.Radius, r.Apoapsis, r.Periapsis, r.Inclination, r.Altitude} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%s: non finite value %g", r.Name, f)
		}
	}
	if r.Mass < 0 || r.Radius < 0 {
		return fmt.Errorf("%s: mass and radius must be positive", r.Name)
	}
	if r.Periapsis < 0 || r.Periapsis > r.Apoapsis {
		return fmt.Errorf("%s: periapsis %g not in [0, %g]", r.Name, r.Periapsis, r.Apoapsis)
	}
	if r.Periapsis == 0 && r.Apoapsis > 0 {
		return fmt.Errorf("%s: radial orbit", r.Name)
	}
	if r.Host == r.Name {
		return fmt.Errorf("%s orbits itself", r.Name)
	}
	return nil
}

// Provider returns body records by name.
type Provider interface {
	// Lookup returns the record of the named body, or an error wrapping ErrNotFound.
	Lookup(ctx context.Context, name string) (Record, error)
	// Names returns the names of all bodies in the catalog, sorted.
	Names(ctx context.Context) ([]string, error)
}

// All returns every record of the provider, sorted by name.
func All(ctx context.Context, p Provider) ([]Record, error) {
	names, err := p.Names(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(names))
	for _, name := range names {
		r, err := p.Lookup(ctx, name)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records, nil
}
