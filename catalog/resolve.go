package catalog

import (
	"context"
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ejection"
)

// maxDepth bounds the host chain of a body (e.g. Moon -> Earth -> Sun is of depth 2).
const maxDepth = 8

// Resolver builds bodies from a provider. Hosts are built once per resolver, so that all bodies
// resolved through it share the same host pointers.
type Resolver struct {
	p      Provider
	bodies map[string]*ejection.Body
}

// NewResolver returns a resolver reading from the provider.
func NewResolver(p Provider) *Resolver {
	return &Resolver{p: p, bodies: make(map[string]*ejection.Body)}
}

// Resolve returns the named body with its complete host chain.
func Resolve(ctx context.Context, p Provider, name string) (*ejection.Body, error) {
	return NewResolver(p).Body(ctx, name)
}

// ResolveAll returns every body of the provider.
func ResolveAll(ctx context.Context, p Provider) ([]*ejection.Body, error) {
	names, err := p.Names(ctx)
	if err != nil {
		return nil, err
	}
	r := NewResolver(p)
	bodies := make([]*ejection.Body, 0, len(names))
	for _, name := range names {
		b, err := r.Body(ctx, name)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

// Body returns the named body.
func (r *Resolver) Body(ctx context.Context, name string) (*ejection.Body, error) {
	return r.body(ctx, name, 0)
}

func (r *Resolver) body(ctx context.Context, name string, depth int) (*ejection.Body, error) {
	if b, ok := r.bodies[name]; ok {
		return b, nil
	}
	if depth > maxDepth {
		return nil, fmt.Errorf("host chain of %s deeper than %d (cycle?): %w", name, maxDepth, ejection.ErrInvalidBody)
	}
	rec, err := r.p.Lookup(ctx, name)
	if err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ejection.ErrInvalidBody, err)
	}
	var b *ejection.Body
	if rec.Host == "" {
		b, err = ejection.NewRootBody(rec.Name, rec.Mass, rec.Radius, rec.Colour)
		if err == nil {
			b.SetAltitude(rec.Altitude)
		}
	} else {
		host, herr := r.body(ctx, rec.Host, depth+1)
		if herr != nil {
			return nil, fmt.Errorf("host of %s: %w", rec.Name, herr)
		}
		b, err = ejection.NewBody(rec.Name, rec.Mass, rec.Radius, rec.Apoapsis, rec.Periapsis, host, rec.Inclination*math.Pi/180, rec.Colour, rec.Altitude)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rec.Name, err)
	}
	r.bodies[name] = b
	return b, nil
}

// FromBody returns the record of a body.
func FromBody(b *ejection.Body) Record {
	rec := Record{
		Name:        b.Name(),
		Mass:        b.Mass(),
		Radius:      b.Radius(),
		Apoapsis:    b.Apoapsis(),
		Periapsis:   b.Periapsis(),
		Inclination: b.Inclination()*180/math.Pi,
		Colour:      b.Colour(),
		Altitude:    b.Altitude(),
	}
	if host := b.Host(); host != nil {
		rec.Host = host.Name()
	}
	return rec
}
