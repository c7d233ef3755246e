// Package transform holds the pan (x, y), zoom (z) and rotation (r) state of a map view.
package transform

import (
	"math"

	"github.com/pdok/viewtiles/mathhelp"
)

const (
	MinZ = 0
	MaxZ = 24
	MinR = 0
	MaxR = mathhelp.Tau
)

// Props is a plain snapshot of a Transform's values
type Props struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	R float64 `json:"r"`
}

// Transform is only changed through Set, which validates every field
// and bumps the version once per call that actually changed something.
// The zero value is not ready for use, call New.
type Transform struct {
	props   Props
	version uint64
}

// New creates a Transform at x=0, y=0, z=1, r=0
func New(opts ...Option) *Transform {
	t := &Transform{props: Props{Z: 1}}
	t.Set(opts...)
	t.version = 0
	return t
}

func (t *Transform) X() float64 { return t.props.X }
func (t *Transform) Y() float64 { return t.props.Y }
func (t *Transform) Z() float64 { return t.props.Z }
func (t *Transform) R() float64 { return t.props.R }

// Props returns a copy of the current values
func (t *Transform) Props() Props { return t.props }

// Version counts the calls to Set that changed a value
func (t *Transform) Version() uint64 { return t.version }

// Equal compares the values, not the versions
func (t *Transform) Equal(o *Transform) bool {
	return t.props == o.props
}

// Option sets a single field in a call to Set
type Option func(*Props) bool

// Set applies the options and returns the (possibly unchanged) version.
// Non-finite values are ignored, z is clamped to [MinZ, MaxZ] and r is wrapped into [MinR, MaxR).
func (t *Transform) Set(opts ...Option) uint64 {
	changed := false
	for _, opt := range opts {
		if opt(&t.props) {
			changed = true
		}
	}
	if changed {
		t.version++
	}
	return t.version
}

// SetProps sets all four values at once
func (t *Transform) SetProps(p Props) uint64 {
	return t.Set(WithX(p.X), WithY(p.Y), WithZ(p.Z), WithR(p.R))
}

func WithX(x float64) Option {
	return func(p *Props) bool {
		return update(&p.X, x)
	}
}

func WithY(y float64) Option {
	return func(p *Props) bool {
		return update(&p.Y, y)
	}
}

func WithZ(z float64) Option {
	return func(p *Props) bool {
		if !mathhelp.IsFinite(z) {
			return false
		}
		return update(&p.Z, mathhelp.Clamp(z, MinZ, MaxZ))
	}
}

func WithR(r float64) Option {
	return func(p *Props) bool {
		if !mathhelp.IsFinite(r) {
			return false
		}
		return update(&p.R, mathhelp.Wrap(r, MinR, MaxR))
	}
}

func update(field *float64, v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) || *field == v {
		return false
	}
	*field = v
	return true
}
