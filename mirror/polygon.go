// Package mirror describes the kaleidoscope's fan of mirrors and traces
// image-space pixels back to the object space behind them.
package mirror

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Construction errors.
var (
	ErrTooFewMirrors     = errors.New("mirror: at least 2 mirrors required")
	ErrNonPositiveRadius = errors.New("mirror: radius must be positive")
)

// Polygon is a closed fan of n straight mirrors around an eye point.
// Vertices lie on a circle around Center at angles 2πk/n; mirror k runs from
// vertex k to vertex k+1 and the last vertex repeats the first.
// A Polygon is immutable and safe for concurrent use.
type Polygon struct {
	center   r2.Vec
	radius   float64
	vertices []r2.Vec
}

// NewPolygon builds a fan of n mirrors of circumradius radius around center.
func NewPolygon(center r2.Vec, n int, radius float64) (*Polygon, error) {
	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewMirrors, n)
	}
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, fmt.Errorf("%w: got %g", ErrNonPositiveRadius, radius)
	}

	verts := make([]r2.Vec, n+1)
	for k := 0; k < n; k++ {
		sn, cs := math.Sincos(2 * math.Pi * float64(k) / float64(n))
		verts[k] = r2.Vec{X: center.X + radius*cs, Y: center.Y + radius*sn}
	}
	verts[n] = verts[0]

	return &Polygon{center: center, radius: radius, vertices: verts}, nil
}

// Center returns the eye point.
func (p *Polygon) Center() r2.Vec { return p.center }

// Radius returns the circumradius.
func (p *Polygon) Radius() float64 { return p.radius }

// Len returns the number of mirrors.
func (p *Polygon) Len() int { return len(p.vertices) - 1 }

// Mirror returns the endpoints of mirror k.
func (p *Polygon) Mirror(k int) (r2.Vec, r2.Vec) {
	return p.vertices[k], p.vertices[k+1]
}

// Vertices returns a copy of the n+1 vertices, for overlays.
func (p *Polygon) Vertices() []r2.Vec {
	return append([]r2.Vec(nil), p.vertices...)
}
