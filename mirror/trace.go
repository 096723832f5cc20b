package mirror

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/geom"
)

// Tracer limits.
const (
	MaxReflections = 100

	// A hit replaces the current best when dot(hit-src, hit-best) is below this.
	hitThreshold = -0.1
	// The path has reached object space when the best hit is this close to dst.
	arriveEpsilon = 1e-3
)

// Result is the outcome of tracing one pixel.
type Result struct {
	Point       r2.Vec // object-space point
	Reflections int    // mirrors bounced off on the way
	Converged   bool   // false when the reflection cap was hit; Point is then best effort
}

// Trace unfolds the light path from the eye to pixel and returns the
// object-space point it came from. It is a pure function of its inputs.
func Trace(p *Polygon, pixel r2.Vec) Result {
	src, dst := p.center, pixel
	n := p.Len()

	for iter := 0; iter < MaxReflections; iter++ {
		best, bestK := dst, 0
		for k := 0; k < n; k++ {
			m0, m1 := p.vertices[k], p.vertices[k+1]
			hit := geom.Intersect(src, dst, m0, m1)
			if r2.Dot(r2.Sub(hit, src), r2.Sub(hit, best)) < hitThreshold {
				best, bestK = hit, k
			}
		}
		if r2.Norm(r2.Sub(best, dst)) < arriveEpsilon {
			return Result{Point: dst, Reflections: iter, Converged: true}
		}
		src = best
		dst = geom.Reflect(dst, p.vertices[bestK], p.vertices[bestK+1])
	}
	return Result{Point: dst, Reflections: MaxReflections}
}
