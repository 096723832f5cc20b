package mirror

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/workers"
)

// Lookup maps every pixel of a W x H image to the object pixel it shows.
// Both buffers are row-major with row 0 at the bottom.
type Lookup struct {
	W, H  int
	Index []int32

	Capped         int // pixels whose trace hit the reflection cap
	MaxReflections int // deepest converged path
}

// BuildLookup traces every pixel centre (x, y) of a w x h image.
// Traced points are truncated to pixel coordinates and clamped into the
// buffer. Rows are spread over pool; a nil pool runs on the caller.
func BuildLookup(pool *workers.Pool, p *Polygon, w, h int) *Lookup {
	l := &Lookup{W: w, H: h, Index: make([]int32, w*h)}
	capped := make([]int, pool.Size())
	deepest := make([]int, pool.Size())

	pool.Run(h, func(chunk, start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < w; x++ {
				res := Trace(p, r2.Vec{X: float64(x), Y: float64(y)})
				if !res.Converged {
					capped[chunk]++
				} else if res.Reflections > deepest[chunk] {
					deepest[chunk] = res.Reflections
				}
				ox := clampIndex(int(res.Point.X), w)
				oy := clampIndex(int(res.Point.Y), h)
				l.Index[y*w+x] = int32(oy*w + ox)
			}
		}
	})

	for i := range capped {
		l.Capped += capped[i]
		l.MaxReflections = max(l.MaxReflections, deepest[i])
	}
	return l
}

// At returns the object pixel index shown at image pixel (x, y).
func (l *Lookup) At(x, y int) int {
	return int(l.Index[y*l.W+x])
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
