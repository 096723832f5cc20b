package mirror

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/geom"
	"github.com/pthm-cable/kaleido/workers"
)

func mustPolygon(t *testing.T, center r2.Vec, n int, radius float64) *Polygon {
	t.Helper()
	p, err := NewPolygon(center, n, radius)
	require.NoError(t, err)
	return p
}

func TestNewPolygonErrors(t *testing.T) {
	tests := []struct {
		name   string
		n      int
		radius float64
		want   error
	}{
		{"no mirrors", 0, 10, ErrTooFewMirrors},
		{"one mirror", 1, 10, ErrTooFewMirrors},
		{"zero radius", 3, 0, ErrNonPositiveRadius},
		{"negative radius", 3, -1, ErrNonPositiveRadius},
		{"NaN radius", 3, math.NaN(), ErrNonPositiveRadius},
		{"infinite radius", 3, math.Inf(1), ErrNonPositiveRadius},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPolygon(r2.Vec{}, tt.n, tt.radius)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, p)
		})
	}
}

func TestPolygonVertices(t *testing.T) {
	c := r2.Vec{X: 256, Y: 256}
	for _, n := range []int{2, 3, 5, 8} {
		p := mustPolygon(t, c, n, 76.8)
		v := p.Vertices()
		require.Len(t, v, n+1)
		assert.Equal(t, n, p.Len())
		assert.Equal(t, v[0], v[n], "fan must be closed")

		for k := 0; k < n; k++ {
			assert.InDelta(t, 76.8, r2.Norm(r2.Sub(v[k], c)), 1e-9)
			m0, m1 := p.Mirror(k)
			assert.Greater(t, r2.Norm(r2.Sub(m1, m0)), 0.0)
		}

		v[0] = r2.Vec{}
		assert.NotEqual(t, v[0], p.Vertices()[0], "Vertices must return a copy")
	}
}

func TestTraceCenter(t *testing.T) {
	c := r2.Vec{X: 256, Y: 256}
	p := mustPolygon(t, c, 5, 76.8)

	res := Trace(p, c)
	assert.Equal(t, c, res.Point)
	assert.Equal(t, 0, res.Reflections)
	assert.True(t, res.Converged)
}

func TestTraceInsideFanIsIdentity(t *testing.T) {
	c := r2.Vec{X: 256, Y: 256}
	p := mustPolygon(t, c, 5, 76.8)

	for _, px := range []r2.Vec{{X: 260, Y: 250}, {X: 300, Y: 256}, {X: 230, Y: 280}} {
		res := Trace(p, px)
		assert.Equal(t, px, res.Point)
		assert.Equal(t, 0, res.Reflections)
	}
}

func TestTraceSingleReflection(t *testing.T) {
	p := mustPolygon(t, r2.Vec{}, 3, 100)
	m0, m1 := p.Mirror(0)

	// Mirror 0's line is 50 from the centre along 60°; this pixel sits 10 past it.
	sn, cs := math.Sincos(math.Pi / 3)
	pixel := r2.Vec{X: 60 * cs, Y: 60 * sn}

	res := Trace(p, pixel)
	want := geom.Reflect(pixel, m0, m1)
	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Reflections)
	assert.InDelta(t, want.X, res.Point.X, 1e-9)
	assert.InDelta(t, want.Y, res.Point.Y, 1e-9)
	assert.InDelta(t, 20, res.Point.X, 1e-9)
	assert.InDelta(t, 40*sn, res.Point.Y, 1e-9)
}

func TestTraceDeterministic(t *testing.T) {
	p := mustPolygon(t, r2.Vec{X: 256, Y: 256}, 5, 76.8)
	for _, px := range []r2.Vec{{X: 0, Y: 0}, {X: 511, Y: 17}, {X: 400, Y: 480}, {X: 333.5, Y: 101.25}} {
		assert.Equal(t, Trace(p, px), Trace(p, px))
	}
}

func TestTraceReachesObjectSpace(t *testing.T) {
	c := r2.Vec{X: 64, Y: 64}
	p := mustPolygon(t, c, 4, 20)

	res := Trace(p, r2.Vec{X: 127, Y: 90})
	require.True(t, res.Converged)
	assert.Greater(t, res.Reflections, 1)
	assert.Less(t, r2.Norm(r2.Sub(res.Point, c)), 20+1.0)
}

func TestTraceHitsReflectionCap(t *testing.T) {
	p := mustPolygon(t, r2.Vec{}, 3, 10)
	pixel := r2.Vec{X: -111.25, Y: -1884.53}

	res := Trace(p, pixel)
	assert.False(t, res.Converged)
	assert.Equal(t, MaxReflections, res.Reflections)
	assert.Equal(t, res, Trace(p, pixel))
}

func TestBuildLookupCountsCappedTraces(t *testing.T) {
	const w, h = 64, 64
	// A small fan far from the buffer needs more bounces than the cap allows.
	p := mustPolygon(t, r2.Vec{X: 2000, Y: 2000}, 3, 10)

	serial := BuildLookup(nil, p, w, h)

	pool := workers.NewPool(4)
	defer pool.Stop()
	parallel := BuildLookup(pool, p, w, h)

	capped := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !Trace(p, r2.Vec{X: float64(x), Y: float64(y)}).Converged {
				capped++
			}
		}
	}
	require.Greater(t, capped, 0)
	assert.Equal(t, capped, serial.Capped)
	assert.Equal(t, capped, parallel.Capped)
	assert.Equal(t, serial.MaxReflections, parallel.MaxReflections)
	assert.Equal(t, serial.Index, parallel.Index)
	for _, idx := range parallel.Index {
		require.GreaterOrEqual(t, idx, int32(0))
		require.Less(t, idx, int32(w*h))
	}
}

func TestBuildLookupMatchesTrace(t *testing.T) {
	const w, h = 64, 48
	p := mustPolygon(t, r2.Vec{X: 32, Y: 24}, 5, 0.15*w)

	serial := BuildLookup(nil, p, w, h)

	pool := workers.NewPool(4)
	defer pool.Stop()
	parallel := BuildLookup(pool, p, w, h)

	assert.Equal(t, serial.Index, parallel.Index)
	assert.Equal(t, serial.Capped, parallel.Capped)
	assert.Equal(t, serial.MaxReflections, parallel.MaxReflections)

	capped := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			res := Trace(p, r2.Vec{X: float64(x), Y: float64(y)})
			if !res.Converged {
				capped++
			}
			ox := min(max(int(res.Point.X), 0), w-1)
			oy := min(max(int(res.Point.Y), 0), h-1)
			assert.Equal(t, oy*w+ox, parallel.At(x, y), "pixel (%d, %d)", x, y)
		}
	}
	assert.Equal(t, capped, parallel.Capped)
}

func TestClampIndex(t *testing.T) {
	assert.Equal(t, 0, clampIndex(-3, 10))
	assert.Equal(t, 9, clampIndex(10, 10))
	assert.Equal(t, 4, clampIndex(4, 10))
}
