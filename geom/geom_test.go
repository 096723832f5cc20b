package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
)

func assertVecInDelta(t *testing.T, want, got r2.Vec, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, delta, msgAndArgs...)
}

func assertMatInDelta(t *testing.T, want, got Mat2, delta float64, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.XX, got.XX, delta, msgAndArgs...)
	assert.InDelta(t, want.XY, got.XY, delta, msgAndArgs...)
	assert.InDelta(t, want.YX, got.YX, delta, msgAndArgs...)
	assert.InDelta(t, want.YY, got.YY, delta, msgAndArgs...)
}

func TestMat2Algebra(t *testing.T) {
	a := Mat2{1, 2, 3, 4}
	b := Mat2{0, 1, -1, 2}

	assert.Equal(t, Mat2{-2, 5, -4, 11}, a.Mul(b))
	assert.Equal(t, Mat2{1, 3, 2, 4}, a.T())
	assert.Equal(t, -2.0, a.Det())
	assert.Equal(t, 5.0, a.Trace())
	assert.Equal(t, r2.Vec{X: 5, Y: 11}, a.MulVec(r2.Vec{X: 1, Y: 2}))
	assert.Equal(t, Mat2{3, 4, 6, 8}, Outer(r2.Vec{X: 1, Y: 2}, r2.Vec{X: 3, Y: 4}))
	assert.Equal(t, a, a.Mul(Identity()))
	assert.Equal(t, r2.Vec{X: -2, Y: 1}, Perp(r2.Vec{X: 1, Y: 2}))
}

func TestSVDMatchesGonum(t *testing.T) {
	tests := []struct {
		name string
		m    Mat2
	}{
		{"identity", Identity()},
		{"stretch", Diag(1.2, 0.9)},
		{"swapped stretch", Diag(0.8, 1.1)},
		{"shear", Mat2{1, 0.3, 0, 1}},
		{"rotated stretch", Rotation(0.7).Mul(Diag(1.05, 0.97)).Mul(Rotation(-0.2))},
		{"general", Mat2{1.01, -0.02, 0.015, 0.995}},
		{"uniform scale", Diag(1.3, 1.3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, sig, v := SVD(tt.m)

			var ref mat.SVD
			ok := ref.Factorize(mat.NewDense(2, 2, []float64{tt.m.XX, tt.m.XY, tt.m.YX, tt.m.YY}), mat.SVDFull)
			require.True(t, ok)
			want := ref.Values(nil)

			assert.InDelta(t, want[0], sig.X, 1e-9, "largest singular value")
			assert.InDelta(t, want[1], sig.Y, 1e-9, "smallest singular value")
			assertMatInDelta(t, tt.m, Compose(u, sig, v), 1e-9, "reconstruction")
			assert.InDelta(t, 1.0, u.Det(), 1e-9, "U is a rotation")
			assert.InDelta(t, 1.0, v.Det(), 1e-9, "V is a rotation")
		})
	}
}

func TestIntersectCrossing(t *testing.T) {
	// a runs along y = x, b runs along y = 2 - x; they cross at (1, 1).
	a0, a1 := r2.Vec{X: 0, Y: 0}, r2.Vec{X: 4, Y: 4}
	b0, b1 := r2.Vec{X: 0, Y: 2}, r2.Vec{X: 2, Y: 0}

	got := Intersect(a0, a1, b0, b1)
	assertVecInDelta(t, r2.Vec{X: 1, Y: 1}, got, 1e-6)

	// Crossing at a known parameter along b.
	b0, b1 = r2.Vec{X: -1, Y: 3}, r2.Vec{X: 3, Y: -1}
	tb := 0.5
	want := r2.Add(b0, r2.Scale(tb, r2.Sub(b1, b0)))
	assertVecInDelta(t, want, Intersect(a0, a1, b0, b1), 1e-6)
}

func TestIntersectSentinel(t *testing.T) {
	a0, a1 := r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 0}

	t.Run("parallel", func(t *testing.T) {
		got := Intersect(a0, a1, r2.Vec{X: 0, Y: 1}, r2.Vec{X: 1, Y: 1})
		assert.Equal(t, a1, got)
	})
	t.Run("lines cross beyond segment", func(t *testing.T) {
		got := Intersect(a0, a1, r2.Vec{X: 5, Y: -1}, r2.Vec{X: 5, Y: 1})
		assert.Equal(t, a1, got)
	})
	t.Run("degenerate first segment", func(t *testing.T) {
		got := Intersect(a0, a0, r2.Vec{X: -1, Y: -1}, r2.Vec{X: 1, Y: 1})
		assert.Equal(t, a0, got)
	})
}

func TestReflectInvolution(t *testing.T) {
	lines := [][2]r2.Vec{
		{{X: 0, Y: 0}, {X: 1, Y: 0}},
		{{X: 0, Y: 0}, {X: 0, Y: 3}},
		{{X: 100, Y: 0}, {X: -50, Y: 86.60254037844386}},
		{{X: 256, Y: 256}, {X: 300.5, Y: -12.25}},
		{{X: -3, Y: 7}, {X: 11, Y: 7.0001}},
	}
	points := []r2.Vec{{X: 0, Y: 0}, {X: 3, Y: -4}, {X: 256, Y: 256}, {X: -1e3, Y: 512.5}}

	for _, l := range lines {
		for _, p := range points {
			once := Reflect(p, l[0], l[1])
			twice := Reflect(once, l[0], l[1])
			assertVecInDelta(t, p, twice, 1e-6, "line %v point %v", l, p)
		}
	}
}

func TestReflectKnownPoints(t *testing.T) {
	// Across the x axis.
	got := Reflect(r2.Vec{X: 2, Y: 3}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 5, Y: 0})
	assertVecInDelta(t, r2.Vec{X: 2, Y: -3}, got, 1e-12)

	// Across y = x.
	got = Reflect(r2.Vec{X: 2, Y: 0}, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 1})
	assertVecInDelta(t, r2.Vec{X: 0, Y: 2}, got, 1e-12)

	// Points on the line are fixed.
	on := r2.Vec{X: 1.5, Y: 1.5}
	assertVecInDelta(t, on, Reflect(on, r2.Vec{X: 0, Y: 0}, r2.Vec{X: 1, Y: 1}), 1e-12)

	// Distance to the line is preserved.
	p0, p1 := r2.Vec{X: 1, Y: 2}, r2.Vec{X: 4, Y: -1}
	p := r2.Vec{X: 7, Y: 5}
	dir := r2.Unit(r2.Sub(p1, p0))
	dist := func(q r2.Vec) float64 { return math.Abs(r2.Cross(dir, r2.Sub(q, p0))) }
	assert.InDelta(t, dist(p), dist(Reflect(p, p0, p1)), 1e-9)
}
