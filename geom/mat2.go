// Package geom holds the small numeric and geometric helpers shared by the
// solver and the mirror tracer: 2x2 matrices, a closed-form 2x2 SVD, segment
// intersection and reflection across a line.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Mat2 is a 2x2 matrix stored row-major: [[XX, XY], [YX, YY]].
type Mat2 struct {
	XX, XY float64
	YX, YY float64
}

// Identity returns the 2x2 identity matrix.
func Identity() Mat2 {
	return Mat2{XX: 1, YY: 1}
}

// Diag returns a diagonal matrix.
func Diag(a, b float64) Mat2 {
	return Mat2{XX: a, YY: b}
}

// Outer returns the outer product a bᵗ.
func Outer(a, b r2.Vec) Mat2 {
	return Mat2{
		XX: a.X * b.X, XY: a.X * b.Y,
		YX: a.Y * b.X, YY: a.Y * b.Y,
	}
}

// Add returns m + n.
func (m Mat2) Add(n Mat2) Mat2 {
	return Mat2{m.XX + n.XX, m.XY + n.XY, m.YX + n.YX, m.YY + n.YY}
}

// Sub returns m - n.
func (m Mat2) Sub(n Mat2) Mat2 {
	return Mat2{m.XX - n.XX, m.XY - n.XY, m.YX - n.YX, m.YY - n.YY}
}

// Scale returns f·m.
func (m Mat2) Scale(f float64) Mat2 {
	return Mat2{f * m.XX, f * m.XY, f * m.YX, f * m.YY}
}

// Mul returns the matrix product m·n.
func (m Mat2) Mul(n Mat2) Mat2 {
	return Mat2{
		XX: m.XX*n.XX + m.XY*n.YX,
		XY: m.XX*n.XY + m.XY*n.YY,
		YX: m.YX*n.XX + m.YY*n.YX,
		YY: m.YX*n.XY + m.YY*n.YY,
	}
}

// MulVec returns m·v.
func (m Mat2) MulVec(v r2.Vec) r2.Vec {
	return r2.Vec{
		X: m.XX*v.X + m.XY*v.Y,
		Y: m.YX*v.X + m.YY*v.Y,
	}
}

// T returns the transpose.
func (m Mat2) T() Mat2 {
	return Mat2{XX: m.XX, XY: m.YX, YX: m.XY, YY: m.YY}
}

// Det returns the determinant.
func (m Mat2) Det() float64 {
	return m.XX*m.YY - m.XY*m.YX
}

// Trace returns the sum of the diagonal.
func (m Mat2) Trace() float64 {
	return m.XX + m.YY
}

// Rotation returns the counter-clockwise rotation by theta.
func Rotation(theta float64) Mat2 {
	s, c := math.Sincos(theta)
	return Mat2{XX: c, XY: -s, YX: s, YY: c}
}

// Perp rotates v by +90°.
func Perp(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.Y, Y: v.X}
}
