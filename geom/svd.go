package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// SVD factors a = U·diag(sig)·Vᵗ with U and V proper rotations and
// sig.X >= sig.Y. When det(a) < 0 the second singular value is negative.
//
// The factorization goes through the polar decomposition a = R·S followed by
// a Jacobi rotation that diagonalizes the symmetric S. Matrices whose trace
// and antisymmetric part both vanish (x = y = 0 below) have no unique polar
// rotation and yield NaNs; deformation gradients with det > 0 never hit that.
func SVD(a Mat2) (u Mat2, sig r2.Vec, v Mat2) {
	x := a.XX + a.YY
	y := a.YX - a.XY
	scale := 1 / math.Sqrt(x*x+y*y)
	r := Mat2{XX: x * scale, XY: -y * scale, YX: y * scale, YY: x * scale}
	s := r.T().Mul(a)

	// s is symmetric up to rounding; average the off-diagonal.
	p, q, w := s.XX, 0.5*(s.XY+s.YX), s.YY
	theta := 0.5 * math.Atan2(2*q, p-w)
	sn, cs := math.Sincos(theta)

	sig = r2.Vec{
		X: p*cs*cs + 2*q*cs*sn + w*sn*sn,
		Y: p*sn*sn - 2*q*cs*sn + w*cs*cs,
	}
	v = Mat2{XX: cs, XY: -sn, YX: sn, YY: cs}
	u = r.Mul(v)
	return u, sig, v
}

// Compose rebuilds U·diag(sig)·Vᵗ.
func Compose(u Mat2, sig r2.Vec, v Mat2) Mat2 {
	return u.Mul(Diag(sig.X, sig.Y)).Mul(v.T())
}
