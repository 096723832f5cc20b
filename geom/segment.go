package geom

import "gonum.org/v1/gonum/spatial/r2"

// Intersect returns the crossing point of segment (a0, a1) with segment
// (b0, b1). When the segments are parallel, or the crossing falls outside
// either segment, it returns a1 as the "no intersection" sentinel.
func Intersect(a0, a1, b0, b1 r2.Vec) r2.Vec {
	det := r2.Cross(r2.Sub(a0, a1), r2.Sub(b0, b1))
	if det == 0 {
		return a1
	}
	ta := r2.Cross(r2.Sub(a0, b0), r2.Sub(b0, b1)) / det
	tb := r2.Cross(r2.Sub(a0, b0), r2.Sub(a0, a1)) / det
	if ta < 0 || ta > 1 || tb < 0 || tb > 1 {
		return a1
	}
	return r2.Add(b0, r2.Scale(tb, r2.Sub(b1, b0)))
}

// Reflect mirrors p across the infinite line through p0 and p1.
// p0 and p1 must be distinct.
func Reflect(p, p0, p1 r2.Vec) r2.Vec {
	d := r2.Sub(p1, p0)
	n2 := d.X*d.X + d.Y*d.Y
	a := (d.X*d.X - d.Y*d.Y) / n2
	b := 2 * d.X * d.Y / n2
	m := Mat2{XX: a, XY: b, YX: b, YY: -a}
	return r2.Add(p0, m.MulVec(r2.Sub(p, p0)))
}
