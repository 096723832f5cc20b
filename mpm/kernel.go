package mpm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/geom"
)

// bspline returns the quadratic B-spline weights for the three nodes
// base, base+1, base+2 given the fractional offset fx = x/dx - base.
func bspline(fx float64) [3]float64 {
	a := 1.5 - fx
	b := fx - 1
	c := fx - 0.5
	return [3]float64{0.5 * a * a, 0.75 - b*b, 0.5 * c * c}
}

// stencil locates the 3x3 node neighbourhood of a particle.
func (s *Solver) stencil(pos r2.Vec) (bx, by int, fx r2.Vec, wx, wy [3]float64) {
	xs := r2.Scale(s.invDx, pos)
	bx = int(math.Floor(xs.X - 0.5))
	by = int(math.Floor(xs.Y - 0.5))
	fx = r2.Vec{X: xs.X - float64(bx), Y: xs.Y - float64(by)}
	return bx, by, fx, bspline(fx.X), bspline(fx.Y)
}

// scatter runs P2G for particles [start, end) into g. It also applies the
// constitutive update to F and Jp, which is why P2G owns the particle writes.
func (s *Solver) scatter(g *Grid, start, end int) {
	f := s.field
	for p := start; p < end; p++ {
		bx, by, fx, wx, wy := s.stencil(f.Pos[p])

		F := geom.Identity().Add(f.C[p].Scale(s.dt)).Mul(f.F[p])
		mat := f.Material[p]

		// Snow hardens under compression.
		h := math.Exp(10 * (1 - f.Jp[p]))
		if mat == Jelly {
			h = 0.4
		}
		mu, la := s.mu0*h, s.lambda0*h
		if mat == Liquid {
			mu = 0
		}

		u, sig, v := geom.SVD(F)
		if mat == Snow {
			clamped := r2.Vec{
				X: clamp(sig.X, 1-snowCompression, 1+snowStretch),
				Y: clamp(sig.Y, 1-snowCompression, 1+snowStretch),
			}
			f.Jp[p] *= sig.X / clamped.X
			f.Jp[p] *= sig.Y / clamped.Y
			sig = clamped
		}
		J := sig.X * sig.Y

		switch mat {
		case Liquid:
			F = geom.Identity().Scale(math.Sqrt(J))
		case Snow:
			F = geom.Compose(u, sig, v)
		}
		f.F[p] = F

		stress := F.Sub(u.Mul(v.T())).Mul(F.T()).Scale(2 * mu).
			Add(geom.Identity().Scale(la * J * (J - 1))).
			Scale(s.stressScale)
		affine := stress.Add(f.C[p].Scale(s.pMass))
		mv := r2.Scale(s.pMass, f.Vel[p])

		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				dpos := r2.Vec{X: (float64(i) - fx.X) * s.dx, Y: (float64(j) - fx.Y) * s.dx}
				w := wx[i] * wy[j]
				k := g.index(bx+i, by+j)
				g.Mom[k] = r2.Add(g.Mom[k], r2.Scale(w, r2.Add(mv, affine.MulVec(dpos))))
				g.Mass[k] += w * s.pMass
			}
		}
	}
}

// updateRows turns momentum into velocity for rows [start, end), applies
// gravity, the domain edge clamp and the rotating rim.
func (s *Solver) updateRows(start, end int, omega float64) {
	g := s.grid
	res := g.Res
	for i := start; i < end; i++ {
		for j := 0; j < res; j++ {
			k := g.index(i, j)
			m := g.Mass[k]
			if m <= 0 {
				continue
			}
			v := r2.Vec{X: g.Mom[k].X / m, Y: g.Mom[k].Y / m}
			v = r2.Add(v, r2.Scale(s.dt, s.params.Gravity))

			// Keep material inside the box.
			if i < s.margin && v.X < 0 {
				v.X = 0
			}
			if i > res-s.margin && v.X > 0 {
				v.X = 0
			}
			if j < s.margin && v.Y < 0 {
				v.Y = 0
			}
			if j > res-s.margin && v.Y > 0 {
				v.Y = 0
			}

			v = s.rim(r2.Vec{X: float64(i)*s.dx - s.rimCenter.X, Y: float64(j)*s.dx - s.rimCenter.Y}, v, omega)
			g.Mom[k] = v
		}
	}
}

// rim applies the rotating boundary to a node at offset dpos from the rim
// centre. Outward-moving material beyond the rim is made purely tangential,
// and its tangential speed approaches omega by at most friction·|v_radial|.
func (s *Solver) rim(dpos, v r2.Vec, omega float64) r2.Vec {
	r := r2.Norm(dpos)
	if r < s.rimRadius || r2.Dot(dpos, v) <= 0 {
		return v
	}
	vr := r2.Dot(dpos, v) / r
	vt := r2.Cross(dpos, v) / r
	if omega > vt {
		vt = math.Min(omega, vt+s.friction*vr)
	} else {
		vt = math.Max(omega, vt-s.friction*vr)
	}
	return r2.Scale(vt, r2.Scale(1/r, geom.Perp(dpos)))
}

// gather runs G2P for particles [start, end) and advects them.
func (s *Solver) gather(start, end int) {
	f := s.field
	g := s.grid
	cScale := 4 * s.invDx
	for p := start; p < end; p++ {
		bx, by, fx, wx, wy := s.stencil(f.Pos[p])

		var newV r2.Vec
		var newC geom.Mat2
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				dpos := r2.Vec{X: float64(i) - fx.X, Y: float64(j) - fx.Y}
				gv := g.Mom[g.index(bx+i, by+j)]
				w := wx[i] * wy[j]
				newV = r2.Add(newV, r2.Scale(w, gv))
				newC = newC.Add(geom.Outer(gv, dpos).Scale(cScale * w))
			}
		}
		f.Vel[p] = newV
		f.C[p] = newC
		f.Pos[p] = r2.Add(f.Pos[p], r2.Scale(s.dt, newV))
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
