package mpm

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Grid is the Eulerian scratch grid, rebuilt every sub-step.
// Node (i, j) sits at (i·dx, j·dx) and is stored at i*Res + j.
type Grid struct {
	Res  int
	Mass []float64
	// Mom holds momentum after P2G and velocity after the grid update.
	Mom []r2.Vec
}

// NewGrid allocates a res x res grid.
func NewGrid(res int) *Grid {
	return &Grid{
		Res:  res,
		Mass: make([]float64, res*res),
		Mom:  make([]r2.Vec, res*res),
	}
}

// index returns the flat index of node (i, j).
func (g *Grid) index(i, j int) int {
	return i*g.Res + j
}

// resetRows zeroes nodes in rows [start, end).
func (g *Grid) resetRows(start, end int) {
	lo, hi := start*g.Res, end*g.Res
	clear(g.Mass[lo:hi])
	clear(g.Mom[lo:hi])
}

// Reset zeroes the whole grid.
func (g *Grid) Reset() {
	g.resetRows(0, g.Res)
}

// TotalMass sums the node masses.
func (g *Grid) TotalMass() float64 {
	return floats.Sum(g.Mass)
}

// Velocity returns the stored momentum/velocity at node (i, j).
func (g *Grid) Velocity(i, j int) r2.Vec {
	return g.Mom[g.index(i, j)]
}
