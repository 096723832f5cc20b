// Package mpm implements the material point method solver: particles carry
// the material state, a background grid carries momentum for one sub-step.
package mpm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/workers"
)

// Phase names reported to a PhaseTimer.
const (
	PhaseReset = "reset"
	PhaseP2G   = "p2g"
	PhaseGrid  = "grid"
	PhaseG2P   = "g2p"
)

// PhaseTimer receives phase boundaries; telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Solver advances a ParticleField through fixed sub-steps.
// It owns the field and the grid; callers only read them between steps.
type Solver struct {
	params Params
	field  *ParticleField
	grid   *Grid
	pool   *workers.Pool
	timer  PhaseTimer

	// P2G scratch grids, one per partition; nil when running serially.
	scratch []*Grid

	// Cached constants for the kernels
	dx, invDx, dt float64
	pVol, pMass   float64
	mu0, lambda0  float64
	stressScale   float64
	rimCenter     r2.Vec
	rimRadius     float64
	friction      float64
	margin        int

	rimAngle float64
	substeps int64
}

// NewSolver validates params and takes ownership of field.
// pool may be nil for single-threaded operation.
func NewSolver(params Params, field *ParticleField, pool *workers.Pool) (*Solver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if field == nil || field.Len() == 0 {
		return nil, ErrEmptyField
	}

	lo, hi := params.SafeBounds()
	for i, p := range field.Pos {
		if !(p.X >= lo && p.X < hi && p.Y >= lo && p.Y < hi) {
			return nil, fmt.Errorf("%w: particle %d at (%g, %g), allowed [%g, %g)", ErrOutOfDomain, i, p.X, p.Y, lo, hi)
		}
	}

	s := &Solver{
		params:    params,
		field:     field,
		grid:      NewGrid(params.GridRes),
		pool:      pool,
		dx:        params.Dx(),
		invDx:     float64(params.GridRes),
		dt:        params.Dt,
		pVol:      params.ParticleVolume(),
		pMass:     params.ParticleMass(),
		rimCenter: r2.Vec{X: 0.5, Y: 0.5},
		rimRadius: params.RimRadius,
		friction:  params.BoundaryFriction,
		margin:    params.EdgeMargin,
	}
	s.mu0, s.lambda0 = params.Lame()
	s.stressScale = -s.dt * s.pVol * 4 * s.invDx * s.invDx

	parts := params.Partitions
	if field.Len() < params.ParallelThreshold {
		parts = 1
	}
	if parts > field.Len() {
		parts = field.Len()
	}
	if parts > 1 {
		s.scratch = make([]*Grid, parts)
		for i := range s.scratch {
			s.scratch[i] = NewGrid(params.GridRes)
		}
	}
	return s, nil
}

// SetPhaseTimer installs an optional phase timer.
func (s *Solver) SetPhaseTimer(t PhaseTimer) { s.timer = t }

// Params returns the solver parameters.
func (s *Solver) Params() Params { return s.params }

// Field returns the particle field. It must not be modified during Step.
func (s *Solver) Field() *ParticleField { return s.field }

// Grid returns the grid as left by the last sub-step.
func (s *Solver) Grid() *Grid { return s.grid }

// RimAngle is the accumulated rotation of the rim in radians.
func (s *Solver) RimAngle() float64 { return s.rimAngle }

// Substeps is the total number of sub-steps taken.
func (s *Solver) Substeps() int64 { return s.substeps }

// TotalGridMass sums the grid mass left by the last sub-step.
func (s *Solver) TotalGridMass() float64 { return s.grid.TotalMass() }

// SetMaterial relabels every particle.
func (s *Solver) SetMaterial(m Material) {
	for i := range s.field.Material {
		s.field.Material[i] = m
	}
}

// Step advances the simulation by floor(duration/dt) sub-steps with the rim
// moving at tangential speed omega, and returns the number of sub-steps taken.
func (s *Solver) Step(duration, omega float64) int {
	n := int(math.Floor(duration / s.dt))
	for i := 0; i < n; i++ {
		s.Substep(omega)
	}
	return n
}

// Substep runs one reset / P2G / grid update / G2P cycle.
func (s *Solver) Substep(omega float64) {
	s.phase(PhaseReset)
	s.resetGrid()
	s.phase(PhaseP2G)
	s.particleToGrid()
	s.phase(PhaseGrid)
	s.updateGrid(omega)
	s.phase(PhaseG2P)
	s.gridToParticle()

	s.rimAngle += s.dt * omega / s.rimRadius
	s.substeps++
}

func (s *Solver) phase(name string) {
	if s.timer != nil {
		s.timer.StartPhase(name)
	}
}

func (s *Solver) resetGrid() {
	s.pool.Run(s.grid.Res, func(_, start, end int) {
		s.grid.resetRows(start, end)
	})
}

// particleToGrid scatters particle mass and momentum. With partitions, each
// partition fills its own scratch grid and the grids are summed in partition
// order, so the result does not depend on goroutine scheduling.
func (s *Solver) particleToGrid() {
	n := s.field.Len()
	if s.scratch == nil {
		s.scatter(s.grid, 0, n)
		return
	}

	parts := len(s.scratch)
	s.pool.Each(parts, func(k int) {
		g := s.scratch[k]
		g.Reset()
		s.scatter(g, k*n/parts, (k+1)*n/parts)
	})

	res := s.grid.Res
	s.pool.Run(res, func(_, start, end int) {
		for idx := start * res; idx < end*res; idx++ {
			m := s.grid.Mass[idx]
			mom := s.grid.Mom[idx]
			for _, g := range s.scratch {
				m += g.Mass[idx]
				mom = r2.Add(mom, g.Mom[idx])
			}
			s.grid.Mass[idx] = m
			s.grid.Mom[idx] = mom
		}
	})
}

func (s *Solver) updateGrid(omega float64) {
	s.pool.Run(s.grid.Res, func(_, start, end int) {
		s.updateRows(start, end, omega)
	})
}

func (s *Solver) gridToParticle() {
	s.pool.Run(s.field.Len(), func(_, start, end int) {
		s.gather(start, end)
	})
}
