package mpm

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/geom"
)

// ParticleField is the per-particle state, stored as parallel slices.
// The particle count is fixed at construction.
type ParticleField struct {
	Pos      []r2.Vec    // position in domain units
	Vel      []r2.Vec    // velocity
	C        []geom.Mat2 // APIC affine velocity
	F        []geom.Mat2 // deformation gradient
	Jp       []float64   // plastic volume ratio
	Material []Material

	// Rendering only; the solver never reads these.
	Color   [][3]float64 // RGB in [0,1]
	Palette []int        // index of the source colour in the sampler palette
}

// NewParticleField allocates n particles at the origin with F = I and Jp = 1.
func NewParticleField(n int) *ParticleField {
	f := &ParticleField{
		Pos:      make([]r2.Vec, n),
		Vel:      make([]r2.Vec, n),
		C:        make([]geom.Mat2, n),
		F:        make([]geom.Mat2, n),
		Jp:       make([]float64, n),
		Material: make([]Material, n),
		Color:    make([][3]float64, n),
		Palette:  make([]int, n),
	}
	for i := 0; i < n; i++ {
		f.F[i] = geom.Identity()
		f.Jp[i] = 1
		f.Material[i] = Jelly
	}
	return f
}

// Len returns the particle count.
func (f *ParticleField) Len() int { return len(f.Pos) }

// Clone returns a deep copy.
func (f *ParticleField) Clone() *ParticleField {
	return &ParticleField{
		Pos:      append([]r2.Vec(nil), f.Pos...),
		Vel:      append([]r2.Vec(nil), f.Vel...),
		C:        append([]geom.Mat2(nil), f.C...),
		F:        append([]geom.Mat2(nil), f.F...),
		Jp:       append([]float64(nil), f.Jp...),
		Material: append([]Material(nil), f.Material...),
		Color:    append([][3]float64(nil), f.Color...),
		Palette:  append([]int(nil), f.Palette...),
	}
}

// FieldStats summarizes the particle state.
type FieldStats struct {
	KineticEnergy float64 // Σ ½ m |v|²
	MinDetF       float64
	MaxDetF       float64
	MinJp         float64
	MaxJp         float64
}

// Stats scans every particle. particleMass scales the kinetic energy.
func (f *ParticleField) Stats(particleMass float64) FieldStats {
	st := FieldStats{
		MinDetF: math.Inf(1), MaxDetF: math.Inf(-1),
		MinJp: math.Inf(1), MaxJp: math.Inf(-1),
	}
	if f.Len() == 0 {
		return FieldStats{}
	}
	for i := range f.Pos {
		st.KineticEnergy += 0.5 * particleMass * r2.Norm2(f.Vel[i])
		d := f.F[i].Det()
		st.MinDetF = math.Min(st.MinDetF, d)
		st.MaxDetF = math.Max(st.MaxDetF, d)
		st.MinJp = math.Min(st.MinJp, f.Jp[i])
		st.MaxJp = math.Max(st.MaxJp, f.Jp[i])
	}
	return st
}

// Speeds appends |v| of every particle to dst.
func (f *ParticleField) Speeds(dst []float64) []float64 {
	for _, v := range f.Vel {
		dst = append(dst, r2.Norm(v))
	}
	return dst
}
