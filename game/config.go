package game

import (
	"fmt"
	"image"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/kaleido/canvas"
	"github.com/pthm-cable/kaleido/config"
	"github.com/pthm-cable/kaleido/mirror"
	"github.com/pthm-cable/kaleido/mpm"
	"github.com/pthm-cable/kaleido/sampler"
)

// patternSide is the side of the built-in source image.
const patternSide = 512

// solverParams translates the physics and parallel sections into solver parameters.
func solverParams(cfg *config.Config) mpm.Params {
	p := mpm.DefaultParams(cfg.Physics.Quality)
	p.GridRes = cfg.Derived.GridRes
	p.Dt = cfg.Derived.DT
	p.Density = cfg.Physics.Density
	p.YoungsModulus = cfg.Physics.YoungsModulus
	p.PoissonRatio = cfg.Physics.PoissonRatio
	p.Gravity = r2.Vec{X: cfg.Physics.GravityX, Y: cfg.Physics.GravityY}
	p.BoundaryFriction = cfg.Physics.BoundaryFriction
	p.RimRadius = cfg.Physics.RimRadius
	p.EdgeMargin = cfg.Physics.EdgeMargin
	p.Partitions = cfg.Parallel.Partitions
	p.ParallelThreshold = cfg.Parallel.Threshold
	return p
}

// capOptions places the cap in the object buffer.
func capOptions(cfg *config.Config) canvas.CapOptions {
	return canvas.CapOptions{
		Shift:     r2.Vec{X: cfg.Cap.ShiftX, Y: cfg.Cap.ShiftY},
		RimBand:   cfg.Cap.RimBand,
		TickAngle: cfg.Derived.TickAngle,
	}
}

// newPolygon builds the mirror fan in pixel coordinates.
func newPolygon(cfg *config.Config) (*mirror.Polygon, error) {
	center := r2.Vec{X: cfg.Derived.MirrorCenterX, Y: cfg.Derived.MirrorCenterY}
	return mirror.NewPolygon(center, cfg.Scope.Mirrors, cfg.Derived.MirrorRadius)
}

// samplerOptions keeps sampled particles inside the solver's safe square.
func samplerOptions(cfg *config.Config, params mpm.Params) (sampler.Options, error) {
	mat, err := mpm.ParseMaterial(cfg.Material.Default)
	if err != nil {
		return sampler.Options{}, fmt.Errorf("material.default: %w", err)
	}
	lo, hi := params.SafeBounds()
	return sampler.Options{
		MaxAttempts: cfg.Sampler.MaxAttempts,
		Material:    mat,
		Lo:          lo,
		Hi:          hi,
	}, nil
}

// sourceImage decodes the configured image, or renders the built-in pattern
// when none is set. override takes precedence over the config.
func sourceImage(cfg *config.Config, override string) (image.Image, error) {
	path := cfg.Sampler.Image
	if override != "" {
		path = override
	}
	if path == "" {
		slog.Info("no source image configured, using built-in pattern", "side", patternSide)
		return sampler.Pattern(patternSide), nil
	}
	return sampler.Load(path)
}
