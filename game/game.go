// Package game ties the solver, the mirror fan and the compositor into the
// per-frame loop. It has no window dependency; the viewer package drives it
// interactively and cmd/render drives it headless.
package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/kaleido/canvas"
	"github.com/pthm-cable/kaleido/config"
	"github.com/pthm-cable/kaleido/mirror"
	"github.com/pthm-cable/kaleido/mpm"
	"github.com/pthm-cable/kaleido/sampler"
	"github.com/pthm-cable/kaleido/telemetry"
	"github.com/pthm-cable/kaleido/workers"
)

// Options configures a Game.
type Options struct {
	Seed           int64   // RNG seed for particle sampling; 0 uses the current time
	LogStats       bool    // log window and perf stats via slog
	StatsWindowSec float64 // simulated seconds per stats window; 0 uses the config
	OutputDir      string  // CSV and config output; empty disables
	ImagePath      string  // source image; overrides sampler.image
	ShowObject     bool    // start on the object view instead of the kaleidoscope

	Config        *config.Config              // nil uses config.Cfg()
	StatsCallback func(telemetry.WindowStats) // called on every window flush
}

// Game holds the complete simulation and display state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	pool       *workers.Pool
	solver     *mpm.Solver
	polygon    *mirror.Polygon
	lookup     *mirror.Lookup
	compositor *canvas.Compositor
	palette    []color.RGBA

	// Control state
	omega      float64
	material   mpm.Material
	showObject bool
	paused     bool
	frame      int32

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	speeds        []float64
}

// NewGameWithOptions samples the source image and builds every component.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	params := solverParams(cfg)
	sopts, err := samplerOptions(cfg, params)
	if err != nil {
		return nil, err
	}
	img, err := sourceImage(cfg, opts.ImagePath)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	field, palette, err := sampler.Sample(img, cfg.Derived.ParticleCount, rng, sopts)
	if err != nil {
		return nil, fmt.Errorf("sampling particles: %w", err)
	}
	slog.Info("particles sampled",
		"count", field.Len(),
		"colors", len(palette),
		"material", sopts.Material.String(),
		"seed", seed,
	)

	pool := workers.NewPool(cfg.Parallel.Workers)
	solver, err := mpm.NewSolver(params, field, pool)
	if err != nil {
		pool.Stop()
		return nil, fmt.Errorf("creating solver: %w", err)
	}

	polygon, err := newPolygon(cfg)
	if err != nil {
		pool.Stop()
		return nil, fmt.Errorf("creating mirrors: %w", err)
	}

	res := cfg.Derived.Res
	start := time.Now()
	lookup := mirror.BuildLookup(pool, polygon, res, res)
	slog.Info("reflection lookup built",
		"res", res,
		"mirrors", polygon.Len(),
		"max_reflections", lookup.MaxReflections,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if lookup.Capped > 0 {
		slog.Warn("reflection traces hit the cap", "pixels", lookup.Capped, "cap", mirror.MaxReflections)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	g := &Game{
		cfg:        cfg,
		rng:        rng,
		rngSeed:    seed,
		pool:       pool,
		solver:     solver,
		polygon:    polygon,
		lookup:     lookup,
		compositor: canvas.NewCompositor(res, capOptions(cfg), pool),
		palette:    palette,

		omega:      cfg.ClampOmega(cfg.Control.OmegaInitial),
		material:   sopts.Material,
		showObject: opts.ShowObject,

		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:     telemetry.NewCollector(statsWindow, cfg.Physics.FrameDuration),
		logStats:      opts.LogStats || cfg.Telemetry.LogStats,
		statsCallback: opts.StatsCallback,
	}
	solver.SetPhaseTimer(g.perfCollector)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			pool.Stop()
			return nil, err
		}
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
		g.outputManager = om
	}

	// The first frame is composed before any step so a window has something to show.
	g.compose()
	return g, nil
}

// Unload releases the worker pool and closes output files.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
	g.pool.Stop()
}

// Config returns the configuration the game was built with.
func (g *Game) Config() *config.Config { return g.cfg }

// Frame returns the number of frames stepped.
func (g *Game) Frame() int32 { return g.frame }

// SimTime returns the simulated time in seconds.
func (g *Game) SimTime() float64 {
	return float64(g.solver.Substeps()) * g.solver.Params().Dt
}

// Omega returns the rim's tangential speed.
func (g *Game) Omega() float64 { return g.omega }

// Material returns the material currently assigned to the particles.
func (g *Game) Material() mpm.Material { return g.material }

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool { return g.paused }

// ShowObject reports whether the object view is shown instead of the kaleidoscope.
func (g *Game) ShowObject() bool { return g.showObject }

// Solver returns the MPM solver.
func (g *Game) Solver() *mpm.Solver { return g.solver }

// Polygon returns the mirror fan.
func (g *Game) Polygon() *mirror.Polygon { return g.polygon }

// Lookup returns the per-pixel reflection table.
func (g *Game) Lookup() *mirror.Lookup { return g.lookup }

// Palette returns the sampled source colours in first-seen order.
func (g *Game) Palette() []color.RGBA { return g.palette }

// ObjectFrame returns the object buffer.
func (g *Game) ObjectFrame() *canvas.Frame { return g.compositor.Object() }

// ImageFrame returns the kaleidoscope buffer.
func (g *Game) ImageFrame() *canvas.Frame { return g.compositor.Image() }

// DisplayFrame returns the buffer selected by the current view.
func (g *Game) DisplayFrame() *canvas.Frame {
	if g.showObject {
		return g.compositor.Object()
	}
	return g.compositor.Image()
}

// PerfStats returns performance statistics over the perf window.
func (g *Game) PerfStats() telemetry.PerfStats { return g.perfCollector.Stats() }

// RecordDisplay marks a display refresh for FPS tracking.
func (g *Game) RecordDisplay() { g.perfCollector.RecordDisplay() }
