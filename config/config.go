// Package config provides configuration loading and access for the kaleidoscope.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Scope     ScopeConfig     `yaml:"scope"`
	Cap       CapConfig       `yaml:"cap"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Material  MaterialConfig  `yaml:"material"`
	Sampler   SamplerConfig   `yaml:"sampler"`
	Control   ControlConfig   `yaml:"control"`
	Parallel  ParallelConfig  `yaml:"parallel"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display parameters. Both frame buffers are
// width x height pixels, so the two must match.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ScopeConfig describes the mirror fan.
type ScopeConfig struct {
	Mirrors        int     `yaml:"mirrors"`
	RadiusFraction float64 `yaml:"radius_fraction"`
	CenterX        float64 `yaml:"center_x"`
	CenterY        float64 `yaml:"center_y"`
}

// CapConfig places the cap and its rotating tick band in the object buffer.
type CapConfig struct {
	ShiftX       float64 `yaml:"shift_x"`
	ShiftY       float64 `yaml:"shift_y"`
	RimBand      float64 `yaml:"rim_band"`
	TickAngleDeg float64 `yaml:"tick_angle_deg"`
}

// PhysicsConfig holds the solver parameters at quality 1.
type PhysicsConfig struct {
	Quality          int     `yaml:"quality"`
	BaseParticles    int     `yaml:"base_particles"`
	BaseGridRes      int     `yaml:"base_grid_res"`
	BaseDT           float64 `yaml:"base_dt"`
	FrameDuration    float64 `yaml:"frame_duration"`
	Density          float64 `yaml:"density"`
	YoungsModulus    float64 `yaml:"youngs_modulus"`
	PoissonRatio     float64 `yaml:"poisson_ratio"`
	GravityX         float64 `yaml:"gravity_x"`
	GravityY         float64 `yaml:"gravity_y"`
	BoundaryFriction float64 `yaml:"boundary_friction"`
	RimRadius        float64 `yaml:"rim_radius"`
	EdgeMargin       int     `yaml:"edge_margin"`
}

// MaterialConfig selects the initial material.
type MaterialConfig struct {
	Default string `yaml:"default"`
}

// SamplerConfig controls particle initialization.
type SamplerConfig struct {
	Image       string `yaml:"image"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// ControlConfig bounds the rim's tangential speed.
type ControlConfig struct {
	OmegaInitial float64 `yaml:"omega_initial"`
	OmegaMin     float64 `yaml:"omega_min"`
	OmegaMax     float64 `yaml:"omega_max"`
	OmegaStep    float64 `yaml:"omega_step"`
}

// ParallelConfig sizes the worker pool and the P2G partitions.
type ParallelConfig struct {
	Workers    int `yaml:"workers"`
	Partitions int `yaml:"partitions"`
	Threshold  int `yaml:"threshold"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"`
	PerfWindow  int     `yaml:"perf_window"`
	LogStats    bool    `yaml:"log_stats"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Res           int     // frame buffer side in pixels
	GridRes       int     // BaseGridRes * Quality
	DT            float64 // BaseDT / Quality
	ParticleCount int     // BaseParticles * Quality^2
	MirrorRadius  float64 // circumradius in pixels
	MirrorCenterX float64 // eye position in pixels
	MirrorCenterY float64
	TickAngle     float64 // radians
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit calls Init and panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Screen.Width > 0 && c.Screen.Height > 0, "screen size %dx%d must be positive", c.Screen.Width, c.Screen.Height)
	check(c.Screen.Width == c.Screen.Height, "screen must be square, got %dx%d", c.Screen.Width, c.Screen.Height)
	check(c.Scope.Mirrors >= 2, "scope.mirrors %d must be at least 2", c.Scope.Mirrors)
	check(c.Scope.RadiusFraction > 0, "scope.radius_fraction %g must be positive", c.Scope.RadiusFraction)
	check(c.Cap.TickAngleDeg > 0, "cap.tick_angle_deg %g must be positive", c.Cap.TickAngleDeg)
	check(c.Physics.Quality > 0, "physics.quality %d must be positive", c.Physics.Quality)
	check(c.Physics.BaseParticles > 0, "physics.base_particles %d must be positive", c.Physics.BaseParticles)
	check(c.Physics.BaseGridRes > 0, "physics.base_grid_res %d must be positive", c.Physics.BaseGridRes)
	check(c.Physics.BaseDT > 0, "physics.base_dt %g must be positive", c.Physics.BaseDT)
	check(c.Physics.EdgeMargin >= 2, "physics.edge_margin %d must be at least 2", c.Physics.EdgeMargin)
	check(c.Physics.FrameDuration > 0, "physics.frame_duration %g must be positive", c.Physics.FrameDuration)
	check(c.Sampler.MaxAttempts > 0, "sampler.max_attempts %d must be positive", c.Sampler.MaxAttempts)
	check(c.Control.OmegaMin <= c.Control.OmegaMax, "control.omega_min %g exceeds omega_max %g", c.Control.OmegaMin, c.Control.OmegaMax)
	check(c.Parallel.Partitions > 0, "parallel.partitions %d must be positive", c.Parallel.Partitions)
	check(c.Telemetry.StatsWindow > 0, "telemetry.stats_window %g must be positive", c.Telemetry.StatsWindow)

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config: %w", errors.Join(errs...))
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	q := c.Physics.Quality
	c.Derived.Res = c.Screen.Width
	c.Derived.GridRes = c.Physics.BaseGridRes * q
	c.Derived.DT = c.Physics.BaseDT / float64(q)
	c.Derived.ParticleCount = c.Physics.BaseParticles * q * q

	res := float64(c.Derived.Res)
	c.Derived.MirrorRadius = c.Scope.RadiusFraction * res
	c.Derived.MirrorCenterX = c.Scope.CenterX * res
	c.Derived.MirrorCenterY = c.Scope.CenterY * res
	c.Derived.TickAngle = c.Cap.TickAngleDeg * math.Pi / 180
}

// ClampOmega limits omega to the configured range.
func (c *Config) ClampOmega(omega float64) float64 {
	return math.Max(c.Control.OmegaMin, math.Min(c.Control.OmegaMax, omega))
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
