// Package config loads runner configuration: embedded defaults overlaid by an
// optional user YAML file.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/rigid2d/internal/core/geom"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Simulation SimulationConfig `yaml:"simulation"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Launch     LaunchConfig     `yaml:"launch"`
	Bodies     BodiesConfig     `yaml:"bodies"`
	Levels     []string         `yaml:"levels"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type SimulationConfig struct {
	DT       float64     `yaml:"dt"`
	MaxTicks int         `yaml:"max_ticks"`
	Workers  int         `yaml:"workers"`
	World    WorldConfig `yaml:"world"`
}

// WorldConfig bounds the playfield. A projectile leaving it is retired.
type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`      // downward acceleration constant applied after launch
	Elasticity  float64 `yaml:"elasticity"`   // impulse collisions between birds and platforms
	Drag        float64 `yaml:"drag"`         // 0 disables
	AirFriction float64 `yaml:"air_friction"` // horizontal only, 0 disables
}

type LaunchConfig struct {
	Velocity Vec `yaml:"velocity"`
}

// BodiesConfig sizes the bodies levels are built from.
type BodiesConfig struct {
	CirclePoints int     `yaml:"circle_points"`
	PigRadius    float64 `yaml:"pig_radius"`
	PigMass      float64 `yaml:"pig_mass"`
	BirdRadius   float64 `yaml:"bird_radius"`
	BirdMass     float64 `yaml:"bird_mass"`
	SpeedySide   float64 `yaml:"speedy_side"`
	PlatformHalf Vec     `yaml:"platform_half"`
	WallHalf     Vec     `yaml:"wall_half"`
	WallMass     float64 `yaml:"wall_mass"`
}

type TelemetryConfig struct {
	Path        string `yaml:"path"`
	SampleEvery int    `yaml:"sample_every"`
	Append      bool   `yaml:"append"` // add rows to an existing trace instead of replacing it
}

// Vec is a geom.Vector written as a two-element YAML sequence.
type Vec geom.Vector

func (v *Vec) UnmarshalYAML(node *yaml.Node) error {
	var xy []float64
	if err := node.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: vector needs 2 components, got %d", node.Line, len(xy))
	}
	*v = Vec{X: xy[0], Y: xy[1]}
	return nil
}

func (v Vec) MarshalYAML() (any, error) {
	return []float64{v.X, v.Y}, nil
}

func (v Vec) Vector() geom.Vector { return geom.Vector(v) }

// Default returns the embedded defaults.
func Default() (*Config, error) {
	return Load("")
}

// Load reads the embedded defaults and overlays path when it is not empty.
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
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field a run depends on and joins all problems found.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	positive := func(v float64) bool { return finite(v) && v > 0 }

	_, err := log.ParseLevel(c.Log.Level)
	check(err == nil, "log.level %q", c.Log.Level)

	check(positive(c.Simulation.DT), "simulation.dt must be positive, got %v", c.Simulation.DT)
	check(c.Simulation.MaxTicks > 0, "simulation.max_ticks must be positive, got %d", c.Simulation.MaxTicks)
	check(c.Simulation.Workers > 0, "simulation.workers must be positive, got %d", c.Simulation.Workers)
	check(positive(c.Simulation.World.Width) && positive(c.Simulation.World.Height),
		"simulation.world must be positive, got %vx%v", c.Simulation.World.Width, c.Simulation.World.Height)

	check(finite(c.Physics.Gravity), "physics.gravity must be finite")
	check(finite(c.Physics.Elasticity) && c.Physics.Elasticity >= 0, "physics.elasticity must be >= 0, got %v", c.Physics.Elasticity)
	check(finite(c.Physics.Drag) && c.Physics.Drag >= 0, "physics.drag must be >= 0, got %v", c.Physics.Drag)
	check(finite(c.Physics.AirFriction) && c.Physics.AirFriction >= 0, "physics.air_friction must be >= 0, got %v", c.Physics.AirFriction)
	check(c.Launch.Velocity.Vector().IsFinite(), "launch.velocity must be finite")

	b := c.Bodies
	check(b.CirclePoints >= 3, "bodies.circle_points must be >= 3, got %d", b.CirclePoints)
	check(positive(b.PigRadius) && positive(b.BirdRadius) && positive(b.SpeedySide), "bodies sizes must be positive")
	check(positive(b.PigMass) && positive(b.BirdMass) && positive(b.WallMass), "bodies masses must be positive")
	check(positive(b.PlatformHalf.X) && positive(b.PlatformHalf.Y), "bodies.platform_half must be positive")
	check(positive(b.WallHalf.X) && positive(b.WallHalf.Y), "bodies.wall_half must be positive")

	check(len(c.Levels) > 0, "levels must not be empty")
	check(c.Telemetry.SampleEvery > 0, "telemetry.sample_every must be positive, got %d", c.Telemetry.SampleEvery)

	return errors.Join(errs...)
}

// WriteYAML saves the configuration, e.g. next to a telemetry file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
