// Package simulation runs levels headlessly: build the scene, launch the bird
// in the slingshot, tick until the pigs are gone, the bird leaves the world or
// the tick budget runs out.
package simulation

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/zeusync/rigid2d/internal/config"
	"github.com/zeusync/rigid2d/internal/core/events/bus"
	"github.com/zeusync/rigid2d/internal/core/geom"
	"github.com/zeusync/rigid2d/internal/core/level"
	"github.com/zeusync/rigid2d/internal/core/observability/log"
	"github.com/zeusync/rigid2d/internal/core/physics"
	"github.com/zeusync/rigid2d/internal/core/physics/forces"
	"github.com/zeusync/rigid2d/internal/core/telemetry"
	"github.com/zeusync/rigid2d/pkg/concurrent"
)

// GravityGroup holds the forces switched on when a bird leaves the slingshot.
const GravityGroup physics.GroupID = 2

// ctxCheckEvery is how many ticks pass between context checks.
const ctxCheckEvery = 256

type Outcome string

const (
	OutcomeCleared     Outcome = "cleared"
	OutcomeOutOfBounds Outcome = "out_of_bounds"
	OutcomeTimeout     Outcome = "timeout"
)

// Summary describes how one level ended.
type Summary struct {
	Level            string  `yaml:"level"`
	Outcome          Outcome `yaml:"outcome"`
	Ticks            uint64  `yaml:"ticks"`
	Elapsed          float64 `yaml:"elapsed"`
	PigsStart        int     `yaml:"pigs_start"`
	PigsRemaining    int     `yaml:"pigs_remaining"`
	BodiesRemaining  int     `yaml:"bodies_remaining"`
	BodiesReaped     int     `yaml:"bodies_reaped"`
	ForceCreators    int     `yaml:"force_creators"`
	CreatorsDisposed int     `yaml:"creators_disposed"`
	Fingerprint      string  `yaml:"fingerprint"`
}

// Passed reports whether every pig was destroyed.
func (s Summary) Passed() bool { return s.PigsRemaining == 0 }

type Runner struct {
	cfg    *config.Config
	logger log.Log
	bus    bus.EventBus
}

func NewRunner(cfg *config.Config, logger log.Log, eventBus bus.EventBus) *Runner {
	if logger == nil {
		logger = log.NewNop()
	}
	if eventBus == nil {
		eventBus = bus.New()
	}
	return &Runner{cfg: cfg, logger: logger, bus: eventBus}
}

func (r *Runner) Bus() bus.EventBus { return r.bus }

// Config is the live configuration. Changes apply to the next run.
func (r *Runner) Config() *config.Config { return r.cfg }

// Run simulates every configured level, in parallel up to the configured
// worker count, and returns the summaries in configuration order. When a
// telemetry path is set, all trajectories are written to it.
func (r *Runner) Run(ctx context.Context) ([]Summary, error) {
	monitor, err := Watch(r.bus, r.logger)
	if err != nil {
		return nil, err
	}
	defer monitor.Close()

	type result struct {
		summary Summary
		samples []telemetry.Sample
	}
	results, err := concurrent.Map(ctx, r.cfg.Levels, r.cfg.Simulation.Workers,
		func(ctx context.Context, name string) (result, error) {
			summary, samples, err := r.RunLevel(ctx, name)
			return result{summary, samples}, err
		})
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, len(results))
	var samples []telemetry.Sample
	for i, res := range results {
		summaries[i] = res.summary
		samples = append(samples, res.samples...)
	}

	if path := r.cfg.Telemetry.Path; path != "" {
		if err = writeTrace(path, r.cfg.Telemetry.Append, samples); err != nil {
			return summaries, err
		}
		r.logger.Info("trajectories written", log.String("path", path), log.Int("samples", len(samples)))
	}
	return summaries, nil
}

// RunLevel simulates a single level. Samples are only collected when a
// telemetry path is configured.
func (r *Runner) RunLevel(ctx context.Context, name string) (Summary, []telemetry.Sample, error) {
	desc, err := level.Load(name)
	if err != nil {
		return Summary{}, nil, err
	}

	logger := r.logger.With(log.String("level", desc.Name))
	observer := newSceneObserver(desc.Name, r.bus, logger)
	s := physics.NewScene(
		physics.WithID(desc.Name),
		physics.WithLogger(logger),
		physics.WithObserver(observer),
	)
	defer s.Close()

	layout, err := level.Build(s, desc, r.params())
	if err != nil {
		return Summary{}, nil, err
	}
	observer.publish(EventLevelStarted, desc)
	logger.Info("level started",
		log.Int("bodies", s.Len()),
		log.Int("pigs", len(layout.Pigs)),
		log.Int("rules", layout.Rules))

	bird := layout.Birds[0]
	velocity := r.cfg.Launch.Velocity.Vector()
	if err = Launch(s, bird, velocity, r.cfg.Physics); err != nil {
		return Summary{}, nil, fmt.Errorf("%s: launching: %w", desc.Name, err)
	}
	observer.publish(EventProjectileLaunched, ProjectileLaunched{Velocity: velocity})

	var rec *telemetry.Recorder
	if r.cfg.Telemetry.Path != "" {
		rec = telemetry.NewRecorder(desc.Name, r.cfg.Telemetry.SampleEvery)
		rec.Capture(s)
	}

	world := r.cfg.Simulation.World
	outcome := OutcomeTimeout
	for tick := 0; tick < r.cfg.Simulation.MaxTicks; tick++ {
		if tick%ctxCheckEvery == 0 {
			if err = ctx.Err(); err != nil {
				return Summary{}, nil, err
			}
		}
		if err = s.Tick(r.cfg.Simulation.DT); err != nil {
			return Summary{}, nil, err
		}
		if rec != nil {
			rec.Observe(s)
		}
		if s.CountTag(physics.TagPig) == 0 {
			outcome = OutcomeCleared
			break
		}
		if c := bird.Centroid(); c.Y <= 0 || c.X <= 0 || c.X >= world.Width {
			bird.Remove()
			outcome = OutcomeOutOfBounds
			break
		}
	}
	// reap whatever the last tick marked
	if err = s.Tick(0); err != nil {
		return Summary{}, nil, err
	}
	if rec != nil {
		rec.Capture(s)
	}

	summary := Summary{
		Level:            desc.Name,
		Outcome:          outcome,
		Ticks:            s.Ticks(),
		Elapsed:          s.Elapsed(),
		PigsStart:        len(layout.Pigs),
		PigsRemaining:    s.CountTag(physics.TagPig),
		BodiesRemaining:  s.Len(),
		BodiesReaped:     sum(observer.reaped),
		ForceCreators:    s.ForceCreators(),
		CreatorsDisposed: observer.disposed,
		Fingerprint:      strconv.FormatUint(s.Fingerprint(), 16),
	}
	observer.publish(EventLevelFinished, summary)
	logger.Info("level finished",
		log.String("outcome", string(outcome)),
		log.Uint64("ticks", summary.Ticks),
		log.Int("pigs_remaining", summary.PigsRemaining),
		log.String("fingerprint", summary.Fingerprint))

	var samples []telemetry.Sample
	if rec != nil {
		samples = rec.Samples()
	}
	return summary, samples, nil
}

// Launch throws bird with velocity v and switches on the forces that act on a
// flying bird, all under GravityGroup.
func Launch(s *physics.Scene, bird *physics.Body, v geom.Vector, p config.PhysicsConfig) error {
	bird.SetVelocity(v)
	if err := forces.DownwardGravity(s, p.Gravity, bird, GravityGroup); err != nil {
		return err
	}
	if p.AirFriction > 0 {
		if err := forces.HorizontalFriction(s, p.AirFriction, bird, GravityGroup); err != nil {
			return err
		}
	}
	if p.Drag > 0 {
		if err := forces.Drag(s, p.Drag, bird); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) params() level.Params {
	b := r.cfg.Bodies
	return level.Params{
		CirclePoints: b.CirclePoints,
		PigRadius:    b.PigRadius,
		PigMass:      b.PigMass,
		BirdRadius:   b.BirdRadius,
		BirdMass:     b.BirdMass,
		SpeedySide:   b.SpeedySide,
		PlatformHalf: b.PlatformHalf.Vector(),
		WallHalf:     b.WallHalf.Vector(),
		WallMass:     b.WallMass,
		Elasticity:   r.cfg.Physics.Elasticity,
	}
}

// writeTrace replaces path, or adds header-less rows to it in append mode
// when it already holds a trace.
func writeTrace(path string, appendRows bool, samples []telemetry.Sample) error {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendRows {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("opening trace file: %w", err)
	}
	info, err := f.Stat()
	if err == nil {
		if appendRows && info.Size() > 0 {
			err = telemetry.AppendCSV(f, samples)
		} else {
			err = telemetry.WriteCSV(f, samples)
		}
	}
	if err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func sum(counts map[physics.Tag]int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}
