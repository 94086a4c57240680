package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/rigid2d/internal/core/geom"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 0.001, cfg.Simulation.DT)
	assert.Equal(t, 1600.0, cfg.Physics.Gravity)
	assert.Equal(t, 1.0, cfg.Physics.Elasticity)
	assert.Equal(t, geom.NewVector(350, 70), cfg.Launch.Velocity.Vector())
	assert.Equal(t, 20, cfg.Bodies.CirclePoints)
	assert.Equal(t, Vec{X: 40, Y: 5}, cfg.Bodies.PlatformHalf)
	assert.Equal(t, Vec{X: 5, Y: 25}, cfg.Bodies.WallHalf)
	assert.Equal(t, []string{"level1", "level2", "level3", "level4"}, cfg.Levels)
	assert.Empty(t, cfg.Telemetry.Path)
	assert.False(t, cfg.Telemetry.Append)
}

func TestLoadOverlaysUserFile(t *testing.T) {
	path := writeFile(t, `
log:
  level: debug
simulation:
  max_ticks: 10
launch:
  velocity: [1, 2]
levels: [level2]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Simulation.MaxTicks)
	assert.Equal(t, 0.001, cfg.Simulation.DT, "untouched keys keep their defaults")
	assert.Equal(t, Vec{X: 1, Y: 2}, cfg.Launch.Velocity)
	assert.Equal(t, []string{"level2"}, cfg.Levels)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")

	_, err = Load(writeFile(t, "launch:\n  velocity: [1, 2, 3]\n"))
	assert.ErrorContains(t, err, "vector needs 2 components")

	_, err = Load(writeFile(t, "simulation:\n  dt: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	cfg.Log.Level = "loud"
	cfg.Simulation.Workers = 0
	cfg.Bodies.PigMass = 0
	cfg.Levels = nil

	err = cfg.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	for _, want := range []string{"log.level", "workers", "masses", "levels"} {
		assert.ErrorContains(t, err, want)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Launch.Velocity = Vec{X: 7, Y: -3}

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
