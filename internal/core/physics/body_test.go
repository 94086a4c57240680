package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/rigid2d/internal/core/geom"
)

const tol = 1e-9

func unitSquare(t *testing.T) geom.Polygon {
	t.Helper()
	p, err := geom.Rectangle(1, 1)
	require.NoError(t, err)
	return p
}

func newBody(t *testing.T, mass float64) *Body {
	t.Helper()
	b, err := NewBody(unitSquare(t), mass, Black, TagNone)
	require.NoError(t, err)
	return b
}

func assertCentroidMatchesShape(t *testing.T, b *Body) {
	t.Helper()
	c, err := b.Shape().Centroid()
	require.NoError(t, err)
	assert.True(t, c.ApproxEqual(b.Centroid(), 1e-9), "cached %+v, shape %+v", b.Centroid(), c)
}

type closeCounter struct {
	closed int
	err    error
}

func (c *closeCounter) Close() error {
	c.closed++
	return c.err
}

func TestNewBodyValidatesMass(t *testing.T) {
	for _, m := range []float64{0, -1, math.NaN(), math.Inf(-1)} {
		_, err := NewBody(unitSquare(t), m, Black, TagNone)
		assert.ErrorIs(t, err, ErrInvalidMass, "mass %v", m)
	}

	b, err := NewBody(unitSquare(t), InfiniteMass, Black, TagPlatform)
	require.NoError(t, err)
	assert.True(t, b.IsImmovable())
	assert.Equal(t, TagPlatform, b.Tag())

	assert.ErrorIs(t, b.SetMass(0), ErrInvalidMass)
	require.NoError(t, b.SetMass(2))
	assert.Equal(t, 2.0, b.Mass())
}

func TestNewBodyRejectsDegenerateShape(t *testing.T) {
	_, err := NewBody(geom.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, 1, Black, TagNone)
	assert.ErrorIs(t, err, geom.ErrDegeneratePolygon)
}

func TestShapeIsIndependentCopy(t *testing.T) {
	input := unitSquare(t)
	b, err := NewBody(input, 1, Black, TagNone)
	require.NoError(t, err)

	input.Translate(geom.NewVector(100, 0))
	out := b.Shape()
	out.Translate(geom.NewVector(0, 100))

	assert.Equal(t, geom.Zero, b.Centroid())
	assertCentroidMatchesShape(t, b)
}

func TestSetCentroidMovesShape(t *testing.T) {
	b := newBody(t, 1)
	b.SetCentroid(geom.NewVector(5, 7))

	assert.Equal(t, geom.NewVector(5, 7), b.Centroid())
	assert.Equal(t, geom.NewVector(4, 6), b.Shape()[0])
	assertCentroidMatchesShape(t, b)
}

func TestRotateKeepsCentroid(t *testing.T) {
	b := newBody(t, 1)
	b.SetCentroid(geom.NewVector(3, 3))
	b.Rotate(math.Pi / 4)

	assert.Equal(t, geom.NewVector(3, 3), b.Centroid())
	assert.InDelta(t, math.Sqrt2, b.Shape()[0].Distance(b.Centroid()), tol)
	assertCentroidMatchesShape(t, b)
}

func TestSetShapeRecomputesCentroid(t *testing.T) {
	b := newBody(t, 1)
	tri, err := geom.EquilateralTriangle(3)
	require.NoError(t, err)

	require.NoError(t, b.SetShape(tri))
	assert.True(t, b.Centroid().ApproxEqual(geom.NewVector(1.5, math.Sqrt(3)/2), tol))
	assertCentroidMatchesShape(t, b)

	err = b.SetShape(geom.Polygon{{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 0}})
	assert.ErrorIs(t, err, geom.ErrDegeneratePolygon)
	assertCentroidMatchesShape(t, b)
}

func TestTickConstantForceIsExact(t *testing.T) {
	const (
		mass  = 2.0
		accel = 3.0
		dt    = 0.01
		steps = 500
	)
	b := newBody(t, mass)
	for i := 0; i < steps; i++ {
		b.AddForce(geom.NewVector(mass*accel, 0))
		b.Tick(dt)
		assertCentroidMatchesShape(t, b)
	}

	elapsed := dt * steps
	assert.InDelta(t, accel*elapsed, b.Velocity().X, 1e-9)
	assert.InDelta(t, 0.5*accel*elapsed*elapsed, b.Centroid().X, 1e-9)
	assert.Equal(t, geom.Zero, b.Force())
}

func TestTickAppliesImpulseOnce(t *testing.T) {
	b := newBody(t, 4)
	b.AddImpulse(geom.NewVector(8, 0))
	b.AddImpulse(geom.NewVector(0, -4))
	b.Tick(1)

	assert.Equal(t, geom.NewVector(2, -1), b.Velocity())
	assert.Equal(t, geom.NewVector(1, -0.5), b.Centroid())
	assert.Equal(t, geom.Zero, b.Impulse())

	b.Tick(1)
	assert.Equal(t, geom.NewVector(2, -1), b.Velocity())
	assert.Equal(t, geom.NewVector(3, -1.5), b.Centroid())
}

func TestTickInfiniteMassIgnoresForces(t *testing.T) {
	b := newBody(t, InfiniteMass)
	b.SetVelocity(geom.NewVector(1, 0))
	b.AddForce(geom.NewVector(1e12, -1e12))
	b.AddImpulse(geom.NewVector(5, 5))
	b.Tick(0.5)

	assert.Equal(t, geom.NewVector(1, 0), b.Velocity())
	assert.Equal(t, geom.NewVector(0.5, 0), b.Centroid())
	assert.True(t, b.Centroid().IsFinite())
	assert.Zero(t, b.KineticEnergy())
}

func TestTickInfiniteMassIgnoresInfiniteForce(t *testing.T) {
	b := newBody(t, InfiniteMass)
	b.AddForce(geom.NewVector(InfiniteMass, -InfiniteMass))
	b.AddImpulse(geom.NewVector(InfiniteMass, 0))
	b.Tick(0.01)

	assert.Equal(t, geom.Zero, b.Velocity())
	assert.Equal(t, geom.Zero, b.Centroid())
	assertCentroidMatchesShape(t, b)
}

func TestAttachImageClosesReplaced(t *testing.T) {
	b := newBody(t, 1)
	first := &closeCounter{}
	second := &closeCounter{}

	require.NoError(t, b.AttachImage(first))
	require.NoError(t, b.AttachImage(second))
	assert.Equal(t, 1, first.closed)
	assert.Equal(t, second, b.Image())

	require.NoError(t, b.release())
	assert.Equal(t, 1, second.closed)
	assert.Nil(t, b.Image())
}

func TestAttachImageReportsCloseError(t *testing.T) {
	b := newBody(t, 1)
	boom := errors.New("boom")
	require.NoError(t, b.AttachImage(&closeCounter{err: boom}))
	assert.ErrorIs(t, b.AttachImage(nil), boom)
}

func TestTagText(t *testing.T) {
	for tag := TagNone; tag <= TagRubberBand; tag++ {
		parsed, err := ParseTag(tag.String())
		require.NoError(t, err)
		assert.Equal(t, tag, parsed)
	}

	var tag Tag
	require.NoError(t, tag.UnmarshalText([]byte("Pig")))
	assert.Equal(t, TagPig, tag)
	assert.Error(t, tag.UnmarshalText([]byte("dragon")))
	assert.Equal(t, "tag(200)", Tag(200).String())
}
