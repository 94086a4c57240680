package physics

import (
	"fmt"
	"io"
	"math"

	"github.com/zeusync/rigid2d/internal/core/geom"
)

// InfiniteMass marks an immovable body. Forces and impulses never move it.
var InfiniteMass = math.Inf(1)

// Body is a convex polygon with translational state. Its cached centroid always
// matches the centroid of its shape: every translation goes through SetCentroid.
type Body struct {
	shape    geom.Polygon
	centroid geom.Vector
	velocity geom.Vector
	force    geom.Vector
	impulse  geom.Vector
	mass     float64
	color    Color
	tag      Tag
	removed  bool
	image    io.Closer

	scene  *Scene
	handle Handle
}

// NewBody copies shape and computes its centroid. Mass must be positive or
// InfiniteMass.
func NewBody(shape geom.Polygon, mass float64, color Color, tag Tag) (*Body, error) {
	if err := validateMass(mass); err != nil {
		return nil, err
	}
	owned := shape.Clone()
	centroid, err := owned.Centroid()
	if err != nil {
		return nil, fmt.Errorf("body shape: %w", err)
	}
	return &Body{
		shape:    owned,
		centroid: centroid,
		mass:     mass,
		color:    color,
		tag:      tag,
	}, nil
}

func validateMass(mass float64) error {
	if math.IsNaN(mass) || mass <= 0 || math.IsInf(mass, -1) {
		return fmt.Errorf("%w: %v", ErrInvalidMass, mass)
	}
	return nil
}

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) SetMass(mass float64) error {
	if err := validateMass(mass); err != nil {
		return err
	}
	b.mass = mass
	return nil
}

// IsImmovable reports whether the body has infinite mass.
func (b *Body) IsImmovable() bool { return math.IsInf(b.mass, 1) }

func (b *Body) inverseMass() float64 {
	if b.IsImmovable() {
		return 0
	}
	return 1 / b.mass
}

// Shape returns a copy of the body's polygon.
func (b *Body) Shape() geom.Polygon { return b.shape.Clone() }

// SetShape replaces the polygon and recomputes the centroid from it.
func (b *Body) SetShape(shape geom.Polygon) error {
	owned := shape.Clone()
	centroid, err := owned.Centroid()
	if err != nil {
		return fmt.Errorf("body shape: %w", err)
	}
	b.shape = owned
	b.centroid = centroid
	return nil
}

func (b *Body) Centroid() geom.Vector { return b.centroid }

// SetCentroid moves the whole shape so its centroid lands on c.
func (b *Body) SetCentroid(c geom.Vector) {
	b.shape.Translate(c.Sub(b.centroid))
	b.centroid = c
}

// Rotate turns the shape about its centroid. The body has no angular state;
// this only reorients the polygon.
func (b *Body) Rotate(angle float64) {
	b.shape.Rotate(angle, b.centroid)
}

func (b *Body) Velocity() geom.Vector     { return b.velocity }
func (b *Body) SetVelocity(v geom.Vector) { b.velocity = v }

func (b *Body) Color() Color         { return b.color }
func (b *Body) SetColor(color Color) { b.color = color }

func (b *Body) Tag() Tag       { return b.tag }
func (b *Body) SetTag(tag Tag) { b.tag = tag }

// Remove marks the body for reaping on the next scene tick.
func (b *Body) Remove()         { b.removed = true }
func (b *Body) IsRemoved() bool { return b.removed }

// AddForce accumulates f until the next integration step.
func (b *Body) AddForce(f geom.Vector) { b.force = b.force.Add(f) }

// AddImpulse accumulates j until the next integration step.
func (b *Body) AddImpulse(j geom.Vector) { b.impulse = b.impulse.Add(j) }

func (b *Body) Force() geom.Vector   { return b.force }
func (b *Body) Impulse() geom.Vector { return b.impulse }

// AttachImage hands a presentation resource to the body. It is closed when the
// body is reaped or replaced by another image.
func (b *Body) AttachImage(img io.Closer) error {
	var err error
	if b.image != nil && b.image != img {
		err = b.image.Close()
	}
	b.image = img
	return err
}

func (b *Body) Image() io.Closer { return b.image }

// Handle is zero until the body is added to a scene.
func (b *Body) Handle() Handle { return b.handle }

// Tick integrates accumulated force and impulse over dt using the average of
// the old and new velocity, then clears both accumulators.
// Immovable bodies keep their velocity whatever was accumulated.
func (b *Body) Tick(dt float64) {
	newVelocity := b.velocity
	if !b.IsImmovable() {
		invMass := b.inverseMass()
		acceleration := b.force.Scale(invMass)
		impulseVelocity := b.impulse.Scale(invMass)
		newVelocity = newVelocity.Add(acceleration.Scale(dt)).Add(impulseVelocity)
	}
	displacement := b.velocity.Add(newVelocity).Scale(0.5 * dt)

	b.SetCentroid(b.centroid.Add(displacement))
	b.velocity = newVelocity
	b.force = geom.Zero
	b.impulse = geom.Zero
}

// KineticEnergy is ½mv². Immovable bodies report zero.
func (b *Body) KineticEnergy() float64 {
	if b.IsImmovable() {
		return 0
	}
	return 0.5 * b.mass * b.velocity.Dot(b.velocity)
}

func (b *Body) release() error {
	if b.image == nil {
		return nil
	}
	err := b.image.Close()
	b.image = nil
	return err
}
