package forces

import (
	"github.com/zeusync/rigid2d/internal/core/geom"
	"github.com/zeusync/rigid2d/internal/core/physics"
)

// Handler reacts to two bodies starting to touch. axis is the SAT axis of
// minimum overlap.
type Handler func(b1, b2 *physics.Body, axis geom.Vector)

// ContactState is the per-pair state of an edge-triggered collision.
type ContactState uint8

const (
	Separated ContactState = iota
	Contact
)

func (c ContactState) String() string {
	if c == Contact {
		return "contact"
	}
	return "separated"
}

// contactPair fires its handler on Separated -> Contact only.
type contactPair struct {
	b1, b2  *physics.Body
	handler Handler
	state   ContactState
}

func (p *contactPair) step() {
	info := physics.Collide(p.b1, p.b2)
	switch {
	case p.state == Separated && info.Collided:
		p.state = Contact
		p.handler(p.b1, p.b2, info.Axis)
	case p.state == Contact && !info.Collided:
		p.state = Separated
	}
}

// Collision checks b1 against b2 every tick and calls handler once each time
// they go from separated to touching.
func Collision(s *physics.Scene, b1, b2 *physics.Body, handler Handler) error {
	return CollisionGroup(s, physics.DefaultGroup, b1, b2, handler, nil)
}

// CollisionGroup is Collision registered under group. dispose runs when the
// pair is dropped, either by group removal or because a body was reaped.
func CollisionGroup(s *physics.Scene, group physics.GroupID, b1, b2 *physics.Body, handler Handler, dispose func()) error {
	if handler == nil {
		return ErrNilHandler
	}
	if err := checkPair(b1, b2); err != nil {
		return err
	}
	pair := &contactPair{b1: b1, b2: b2, handler: handler}
	return s.AddBodiesForceCreator(pair.step, []*physics.Body{b1, b2}, dispose, group)
}

// DestructiveCollision removes both bodies when they touch.
func DestructiveCollision(s *physics.Scene, b1, b2 *physics.Body) error {
	return DestructiveCollisionGroup(s, physics.DefaultGroup, b1, b2)
}

func DestructiveCollisionGroup(s *physics.Scene, group physics.GroupID, b1, b2 *physics.Body) error {
	return CollisionGroup(s, group, b1, b2, destroyBoth, nil)
}

// OneSidedDestructiveCollision removes only b1 when the bodies touch.
func OneSidedDestructiveCollision(s *physics.Scene, b1, b2 *physics.Body) error {
	return OneSidedDestructiveCollisionGroup(s, physics.DefaultGroup, b1, b2)
}

func OneSidedDestructiveCollisionGroup(s *physics.Scene, group physics.GroupID, b1, b2 *physics.Body) error {
	return CollisionGroup(s, group, b1, b2, destroyFirst, nil)
}

// PhysicsCollision bounces the bodies off each other with an impulse along the
// collision axis. elasticity 1 conserves kinetic energy, 0 is perfectly
// inelastic.
func PhysicsCollision(s *physics.Scene, elasticity float64, b1, b2 *physics.Body) error {
	return PhysicsCollisionGroup(s, physics.DefaultGroup, elasticity, b1, b2)
}

func PhysicsCollisionGroup(s *physics.Scene, group physics.GroupID, elasticity float64, b1, b2 *physics.Body) error {
	if err := checkConstant("elasticity", elasticity); err != nil {
		return err
	}
	return CollisionGroup(s, group, b1, b2, func(b1, b2 *physics.Body, axis geom.Vector) {
		ApplyImpulse(elasticity, b1, b2, axis)
	}, nil)
}

func destroyBoth(b1, b2 *physics.Body, _ geom.Vector) {
	b1.Remove()
	b2.Remove()
}

func destroyFirst(b1, _ *physics.Body, _ geom.Vector) {
	b1.Remove()
}

// ApplyImpulse adds the equal and opposite collision impulses for two bodies
// meeting along axis.
func ApplyImpulse(elasticity float64, b1, b2 *physics.Body, axis geom.Vector) {
	j := CollisionImpulse(elasticity, b1.Mass(), b2.Mass(), b1.Velocity(), b2.Velocity(), axis)
	b1.AddImpulse(j)
	b2.AddImpulse(j.Neg())
}

// CollisionImpulse is the impulse received by the first body:
// μ·(1+e)·(v2·axis - v1·axis)·axis, where μ is the reduced mass, or the finite
// mass when the other one is infinite. Two immovable bodies exchange nothing.
func CollisionImpulse(elasticity, m1, m2 float64, v1, v2, axis geom.Vector) geom.Vector {
	var coef float64
	switch {
	case m1 == physics.InfiniteMass && m2 == physics.InfiniteMass:
		return geom.Zero
	case m1 == physics.InfiniteMass:
		coef = m2
	case m2 == physics.InfiniteMass:
		coef = m1
	default:
		coef = m1 * m2 / (m1 + m2)
	}
	return axis.Scale(coef * (1 + elasticity) * (v2.Dot(axis) - v1.Dot(axis)))
}
