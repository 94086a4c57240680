// Package forces registers the standard force creators on a physics.Scene:
// gravity, drag, springs, friction and edge-triggered collision policies.
//
// Every helper captures its parameters in a closure and declares the bodies it
// touches as dependencies, so the scene drops it as soon as one of them is
// reaped.
package forces

import (
	"fmt"
	"math"

	"github.com/zeusync/rigid2d/internal/core/geom"
	"github.com/zeusync/rigid2d/internal/core/physics"
)

// MinGravityDistance is the centroid distance at or below which Newtonian
// gravity is not applied.
const MinGravityDistance = 5.0

func checkConstant(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s = %v", ErrInvalidConstant, name, v)
	}
	return nil
}

func checkPair(b1, b2 *physics.Body) error {
	if b1 != nil && b1 == b2 {
		return ErrSameBody
	}
	return nil
}

// NewtonianGravity attracts b1 and b2 with G·m1·m2/r², equal and opposite.
// Both bodies need a finite mass. Nothing is applied while the centroids are
// within MinGravityDistance, or once either body is made immovable.
func NewtonianGravity(s *physics.Scene, G float64, b1, b2 *physics.Body) error {
	if err := checkConstant("G", G); err != nil {
		return err
	}
	if err := checkPair(b1, b2); err != nil {
		return err
	}
	for _, b := range []*physics.Body{b1, b2} {
		if b != nil && b.IsImmovable() {
			return fmt.Errorf("%w: %s body", ErrInfiniteMass, b.Tag())
		}
	}
	return s.AddBodiesForceCreator(func() {
		if b1.IsImmovable() || b2.IsImmovable() {
			return
		}
		d := b1.Centroid().Sub(b2.Centroid())
		dist := d.Norm()
		if dist <= MinGravityDistance {
			return
		}
		f := d.Scale(G * b1.Mass() * b2.Mass() / (dist * dist * dist))
		b1.AddForce(f.Neg())
		b2.AddForce(f)
	}, []*physics.Body{b1, b2}, nil, physics.DefaultGroup)
}

// DownwardGravity pulls b with a constant force (0, -g). The group lets the
// caller switch it off again with Scene.RemoveForceCreators.
func DownwardGravity(s *physics.Scene, g float64, b *physics.Body, group physics.GroupID) error {
	if err := checkConstant("g", g); err != nil {
		return err
	}
	f := geom.NewVector(0, -g)
	return s.AddBodiesForceCreator(func() {
		b.AddForce(f)
	}, []*physics.Body{b}, nil, group)
}

// Drag applies F = -γv.
func Drag(s *physics.Scene, gamma float64, b *physics.Body) error {
	if err := checkConstant("gamma", gamma); err != nil {
		return err
	}
	return s.AddBodiesForceCreator(func() {
		b.AddForce(b.Velocity().Scale(-gamma))
	}, []*physics.Body{b}, nil, physics.DefaultGroup)
}

// Spring connects the centroids of b1 and b2 with a zero-rest-length spring of
// stiffness k.
func Spring(s *physics.Scene, k float64, b1, b2 *physics.Body) error {
	if err := checkConstant("k", k); err != nil {
		return err
	}
	if err := checkPair(b1, b2); err != nil {
		return err
	}
	return s.AddBodiesForceCreator(func() {
		f := b1.Centroid().Sub(b2.Centroid()).Scale(k)
		b1.AddForce(f.Neg())
		b2.AddForce(f)
	}, []*physics.Body{b1, b2}, nil, physics.DefaultGroup)
}

// HorizontalFriction opposes only the horizontal velocity: F = (-μ·vx, 0).
func HorizontalFriction(s *physics.Scene, mu float64, b *physics.Body, group physics.GroupID) error {
	if err := checkConstant("mu", mu); err != nil {
		return err
	}
	return s.AddBodiesForceCreator(func() {
		b.AddForce(geom.NewVector(-mu*b.Velocity().X, 0))
	}, []*physics.Body{b}, nil, group)
}
