package level

import (
	"fmt"

	"github.com/zeusync/rigid2d/internal/core/geom"
	"github.com/zeusync/rigid2d/internal/core/physics"
	"github.com/zeusync/rigid2d/internal/core/physics/forces"
)

// CollisionGroup holds every collision rule a level registers.
const CollisionGroup physics.GroupID = 1

var (
	PigColor      = physics.Color{G: 1}
	PlatformColor = physics.Color{B: 1}
	WallColor     = physics.Color{R: 0.588, G: 0.294}
)

// Params sizes the bodies a level is built from.
type Params struct {
	CirclePoints int
	PigRadius    float64
	PigMass      float64
	BirdRadius   float64
	BirdMass     float64
	SpeedySide   float64
	PlatformHalf geom.Vector
	WallHalf     geom.Vector
	WallMass     float64
	Elasticity   float64
}

func DefaultParams() Params {
	return Params{
		CirclePoints: 20,
		PigRadius:    10,
		PigMass:      1,
		BirdRadius:   15,
		BirdMass:     10,
		SpeedySide:   50,
		PlatformHalf: geom.NewVector(40, 5),
		WallHalf:     geom.NewVector(5, 25),
		WallMass:     100,
		Elasticity:   1,
	}
}

// Layout is what Build added, by role, in scene order.
type Layout struct {
	Birds     []*physics.Body
	Platforms []*physics.Body
	Walls     []*physics.Body
	Pigs      []*physics.Body
	Rules     int
}

// Build adds the level's bodies to s (birds, platforms, walls, then one pig on
// top of each platform) and registers the collision rules.
func Build(s *physics.Scene, d *Description, p Params) (*Layout, error) {
	l := &Layout{}
	add := func(shape geom.Polygon, mass float64, color physics.Color, tag physics.Tag, at geom.Vector) (*physics.Body, error) {
		b, err := physics.NewBody(shape, mass, color, tag)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", d.Name, tag, err)
		}
		b.SetCentroid(at)
		if _, err = s.AddBody(b); err != nil {
			return nil, err
		}
		return b, nil
	}

	for _, bird := range d.Birds {
		shape, err := birdShape(bird.Shape, p)
		if err != nil {
			return nil, err
		}
		b, err := add(shape, p.BirdMass, bird.Color, physics.TagBird, bird.At.Vector())
		if err != nil {
			return nil, err
		}
		l.Birds = append(l.Birds, b)
	}

	plat, err := geom.Rectangle(p.PlatformHalf.X, p.PlatformHalf.Y)
	if err != nil {
		return nil, err
	}
	for _, at := range d.Platforms {
		b, err := add(plat, physics.InfiniteMass, PlatformColor, physics.TagPlatform, at.Vector())
		if err != nil {
			return nil, err
		}
		l.Platforms = append(l.Platforms, b)
	}

	wall, err := geom.Rectangle(p.WallHalf.X, p.WallHalf.Y)
	if err != nil {
		return nil, err
	}
	for _, at := range d.Walls {
		b, err := add(wall, p.WallMass, WallColor, physics.TagWall, at.Vector())
		if err != nil {
			return nil, err
		}
		l.Walls = append(l.Walls, b)
	}

	pig, err := geom.Circle(p.PigRadius, p.CirclePoints)
	if err != nil {
		return nil, err
	}
	for _, at := range d.Platforms {
		rest := at.Vector().Add(geom.NewVector(0, p.PlatformHalf.Y+p.PigRadius))
		b, err := add(pig, p.PigMass, PigColor, physics.TagPig, rest)
		if err != nil {
			return nil, err
		}
		l.Pigs = append(l.Pigs, b)
	}

	l.Rules, err = AddCollisionRules(s, physics.TagBird, p.Elasticity)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func birdShape(shape Shape, p Params) (geom.Polygon, error) {
	switch shape {
	case ShapeTriangle:
		return geom.EquilateralTriangle(p.SpeedySide)
	case ShapeCircle:
		return geom.Circle(p.BirdRadius, p.CirclePoints)
	default:
		return nil, fmt.Errorf("%w: bird shape %q", ErrInvalidLevel, shape)
	}
}

// AddCollisionRules registers, for every body tagged striker or wall, a
// bouncing collision against each platform and wall, and a collision that
// destroys each pig it touches. Each wall pair is registered once. It returns
// the number of rules added.
func AddCollisionRules(s *physics.Scene, striker physics.Tag, elasticity float64) (int, error) {
	bodies := s.Bodies()
	rules := 0
	for i, main := range bodies {
		if main.IsRemoved() || (main.Tag() != striker && main.Tag() != physics.TagWall) {
			continue
		}
		for j, obj := range bodies {
			if i == j || obj.IsRemoved() {
				continue
			}
			var err error
			switch obj.Tag() {
			case physics.TagPlatform, physics.TagWall:
				if main.Tag() == physics.TagWall && obj.Tag() == physics.TagWall && j > i {
					continue
				}
				err = forces.PhysicsCollisionGroup(s, CollisionGroup, elasticity, obj, main)
			case physics.TagPig:
				err = forces.OneSidedDestructiveCollisionGroup(s, CollisionGroup, obj, main)
			default:
				continue
			}
			if err != nil {
				return rules, fmt.Errorf("collision %s/%s: %w", obj.Tag(), main.Tag(), err)
			}
			rules++
		}
	}
	return rules, nil
}
