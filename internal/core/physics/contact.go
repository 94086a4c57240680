package physics

import "github.com/zeusync/rigid2d/internal/core/collision"

// Collide runs the SAT test on the current shapes of two bodies without
// copying them.
func Collide(a, b *Body) collision.Info {
	return collision.Find(a.shape, b.shape)
}
