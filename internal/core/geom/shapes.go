package geom

import (
	"fmt"
	"math"
)

// Circle approximates a circle of the given radius centred on the origin with
// n vertices, starting at (radius, 0) and winding counter-clockwise.
func Circle(radius float64, n int) (Polygon, error) {
	if radius <= 0 || n < 3 {
		return nil, fmt.Errorf("%w: circle radius %v with %d points", ErrInvalidShape, radius, n)
	}
	arc := 2 * math.Pi / float64(n)
	out := make(Polygon, n)
	for i := range out {
		out[i] = Vector{X: radius, Y: 0}.Rotate(arc * float64(i))
	}
	return out, nil
}

// EquilateralTriangle has one vertex on the origin and its base along +x.
func EquilateralTriangle(side float64) (Polygon, error) {
	if side <= 0 {
		return nil, fmt.Errorf("%w: triangle side %v", ErrInvalidShape, side)
	}
	return Polygon{
		{X: 0, Y: 0},
		{X: side, Y: 0},
		{X: side / 2, Y: math.Sqrt(3) * side / 2},
	}, nil
}

// Rectangle is axis-aligned and centred on the origin, given its half extents.
func Rectangle(halfWidth, halfHeight float64) (Polygon, error) {
	if halfWidth <= 0 || halfHeight <= 0 {
		return nil, fmt.Errorf("%w: rectangle half extents %v x %v", ErrInvalidShape, halfWidth, halfHeight)
	}
	return Polygon{
		{X: -halfWidth, Y: -halfHeight},
		{X: +halfWidth, Y: -halfHeight},
		{X: +halfWidth, Y: +halfHeight},
		{X: -halfWidth, Y: +halfHeight},
	}, nil
}
