package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Polygon is an ordered list of vertices. Consumers rely on it being convex;
// nothing here checks that.
type Polygon []Vector

// Area is the signed shoelace area. It is positive for counter-clockwise winding.
func (p Polygon) Area() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += p[i].Cross(p[(i+1)%n])
	}
	return sum / 2
}

// Centroid returns the area-weighted centre. A polygon without area has no
// centroid and yields ErrDegeneratePolygon.
func (p Polygon) Centroid() (Vector, error) {
	if len(p) < 3 {
		return Zero, fmt.Errorf("%w: %d vertices", ErrDegeneratePolygon, len(p))
	}
	area := p.Area()
	if area == 0 || math.IsNaN(area) {
		return Zero, fmt.Errorf("%w: zero area", ErrDegeneratePolygon)
	}

	n := len(p)
	var sumX, sumY float64
	for i := 0; i < n; i++ {
		curr, next := p[i], p[(i+1)%n]
		c := curr.Cross(next)
		sumX += (curr.X + next.X) * c
		sumY += (curr.Y + next.Y) * c
	}
	k := 1 / (6 * area)
	return Vector{X: sumX * k, Y: sumY * k}, nil
}

// Translate moves every vertex by delta in place.
func (p Polygon) Translate(delta Vector) {
	for i := range p {
		p[i] = p[i].Add(delta)
	}
}

// Rotate turns every vertex counter-clockwise about pivot in place.
func (p Polygon) Rotate(angle float64, pivot Vector) {
	for i := range p {
		p[i] = Vector(r2.Rotate(p[i].r2(), angle, pivot.r2()))
	}
}

func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

