// Package collision implements separating-axis overlap tests for convex polygons.
package collision

import (
	"math"

	"github.com/zeusync/rigid2d/internal/core/geom"
)

// Info is the outcome of a collision query. Axis is only meaningful when
// Collided is true.
type Info struct {
	Collided bool
	Axis     geom.Vector
}

// Find tests two convex polygons against every edge normal of both shapes and
// keeps the axis with the smallest projected overlap, negative overlaps
// included. All axes are evaluated; the collided flag is taken from the
// winning axis. On ties the first axis encountered wins.
func Find(a, b geom.Polygon) Info {
	var info Info
	best := math.Inf(1)

	check := func(axis geom.Vector) {
		min1, max1 := project(a, axis)
		min2, max2 := project(b, axis)
		overlap := math.Min(max1, max2) - math.Max(min1, min2)
		if overlap < best {
			best = overlap
			if max1 < min2 || max2 < min1 {
				info = Info{}
			} else {
				info = Info{Collided: true, Axis: axis}
			}
		}
	}

	forEachNormal(a, check)
	forEachNormal(b, check)
	return info
}

// Axes returns the unit edge normals Find evaluates for p, in order.
func Axes(p geom.Polygon) []geom.Vector {
	out := make([]geom.Vector, 0, len(p))
	forEachNormal(p, func(n geom.Vector) { out = append(out, n) })
	return out
}

// Overlaps is Find without the axis.
func Overlaps(a, b geom.Polygon) bool {
	return Find(a, b).Collided
}

func forEachNormal(p geom.Polygon, fn func(geom.Vector)) {
	n := len(p)
	for i := 0; i < n; i++ {
		edge := p[i].Sub(p[(i+1)%n])
		length := edge.Norm()
		if length == 0 {
			continue
		}
		fn(edge.Scale(1 / length).Perp())
	}
}

func project(p geom.Polygon, axis geom.Vector) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range p {
		d := v.Dot(axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}
