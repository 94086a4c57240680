// Package geom holds the 2D value types the engine is built on: vectors,
// polygons and the convex shape factories used to build bodies.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector is an immutable 2D vector. It shares its layout with r2.Vec so the
// arithmetic below is delegated to gonum.
type Vector struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vector{}

func NewVector(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) r2() r2.Vec { return r2.Vec(v) }

func (v Vector) Add(w Vector) Vector {
	return Vector(r2.Add(v.r2(), w.r2()))
}

func (v Vector) Sub(w Vector) Vector {
	return Vector(r2.Sub(v.r2(), w.r2()))
}

func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

func (v Vector) Scale(k float64) Vector {
	return Vector(r2.Scale(k, v.r2()))
}

func (v Vector) Dot(w Vector) float64 {
	return r2.Dot(v.r2(), w.r2())
}

// Cross returns the z component of the 3D cross product.
func (v Vector) Cross(w Vector) float64 {
	return r2.Cross(v.r2(), w.r2())
}

func (v Vector) Norm() float64 {
	return r2.Norm(v.r2())
}

func (v Vector) Distance(w Vector) float64 {
	return r2.Norm(r2.Sub(w.r2(), v.r2()))
}

// Unit returns v scaled to length one. The zero vector stays zero.
func (v Vector) Unit() Vector {
	n := v.Norm()
	if n == 0 {
		return Zero
	}
	return v.Scale(1 / n)
}

// Rotate turns v counter-clockwise about the origin by angle radians.
func (v Vector) Rotate(angle float64) Vector {
	return Vector(r2.Rotate(v.r2(), angle, r2.Vec{}))
}

// Perp returns v rotated by a quarter turn counter-clockwise.
func (v Vector) Perp() Vector {
	return Vector{X: -v.Y, Y: v.X}
}

// ApproxEqual reports whether both components differ by at most tol.
func (v Vector) ApproxEqual(w Vector, tol float64) bool {
	return math.Abs(v.X-w.X) <= tol && math.Abs(v.Y-w.Y) <= tol
}

func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
