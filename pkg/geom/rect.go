// Package geom provides the 2D axis-aligned rectangle type the case
// pipeline is built on. Coordinates are board-space millimeters.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Rect is an axis-aligned rectangle with Min at the lower-left corner
// and Max at the upper-right. Rect is a value type: every operation
// returns a new Rect and never mutates its receiver, so copies can be
// handed around and stored freely without aliasing surprises.
type Rect struct {
	Min, Max r2.Vec
}

// NewRect builds a Rect from two opposite corners given in any order,
// so Min.X <= Max.X and Min.Y <= Max.Y always hold for constructed
// values.
func NewRect(x1, y1, x2, y2 float64) Rect {
	return Rect{
		Min: r2.Vec{X: math.Min(x1, x2), Y: math.Min(y1, y2)},
		Max: r2.Vec{X: math.Max(x1, x2), Y: math.Max(y1, y2)},
	}
}

func (r Rect) Width() float64  { return r.Max.X - r.Min.X }
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }
func (r Rect) Left() float64   { return r.Min.X }
func (r Rect) Right() float64  { return r.Max.X }
func (r Rect) Bot() float64    { return r.Min.Y }
func (r Rect) Top() float64    { return r.Max.Y }

// Area returns width times height.
func (r Rect) Area() float64 { return r.Width() * r.Height() }

// Size returns the extent along both axes.
func (r Rect) Size() r2.Vec { return r2.Sub(r.Max, r.Min) }

// Center returns the midpoint.
func (r Rect) Center() r2.Vec { return r2.Scale(0.5, r2.Add(r.Min, r.Max)) }

// Encloses reports whether o lies entirely within r on both axes.
// Shared edges count as enclosed; partial overlap does not.
func (r Rect) Encloses(o Rect) bool {
	return o.Min.X >= r.Min.X && o.Max.X <= r.Max.X &&
		o.Min.Y >= r.Min.Y && o.Max.Y <= r.Max.Y
}

// Intersects reports whether r and o share any point, edges included.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && o.Min.X <= r.Max.X &&
		r.Min.Y <= o.Max.Y && o.Min.Y <= r.Max.Y
}

// Pad grows the rectangle by amount on all four sides. A negative
// amount shrinks it. Shrinking to a non-positive extent panics; callers
// validate their dimension parameters before padding, so hitting the
// guard is a programming error rather than bad input.
func (r Rect) Pad(amount float64) Rect {
	return r.Grow(amount, amount, amount, amount)
}

// Grow moves each edge outward by the given amount, left and bottom
// growing toward -x/-y. Negative amounts pull an edge inward. Panics if
// the result would have non-positive width or height.
func (r Rect) Grow(left, bottom, right, top float64) Rect {
	out := Rect{
		Min: r2.Sub(r.Min, r2.Vec{X: left, Y: bottom}),
		Max: r2.Add(r.Max, r2.Vec{X: right, Y: top}),
	}
	if out.Width() <= 0 || out.Height() <= 0 {
		panic(fmt.Sprintf("geom: grow(%g, %g, %g, %g) of %v is degenerate", left, bottom, right, top, r))
	}
	return out
}

// Union returns the minimal rectangle enclosing both r and o. This is
// a bounding-box merge, not a shape union; it is commutative and
// associative.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: r2.Vec{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: r2.Vec{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Move translates both corners by delta.
func (r Rect) Move(delta r2.Vec) Rect {
	return Rect{Min: r2.Add(r.Min, delta), Max: r2.Add(r.Max, delta)}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
