// Package scad implements the solid.Backend interface by accumulating
// an operation tree and emitting it as OpenSCAD source. Nothing is
// evaluated here; OpenSCAD performs the boolean work when the user
// opens or renders the file.
package scad

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/casemaker/pkg/solid"
)

// Compile-time interface check.
var _ solid.Backend = (*Backend)(nil)

type op int

const (
	opCube op = iota
	opCylinder
	opUnion
	opDifference
	opIntersection
	opTranslate
	opScale
	opRotate
)

func (o op) scadName() string {
	switch o {
	case opUnion:
		return "union"
	case opDifference:
		return "difference"
	case opIntersection:
		return "intersection"
	case opTranslate:
		return "translate"
	case opScale:
		return "scale"
	case opRotate:
		return "rotate"
	}
	return "?"
}

// node is one vertex of the operation tree. Nodes are immutable after
// construction, so solids can be shared between expressions.
type node struct {
	op       op
	size     r3.Vec  // opCube
	height   float64 // opCylinder
	radius   float64
	segments int
	arg      r3.Vec // transform argument
	kids     []*node

	min, max r3.Vec
}

// BoundingBox returns the axis-aligned bounding box. For boolean nodes
// the box is conservative: a difference keeps its minuend's box.
func (n *node) BoundingBox() (min, max r3.Vec) { return n.min, n.max }

// Backend emits OpenSCAD source. The zero value is ready to use.
type Backend struct{}

// New returns a new OpenSCAD backend.
func New() *Backend {
	return &Backend{}
}

// unwrap extracts the tree node from a solid.Solid.
func unwrap(s solid.Solid) *node {
	return s.(*node)
}

// Cube returns a box with its minimum corner at the origin.
func (b *Backend) Cube(size r3.Vec) solid.Solid {
	return &node{op: opCube, size: size, max: size}
}

// Cylinder returns a cylinder on the +z axis, base at z=0, rendered
// with the given number of facet segments ($fn).
func (b *Backend) Cylinder(height, radius float64, segments int) solid.Solid {
	return &node{
		op:       opCylinder,
		height:   height,
		radius:   radius,
		segments: segments,
		min:      r3.Vec{X: -radius, Y: -radius, Z: 0},
		max:      r3.Vec{X: radius, Y: radius, Z: height},
	}
}

// Union returns the union of two solids.
func (b *Backend) Union(a, o solid.Solid) solid.Solid {
	na, no := unwrap(a), unwrap(o)
	n := &node{op: opUnion, kids: []*node{na, no}}
	n.min, n.max = boxMerge(na.min, na.max, no.min, no.max)
	return n
}

// Difference returns a minus o.
func (b *Backend) Difference(a, o solid.Solid) solid.Solid {
	na, no := unwrap(a), unwrap(o)
	return &node{op: opDifference, kids: []*node{na, no}, min: na.min, max: na.max}
}

// Intersection returns the intersection of two solids.
func (b *Backend) Intersection(a, o solid.Solid) solid.Solid {
	na, no := unwrap(a), unwrap(o)
	n := &node{op: opIntersection, kids: []*node{na, no}}
	n.min = r3.Vec{X: math.Max(na.min.X, no.min.X), Y: math.Max(na.min.Y, no.min.Y), Z: math.Max(na.min.Z, no.min.Z)}
	n.max = r3.Vec{X: math.Min(na.max.X, no.max.X), Y: math.Min(na.max.Y, no.max.Y), Z: math.Min(na.max.Z, no.max.Z)}
	return n
}

// Translate moves a solid by v.
func (b *Backend) Translate(s solid.Solid, v r3.Vec) solid.Solid {
	ns := unwrap(s)
	return &node{
		op:   opTranslate,
		arg:  v,
		kids: []*node{ns},
		min:  r3.Add(ns.min, v),
		max:  r3.Add(ns.max, v),
	}
}

// Scale multiplies a solid's coordinates by v component-wise. Negative
// factors mirror about the corresponding plane.
func (b *Backend) Scale(s solid.Solid, v r3.Vec) solid.Solid {
	ns := unwrap(s)
	n := &node{op: opScale, arg: v, kids: []*node{ns}}
	lo := r3.Vec{X: ns.min.X * v.X, Y: ns.min.Y * v.Y, Z: ns.min.Z * v.Z}
	hi := r3.Vec{X: ns.max.X * v.X, Y: ns.max.Y * v.Y, Z: ns.max.Z * v.Z}
	n.min, n.max = boxMerge(lo, lo, hi, hi)
	return n
}

// Rotate rotates a solid by Euler angles (degrees) around the x, y and
// z axes, in that order. This matches OpenSCAD's rotate([x, y, z]).
func (b *Backend) Rotate(s solid.Solid, deg r3.Vec) solid.Solid {
	ns := unwrap(s)
	n := &node{op: opRotate, arg: deg, kids: []*node{ns}}

	// Bounding box of the eight rotated corners.
	first := true
	for _, x := range []float64{ns.min.X, ns.max.X} {
		for _, y := range []float64{ns.min.Y, ns.max.Y} {
			for _, z := range []float64{ns.min.Z, ns.max.Z} {
				p := rotatePoint(r3.Vec{X: x, Y: y, Z: z}, deg)
				if first {
					n.min, n.max = p, p
					first = false
					continue
				}
				n.min, n.max = boxMerge(n.min, n.max, p, p)
			}
		}
	}
	return n
}

// Save writes the solid's OpenSCAD source to path.
func (b *Backend) Save(s solid.Solid, path string) error {
	if err := os.WriteFile(path, []byte(b.Source(s)), 0o644); err != nil {
		return fmt.Errorf("write scad: %w", err)
	}
	return nil
}

// Source renders the solid's OpenSCAD source as a string.
func (b *Backend) Source(s solid.Solid) string {
	var sb strings.Builder
	writeNode(&sb, unwrap(s), 0)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch n.op {
	case opCube:
		fmt.Fprintf(sb, "%scube([%s, %s, %s]);\n",
			indent, fnum(n.size.X), fnum(n.size.Y), fnum(n.size.Z))
	case opCylinder:
		fmt.Fprintf(sb, "%scylinder(h=%s, r=%s, $fn=%d);\n",
			indent, fnum(n.height), fnum(n.radius), n.segments)
	case opUnion, opDifference, opIntersection:
		fmt.Fprintf(sb, "%s%s() {\n", indent, n.op.scadName())
		for _, k := range n.kids {
			writeNode(sb, k, depth+1)
		}
		fmt.Fprintf(sb, "%s}\n", indent)
	case opTranslate, opScale, opRotate:
		fmt.Fprintf(sb, "%s%s([%s, %s, %s]) {\n",
			indent, n.op.scadName(), fnum(n.arg.X), fnum(n.arg.Y), fnum(n.arg.Z))
		for _, k := range n.kids {
			writeNode(sb, k, depth+1)
		}
		fmt.Fprintf(sb, "%s}\n", indent)
	}
}

// fnum formats a coordinate with the fewest digits that round-trip.
func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// boxMerge returns the bounding box of two boxes.
func boxMerge(aMin, aMax, bMin, bMax r3.Vec) (min, max r3.Vec) {
	min = r3.Vec{X: math.Min(aMin.X, bMin.X), Y: math.Min(aMin.Y, bMin.Y), Z: math.Min(aMin.Z, bMin.Z)}
	max = r3.Vec{X: math.Max(aMax.X, bMax.X), Y: math.Max(aMax.Y, bMax.Y), Z: math.Max(aMax.Z, bMax.Z)}
	return min, max
}

// rotatePoint applies Euler rotations in degrees, x then y then z.
func rotatePoint(p r3.Vec, deg r3.Vec) r3.Vec {
	rx := deg.X * math.Pi / 180.0
	ry := deg.Y * math.Pi / 180.0
	rz := deg.Z * math.Pi / 180.0

	y := p.Y*math.Cos(rx) - p.Z*math.Sin(rx)
	z := p.Y*math.Sin(rx) + p.Z*math.Cos(rx)
	p = r3.Vec{X: p.X, Y: y, Z: z}

	x := p.X*math.Cos(ry) + p.Z*math.Sin(ry)
	z = -p.X*math.Sin(ry) + p.Z*math.Cos(ry)
	p = r3.Vec{X: x, Y: p.Y, Z: z}

	x = p.X*math.Cos(rz) - p.Y*math.Sin(rz)
	y = p.X*math.Sin(rz) + p.Y*math.Cos(rz)
	return r3.Vec{X: x, Y: y, Z: p.Z}
}
