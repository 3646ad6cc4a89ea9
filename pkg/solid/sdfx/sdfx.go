// Package sdfx implements the solid.Backend interface using the
// github.com/deadsy/sdfx SDF-based CAD library. Save renders the
// signed distance field to a binary STL mesh with marching cubes.
package sdfx

import (
	"fmt"
	"math"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/casemaker/pkg/solid"
)

// Compile-time interface check.
var _ solid.Backend = (*Backend)(nil)

// DefaultCells is the default marching cubes resolution along the
// longest bounding box axis.
const DefaultCells = 200

// sdfSolid wraps an sdf.SDF3 to implement solid.Solid.
type sdfSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfSolid) BoundingBox() (min, max r3.Vec) {
	bb := s.s.BoundingBox()
	min = r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z}
	max = r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z}
	return min, max
}

// Backend implements solid.Backend on signed distance fields.
type Backend struct {
	cells int
}

// New returns a Backend that renders with the given marching cubes
// resolution; cells <= 0 selects DefaultCells.
func New(cells int) *Backend {
	if cells <= 0 {
		cells = DefaultCells
	}
	return &Backend{cells: cells}
}

// unwrap extracts the underlying sdf.SDF3 from a solid.Solid.
func unwrap(s solid.Solid) sdf.SDF3 {
	return s.(*sdfSolid).s
}

// wrap creates a solid.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) solid.Solid {
	return &sdfSolid{s: s}
}

// Cube creates a box with the given extent. sdf.Box3D centers the box
// at the origin, so it is translated by half-dimensions to put the
// minimum corner at (0,0,0) as the Backend contract requires.
func (b *Backend) Cube(size r3.Vec) solid.Solid {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Cylinder creates a cylinder on the +z axis with its base at z=0.
// sdf.Cylinder3D is centered, so it is shifted up by half the height.
// The segments parameter is ignored since SDF surfaces are smooth.
func (b *Backend) Cylinder(height, radius float64, segments int) solid.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	m := sdf.Translate3d(v3.Vec{Z: height / 2})
	return wrap(sdf.Transform3D(s, m))
}

// Union returns the union of two solids.
func (b *Backend) Union(a, o solid.Solid) solid.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(o)))
}

// Difference returns the difference a - o.
func (b *Backend) Difference(a, o solid.Solid) solid.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(o)))
}

// Intersection returns the intersection of two solids.
func (b *Backend) Intersection(a, o solid.Solid) solid.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(o)))
}

// Translate moves a solid by v.
func (b *Backend) Translate(s solid.Solid, v r3.Vec) solid.Solid {
	m := sdf.Translate3d(v3.Vec{X: v.X, Y: v.Y, Z: v.Z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Scale multiplies a solid's coordinates component-wise. The case
// pipeline only ever scales by unit factors (mirroring), which keeps
// the distance field exact.
func (b *Backend) Scale(s solid.Solid, v r3.Vec) solid.Solid {
	m := sdf.Scale3d(v3.Vec{X: v.X, Y: v.Y, Z: v.Z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (b *Backend) Rotate(s solid.Solid, deg r3.Vec) solid.Solid {
	xRad := deg.X * math.Pi / 180.0
	yRad := deg.Y * math.Pi / 180.0
	zRad := deg.Z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Save renders the solid to a binary STL file using marching cubes.
// render.ToSTL reports write failures on stdout and returns nothing,
// so the target is removed first and checked afterwards to turn a
// silent failure into an error.
func (b *Backend) Save(s solid.Solid, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear stl target: %w", err)
	}
	render.ToSTL(unwrap(s), path, render.NewMarchingCubesUniform(b.cells))
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("render stl %s: %w", path, err)
	}
	return nil
}

// Evaluate returns the signed distance from p to the solid's surface.
// Negative values are inside the solid. Geometry tests lean on this to
// probe features without rendering a mesh.
func Evaluate(s solid.Solid, p r3.Vec) float64 {
	return unwrap(s).Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}
