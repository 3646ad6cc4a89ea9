// Package solid defines the abstract constructive-geometry backend
// interface. Implementations (scad, sdfx) provide primitive solids and
// boolean operations behind this interface. The abstraction allows the
// case pipeline to target OpenSCAD source or a rendered STL mesh
// without changing any geometry code.
package solid

import "gonum.org/v1/gonum/spatial/r3"

// Solid is an opaque handle to a backend solid. Solids are immutable:
// operators return new handles and never modify their operands, so a
// handle may safely appear in several expressions.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max r3.Vec)
}

// Backend constructs, combines and serializes solids.
//
// Conventions every implementation follows:
//   - Cube places its minimum corner at the origin.
//   - Cylinder's axis is +z with the base face at z=0.
//   - Rotate takes Euler angles in degrees, applied x, then y, then z.
//   - Scale factors may be negative, which mirrors.
type Backend interface {
	// Primitives
	Cube(size r3.Vec) Solid
	Cylinder(height, radius float64, segments int) Solid

	// Boolean operations
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid
	Union(a, b Solid) Solid

	// Transforms
	Translate(s Solid, v r3.Vec) Solid
	Scale(s Solid, v r3.Vec) Solid
	Rotate(s Solid, deg r3.Vec) Solid

	// Save writes s to path in the backend's native format.
	Save(s Solid, path string) error
}
