package enclosure

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/casemaker/pkg/geom"
)

// ResolveSideCut decides whether a cutout needs to open a side wall
// and returns the rectangle to cut if so. A cutout fully enclosed by
// the container only pierces the top or bottom face, so the second
// return is false and no side cut is wanted.
//
// For each axis independently, a cutout bound past the container bound
// means the part sticks out through that wall: the cut rectangle is
// merged with a copy of the original translated 2*wall further out, so
// the opening reaches through the wall with margin. Both axes, and
// both sides of one axis, may extend the same cut.
func ResolveSideCut(container, cut geom.Rect, wall float64) (geom.Rect, bool) {
	if container.Encloses(cut) {
		return geom.Rect{}, false
	}

	ext := 2 * wall
	out := cut
	if cut.Left() < container.Left() {
		out = out.Union(cut.Move(r2.Vec{X: -ext}))
	}
	if cut.Right() > container.Right() {
		out = out.Union(cut.Move(r2.Vec{X: ext}))
	}
	if cut.Bot() < container.Bot() {
		out = out.Union(cut.Move(r2.Vec{Y: -ext}))
	}
	if cut.Top() > container.Top() {
		out = out.Union(cut.Move(r2.Vec{Y: ext}))
	}
	return out, true
}
