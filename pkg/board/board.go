// Package board models the circuit board the case is built around: an
// outline bounding box plus layer-tagged cutout rectangles for the
// connectors and faceplates that must pierce the case walls. Loaders
// exist for EAGLE .brd files (eagle.go) and the height-spec option
// document (gspec.go); hand-written script boards are produced by
// pkg/script and land in the same types.
package board

import "github.com/chazu/casemaker/pkg/geom"

// Layer identifies which case face a cutout pierces.
type Layer string

const (
	// LayerTopFaceplate marks footprints exposed through the top face.
	LayerTopFaceplate Layer = "tFaceplate"
	// LayerBottomFaceplate marks footprints exposed through the bottom face.
	LayerBottomFaceplate Layer = "bFaceplate"
	// LayerSideCut marks footprints that exit through a side wall.
	LayerSideCut Layer = "tSideCut"
)

// Recognized reports whether the layer drives a cut operation.
func (l Layer) Recognized() bool {
	switch l {
	case LayerTopFaceplate, LayerBottomFaceplate, LayerSideCut:
		return true
	}
	return false
}

// Mirrored returns the layer for the same footprint mounted on the
// opposite board side. Only the faceplate layers swap; a side cut
// exits through a wall either way.
func (l Layer) Mirrored() Layer {
	switch l {
	case LayerTopFaceplate:
		return LayerBottomFaceplate
	case LayerBottomFaceplate:
		return LayerTopFaceplate
	}
	return l
}

// Cutout is a rectangle tagged with the case face it pierces.
type Cutout struct {
	Rect  geom.Rect
	Layer Layer
	// Ref names the board element the cutout came from, when known.
	Ref string
}

// Board is the geometry the case pipeline consumes. Coordinates are
// millimeters in the board's own frame.
type Board struct {
	// Outline is the bounding box of the whole board.
	Outline geom.Rect
	// Cutouts are the layer-tagged rectangles to carve out of the case.
	Cutouts []Cutout
	// Skipped counts input rectangles dropped because their layer
	// drives no cut operation. Loaders fill it so the CLI can surface
	// the dropped geometry.
	Skipped int
}

// CutoutsOn returns the cutouts tagged with the given layer, in input
// order.
func (b *Board) CutoutsOn(layer Layer) []Cutout {
	var out []Cutout
	for _, c := range b.Cutouts {
		if c.Layer == layer {
			out = append(out, c)
		}
	}
	return out
}
