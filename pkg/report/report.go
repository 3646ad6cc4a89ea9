// Package report writes human-readable companions to the solid output:
// a PDF assembly sheet describing the case and its screws, and a DXF
// drill template for transferring hole positions to stock. Both are
// derived from the case's dimension accessors and the board's cutouts;
// neither touches the solid geometry.
package report

import (
	"github.com/chazu/casemaker/pkg/board"
	"github.com/chazu/casemaker/pkg/enclosure"
)

// layerColor is the RGB color a cutout layer is drawn with, shared by
// the PDF drawing and its legend.
type layerColor struct {
	R, G, B int
}

var cutColors = map[board.Layer]layerColor{
	board.LayerTopFaceplate:    {R: 76, G: 175, B: 80},  // green
	board.LayerBottomFaceplate: {R: 33, G: 150, B: 243}, // blue
	board.LayerSideCut:         {R: 255, G: 152, B: 0},  // orange
}

// axisOf names the drilling axis of a screw group: side screws drill
// along x, the top and board groups along z.
func axisOf(g enclosure.ScrewGroup) string {
	if g == enclosure.ScrewSide {
		return "x"
	}
	return "z"
}
