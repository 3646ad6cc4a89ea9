package report

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/chazu/casemaker/pkg/board"
	"github.com/chazu/casemaker/pkg/enclosure"
	"github.com/chazu/casemaker/pkg/geom"
)

// DXF layer names.
const (
	dxfLayerOutline = "OUTLINE"
	dxfLayerCutouts = "CUTOUTS"
	dxfLayerScrews  = "SCREWS"
)

// WriteDXF writes a 1:1 top-view drill and cutout template: the outer
// wall and board outlines on OUTLINE, the top-face cutouts on CUTOUTS,
// and a drill circle at shaft radius on SCREWS for every screw that
// drills along z. Side screws enter through a wall face and cannot be
// transferred from a top view, so they are left to the PDF schedule.
func WriteDXF(path string, c *enclosure.Case, b *board.Board) error {
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(dxfLayerOutline, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("dxf layer %s: %w", dxfLayerOutline, err)
	}
	outer := c.Cavity().Pad(c.Dims().WallXY)
	if err := drawRect(d, outer); err != nil {
		return err
	}
	if err := drawRect(d, c.Board()); err != nil {
		return err
	}

	if _, err := d.AddLayer(dxfLayerCutouts, color.Green, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("dxf layer %s: %w", dxfLayerCutouts, err)
	}
	for _, cut := range b.CutoutsOn(board.LayerTopFaceplate) {
		if err := drawRect(d, cut.Rect); err != nil {
			return err
		}
	}

	if _, err := d.AddLayer(dxfLayerScrews, color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("dxf layer %s: %w", dxfLayerScrews, err)
	}
	for _, p := range c.ScrewPlan() {
		if axisOf(p.Group) != "z" {
			continue
		}
		if _, err := d.Circle(p.At.X, p.At.Y, 0, enclosure.ScrewShaftRadius); err != nil {
			return fmt.Errorf("dxf screw circle: %w", err)
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("write dxf %s: %w", path, err)
	}
	return nil
}

// drawRect emits a rectangle as four line entities.
func drawRect(d *drawing.Drawing, r geom.Rect) error {
	lines := [4][4]float64{
		{r.Left(), r.Bot(), r.Right(), r.Bot()},
		{r.Right(), r.Bot(), r.Right(), r.Top()},
		{r.Right(), r.Top(), r.Left(), r.Top()},
		{r.Left(), r.Top(), r.Left(), r.Bot()},
	}
	for _, l := range lines {
		if _, err := d.Line(l[0], l[1], 0, l[2], l[3], 0); err != nil {
			return fmt.Errorf("dxf line: %w", err)
		}
	}
	return nil
}
