package enclosure

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/casemaker/pkg/solid"
)

// Screw stock the case was sized around. Holes are drilled for the
// shaft and head as two stacked cylinders.
const (
	screwShaftRadius = 1.25
	screwShaftLength = 12.0
	screwHeadRadius  = 3.0
	screwHeadLength  = 2.5
	screwSegments    = 20

	// screwMargin keeps side screw heads clear of the outer faces;
	// screwSeat is the minimum thread bite below the cavity ceiling
	// for the top screws.
	screwMargin = 2.0
	screwSeat   = 3.0
)

// screwLength is shaft plus head.
const screwLength = screwShaftLength + screwHeadLength

// ScrewShaftRadius is the drill radius for a screw shaft. Report
// writers mark drill positions at this radius.
const ScrewShaftRadius = screwShaftRadius

// ScrewGroup labels the three screw families.
type ScrewGroup int

const (
	// ScrewSide fastens the side panel to the body, shaft along -x.
	ScrewSide ScrewGroup = iota
	// ScrewTop fastens the top panel to the body, shaft down -z.
	ScrewTop
	// ScrewBoard clamps the board into its groove, shaft down -z.
	ScrewBoard
)

func (g ScrewGroup) String() string {
	switch g {
	case ScrewSide:
		return "side"
	case ScrewTop:
		return "top"
	case ScrewBoard:
		return "board"
	}
	return "unknown"
}

// ScrewPlacement is one screw's drill position. At is the top of the
// screw head; side screws extend along -x from there, the other groups
// down -z.
type ScrewPlacement struct {
	Group ScrewGroup
	At    r3.Vec
}

// ScrewPlan returns every screw the case will drill, ordered side,
// top, board. Placements are a pure function of the board box and the
// dimensions, so reports may call this before or after Save. No check
// keeps the positions inside material for pathologically small boards;
// the stock constants assume boards comfortably larger than the screws.
func (c *Case) ScrewPlan() []ScrewPlacement {
	d := c.dims
	plan := make([]ScrewPlacement, 0, 10)

	// Side screws: two rows in y centered in the wall beyond the
	// groove, at two heights just inside the case's bottom and top.
	usable := d.WallXY - d.BoardSlot
	rows := [2]float64{c.board.Bot() - usable/2, c.board.Top() + usable/2}
	x := c.cavity.Right() + d.WallXY
	zLow := -(d.CavityBot() + d.WallZ) + screwHeadRadius + screwMargin
	zHigh := c.caseTop() - screwHeadRadius - screwMargin
	for _, y := range rows {
		for _, z := range [2]float64{zLow, zHigh} {
			plan = append(plan, ScrewPlacement{Group: ScrewSide, At: r3.Vec{X: x, Y: y, Z: z}})
		}
	}

	// Top screws: same rows, two x positions inside the board's left
	// and right edges. The screw sits as high as it can while keeping
	// at least screwSeat of thread below the cavity ceiling, or
	// centered in the top slab if that is deeper.
	if !d.OpenTop {
		z := math.Max(
			d.CavityTop()+screwLength-screwSeat,
			d.CavityTop()+d.WallZ/2+screwLength/2,
		)
		xs := [2]float64{c.board.Left() + screwHeadRadius, c.board.Right() - screwShaftLength}
		for _, y := range rows {
			for _, sx := range xs {
				plan = append(plan, ScrewPlacement{Group: ScrewTop, At: r3.Vec{X: sx, Y: y, Z: z}})
			}
		}
	}

	// Board screws: mid-span on the board's two y edges, shifted out
	// by the shaft radius so the shaft channels along the groove face
	// and the wider head overhangs the board edge to clamp it. The
	// shaft tip rests exactly on the board's top face.
	midX := c.board.Center().X
	z := d.BoardThickness + screwLength
	for _, y := range [2]float64{c.board.Bot() - screwShaftRadius, c.board.Top() + screwShaftRadius} {
		plan = append(plan, ScrewPlacement{Group: ScrewBoard, At: r3.Vec{X: midX, Y: y, Z: z}})
	}
	return plan
}

// verticalScrew builds the screw cutting solid pointing down -z with
// the origin at the top of the head. The cylinders run 0.1 long so
// coincident faces never leave a zero-thickness shell.
func (c *Case) verticalScrew() solid.Solid {
	b := c.b
	shaft := b.Cylinder(screwShaftLength+0.1, screwShaftRadius, screwSegments)
	head := b.Translate(
		b.Cylinder(screwHeadLength+0.1, screwHeadRadius, screwSegments),
		r3.Vec{Z: screwShaftLength},
	)
	return b.Translate(b.Union(head, shaft), r3.Vec{Z: -screwLength})
}

// sideScrew is the screw primitive turned to drill along -x, head at
// the origin end. This is also the shape written to the screw artifact.
func (c *Case) sideScrew() solid.Solid {
	return c.b.Rotate(c.verticalScrew(), r3.Vec{Y: 90})
}

// applyScrews subtracts every planned screw from the accumulator.
// Board screw holes are clipped against the top selector so they never
// perforate the top panel; topSel is nil for open-top cases, which
// have no panel to protect.
func (c *Case) applyScrews(topSel solid.Solid) {
	vertical := c.verticalScrew()
	side := c.sideScrew()

	for _, p := range c.ScrewPlan() {
		var cutter solid.Solid
		switch p.Group {
		case ScrewSide:
			cutter = c.b.Translate(side, p.At)
		case ScrewTop:
			cutter = c.b.Translate(vertical, p.At)
		case ScrewBoard:
			cutter = c.b.Translate(vertical, p.At)
			if topSel != nil {
				cutter = c.b.Difference(cutter, topSel)
			}
		}
		c.acc = c.b.Difference(c.acc, cutter)
	}
}
