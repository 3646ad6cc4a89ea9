// Package enclosure builds 3D-printable cases around circuit boards.
// A Case starts as a hollow box with a groove gripping the board's
// edge, accumulates cut operations for connectors and faceplates, and
// at save time drills its screw holes and splits into separately
// printable top, main and side pieces.
//
// The coordinate frame follows the board: x/y are board coordinates in
// millimeters and z=0 is the plane of the board's underside, so the
// board occupies z in [0, BoardThickness] and the cavity reaches from
// -SpaceBot up to CavityTop.
package enclosure

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/casemaker/pkg/geom"
	"github.com/chazu/casemaker/pkg/solid"
)

// ErrSealed is returned when a case is cut or saved after Save has
// already run.
var ErrSealed = errors.New("case already saved")

// slotMargin extends the board groove slightly past the cavity ceiling
// so the planes never coincide.
const slotMargin = 0.5

// Dimensions are the scalar parameters of a case, in millimeters.
type Dimensions struct {
	SpaceTop       float64 // clearance above the board's top face
	SpaceBot       float64 // clearance below the board's underside
	BoardThickness float64
	WallXY         float64 // side wall thickness
	WallZ          float64 // top and bottom wall thickness
	BoardSlot      float64 // depth of the groove gripping the board edge
	OpenTop        bool    // omit the ceiling, the top piece and its screws
}

// DefaultDimensions returns the standard case parameters.
func DefaultDimensions() Dimensions {
	return Dimensions{
		SpaceTop:       15.0,
		SpaceBot:       15.0,
		BoardThickness: 1.6,
		WallXY:         7.1,
		WallZ:          4.0,
		BoardSlot:      3.0,
	}
}

// CavityHeight is the interior height: clearance above and below plus
// the board itself.
func (d Dimensions) CavityHeight() float64 {
	return d.SpaceTop + d.SpaceBot + d.BoardThickness
}

// CavityTop is the z of the cavity ceiling.
func (d Dimensions) CavityTop() float64 {
	return d.BoardThickness + d.SpaceTop
}

// CavityBot is the cavity depth below the board plane.
func (d Dimensions) CavityBot() float64 {
	return d.SpaceBot
}

// Height is the full outer height of the case. An open-top case has no
// ceiling slab.
func (d Dimensions) Height() float64 {
	h := d.CavityHeight() + 2*d.WallZ
	if d.OpenTop {
		h -= d.WallZ
	}
	return h
}

func (d Dimensions) validate() error {
	pos := []struct {
		name  string
		value float64
	}{
		{"space above board", d.SpaceTop},
		{"space below board", d.SpaceBot},
		{"board thickness", d.BoardThickness},
		{"side wall thickness", d.WallXY},
		{"top/bottom wall thickness", d.WallZ},
		{"board slot depth", d.BoardSlot},
	}
	for _, p := range pos {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %g", p.name, p.value)
		}
	}
	if d.BoardSlot >= d.WallXY {
		return fmt.Errorf("board slot %g must be narrower than the side wall %g", d.BoardSlot, d.WallXY)
	}
	return nil
}

// Case owns the accumulating solid for one enclosure. Build it with
// New, apply cuts, then Save exactly once.
type Case struct {
	b    solid.Backend
	dims Dimensions

	// board is the input bounding box; its edge rides in the groove.
	// cavity is the open interior footprint, board shrunk by the slot
	// depth on every side.
	board  geom.Rect
	cavity geom.Rect

	acc    solid.Solid
	sealed bool
}

// New builds the base hollow box for a board bounding box: outer block
// minus interior cavity minus the groove channel the board slides
// into. Dimension violations are fatal here, never later.
func New(b solid.Backend, boardRect geom.Rect, dims Dimensions) (*Case, error) {
	if err := dims.validate(); err != nil {
		return nil, fmt.Errorf("case dimensions: %w", err)
	}
	if boardRect.Width() <= 2*dims.BoardSlot || boardRect.Height() <= 2*dims.BoardSlot {
		return nil, fmt.Errorf("board %v too small for a %gmm slot on each side", boardRect, dims.BoardSlot)
	}

	c := &Case{
		b:      b,
		dims:   dims,
		board:  boardRect,
		cavity: boardRect.Pad(-dims.BoardSlot),
	}

	outerRect := c.cavity.Pad(dims.WallXY)
	slotRect := c.cavity.Pad(dims.BoardSlot)
	if slotRect.Area() >= outerRect.Area() {
		return nil, fmt.Errorf("slot footprint %v not inside outer wall %v", slotRect, outerRect)
	}

	inner := c.prism(c.cavity, dims.CavityHeight(), -dims.SpaceBot)

	outerH := dims.CavityHeight() + 2*dims.WallZ
	if dims.OpenTop {
		outerH -= dims.WallZ
	}
	outer := c.prism(outerRect, outerH, -dims.SpaceBot-dims.WallZ)

	c.acc = b.Difference(outer, inner)
	c.acc = b.Difference(c.acc, c.prism(slotRect, dims.CavityTop()+slotMargin, 0))
	return c, nil
}

// Dims returns the case's dimension parameters.
func (c *Case) Dims() Dimensions { return c.dims }

// Board returns the board bounding box the case was built around.
func (c *Case) Board() geom.Rect { return c.board }

// Cavity returns the interior footprint.
func (c *Case) Cavity() geom.Rect { return c.cavity }

// Sealed reports whether Save has run.
func (c *Case) Sealed() bool { return c.sealed }

// CutTop carves rect straight through the case from the board plane
// up. The prism spans the full case height on purpose: the hole is
// clean whichever face the rectangle sits on, and part separation
// discards the excess.
func (c *Case) CutTop(rect geom.Rect) error {
	if c.sealed {
		return ErrSealed
	}
	c.acc = c.b.Difference(c.acc, c.prism(rect, c.pierceHeight(), 0))
	return nil
}

// CutBot carves rect through the case in the bottom face's frame: the
// piercing prism is mirrored about z=0 before subtraction, so
// coordinates measured on the board's underside land on the right
// geometry.
func (c *Case) CutBot(rect geom.Rect) error {
	if c.sealed {
		return ErrSealed
	}
	cut := c.b.Scale(c.prism(rect, c.pierceHeight(), 0), r3.Vec{X: 1, Y: 1, Z: -1})
	c.acc = c.b.Difference(c.acc, cut)
	return nil
}

// CutSide opens a side wall where rect sticks out past the cavity
// footprint. A rect the cavity fully encloses needs no side opening;
// that is a silent no-op, not an error.
func (c *Case) CutSide(rect geom.Rect) error {
	if c.sealed {
		return ErrSealed
	}
	resolved, ok := ResolveSideCut(c.cavity, rect, c.dims.WallXY)
	if !ok {
		return nil
	}
	c.acc = c.b.Difference(c.acc, c.prism(resolved, c.dims.SpaceTop, 0))
	return nil
}

// prism extrudes a footprint straight up from zStart by height.
func (c *Case) prism(r geom.Rect, height, zStart float64) solid.Solid {
	cube := c.b.Cube(r3.Vec{X: r.Width(), Y: r.Height(), Z: height})
	return c.b.Translate(cube, r3.Vec{X: r.Left(), Y: r.Bot(), Z: zStart})
}

// pierceHeight is tall enough to cross both the top and bottom walls
// regardless of the open-top setting.
func (c *Case) pierceHeight() float64 {
	return c.dims.CavityHeight() + 2*c.dims.WallZ
}

// caseTop is the z of the highest case material.
func (c *Case) caseTop() float64 {
	if c.dims.OpenTop {
		return c.dims.CavityTop()
	}
	return c.dims.CavityTop() + c.dims.WallZ
}
