package enclosure

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/chazu/casemaker/pkg/solid"
)

// explodeOffset separates the pieces in the exploded preview.
const explodeOffset = 40.0

// selectorEps nudges selector faces off the case's own faces so the
// boolean cuts never run along a coincident plane.
const selectorEps = 0.05

// parts are the separately printable pieces. top is nil for open-top
// cases.
type parts struct {
	main, side, top solid.Solid
}

// topSelector covers the top wall's height band, extending well past
// the case footprint in x and y.
func (c *Case) topSelector() solid.Solid {
	r := c.cavity.Pad(2 * c.dims.WallXY)
	return c.prism(r, c.dims.WallZ+2*selectorEps, c.dims.CavityTop()-selectorEps)
}

// mainSelector picks the body while excluding the side panel: it
// reaches past the footprint on the left, bottom and top edges but
// stops selectorEps short of the cavity's right edge, putting the
// parting plane inside the right wall. Twice the case height, shifted
// well below, covers everything vertically.
func (c *Case) mainSelector() solid.Solid {
	reach := 2 * c.dims.WallXY
	r := c.cavity.Grow(reach, reach, -selectorEps, reach)
	h := c.dims.Height()
	return c.prism(r, 2*h, -h-10)
}

// separate splits the accumulated solid into printable pieces. The
// boolean order is deliberate: the side piece subtracts both
// selectors, and the main piece subtracts the top selector after its
// own intersection, so the three pieces tile the case without
// duplicated material. Reordering these operations reintroduces
// overlaps at the part boundaries.
func (c *Case) separate(topSel solid.Solid) parts {
	mainSel := c.mainSelector()

	if topSel == nil {
		return parts{
			main: c.b.Intersection(c.acc, mainSel),
			side: c.b.Difference(c.acc, mainSel),
		}
	}

	main := c.b.Intersection(c.acc, mainSel)
	side := c.b.Difference(c.acc, c.b.Union(mainSel, topSel))
	top := c.b.Intersection(c.acc, topSel)
	main = c.b.Difference(main, topSel)
	return parts{main: main, side: side, top: top}
}

// Save drills the screw holes, separates the case and writes every
// artifact next to path: top.<name>, main.<name>, side.<name>,
// exploded.<name>, the full case at <name> itself, and the screw
// primitive as screw.<ext>. Open-top cases skip the top piece. The
// returned slice lists the files written, in order.
//
// Save seals the case; cutting or saving again returns ErrSealed.
func (c *Case) Save(path string) ([]string, error) {
	if c.sealed {
		return nil, ErrSealed
	}
	c.sealed = true

	var topSel solid.Solid
	if !c.dims.OpenTop {
		topSel = c.topSelector()
	}
	c.applyScrews(topSel)
	p := c.separate(topSel)

	exploded := c.b.Union(p.main, c.b.Translate(p.side, r3.Vec{X: explodeOffset}))
	if p.top != nil {
		exploded = c.b.Union(exploded, c.b.Translate(p.top, r3.Vec{Z: explodeOffset}))
	}

	dir, base := filepath.Split(path)
	artifact := func(prefix string) string {
		return filepath.Join(dir, prefix+base)
	}

	type output struct {
		path string
		s    solid.Solid
	}
	var outputs []output
	if p.top != nil {
		outputs = append(outputs, output{artifact("top."), p.top})
	}
	outputs = append(outputs,
		output{artifact("main."), p.main},
		output{artifact("side."), p.side},
		output{artifact("exploded."), exploded},
		output{path, c.acc},
		output{filepath.Join(dir, "screw"+filepath.Ext(base)), c.sideScrew()},
	)

	written := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if err := c.b.Save(o.s, o.path); err != nil {
			return written, fmt.Errorf("save %s: %w", o.path, err)
		}
		written = append(written, o.path)
	}
	return written, nil
}
