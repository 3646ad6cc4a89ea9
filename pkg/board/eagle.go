package board

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/chazu/casemaker/pkg/geom"
)

// layerDimension is EAGLE's board outline layer number.
const layerDimension = 20

// eagleFile maps the subset of the EAGLE 6+ XML board format the case
// pipeline needs. Attribute coordinates are already millimeters.
type eagleFile struct {
	XMLName   xml.Name       `xml:"eagle"`
	Layers    []eagleLayer   `xml:"drawing>layers>layer"`
	Plain     eaglePlain     `xml:"drawing>board>plain"`
	Libraries []eagleLibrary `xml:"drawing>board>libraries>library"`
	Elements  []eagleElement `xml:"drawing>board>elements>element"`
}

type eagleLayer struct {
	Number int    `xml:"number,attr"`
	Name   string `xml:"name,attr"`
}

type eaglePlain struct {
	Wires      []eagleWire      `xml:"wire"`
	Rectangles []eagleRectangle `xml:"rectangle"`
}

type eagleWire struct {
	X1    float64 `xml:"x1,attr"`
	Y1    float64 `xml:"y1,attr"`
	X2    float64 `xml:"x2,attr"`
	Y2    float64 `xml:"y2,attr"`
	Layer int     `xml:"layer,attr"`
}

type eagleRectangle struct {
	X1    float64 `xml:"x1,attr"`
	Y1    float64 `xml:"y1,attr"`
	X2    float64 `xml:"x2,attr"`
	Y2    float64 `xml:"y2,attr"`
	Layer int     `xml:"layer,attr"`
}

type eagleLibrary struct {
	Name     string         `xml:"name,attr"`
	Packages []eaglePackage `xml:"packages>package"`
}

type eaglePackage struct {
	Name       string           `xml:"name,attr"`
	Rectangles []eagleRectangle `xml:"rectangle"`
}

type eagleElement struct {
	Name    string  `xml:"name,attr"`
	Library string  `xml:"library,attr"`
	Package string  `xml:"package,attr"`
	X       float64 `xml:"x,attr"`
	Y       float64 `xml:"y,attr"`
	Rot     string  `xml:"rot,attr"`
}

// Load reads an EAGLE board file and extracts the outline and cutouts.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

// Parse extracts a Board from EAGLE XML. Cutout rectangles come from
// the board's plain section and from library packages instantiated by
// element placements; element rotation and mirroring are applied, and
// a mirrored element swaps its top/bottom faceplate layers. The
// outline is the bounding box of the Dimension-layer wires, falling
// back to all plain geometry for boards drawn without one.
func Parse(data []byte) (*Board, error) {
	var ef eagleFile
	if err := xml.Unmarshal(data, &ef); err != nil {
		return nil, fmt.Errorf("parse eagle xml: %w", err)
	}

	layerName := make(map[int]Layer, len(ef.Layers))
	for _, l := range ef.Layers {
		layerName[l.Number] = Layer(l.Name)
	}

	pkgs := make(map[string]map[string]eaglePackage, len(ef.Libraries))
	for _, lib := range ef.Libraries {
		m := make(map[string]eaglePackage, len(lib.Packages))
		for _, p := range lib.Packages {
			m[p.Name] = p
		}
		pkgs[lib.Name] = m
	}

	b := &Board{}

	for _, r := range ef.Plain.Rectangles {
		tag := layerName[r.Layer]
		if !tag.Recognized() {
			b.Skipped++
			continue
		}
		b.Cutouts = append(b.Cutouts, Cutout{
			Rect:  geom.NewRect(r.X1, r.Y1, r.X2, r.Y2),
			Layer: tag,
		})
	}

	for _, el := range ef.Elements {
		pkg, ok := pkgs[el.Library][el.Package]
		if !ok {
			return nil, fmt.Errorf("element %s references unknown package %s/%s", el.Name, el.Library, el.Package)
		}
		mirror, deg, err := parseRot(el.Rot)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", el.Name, err)
		}
		for _, r := range pkg.Rectangles {
			tag := layerName[r.Layer]
			if !tag.Recognized() {
				b.Skipped++
				continue
			}
			if mirror {
				tag = tag.Mirrored()
			}
			b.Cutouts = append(b.Cutouts, Cutout{
				Rect:  placeRect(r, el, mirror, deg),
				Layer: tag,
				Ref:   el.Name,
			})
		}
	}

	outline, err := outlineOf(&ef)
	if err != nil {
		return nil, err
	}
	b.Outline = outline
	return b, nil
}

// placeRect transforms a package-local rectangle into board space:
// mirror about the y axis, rotate counter-clockwise, then translate to
// the element origin. The result is the bounding box of the
// transformed corners, so rotations by non-right angles stay
// axis-aligned.
func placeRect(r eagleRectangle, el eagleElement, mirror bool, deg float64) geom.Rect {
	rad := deg * math.Pi / 180.0
	sin, cos := math.Sin(rad), math.Cos(rad)

	corners := [4]r2.Vec{
		{X: r.X1, Y: r.Y1},
		{X: r.X2, Y: r.Y1},
		{X: r.X2, Y: r.Y2},
		{X: r.X1, Y: r.Y2},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := c.X, c.Y
		if mirror {
			x = -x
		}
		rx := x*cos - y*sin
		ry := x*sin + y*cos
		rx += el.X
		ry += el.Y

		minX = math.Min(minX, rx)
		minY = math.Min(minY, ry)
		maxX = math.Max(maxX, rx)
		maxY = math.Max(maxY, ry)
	}
	return geom.NewRect(minX, minY, maxX, maxY)
}

// parseRot decodes an EAGLE rot attribute such as "R90", "MR180" or
// "SR45". M mirrors about the y axis, S only affects text spin, and
// the number after R is a counter-clockwise rotation in degrees. An
// empty attribute means no transform.
func parseRot(rot string) (mirror bool, degrees float64, err error) {
	if rot == "" {
		return false, 0, nil
	}
	s := rot
	for len(s) > 0 && (s[0] == 'M' || s[0] == 'S') {
		if s[0] == 'M' {
			mirror = true
		}
		s = s[1:]
	}
	if len(s) == 0 || s[0] != 'R' {
		return false, 0, fmt.Errorf("malformed rot attribute %q", rot)
	}
	degrees, err = strconv.ParseFloat(s[1:], 64)
	if err != nil {
		return false, 0, fmt.Errorf("malformed rot attribute %q", rot)
	}
	return mirror, degrees, nil
}

func outlineOf(ef *eagleFile) (geom.Rect, error) {
	if r, ok := wireBounds(ef.Plain.Wires, layerDimension); ok {
		return r, nil
	}

	// No Dimension layer drawn; take everything in the plain section.
	r, ok := wireBounds(ef.Plain.Wires, 0)
	for _, rect := range ef.Plain.Rectangles {
		rr := geom.NewRect(rect.X1, rect.Y1, rect.X2, rect.Y2)
		if !ok {
			r, ok = rr, true
			continue
		}
		r = r.Union(rr)
	}
	if !ok {
		return geom.Rect{}, fmt.Errorf("board outline not found: no dimension wires or plain geometry")
	}
	return r, nil
}

// wireBounds returns the bounding box of wires on the given layer;
// layer 0 matches every layer.
func wireBounds(wires []eagleWire, layer int) (geom.Rect, bool) {
	found := false
	var r geom.Rect
	for _, w := range wires {
		if layer != 0 && w.Layer != layer {
			continue
		}
		wr := geom.NewRect(w.X1, w.Y1, w.X2, w.Y2)
		if !found {
			r, found = wr, true
			continue
		}
		r = r.Union(wr)
	}
	return r, found
}
