package board

import (
	"encoding/xml"
	"fmt"
	"os"
)

// DefaultSpace is the clearance above and below the board when no
// height spec is given.
const DefaultSpace = 15.0

// HeightSpec is the clearance above and below the board, in
// millimeters. It comes from the gadget spec's standoff options or
// from script (standoff ...) calls.
type HeightSpec struct {
	SpaceTop float64
	SpaceBot float64
}

// DefaultHeights returns the standard clearances.
func DefaultHeights() HeightSpec {
	return HeightSpec{SpaceTop: DefaultSpace, SpaceBot: DefaultSpace}
}

// gspecFile maps a gadget spec document. Only option elements matter;
// the root element name is not constrained.
type gspecFile struct {
	Options []gspecOption `xml:"option"`
}

type gspecOption struct {
	Name  string  `xml:"name,attr"`
	Value float64 `xml:"value,attr"`
}

// LoadHeightSpec reads a gadget spec XML document and returns the
// standoff clearances. front-standoff-height sets the space above the
// board, back-standoff-height the space below; unknown options are
// ignored and missing options keep their defaults. An unreadable file
// is an error since the caller asked for this path explicitly.
func LoadHeightSpec(path string) (HeightSpec, error) {
	hs := DefaultHeights()

	data, err := os.ReadFile(path)
	if err != nil {
		return hs, fmt.Errorf("read height spec: %w", err)
	}
	var doc gspecFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return hs, fmt.Errorf("parse height spec %s: %w", path, err)
	}

	for _, opt := range doc.Options {
		switch opt.Name {
		case "front-standoff-height":
			hs.SpaceTop = opt.Value
		case "back-standoff-height":
			hs.SpaceBot = opt.Value
		}
	}
	return hs, nil
}
