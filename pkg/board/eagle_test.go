package board

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/casemaker/pkg/geom"
)

const sampleBRD = `<?xml version="1.0" encoding="utf-8"?>
<eagle version="7.7.0">
<drawing>
<layers>
<layer number="20" name="Dimension" color="15" fill="1" visible="yes" active="yes"/>
<layer number="150" name="tFaceplate" color="7" fill="1" visible="yes" active="yes"/>
<layer number="151" name="bFaceplate" color="7" fill="1" visible="yes" active="yes"/>
<layer number="152" name="tSideCut" color="7" fill="1" visible="yes" active="yes"/>
</layers>
<board>
<plain>
<wire x1="0" y1="0" x2="160" y2="0" width="0" layer="20"/>
<wire x1="160" y1="0" x2="160" y2="100" width="0" layer="20"/>
<wire x1="160" y1="100" x2="0" y2="100" width="0" layer="20"/>
<wire x1="0" y1="100" x2="0" y2="0" width="0" layer="20"/>
<rectangle x1="150" y1="40" x2="162" y2="60" layer="152"/>
<rectangle x1="5" y1="5" x2="9" y2="9" layer="21"/>
</plain>
<libraries>
<library name="con-usb">
<packages>
<package name="USB-B">
<rectangle x1="-2" y1="-1" x2="2" y2="1" layer="150"/>
</package>
</packages>
</library>
</libraries>
<elements>
<element name="X1" library="con-usb" package="USB-B" x="10" y="20"/>
<element name="X2" library="con-usb" package="USB-B" x="50" y="50" rot="R90"/>
<element name="X3" library="con-usb" package="USB-B" x="100" y="30" rot="MR0"/>
</elements>
</board>
</drawing>
</eagle>
`

func assertRect(t *testing.T, want geom.Rect, got geom.Rect, msg string) {
	t.Helper()
	const delta = 1e-9
	assert.InDelta(t, want.Min.X, got.Min.X, delta, "%s: min x", msg)
	assert.InDelta(t, want.Min.Y, got.Min.Y, delta, "%s: min y", msg)
	assert.InDelta(t, want.Max.X, got.Max.X, delta, "%s: max x", msg)
	assert.InDelta(t, want.Max.Y, got.Max.Y, delta, "%s: max y", msg)
}

func TestParseSampleBoard(t *testing.T) {
	b, err := Parse([]byte(sampleBRD))
	require.NoError(t, err)

	assertRect(t, geom.NewRect(0, 0, 160, 100), b.Outline, "outline")
	require.Len(t, b.Cutouts, 4, "one plain rect + three element rects, unknown layer skipped")
}

func TestParseCountsSkippedLayers(t *testing.T) {
	b, err := Parse([]byte(sampleBRD))
	require.NoError(t, err)
	// One plain rectangle sits on layer 21, which drives no cut.
	assert.Equal(t, 1, b.Skipped)

	src := `<eagle><drawing>
<layers><layer number="152" name="tSideCut"/></layers>
<board>
<plain>
<wire x1="0" y1="0" x2="10" y2="10" layer="20"/>
<rectangle x1="2" y1="3" x2="8" y2="9" layer="152"/>
</plain>
</board>
</drawing></eagle>`
	b, err = Parse([]byte(src))
	require.NoError(t, err)
	assert.Zero(t, b.Skipped, "every rectangle recognized")
}

func TestParsePlainRectangle(t *testing.T) {
	b, err := Parse([]byte(sampleBRD))
	require.NoError(t, err)

	side := b.CutoutsOn(LayerSideCut)
	require.Len(t, side, 1)
	assertRect(t, geom.NewRect(150, 40, 162, 60), side[0].Rect, "side cutout")
	assert.Empty(t, side[0].Ref, "plain rectangles have no element ref")
}

func TestParseElementTransforms(t *testing.T) {
	b, err := Parse([]byte(sampleBRD))
	require.NoError(t, err)

	top := b.CutoutsOn(LayerTopFaceplate)
	require.Len(t, top, 2)

	// X1: no rotation, just translated to (10, 20).
	assert.Equal(t, "X1", top[0].Ref)
	assertRect(t, geom.NewRect(8, 19, 12, 21), top[0].Rect, "X1")

	// X2: rotated 90 degrees CCW, the 4x2 footprint becomes 2x4.
	assert.Equal(t, "X2", top[1].Ref)
	assertRect(t, geom.NewRect(49, 48, 51, 52), top[1].Rect, "X2")
}

func TestParseMirroredElementSwapsLayer(t *testing.T) {
	b, err := Parse([]byte(sampleBRD))
	require.NoError(t, err)

	bot := b.CutoutsOn(LayerBottomFaceplate)
	require.Len(t, bot, 1, "mirrored element moves to the bottom faceplate layer")
	assert.Equal(t, "X3", bot[0].Ref)
	assertRect(t, geom.NewRect(98, 29, 102, 31), bot[0].Rect, "X3")
}

func TestParseUnknownPackage(t *testing.T) {
	src := `<eagle><drawing>
<board>
<plain><wire x1="0" y1="0" x2="10" y2="10" layer="20"/></plain>
<elements><element name="X1" library="nope" package="gone" x="0" y="0"/></elements>
</board>
</drawing></eagle>`

	_, err := Parse([]byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown package")
}

func TestOutlineFallback(t *testing.T) {
	src := `<eagle><drawing>
<layers><layer number="152" name="tSideCut"/></layers>
<board>
<plain>
<rectangle x1="2" y1="3" x2="30" y2="40" layer="152"/>
<rectangle x1="-5" y1="10" x2="10" y2="20" layer="152"/>
</plain>
</board>
</drawing></eagle>`

	b, err := Parse([]byte(src))
	require.NoError(t, err)
	assertRect(t, geom.NewRect(-5, 3, 30, 40), b.Outline, "fallback outline")
}

func TestOutlineMissing(t *testing.T) {
	_, err := Parse([]byte(`<eagle><drawing><board></board></drawing></eagle>`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outline not found")
}

func TestParseRot(t *testing.T) {
	tests := []struct {
		rot     string
		mirror  bool
		degrees float64
		wantErr bool
	}{
		{"", false, 0, false},
		{"R0", false, 0, false},
		{"R90", false, 90, false},
		{"R270", false, 270, false},
		{"MR0", true, 0, false},
		{"MR180", true, 180, false},
		{"SR45", false, 45, false},
		{"SMR90", true, 90, false},
		{"R", false, 0, true},
		{"M", false, 0, true},
		{"X5", false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.rot, func(t *testing.T) {
			mirror, deg, err := parseRot(tt.rot)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mirror, mirror)
			assert.InDelta(t, tt.degrees, deg, 1e-12)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.brd")
	require.NoError(t, os.WriteFile(path, []byte(sampleBRD), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, b.Cutouts, 4)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.brd"))
	require.Error(t, err)
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<eagle><drawing>`))
	require.Error(t, err)
}
