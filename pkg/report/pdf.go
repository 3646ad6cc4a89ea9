package report

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/chazu/casemaker/pkg/board"
	"github.com/chazu/casemaker/pkg/enclosure"
	"github.com/chazu/casemaker/pkg/geom"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	tableWidth   = 110.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// WritePDF generates a single-page assembly sheet for the case: a
// dimension summary, a screw schedule, and a scaled top view showing
// the walls, the board, the color-coded cutouts and every screw
// position.
func WritePDF(path string, c *enclosure.Case, b *board.Board) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	d := c.Dims()

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Case assembly sheet: %.0f x %.0f x %.1f mm",
		c.Cavity().Width()+2*d.WallXY, c.Cavity().Height()+2*d.WallXY, d.Height())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	y := renderDimensionTable(pdf, c, drawAreaTop)
	renderScrewSchedule(pdf, c, y+6)

	drawX := marginLeft + tableWidth + 10
	drawW := pageWidth - drawX - marginRight
	drawH := pageHeight - drawAreaTop - marginBottom - 14
	legendY := renderTopView(pdf, c, b, drawX, drawAreaTop, drawW, drawH)
	renderLegend(pdf, drawX, legendY)

	return pdf.OutputFileAndClose(path)
}

// renderDimensionTable writes the label/value summary and returns the y
// below the last row.
func renderDimensionTable(pdf *fpdf.Fpdf, c *enclosure.Case, y float64) float64 {
	d := c.Dims()

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(tableWidth, 6, "Dimensions", "", 0, "L", false, 0, "")
	y += 8

	openTop := "no"
	if d.OpenTop {
		openTop = "yes"
	}
	rows := []struct {
		label string
		value string
	}{
		{"Board", fmt.Sprintf("%.1f x %.1f mm", c.Board().Width(), c.Board().Height())},
		{"Cavity", fmt.Sprintf("%.1f x %.1f x %.1f mm", c.Cavity().Width(), c.Cavity().Height(), d.CavityHeight())},
		{"Outer height", fmt.Sprintf("%.1f mm", d.Height())},
		{"Side wall", fmt.Sprintf("%.1f mm", d.WallXY)},
		{"Top/bottom wall", fmt.Sprintf("%.1f mm", d.WallZ)},
		{"Board slot", fmt.Sprintf("%.1f mm", d.BoardSlot)},
		{"Clearance above / below", fmt.Sprintf("%.1f / %.1f mm", d.SpaceTop, d.SpaceBot)},
		{"Open top", openTop},
	}

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(55, 6, row.label, "1", 0, "L", true, 0, "")
		pdf.CellFormat(tableWidth-55, 6, row.value, "1", 0, "L", true, 0, "")
		y += 6
	}
	return y
}

// renderScrewSchedule writes the drill table for every planned screw.
func renderScrewSchedule(pdf *fpdf.Fpdf, c *enclosure.Case, y float64) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(tableWidth, 6, "Screw schedule", "", 0, "L", false, 0, "")
	y += 8

	colWidths := []float64{18, 24, 24, 24, 20}
	headers := []string{"#", "Group", "X", "Y", "Z / axis"}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(colWidths[i], 5, h, "1", 0, "C", true, 0, "")
		x += colWidths[i]
	}
	y += 5

	pdf.SetFont("Helvetica", "", 8)
	for i, p := range c.ScrewPlan() {
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		cells := []string{
			fmt.Sprintf("%d", i+1),
			p.Group.String(),
			fmt.Sprintf("%.2f", p.At.X),
			fmt.Sprintf("%.2f", p.At.Y),
			fmt.Sprintf("%.2f %s", p.At.Z, axisOf(p.Group)),
		}
		x = marginLeft
		for j, cell := range cells {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], 5, cell, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += 5
	}
}

// renderTopView draws the case seen from above, to scale, and returns
// the y just below the drawing. PDF y grows downward while board y
// grows upward, so the drawing is flipped about its horizontal axis.
func renderTopView(pdf *fpdf.Fpdf, c *enclosure.Case, b *board.Board, x0, y0, w, h float64) float64 {
	d := c.Dims()
	outer := c.Cavity().Pad(d.WallXY)

	scale := math.Min(w/outer.Width(), h/outer.Height())
	canvasW := outer.Width() * scale
	canvasH := outer.Height() * scale
	offsetX := x0 + (w-canvasW)/2

	px := func(x float64) float64 { return offsetX + (x-outer.Left())*scale }
	py := func(y float64) float64 { return y0 + (outer.Top()-y)*scale }
	rect := func(r geom.Rect, style string) {
		pdf.Rect(px(r.Left()), py(r.Top()), r.Width()*scale, r.Height()*scale, style)
	}

	// Outer wall, cavity, board outline.
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(60, 60, 60)
	pdf.SetLineWidth(0.5)
	rect(outer, "FD")

	pdf.SetFillColor(255, 255, 255)
	pdf.SetLineWidth(0.3)
	rect(c.Cavity(), "FD")

	pdf.SetDrawColor(120, 120, 120)
	pdf.SetLineWidth(0.2)
	rect(c.Board(), "D")

	// Cutouts, color-coded by layer.
	pdf.SetLineWidth(0.3)
	for _, cut := range b.Cutouts {
		col, ok := cutColors[cut.Layer]
		if !ok {
			continue
		}
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		rect(cut.Rect, "FD")
	}

	// Screws: z-axis screws as drill circles, side screws as ticks on
	// the wall they enter.
	pdf.SetDrawColor(180, 0, 0)
	pdf.SetLineWidth(0.3)
	for _, p := range c.ScrewPlan() {
		if p.Group == enclosure.ScrewSide {
			pdf.Line(px(p.At.X)-2, py(p.At.Y), px(p.At.X), py(p.At.Y))
			continue
		}
		r := math.Max(enclosure.ScrewShaftRadius*scale, 0.6)
		pdf.Circle(px(p.At.X), py(p.At.Y), r, "D")
	}

	// Scale annotation below the drawing.
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)
	note := fmt.Sprintf("Top view, 1:%.1f", 1/scale)
	noteW := pdf.GetStringWidth(note)
	pdf.SetXY(offsetX+(canvasW-noteW)/2, y0+canvasH+1)
	pdf.CellFormat(noteW, 4, note, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return y0 + canvasH + 6
}

// renderLegend writes a swatch per cutout layer plus the screw marker.
func renderLegend(pdf *fpdf.Fpdf, x, y float64) {
	entries := []struct {
		layer board.Layer
		label string
	}{
		{board.LayerTopFaceplate, "top faceplate"},
		{board.LayerBottomFaceplate, "bottom faceplate"},
		{board.LayerSideCut, "side cutout"},
	}

	pdf.SetFont("Helvetica", "", 7)
	for _, e := range entries {
		col := cutColors[e.layer]
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		labelW := pdf.GetStringWidth(e.label) + 4
		pdf.CellFormat(labelW, 4, e.label, "", 0, "L", false, 0, "")
		x += labelW + 8
	}

	pdf.SetDrawColor(180, 0, 0)
	pdf.Circle(x+1.5, y+2, 1.2, "D")
	pdf.SetXY(x+4, y)
	pdf.CellFormat(20, 4, "screw drill", "", 0, "L", false, 0, "")
}
