// Package export writes packed plans to files and other outputs.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/report"
)

// pieceColor represents an RGB color for a placed piece.
type pieceColor struct {
	R, G, B int
}

var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 portrait in mm). The roll runs down the page.
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowLabelW    = 14.0 // space left of the roll for row numbers
	minRowHeight = 6.0  // rows are never drawn thinner than this
	rowGap       = 1.5
	drawAreaTop  = marginTop + headerHeight + 8.0
)

// ExportPDF generates a PDF with the roll layout drawn to scale, continued
// over as many pages as needed, followed by a summary page.
func ExportPDF(path string, plan model.Plan) error {
	if len(plan.Result.Rows) == 0 {
		return fmt.Errorf("no rows to export")
	}
	if plan.RollWidth <= 0 {
		return fmt.Errorf("invalid roll width %d", plan.RollWidth)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	drawWidth := pageWidth - marginLeft - marginRight - rowLabelW
	scale := drawWidth / float64(plan.RollWidth)

	page := 0
	y := 0.0
	offset := 0
	for i, row := range plan.Result.Rows {
		h := math.Max(float64(row.Height)*scale, minRowHeight)
		if page == 0 || y+h > pageHeight-marginBottom {
			page++
			pdf.AddPage()
			renderLayoutHeader(pdf, plan, page)
			y = drawAreaTop
		}
		renderRow(pdf, row, i+1, offset, plan.RollWidth, scale, y, h)
		y += h + rowGap
		offset += row.Height
	}

	pdf.AddPage()
	renderSummaryPage(pdf, plan)

	return pdf.OutputFileAndClose(path)
}

func renderLayoutHeader(pdf *fpdf.Fpdf, plan model.Plan, page int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: roll layout (page %d)", plan.Name, page)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Roll width: %d mm | Rows: %d | Length: %s | Utilization: %.1f%%",
		plan.RollWidth, len(plan.Result.Rows), report.FormatLength(plan.Metrics.TotalLength),
		plan.Metrics.UtilizationPercent())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")
}

// renderRow draws one row as a strip of the roll with its pieces placed from
// the left edge.
func renderRow(pdf *fpdf.Fpdf, row model.Row, num, offset, rollWidth int, scale, y, h float64) {
	x0 := marginLeft + rowLabelW
	rollW := float64(rollWidth) * scale

	// Row label with its start position along the roll
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(rowLabelW-1, math.Min(h, 4), fmt.Sprintf("R%d", num), "", 0, "L", false, 0, "")
	if h >= 8 {
		pdf.SetFont("Helvetica", "", 5)
		pdf.SetXY(marginLeft, y+3.5)
		pdf.CellFormat(rowLabelW-1, 3, fmt.Sprintf("@%d", offset), "", 0, "L", false, 0, "")
	}

	// Roll strip background (waste)
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.3)
	pdf.Rect(x0, y, rollW, h, "FD")

	x := x0
	rowScale := h / float64(max(row.Height, 1))
	for i, it := range row.Items {
		col := pieceColors[(it.InstanceID+i)%len(pieceColors)]
		pw := float64(it.PlacedWidth) * scale
		ph := float64(it.PlacedHeight) * rowScale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		pdf.Rect(x, y, pw, ph, "FD")

		if pw > 12 && ph > 4 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			text := fmt.Sprintf("%dx%d", it.PlacedWidth, it.PlacedHeight)
			if it.Rotated {
				text += " R"
			}
			if tw := pdf.GetStringWidth(text); tw < pw-1 {
				pdf.SetXY(x+(pw-tw)/2, y+ph/2-2)
				pdf.CellFormat(tw, 4, text, "", 0, "C", false, 0, "")
			}
		}
		x += pw
	}
	pdf.SetTextColor(0, 0, 0)
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, plan model.Plan) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	m := plan.Metrics
	summaryItems := []struct {
		label string
		value string
	}{
		{"Roll Width", fmt.Sprintf("%d mm", plan.RollWidth)},
		{"Material Needed", report.FormatLength(m.TotalLength)},
		{"Rows", fmt.Sprintf("%d", len(plan.Result.Rows))},
		{"Pieces Placed", fmt.Sprintf("%d", plan.Result.PieceCount())},
		{"Unplaced Pieces", fmt.Sprintf("%d", len(plan.Result.Unplaced))},
		{"Utilization", fmt.Sprintf("%.1f%% (%s)", m.UtilizationPercent(), report.Rate(m.UtilizationPercent()))},
		{"Waste", report.FormatArea(m.WasteArea)},
		{"Reusable Offcuts", fmt.Sprintf("%d", len(plan.Offcuts))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Row Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{15, 20, 30, 30, 30, 30}
	headers := []string{"Row", "Pieces", "Height", "Used Width", "Leftover", "Fill"}
	y = tableHeader(pdf, colWidths, headers, y)

	pdf.SetFont("Helvetica", "", 9)
	for i, row := range plan.Result.Rows {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = tableHeader(pdf, colWidths, headers, marginTop)
			pdf.SetFont("Helvetica", "", 9)
		}
		cells := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", len(row.Items)),
			fmt.Sprintf("%d mm", row.Height),
			fmt.Sprintf("%d mm", row.UsedWidth),
			fmt.Sprintf("%d mm", row.Leftover(plan.RollWidth)),
			fmt.Sprintf("%.1f%%", row.Fill(plan.RollWidth)),
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		x := marginLeft
		for j, cell := range cells {
			pdf.SetXY(x, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			x += colWidths[j]
		}
		y += 6
	}

	if len(plan.Result.Unplaced) > 0 {
		if y > pageHeight-marginBottom-20 {
			pdf.AddPage()
			y = marginTop
		}
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(170, 7, "WARNING: Unplaced Pieces", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, p := range plan.Result.Unplaced {
			if y > pageHeight-marginBottom-5 {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(170, 5, fmt.Sprintf("- #%d %s: %d x %d mm", p.ID, p.Label, p.Width, p.Height), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by RollCut - Roll Cutting Planner", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, headers []string, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	x := marginLeft
	for i, h := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
	return y + 6
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 20:
		return 7
	case minDim > 10:
		return 6
	default:
		return 5
	}
}
