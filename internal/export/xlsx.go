package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RollCut/internal/model"
)

const (
	sheetRows    = "Rows"
	sheetPieces  = "Pieces"
	sheetSummary = "Summary"
)

// ExportXLSX writes the plan as a workbook with one line per placed piece
// (Rows), the requested cut list (Pieces) and the overall metrics (Summary).
func ExportXLSX(path string, plan model.Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRows); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetPieces, sheetSummary} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRowsSheet(f, plan, bold); err != nil {
		return err
	}
	if err := writePiecesSheet(f, plan, bold); err != nil {
		return err
	}
	if err := writeSummarySheet(f, plan, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// setRow writes values starting at column A of the given 1-based row.
func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func header(f *excelize.File, sheet string, style int, titles ...any) error {
	if err := setRow(f, sheet, 1, titles...); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(titles), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRowsSheet(f *excelize.File, plan model.Plan, style int) error {
	if err := header(f, sheetRows, style,
		"Row", "Row Start (mm)", "Row Height (mm)", "Position", "Piece ID", "Label",
		"Width (mm)", "Height (mm)", "Cut Width (mm)", "Cut Height (mm)", "Rotated", "X (mm)"); err != nil {
		return err
	}

	line := 2
	offset := 0
	for r, row := range plan.Result.Rows {
		x := 0
		for i, it := range row.Items {
			if err := setRow(f, sheetRows, line,
				r+1, offset, row.Height, i+1, it.InstanceID, it.Label,
				it.OriginalWidth, it.OriginalHeight, it.PlacedWidth, it.PlacedHeight, it.Rotated, x); err != nil {
				return err
			}
			x += it.PlacedWidth
			line++
		}
		offset += row.Height
	}
	return f.SetColWidth(sheetRows, "A", "L", 14)
}

func writePiecesSheet(f *excelize.File, plan model.Plan, style int) error {
	if err := header(f, sheetPieces, style, "Label", "Width (mm)", "Height (mm)", "Quantity", "Area (mm²)"); err != nil {
		return err
	}
	for i, p := range plan.Pieces {
		if err := setRow(f, sheetPieces, i+2, p.Label, p.Width, p.Height, p.Quantity, p.Area()*p.Quantity); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetPieces, "A", "E", 14)
}

func writeSummarySheet(f *excelize.File, plan model.Plan, style int) error {
	if err := header(f, sheetSummary, style, "Metric", "Value"); err != nil {
		return err
	}
	m := plan.Metrics
	rows := [][]any{
		{"Job", plan.Name},
		{"Roll width (mm)", plan.RollWidth},
		{"Roll length (mm)", plan.RollLength},
		{"Rows", len(plan.Result.Rows)},
		{"Pieces placed", plan.Result.PieceCount()},
		{"Pieces unplaced", len(plan.Result.Unplaced)},
		{"Total length (mm)", m.TotalLength},
		{"Total area (mm²)", m.TotalArea},
		{"Used area (mm²)", m.UsedArea},
		{"Waste area (mm²)", m.WasteArea},
		{"Utilization (%)", m.UtilizationPercent()},
		{"Reusable offcuts", len(plan.Offcuts)},
		{"Generated", plan.GeneratedAt.Format("2006-01-02 15:04")},
	}
	for i, r := range rows {
		if err := setRow(f, sheetSummary, i+2, r...); err != nil {
			return err
		}
	}
	return f.SetColWidth(sheetSummary, "A", "B", 22)
}
