package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RollCut/internal/model"
)

func orient(id int, label string, w, h int, rotated bool) model.Orientation {
	inst := model.PieceInstance{ID: id, Label: label, Width: w, Height: h}
	if rotated {
		return model.Orientation{Instance: inst, PlacedWidth: h, PlacedHeight: w, Rotated: true}
	}
	return model.Orientation{Instance: inst, PlacedWidth: w, PlacedHeight: h}
}

// buildTestPlan creates a two-row plan on a 1050 mm roll with one unplaced piece.
func buildTestPlan() model.Plan {
	rows := []model.Row{
		model.NewRow([]model.Orientation{
			orient(0, "Side Panel", 600, 400, false),
			orient(1, "Side Panel", 600, 400, true),
		}),
		model.NewRow([]model.Orientation{
			orient(2, "Top", 500, 300, false),
			orient(3, "", 400, 300, false),
		}),
	}
	m := model.Metrics{TotalLength: 900, TotalArea: 1050 * 900, UsedArea: 600*400*2 + 500*300 + 400*300}
	m.WasteArea = m.TotalArea - m.UsedArea
	m.Utilization = float64(m.UsedArea) / float64(m.TotalArea)
	return model.Plan{
		Name:       "Cabinet",
		RollWidth:  1050,
		RollLength: 50000,
		Pieces: []model.PieceType{
			{ID: "a", Label: "Side Panel", Width: 600, Height: 400, Quantity: 2},
			{ID: "b", Label: "Top", Width: 500, Height: 300, Quantity: 1},
			{ID: "c", Label: "", Width: 400, Height: 300, Quantity: 1},
		},
		Result: model.PackingResult{
			Rows:     rows,
			Unplaced: []model.PieceInstance{{ID: 4, Label: "Too Big", Width: 1200, Height: 1100}},
		},
		Metrics:     m,
		GeneratedAt: time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC),
	}
}

func assertFile(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")
	if err := ExportPDF(path, buildTestPlan()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFile(t, path, 500)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}
}

func TestExportPDF_EmptyPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportPDF(path, model.Plan{RollWidth: 1050}); err == nil {
		t.Fatal("expected error for a plan without rows, got nil")
	}
}

func TestExportPDF_ManyRowsSpanPages(t *testing.T) {
	plan := buildTestPlan()
	for i := range 60 {
		plan.Result.Rows = append(plan.Result.Rows, model.NewRow([]model.Orientation{orient(10+i, "Strip", 1050, 200, false)}))
	}
	path := filepath.Join(t.TempDir(), "long.pdf")
	if err := ExportPDF(path, plan); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFile(t, path, 1000)
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestPlan())
	if len(labels) != 4 {
		t.Fatalf("expected 4 labels, got %d", len(labels))
	}

	second := labels[1]
	if second.PieceID != 1 || second.Row != 1 || second.X != 600 || !second.Rotated {
		t.Errorf("unexpected second label: %+v", second)
	}
	if second.Width != 600 || second.Height != 400 {
		t.Errorf("expected original size 600x400, got %dx%d", second.Width, second.Height)
	}

	last := labels[3]
	if last.Row != 2 || last.RowOffset != 600 || last.X != 500 {
		t.Errorf("unexpected last label position: %+v", last)
	}
	if last.Label != "Piece 3" {
		t.Errorf("expected default label for unnamed piece, got %q", last.Label)
	}
}

func TestLabelInfo_FitsInQRCode(t *testing.T) {
	for _, info := range CollectLabelInfos(buildTestPlan()) {
		data, err := json.Marshal(info)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if _, err := qrcode.Encode(string(data), qrcode.Medium, 256); err != nil {
			t.Errorf("QR encoding failed for piece %d: %v", info.PieceID, err)
		}
	}
}

func TestExportLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.pdf")
	if err := ExportLabels(path, buildTestPlan()); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	assertFile(t, path, 1000)

	if err := ExportLabels(filepath.Join(t.TempDir(), "none.pdf"), model.Plan{}); err == nil {
		t.Error("expected error when no pieces are placed")
	}
}

func TestText(t *testing.T) {
	out := Text(buildTestPlan())
	for _, want := range []string{
		"ROLL CUTTING PLAN\n",
		"Date: 2026-03-04 09:30\n",
		"Roll width: 1050 mm\n",
		"CUTTING PLAN: Cabinet",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected text to contain %q", want)
		}
	}
}

func TestExportText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.txt")
	plan := buildTestPlan()
	if err := ExportText(path, plan); err != nil {
		t.Fatalf("ExportText returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != Text(plan) {
		t.Error("file content differs from Text output")
	}
}

func TestExportXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	if err := ExportXLSX(path, buildTestPlan()); err != nil {
		t.Fatalf("ExportXLSX returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 3 || got[0] != sheetRows {
		t.Errorf("unexpected sheets: %v", got)
	}

	rows, err := f.GetRows(sheetRows)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header plus 4 pieces, got %d rows", len(rows))
	}
	// Second piece of row 1: rotated, cut as 400x600 at X=600.
	if rows[2][4] != "1" || rows[2][8] != "400" || rows[2][10] != "TRUE" || rows[2][11] != "600" {
		t.Errorf("unexpected piece row: %v", rows[2])
	}

	pieces, err := f.GetRows(sheetPieces)
	if err != nil {
		t.Fatal(err)
	}
	if len(pieces) != 4 {
		t.Errorf("expected header plus 3 piece types, got %d rows", len(pieces))
	}

	name, err := f.GetCellValue(sheetSummary, "B2")
	if err != nil {
		t.Fatal(err)
	}
	if name != "Cabinet" {
		t.Errorf("expected job name in summary, got %q", name)
	}
}

func TestRenderChart(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, buildTestPlan()); err != nil {
		t.Fatalf("RenderChart returned error: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"Used width", "Leftover", "R1", "R2", "RollCut: Cabinet"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected chart to contain %q", want)
		}
	}
}

func TestExportChart_EmptyPlan(t *testing.T) {
	if err := ExportChart(filepath.Join(t.TempDir(), "c.html"), model.Plan{}); err == nil {
		t.Error("expected error for a plan without rows")
	}
}

func TestPrint(t *testing.T) {
	ctx := context.Background()
	if err := Print(ctx, buildTestPlan(), "cat"); err != nil {
		t.Errorf("expected print through cat to succeed, got %v", err)
	}
	if err := Print(ctx, buildTestPlan(), "rollcut-no-such-printer"); err == nil {
		t.Error("expected error for a missing print command")
	}
	if err := Print(ctx, buildTestPlan(), "false"); err == nil {
		t.Error("expected error when the print command fails")
	}
}

func TestCopyToClipboard(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("TERM", "xterm-256color")

	var buf bytes.Buffer
	if err := CopyToClipboard(&buf, "hello"); err != nil {
		t.Fatalf("CopyToClipboard returned error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\x1b]52;c;") {
		t.Errorf("expected OSC 52 prefix, got %q", out)
	}
	if !strings.Contains(out, base64.StdEncoding.EncodeToString([]byte("hello"))) {
		t.Errorf("expected base64 payload, got %q", out)
	}
}
