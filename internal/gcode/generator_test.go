package gcode

import (
	"strings"
	"testing"

	"github.com/piwi3910/RollCut/internal/model"
)

func orient(id, w, h int, rotated bool) model.Orientation {
	inst := model.PieceInstance{ID: id, Label: "P", Width: w, Height: h}
	if rotated {
		return model.Orientation{Instance: inst, PlacedWidth: h, PlacedHeight: w, Rotated: true}
	}
	return model.Orientation{Instance: inst, PlacedWidth: w, PlacedHeight: h}
}

// newTestPlan returns a two-row plan on a 1000 mm roll:
// row 1 holds 400x300 and 500x200 (100 mm waste), row 2 holds a full-width 1000x100.
func newTestPlan() model.Plan {
	rows := []model.Row{
		model.NewRow([]model.Orientation{orient(0, 400, 300, false), orient(1, 500, 200, false)}),
		model.NewRow([]model.Orientation{orient(2, 100, 1000, true)}),
	}
	return model.Plan{
		Name:      "Test",
		RollWidth: 1000,
		Result:    model.PackingResult{Rows: rows},
		Metrics:   model.Metrics{TotalLength: 400},
	}
}

func newTestSettings() model.CutterSettings {
	s := model.DefaultCutterSettings()
	s.Profile = "Generic"
	return s
}

func TestInstructions(t *testing.T) {
	cuts := Instructions(newTestPlan())

	want := []Cut{
		{Kind: CutCross, Row: 1, X0: 0, Y0: 300, X1: 1000, Y1: 300},
		{Kind: CutSlit, Row: 1, X0: 400, Y0: 0, X1: 400, Y1: 300},
		{Kind: CutSlit, Row: 1, X0: 900, Y0: 0, X1: 900, Y1: 300},
		{Kind: CutTrim, Row: 1, X0: 400, Y0: 200, X1: 900, Y1: 200},
		{Kind: CutCross, Row: 2, X0: 0, Y0: 400, X1: 1000, Y1: 400},
	}
	if len(cuts) != len(want) {
		t.Fatalf("expected %d cuts, got %d: %+v", len(want), len(cuts), cuts)
	}
	for i, w := range want {
		c := cuts[i]
		c.Note = ""
		if c != w {
			t.Errorf("cut %d: expected %+v, got %+v", i, w, c)
		}
	}
	if cuts[2].Note != "waste edge" {
		t.Errorf("expected last slit to be the waste edge, got %q", cuts[2].Note)
	}
}

func TestInstructions_Empty(t *testing.T) {
	if cuts := Instructions(model.Plan{RollWidth: 1000}); len(cuts) != 0 {
		t.Errorf("expected no cuts for an empty plan, got %d", len(cuts))
	}
}

func TestCutLength(t *testing.T) {
	c := Cut{X0: 400, Y0: 300, X1: 400, Y1: 0}
	if c.Length() != 300 {
		t.Errorf("expected 300, got %d", c.Length())
	}
}

func TestGenerate_Generic(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestPlan())

	for _, want := range []string{
		"; RollCut program: Test",
		"; Rows: 2, Cuts: 5, Cut length: 3100 mm",
		"G90\nG21\n",
		"; --- Row 1 ---",
		"; --- Row 2 ---",
		"G0 X0.000 Y300.000",
		"G1 Z-1.500 F1200.000",
		"G1 X1000.000 Y300.000 F6000.000",
		"G0 Z5.000",
		"M2",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Contains(code, "[SafeZ]") {
		t.Error("expected [SafeZ] placeholder to be substituted")
	}
	if strings.Contains(code, "M3") {
		t.Error("Generic profile should not emit tool-down commands")
	}
}

func TestGenerate_GrblToolCommands(t *testing.T) {
	s := newTestSettings()
	s.Profile = "Grbl"
	code := New(s).Generate(newTestPlan())

	if got := strings.Count(code, "\nM3\n"); got != 5 {
		t.Errorf("expected one M3 per cut (5), got %d", got)
	}
	if got := strings.Count(code, "\nM5\n"); got != 5 {
		t.Errorf("expected one M5 per cut (5), got %d", got)
	}
}

func TestGenerate_LinuxCNCComments(t *testing.T) {
	s := newTestSettings()
	s.Profile = "LinuxCNC"
	code := New(s).Generate(newTestPlan())

	if !strings.Contains(code, "( RollCut program: Test)") {
		t.Error("expected parenthesised comments for LinuxCNC")
	}
	if !strings.Contains(code, "G1 X1000.0000 Y300.0000") {
		t.Error("expected four decimal places for LinuxCNC")
	}
}

func TestGenerate_Overcut(t *testing.T) {
	s := newTestSettings()
	s.Overcut = 5
	code := New(s).Generate(newTestPlan())

	if !strings.Contains(code, "G0 X-5.000 Y300.000") {
		t.Error("expected cross cut to start before the roll edge")
	}
	if !strings.Contains(code, "G1 X1005.000 Y300.000") {
		t.Error("expected cross cut to end past the roll edge")
	}
	// Slits are not extended.
	if !strings.Contains(code, "G1 X400.000 Y300.000") {
		t.Error("expected slit to end at the row edge")
	}
}

func TestGenerate_CutCount(t *testing.T) {
	code := New(newTestSettings()).Generate(newTestPlan())

	feeds := 0
	for _, m := range ParseGCode(code) {
		if m.Type == MoveFeed {
			feeds++
		}
	}
	if feeds != 5 {
		t.Errorf("expected 5 cutting moves, got %d", feeds)
	}
}

func TestNewWithProfile_Custom(t *testing.T) {
	custom := model.GetProfile("Generic")
	custom.Name = "Zund"
	custom.StartCode = []string{"G90", "G21", "M800"}
	custom.EndCode = []string{"G0 Z[SafeZ]", "M30"}

	code := NewWithProfile(newTestSettings(), custom).Generate(newTestPlan())
	if !strings.Contains(code, "; Profile: Zund") {
		t.Error("expected custom profile name in header")
	}
	if !strings.Contains(code, "M800\n") || !strings.HasSuffix(code, "M30\n") {
		t.Error("expected custom start and end codes")
	}
}
