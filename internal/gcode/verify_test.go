package gcode

import (
	"strings"
	"testing"
)

func TestVerify_GeneratedProgramIsClean(t *testing.T) {
	plan := newTestPlan()
	code := New(newTestSettings()).Generate(plan)

	if v := Verify(code, plan.RollWidth, plan.Metrics.TotalLength, 0); len(v) != 0 {
		t.Errorf("expected no violations, got %v", v)
	}
}

func TestVerify_OvercutNeedsMargin(t *testing.T) {
	plan := newTestPlan()
	s := newTestSettings()
	s.Overcut = 5
	code := New(s).Generate(plan)

	// Each of the two cross cuts plunges and cuts outside the roll.
	if v := Verify(code, plan.RollWidth, plan.Metrics.TotalLength, 0); len(v) != 4 {
		t.Errorf("expected 4 violations without margin, got %d: %v", len(v), v)
	}
	if v := Verify(code, plan.RollWidth, plan.Metrics.TotalLength, 5); len(v) != 0 {
		t.Errorf("expected no violations with a 5 mm margin, got %v", v)
	}
}

func TestVerify_RapidWithKnifeDown(t *testing.T) {
	code := "G0 X10 Y10\nG1 Z-1\nG0 X20 Y10\n"
	v := Verify(code, 100, 100, 0)
	if len(v) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(v), v)
	}
	if v[0].Move.Line != 3 {
		t.Errorf("expected violation on line 3, got %d", v[0].Move.Line)
	}
	if !strings.Contains(v[0].String(), "knife lowered") {
		t.Errorf("unexpected reason: %s", v[0])
	}
}

func TestVerify_CutBeyondLength(t *testing.T) {
	code := "G0 X0 Y50\nG1 Z-1\nG1 X0 Y150\nG0 Z5\n"
	v := Verify(code, 100, 100, 0)
	if len(v) != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", len(v), v)
	}
	if v[0].Move.Type != MoveFeed {
		t.Errorf("expected the feed move to be flagged, got %s", v[0].Move.Type)
	}
}
