package gcode

import (
	"fmt"
	"math"
)

// Violation is a move that would damage the material or the table.
type Violation struct {
	Move   Move
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("line %d: %s", v.Move.Line, v.Reason)
}

// Verify checks that every move made with the knife below Z0 stays inside the
// material, a rollWidth x totalLength rectangle grown by margin on each side,
// and that no rapid move travels with the knife lowered.
func Verify(program string, rollWidth, totalLength int, margin float64) []Violation {
	minX, minY := -margin, -margin
	maxX, maxY := float64(rollWidth)+margin, float64(totalLength)+margin
	const eps = 1e-6

	outside := func(x, y float64) bool {
		return x < minX-eps || x > maxX+eps || y < minY-eps || y > maxY+eps
	}

	var violations []Violation
	for _, m := range ParseGCode(program) {
		down := m.FromZ < 0 && m.ToZ < 0
		switch {
		case m.Type == MoveRapid && down:
			violations = append(violations, Violation{m, "rapid move with the knife lowered"})
		case m.Type == MoveFeed && down && (outside(m.FromX, m.FromY) || outside(m.ToX, m.ToY)):
			violations = append(violations, Violation{m, fmt.Sprintf(
				"cut to X%.3f Y%.3f leaves the material (%.0f x %.0f mm)",
				m.ToX, m.ToY, math.Max(0, maxX-minX), math.Max(0, maxY-minY))})
		case m.Type == MovePlunge && outside(m.ToX, m.ToY):
			violations = append(violations, Violation{m, fmt.Sprintf(
				"plunge at X%.3f Y%.3f is off the material", m.ToX, m.ToY)})
		}
	}
	return violations
}
