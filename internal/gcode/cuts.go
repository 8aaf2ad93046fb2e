package gcode

import (
	"fmt"

	"github.com/piwi3910/RollCut/internal/model"
)

// CutKind classifies a straight knife cut.
type CutKind string

const (
	CutCross CutKind = "cross" // across the roll, separates a row
	CutSlit  CutKind = "slit"  // along the roll, separates pieces inside a row
	CutTrim  CutKind = "trim"  // across a single piece shorter than its row
)

// Cut is one straight cut in plan coordinates: X across the roll width,
// Y along the roll from the start of the plan, both in mm.
type Cut struct {
	Kind CutKind `json:"kind"`
	Row  int     `json:"row"` // 1-based
	X0   int     `json:"x0"`
	Y0   int     `json:"y0"`
	X1   int     `json:"x1"`
	Y1   int     `json:"y1"`
	Note string  `json:"note"`
}

// Length returns the cut length in mm.
func (c Cut) Length() int {
	return abs(c.X1-c.X0) + abs(c.Y1-c.Y0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Instructions lists the cuts that turn the roll into the plan's pieces.
// For every row the strip is first cut off the roll, then slit at each
// piece boundary (the last boundary also separates trailing waste), then
// pieces shorter than the strip are trimmed to height.
func Instructions(plan model.Plan) []Cut {
	var cuts []Cut
	y := 0
	for i, row := range plan.Result.Rows {
		num := i + 1
		end := y + row.Height

		cuts = append(cuts, Cut{
			Kind: CutCross, Row: num,
			X0: 0, Y0: end, X1: plan.RollWidth, Y1: end,
			Note: fmt.Sprintf("row %d strip, %d mm", num, row.Height),
		})

		x := 0
		for j, it := range row.Items {
			x += it.PlacedWidth
			if x >= plan.RollWidth {
				break
			}
			note := fmt.Sprintf("after piece %d", j+1)
			if j == len(row.Items)-1 {
				note = "waste edge"
			}
			cuts = append(cuts, Cut{
				Kind: CutSlit, Row: num,
				X0: x, Y0: y, X1: x, Y1: end,
				Note: note,
			})
		}

		x = 0
		for j, it := range row.Items {
			if it.PlacedHeight < row.Height {
				cy := y + it.PlacedHeight
				cuts = append(cuts, Cut{
					Kind: CutTrim, Row: num,
					X0: x, Y0: cy, X1: x + it.PlacedWidth, Y1: cy,
					Note: fmt.Sprintf("piece %d to %d mm", j+1, it.PlacedHeight),
				})
			}
			x += it.PlacedWidth
		}

		y = end
	}
	return cuts
}
