package report

import (
	"strconv"
	"strings"

	"github.com/piwi3910/RollCut/internal/model"
)

// DiagramWidth is the number of columns used to draw the full roll width.
const DiagramWidth = 72

// Diagram draws a row as a three-line box across the roll. Pieces are
// numbered from 1 in placement order; unused width is shaded.
func Diagram(row model.Row, rollWidth int) string {
	cells := cellWidths(row, rollWidth)

	var top, mid, bottom strings.Builder
	top.WriteString("┌")
	mid.WriteString("│")
	bottom.WriteString("└")
	for i, n := range cells {
		last := i == len(cells)-1
		top.WriteString(strings.Repeat("─", n))
		bottom.WriteString(strings.Repeat("─", n))

		if i < len(row.Items) {
			mid.WriteString(center(strconv.Itoa(i+1), n))
		} else {
			mid.WriteString(strings.Repeat("░", n))
		}

		if last {
			top.WriteString("┐")
			mid.WriteString("│")
			bottom.WriteString("┘")
		} else {
			top.WriteString("┬")
			mid.WriteString("│")
			bottom.WriteString("┴")
		}
	}
	return top.String() + "\n" + mid.String() + "\n" + bottom.String() + "\n"
}

// cellWidths scales each piece, and the leftover if any, to diagram columns.
// Every cell gets at least three columns so its number stays readable.
func cellWidths(row model.Row, rollWidth int) []int {
	var cells []int
	scale := func(mm int) int {
		if rollWidth <= 0 {
			return 3
		}
		return max(3, (mm*DiagramWidth+rollWidth/2)/rollWidth)
	}
	for _, it := range row.Items {
		cells = append(cells, scale(it.PlacedWidth))
	}
	if left := row.Leftover(rollWidth); left > 0 {
		cells = append(cells, scale(left))
	}
	return cells
}

func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}
