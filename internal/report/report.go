// Package report renders a packed plan as a plain-text cutting report with
// per-row instructions and a diagram of every row.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/piwi3910/RollCut/internal/model"
)

const (
	rule      = "────────────────────────────────────────────────"
	heavy     = "================================================================================"
	indent    = "   "
	subIndent = "      "
)

// Render writes the full report for plan to w.
func Render(w io.Writer, plan model.Plan) error {
	var b strings.Builder
	writeHeader(&b, plan)
	writePieces(&b, plan.Pieces)
	for i, row := range plan.Result.Rows {
		writeRow(&b, i+1, row, plan.RollWidth)
	}
	writeSummary(&b, plan)
	_, err := io.WriteString(w, b.String())
	return err
}

// String returns the full report for plan.
func String(plan model.Plan) string {
	var b strings.Builder
	_ = Render(&b, plan)
	return b.String()
}

func writeHeader(b *strings.Builder, plan model.Plan) {
	m := plan.Metrics
	fmt.Fprintf(b, "CUTTING PLAN: %s\n%s\n\n", plan.Name, heavy)
	fmt.Fprintf(b, "BASIC INFORMATION\n%s\n", rule)
	fmt.Fprintf(b, "%s• Roll width: %s\n", indent, FormatLength(plan.RollWidth))
	if plan.RollLength > 0 {
		fmt.Fprintf(b, "%s• Roll length: %s\n", indent, FormatLength(plan.RollLength))
	}
	fmt.Fprintf(b, "%s• Total pieces: %d\n", indent, plan.Result.PieceCount()+len(plan.Result.Unplaced))
	fmt.Fprintf(b, "%s• Total rows: %d\n", indent, len(plan.Result.Rows))
	fmt.Fprintf(b, "%s• Total length: %s\n", indent, FormatLength(m.TotalLength))
	fmt.Fprintf(b, "%s• Utilization: %.1f%%\n", indent, m.UtilizationPercent())
}

func writePieces(b *strings.Builder, pieces []model.PieceType) {
	count, area := 0, 0
	for _, p := range pieces {
		count += p.Quantity
		area += p.Area() * p.Quantity
	}

	fmt.Fprintf(b, "\nPIECES TO CUT\n%s\n", rule)
	fmt.Fprintf(b, "%s• Piece types: %d\n", indent, len(pieces))
	fmt.Fprintf(b, "%s• Pieces: %d\n", indent, count)
	fmt.Fprintf(b, "%s• Required area: %s\n\n", indent, FormatArea(area))

	for i, p := range pieces {
		name := p.Label
		if name == "" {
			name = fmt.Sprintf("Type %d", i+1)
		}
		fmt.Fprintf(b, "%s%d. %s: %d×%d mm × %d (%s each, %s total)\n",
			indent, i+1, name, p.Width, p.Height, p.Quantity,
			FormatArea(p.Area()), FormatArea(p.Area()*p.Quantity))
	}
}

func writeRow(b *strings.Builder, num int, row model.Row, rollWidth int) {
	leftover := row.Leftover(rollWidth)

	fmt.Fprintf(b, "\n%s\nROW %d\n%s\n\n", heavy, num, heavy)
	fmt.Fprintf(b, "SUMMARY\n%s\n", rule)
	fmt.Fprintf(b, "%s• Pieces in this row: %d\n", indent, len(row.Items))
	fmt.Fprintf(b, "%s• Cut height: %d mm\n", indent, row.Height)
	fmt.Fprintf(b, "%s• Used width: %d mm\n", indent, row.UsedWidth)
	if leftover > 0 {
		fmt.Fprintf(b, "%s• Wasted width: %d mm\n", indent, leftover)
	}
	fmt.Fprintf(b, "%s• Fill: %.1f%%\n\n", indent, row.Fill(rollWidth))

	fmt.Fprintf(b, "LAYOUT (roll width %d mm)\n%s\n", rollWidth, rule)
	for _, line := range strings.SplitAfter(Diagram(row, rollWidth), "\n") {
		if line != "" {
			b.WriteString(indent + line)
		}
	}

	b.WriteString("\n" + indent + "Legend:\n")
	x := 0
	for i, it := range row.Items {
		turn := "as drawn"
		if it.Rotated {
			turn = "rotated"
		}
		fmt.Fprintf(b, "%s[%d] %s %d×%d mm, cut as %d×%d mm (%s)\n",
			indent, i+1, labelOrDefault(it.Label), it.OriginalWidth, it.OriginalHeight, it.PlacedWidth, it.PlacedHeight, turn)
		fmt.Fprintf(b, "%s    position %d mm to %d mm\n", indent, x, x+it.PlacedWidth)
		x += it.PlacedWidth
	}
	if leftover > 0 {
		fmt.Fprintf(b, "\n%sUnused space: %d mm, from %d mm to %d mm\n", indent, leftover, row.UsedWidth, rollWidth)
	}

	fmt.Fprintf(b, "\nCUTTING INSTRUCTIONS\n%s\n", rule)
	fmt.Fprintf(b, "1. Cut a strip %d mm long across the full roll width\n", row.Height)
	fmt.Fprintf(b, "2. Slit the strip at these positions:\n")
	x = 0
	for i, it := range row.Items {
		x += it.PlacedWidth
		if x >= rollWidth {
			fmt.Fprintf(b, "%sPiece %d ends at the roll edge (%d mm): %d×%d mm\n", indent, i+1, x, it.OriginalWidth, it.OriginalHeight)
			continue
		}
		fmt.Fprintf(b, "%sCut %d at %d mm: piece %d×%d mm\n", indent, i+1, x, it.OriginalWidth, it.OriginalHeight)
	}
	trimmed := false
	for i, it := range row.Items {
		if it.PlacedHeight >= row.Height {
			continue
		}
		if !trimmed {
			fmt.Fprintf(b, "3. Trim pieces shorter than the strip:\n")
			trimmed = true
		}
		fmt.Fprintf(b, "%sTrim piece %d to %d mm (strip is %d mm)\n", indent, i+1, it.PlacedHeight, row.Height)
	}
	if len(row.Items) == 1 {
		fmt.Fprintf(b, "%sResult: 1 piece\n", indent)
	} else {
		fmt.Fprintf(b, "%sResult: %d pieces side by side\n", indent, len(row.Items))
	}
}

func writeSummary(b *strings.Builder, plan model.Plan) {
	m := plan.Metrics
	rating := Rate(m.UtilizationPercent())

	fmt.Fprintf(b, "\n%s\nSUMMARY\n%s\n\n", heavy, heavy)
	fmt.Fprintf(b, "MATERIAL NEEDED\n")
	fmt.Fprintf(b, "%s• Roll width: %s\n", indent, FormatLength(plan.RollWidth))
	fmt.Fprintf(b, "%s• Length: %d mm\n", indent, m.TotalLength)
	fmt.Fprintf(b, "%s• Area: %s\n\n", indent, FormatArea(m.TotalArea))

	fmt.Fprintf(b, "PRODUCTION\n")
	fmt.Fprintf(b, "%s• %d pieces in %d rows\n", indent, plan.Result.PieceCount(), len(plan.Result.Rows))
	fmt.Fprintf(b, "%s• Used area: %s\n\n", indent, FormatArea(m.UsedArea))

	fmt.Fprintf(b, "WASTE\n")
	fmt.Fprintf(b, "%s• %s of material wasted\n", indent, FormatArea(m.WasteArea))
	fmt.Fprintf(b, "%s• %.1f%% utilization: %s, %s\n", indent, m.UtilizationPercent(), strings.ToUpper(string(rating)), rating.Advice())

	if len(plan.Result.Rows) > 0 {
		fmt.Fprintf(b, "\nROWS\n")
		for i, row := range plan.Result.Rows {
			fmt.Fprintf(b, "%s• Row %d: %d pieces, %d mm used, %d mm high\n", indent, i+1, len(row.Items), row.UsedWidth, row.Height)
		}
	}

	if len(plan.Offcuts) > 0 {
		fmt.Fprintf(b, "\nREUSABLE OFFCUTS\n")
		for _, o := range plan.Offcuts {
			fmt.Fprintf(b, "%s• Row %d: %d×%d mm at x=%d mm (%s)\n", indent, o.Row, o.Width, o.Height, o.X, strings.ReplaceAll(string(o.Kind), "_", " "))
		}
	}

	if n := len(plan.Result.Unplaced); n > 0 {
		fmt.Fprintf(b, "\nWARNING: %d pieces could not be placed\n", n)
		for _, u := range plan.Result.Unplaced {
			fmt.Fprintf(b, "%s• %s %d×%d mm\n", subIndent, labelOrDefault(u.Label), u.Width, u.Height)
		}
	}
	if msg := model.CheckRollLength(plan); msg != "" {
		fmt.Fprintf(b, "\nWARNING: %s\n", msg)
	}
}

func labelOrDefault(label string) string {
	if label == "" {
		return "piece"
	}
	return label
}
