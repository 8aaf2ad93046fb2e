package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/report"
)

// Text returns the plain-text export: a short banner followed by the full report.
func Text(plan model.Plan) string {
	var b strings.Builder
	b.WriteString("ROLL CUTTING PLAN\n")
	fmt.Fprintf(&b, "Date: %s\n", plan.GeneratedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Roll width: %d mm\n\n", plan.RollWidth)
	b.WriteString(report.String(plan))
	return b.String()
}

// ExportText writes the plain-text plan to path.
func ExportText(path string, plan model.Plan) error {
	if err := os.WriteFile(path, []byte(Text(plan)), 0644); err != nil {
		return fmt.Errorf("failed to write text plan: %w", err)
	}
	return nil
}
