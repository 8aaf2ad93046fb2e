package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/piwi3910/RollCut/internal/engine"
	"github.com/piwi3910/RollCut/internal/report"
)

func (a *app) newCompareCmd() *cobra.Command {
	flags := &jobFlags{}
	cmd := &cobra.Command{
		Use:   "compare [file]",
		Short: "Pack a job under alternative settings and compare the results",
		Long: `Pack a job with the current settings, the other no-fit policy, and one
piece more and fewer per row, then compare roll length and utilization.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			job, err := a.loadJob(cmd, args, flags)
			if err != nil {
				return err
			}
			searchCtx, cancel := a.searchContext(ctx)
			defer cancel()

			p := newProgress(logger)
			scenarios := engine.BuildDefaultScenarios(job.Settings)
			results, err := engine.CompareScenarios(searchCtx, scenarios, job, engine.WithLogger(logger))
			if err != nil {
				return err
			}
			p.done(fmt.Sprintf("Compared %d scenarios", len(results)))

			fmt.Fprintln(a.stdout, renderComparison(results))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// bestResult returns the index of the result with no fewer placed pieces and
// the shortest roll length; ties keep the earlier scenario.
func bestResult(results []engine.ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 {
			best = i
			continue
		}
		b := results[best]
		if r.UnplacedCount < b.UnplacedCount ||
			(r.UnplacedCount == b.UnplacedCount && r.TotalLength < b.TotalLength) {
			best = i
		}
	}
	return best
}

func renderComparison(results []engine.ComparisonResult) string {
	best := bestResult(results)
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		mark := ""
		if i == best {
			mark = "★"
		}
		rows = append(rows, []string{
			mark,
			r.Scenario.Name,
			strconv.Itoa(r.Rows),
			report.FormatLength(r.TotalLength),
			fmt.Sprintf("%.1f%%", r.Utilization),
			strconv.Itoa(r.UnplacedCount),
			strconv.FormatInt(r.Evaluated, 10),
			r.Elapsed.Round(time.Millisecond).String(),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Scenario", "Rows", "Length", "Utilization", "Unplaced", "Subsets", "Time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case row == best:
				return styleBest
			case col >= 2:
				return styleNumber
			default:
				return lipgloss.NewStyle()
			}
		})
	return t.String()
}
