package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/piwi3910/RollCut/internal/model"
)

// ComparisonScenario defines a named set of settings to compare.
type ComparisonScenario struct {
	Name     string
	Settings model.PackSettings
}

// ComparisonResult holds the plan and computed statistics for a single scenario.
type ComparisonResult struct {
	Scenario      ComparisonScenario
	Plan          model.Plan
	Rows          int
	TotalLength   int
	Utilization   float64 // percent
	UnplacedCount int
	Evaluated     int64 // valid subsets examined across all rows
	Elapsed       time.Duration
}

// CompareScenarios packs job once per scenario and returns the results in
// scenario order. Scenarios run concurrently; each pack still owns its pool.
// The first failing scenario cancels the others.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, job model.Job, opts ...Option) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)

	for i, scenario := range scenarios {
		g.Go(func() error {
			j := job
			j.Settings = scenario.Settings

			counter := &CountingObserver{}
			start := time.Now()
			runOpts := append(opts[:len(opts):len(opts)], WithObserver(counter))
			plan, err := PlanJob(gctx, j, runOpts...)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", scenario.Name, err)
			}

			results[i] = ComparisonResult{
				Scenario:      scenario,
				Plan:          plan,
				Rows:          len(plan.Result.Rows),
				TotalLength:   plan.Metrics.TotalLength,
				Utilization:   plan.Metrics.UtilizationPercent(),
				UnplacedCount: len(plan.Result.Unplaced),
				Evaluated:     counter.EvaluatedCount(),
				Elapsed:       time.Since(start),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current settings, varying the policy and the row piece cap.
func BuildDefaultScenarios(base model.PackSettings) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name:     "Current Settings",
			Settings: base,
		},
	}

	alt := base
	if base.Policy == model.PolicySetAside {
		alt.Policy = model.PolicyAbandon
	} else {
		alt.Policy = model.PolicySetAside
	}
	scenarios = append(scenarios, ComparisonScenario{
		Name:     fmt.Sprintf("Policy %s", alt.Policy),
		Settings: alt,
	})

	if base.MaxRowPieces > 1 {
		fewer := base
		fewer.MaxRowPieces = base.MaxRowPieces - 1
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Max %d pieces per row", fewer.MaxRowPieces),
			Settings: fewer,
		})
	}

	if base.MaxRowPieces < model.MaxRowPiecesLimit {
		more := base
		more.MaxRowPieces = base.MaxRowPieces + 1
		scenarios = append(scenarios, ComparisonScenario{
			Name:     fmt.Sprintf("Max %d pieces per row", more.MaxRowPieces),
			Settings: more,
		})
	}

	return scenarios
}
