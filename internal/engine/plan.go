package engine

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/RollCut/internal/model"
)

type planConfig struct {
	logger   *log.Logger
	observer SearchObserver
	now      func() time.Time
}

// Option configures PlanJob.
type Option func(*planConfig)

// WithLogger sends packer diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(c *planConfig) { c.logger = l }
}

// WithObserver attaches a search observer to the packer.
func WithObserver(o SearchObserver) Option {
	return func(c *planConfig) { c.observer = o }
}

// WithClock overrides the clock used for Plan.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(c *planConfig) { c.now = now }
}

// PlanJob validates a job, packs its pieces and returns the resulting plan
// with metrics and usable offcuts.
//
// Invalid jobs are rejected before packing with an error matching
// model.ErrInvalidJob. If ctx ends during packing the partial plan is
// returned together with an error wrapping ctx.Err().
func PlanJob(ctx context.Context, job model.Job, opts ...Option) (model.Plan, error) {
	cfg := planConfig{logger: log.New(io.Discard), now: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := model.ValidateJob(job); err != nil {
		return model.Plan{}, err
	}

	instances := Expand(job.Pieces)
	packer := New(job.Settings)
	packer.Logger = cfg.logger
	packer.Observer = cfg.observer

	cfg.logger.Debug("packing job",
		"job", job.Name,
		"pieces", len(instances),
		"roll_width", job.Settings.RollWidth,
		"max_row_pieces", job.Settings.MaxRowPieces,
		"policy", job.Settings.Policy)

	start := time.Now()
	result, err := packer.Pack(ctx, instances)

	rollWidth := job.Settings.RollWidth
	plan := model.Plan{
		Name:        job.Name,
		RollWidth:   rollWidth,
		RollLength:  job.RollLength,
		Pieces:      job.Pieces,
		Result:      result,
		Metrics:     Summarize(result.Rows, rollWidth),
		Offcuts:     model.DetectAllOffcuts(result.Rows, rollWidth),
		GeneratedAt: cfg.now(),
	}
	if err != nil {
		return plan, fmt.Errorf("packing %q stopped after %d rows: %w", job.Name, len(result.Rows), err)
	}

	cfg.logger.Info("plan ready",
		"job", job.Name,
		"rows", len(result.Rows),
		"length", plan.Metrics.TotalLength,
		"utilization", fmt.Sprintf("%.1f%%", plan.Metrics.UtilizationPercent()),
		"unplaced", len(result.Unplaced),
		"took", time.Since(start).Round(time.Millisecond))
	return plan, nil
}
