package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RollCut/internal/model"
)

func testJob(pieces ...model.PieceType) model.Job {
	job := model.NewJob()
	job.Name = "Test"
	job.Pieces = pieces
	return job
}

func TestPlanJob_BuildsPlan(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	job := testJob(model.NewPieceType("A", 500, 300, 2), model.NewPieceType("B", 700, 400, 1))

	plan, err := PlanJob(context.Background(), job, WithClock(func() time.Time { return at }))
	require.NoError(t, err)

	assert.Equal(t, "Test", plan.Name)
	assert.Equal(t, 1050, plan.RollWidth)
	assert.Equal(t, model.DefaultRollLength, plan.RollLength)
	assert.Equal(t, at, plan.GeneratedAt)
	assert.Equal(t, 3, plan.Result.PieceCount())
	assert.True(t, plan.Result.Complete())
	assert.Equal(t, Summarize(plan.Result.Rows, 1050), plan.Metrics)
	assert.Equal(t, job.RequiredArea(), plan.Metrics.UsedArea)
	assert.NotEmpty(t, plan.Offcuts)
}

func TestPlanJob_RejectsInvalidJob(t *testing.T) {
	job := testJob(model.NewPieceType("Huge", 1200, 1200, 1))

	obs := &recordingObserver{}
	_, err := PlanJob(context.Background(), job, WithObserver(obs))
	require.ErrorIs(t, err, model.ErrInvalidJob)
	assert.Empty(t, obs.evaluated, "packer must not run for invalid jobs")
}

func TestPlanJob_CancelledReturnsPartialPlan(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan, err := PlanJob(ctx, testJob(model.NewPieceType("A", 500, 300, 4)))
	require.ErrorIs(t, err, context.Canceled)
	assert.Len(t, plan.Result.Unplaced, 4)
	assert.Zero(t, plan.Metrics.TotalLength)
}

func TestPlanJob_ObserverSeesEverySearch(t *testing.T) {
	counter := &CountingObserver{}
	_, err := PlanJob(context.Background(), testJob(model.NewPieceType("S", 350, 200, 3)), WithObserver(counter))
	require.NoError(t, err)
	assert.EqualValues(t, 19, counter.EvaluatedCount())
	assert.EqualValues(t, 3, counter.ImprovedCount())
}
