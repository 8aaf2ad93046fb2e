package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RollCut/internal/model"
)

func TestBuildDefaultScenarios(t *testing.T) {
	scenarios := BuildDefaultScenarios(model.DefaultSettings())

	require.Len(t, scenarios, 4)
	assert.Equal(t, "Current Settings", scenarios[0].Name)
	assert.Equal(t, model.PolicySetAside, scenarios[1].Settings.Policy)
	assert.Equal(t, 5, scenarios[2].Settings.MaxRowPieces)
	assert.Equal(t, 7, scenarios[3].Settings.MaxRowPieces)
}

func TestBuildDefaultScenarios_AtLimits(t *testing.T) {
	s := model.DefaultSettings()
	s.MaxRowPieces = 1
	s.Policy = model.PolicySetAside
	scenarios := BuildDefaultScenarios(s)
	require.Len(t, scenarios, 3)
	assert.Equal(t, model.PolicyAbandon, scenarios[1].Settings.Policy)
	assert.Equal(t, 2, scenarios[2].Settings.MaxRowPieces)

	s.MaxRowPieces = model.MaxRowPiecesLimit
	assert.Len(t, BuildDefaultScenarios(s), 3)
}

func TestCompareScenarios_KeepsScenarioOrder(t *testing.T) {
	job := testJob(model.NewPieceType("A", 300, 200, 5), model.NewPieceType("B", 450, 120, 2))
	base := job.Settings
	one := base
	one.MaxRowPieces = 1

	scenarios := []ComparisonScenario{
		{Name: "Default", Settings: base},
		{Name: "Singles", Settings: one},
	}
	results, err := CompareScenarios(context.Background(), scenarios, job)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Default", results[0].Scenario.Name)
	assert.Equal(t, "Singles", results[1].Scenario.Name)
	assert.Equal(t, 7, results[1].Rows, "a cap of one puts every piece on its own row")
	assert.Less(t, results[0].Rows, results[1].Rows)
	assert.Greater(t, results[0].Utilization, results[1].Utilization)
	for _, r := range results {
		assert.Zero(t, r.UnplacedCount)
		assert.Positive(t, r.Evaluated)
		assert.Equal(t, r.Plan.Metrics.TotalLength, r.TotalLength)
	}
}

func TestCompareScenarios_InvalidScenario(t *testing.T) {
	job := testJob(model.NewPieceType("A", 300, 200, 1))
	bad := job.Settings
	bad.MaxRowPieces = 0

	_, err := CompareScenarios(context.Background(), []ComparisonScenario{
		{Name: "Default", Settings: job.Settings},
		{Name: "Broken", Settings: bad},
	}, job)
	require.ErrorIs(t, err, model.ErrInvalidJob)
	assert.Contains(t, err.Error(), "Broken")
}
