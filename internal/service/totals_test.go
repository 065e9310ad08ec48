package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/behavior-rubric/internal/models"
)

func scoredRecord() *models.Record {
	rec := models.NewRecord()
	reconcileRecord(rec, testSettings())
	rec.Matrix["p1"]["c1"] = intPtr(3)
	rec.Matrix["p1"]["c2"] = intPtr(2)
	rec.Matrix["p2"]["c2"] = intPtr(1)
	return rec
}

func TestComputeDailySummaryTotals(t *testing.T) {
	summary := ComputeDailySummary(scoredRecord(), testSettings())

	require.Len(t, summary.Periods, 2)
	assert.Equal(t, 5, summary.Periods[0].Total)
	assert.Equal(t, 6, summary.Periods[0].Max)
	assert.Equal(t, 1, summary.Periods[1].Total)
	assert.Equal(t, 6, summary.Periods[1].Max)
	assert.Equal(t, 6, summary.DailyTotal)
	assert.Equal(t, 12, summary.DailyMax)
	assert.Equal(t, 50, summary.Percent)
}

func TestComputeDailySummaryGoal(t *testing.T) {
	settings := testSettings()
	settings.GoalPoints = 6
	rec := scoredRecord()

	summary := ComputeDailySummary(rec, settings)
	assert.True(t, summary.GoalMet)

	settings.GoalPoints = 7
	summary = ComputeDailySummary(rec, settings)
	assert.False(t, summary.GoalMet)
}

func TestComputeDailySummaryEmptyTaxonomy(t *testing.T) {
	settings := testSettings()
	settings.Periods = nil

	summary := ComputeDailySummary(models.NewRecord(), settings)
	assert.Equal(t, 0, summary.DailyMax)
	assert.Equal(t, 0, summary.Percent)
}

func TestComputeDailySummaryIgnoresStaleCells(t *testing.T) {
	rec := scoredRecord()
	rec.Matrix["removed"] = map[string]*int{"c1": intPtr(3)}
	rec.Matrix["p1"]["gone"] = intPtr(3)

	summary := ComputeDailySummary(rec, testSettings())
	assert.Equal(t, 6, summary.DailyTotal)
}
