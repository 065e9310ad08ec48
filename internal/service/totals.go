package service

import (
	"math"

	"github.com/noah-isme/behavior-rubric/internal/models"
)

// ComputeDailySummary derives per-period and daily totals for a record under
// the given settings. Pure: no state, recomputed from scratch on every call.
// An unset cell counts as zero; cells outside the current taxonomy are
// ignored entirely.
func ComputeDailySummary(rec *models.Record, settings models.Settings) models.DailySummary {
	summary := models.DailySummary{
		Periods:    make([]models.PeriodTotal, 0, len(settings.Periods)),
		GoalPoints: settings.GoalPoints,
	}

	periodMax := len(settings.Categories) * settings.Scale.ScaleMax
	for _, period := range settings.Periods {
		total := 0
		for _, category := range settings.Categories {
			if score := rec.Score(period.ID, category.ID); score != nil {
				total += *score
			}
		}
		summary.Periods = append(summary.Periods, models.PeriodTotal{
			PeriodID:   period.ID,
			PeriodName: period.Name,
			Total:      total,
			Max:        periodMax,
		})
		summary.DailyTotal += total
		summary.DailyMax += periodMax
	}

	if summary.DailyMax > 0 {
		summary.Percent = int(math.Round(float64(summary.DailyTotal) / float64(summary.DailyMax) * 100))
	}
	summary.GoalMet = summary.DailyTotal >= settings.GoalPoints

	return summary
}
