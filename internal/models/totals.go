package models

// PeriodTotal summarises one period of a scored record.
type PeriodTotal struct {
	PeriodID   string `json:"period_id"`
	PeriodName string `json:"period_name"`
	Total      int    `json:"total"`
	Max        int    `json:"max"`
}

// DailySummary aggregates the derived totals for one record. It is computed
// from scratch on every request, never cached.
type DailySummary struct {
	Periods    []PeriodTotal `json:"periods"`
	DailyTotal int           `json:"daily_total"`
	DailyMax   int           `json:"daily_max"`
	Percent    int           `json:"percent"`
	GoalPoints int           `json:"goal_points"`
	GoalMet    bool          `json:"goal_met"`
}
