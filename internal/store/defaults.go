package store

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/noah-isme/behavior-rubric/internal/models"
)

const defaultPeriodCount = 6

var defaultCategoryNames = []string{"Respectful", "Responsible", "Safe", "On Task"}

var defaultScaleLabels = map[int]string{
	0: "Not met",
	1: "Partially met",
	2: "Mostly met",
	3: "Fully met",
}

// defaultSnapshot seeds a fresh application state: a standard four-category
// rubric over six periods on a 0-3 scale, empty roster, no records.
func defaultSnapshot() *models.Snapshot {
	snap := &models.Snapshot{
		Students: []models.Student{},
		Settings: DefaultSettings(),
		Entries:  make(map[string]*models.Record),
	}
	return snap
}

// DefaultSettings builds the out-of-the-box rubric taxonomy.
func DefaultSettings() models.Settings {
	categories := make([]models.Category, 0, len(defaultCategoryNames))
	for _, name := range defaultCategoryNames {
		categories = append(categories, models.Category{ID: uuid.NewString(), Name: name})
	}
	periods := make([]models.Period, 0, defaultPeriodCount)
	for i := 1; i <= defaultPeriodCount; i++ {
		periods = append(periods, models.Period{ID: uuid.NewString(), Name: fmt.Sprintf("Period %d", i)})
	}
	labels := make(map[int]string, len(defaultScaleLabels))
	for level, label := range defaultScaleLabels {
		labels[level] = label
	}
	return models.Settings{
		Categories: categories,
		Periods:    periods,
		Scale:      models.ScaleConfig{ScaleMax: 3, Labels: labels},
		GoalPoints: 24,
	}
}
