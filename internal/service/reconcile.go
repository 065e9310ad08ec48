package service

import (
	"github.com/noah-isme/behavior-rubric/internal/models"
)

// reconcileRecord repairs a record's matrix so it covers every current
// period and category. Idempotent: an already scored cell is never touched,
// and rows or cells for removed taxonomy are left in place (they are simply
// never read).
func reconcileRecord(rec *models.Record, settings models.Settings) {
	rec.Normalize()
	for _, period := range settings.Periods {
		row, ok := rec.Matrix[period.ID]
		if !ok {
			row = make(map[string]*int, len(settings.Categories))
			rec.Matrix[period.ID] = row
		}
		for _, category := range settings.Categories {
			if _, ok := row[category.ID]; !ok {
				row[category.ID] = nil
			}
		}
	}
}

// reconcileAll repairs every materialized record in the snapshot. Taxonomy
// mutations must call this before any totals are derived, so a rename or
// removal elsewhere never orphans other dates or students.
func reconcileAll(snap *models.Snapshot) {
	for _, rec := range snap.Entries {
		if rec != nil {
			reconcileRecord(rec, snap.Settings)
		}
	}
}
