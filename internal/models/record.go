package models

// Record stores the scored matrix plus notes for one (date, student) pair.
// Matrix maps period id to category id to score; a nil score is "unset",
// which is distinct from zero. Rows and cells for taxonomy that has since
// been removed may linger in the matrix but are never read.
type Record struct {
	Matrix         map[string]map[string]*int `json:"matrix"`
	PeriodComments map[string]string          `json:"period_comments"`
	DailyNote      string                     `json:"daily_note"`
	Staff          string                     `json:"staff"`
}

// NewRecord returns an empty record ready for reconciliation.
func NewRecord() *Record {
	return &Record{
		Matrix:         make(map[string]map[string]*int),
		PeriodComments: make(map[string]string),
	}
}

// Normalize replaces nil maps left behind by JSON decoding.
func (r *Record) Normalize() {
	if r.Matrix == nil {
		r.Matrix = make(map[string]map[string]*int)
	}
	if r.PeriodComments == nil {
		r.PeriodComments = make(map[string]string)
	}
}

// Score returns the stored score for a cell, or nil when unset or the cell
// does not exist.
func (r *Record) Score(periodID, categoryID string) *int {
	row, ok := r.Matrix[periodID]
	if !ok {
		return nil
	}
	return row[categoryID]
}

// Clone returns a deep copy safe to hand out past the store lock.
func (r *Record) Clone() *Record {
	clone := NewRecord()
	clone.DailyNote = r.DailyNote
	clone.Staff = r.Staff
	for periodID, row := range r.Matrix {
		cloneRow := make(map[string]*int, len(row))
		for categoryID, score := range row {
			if score == nil {
				cloneRow[categoryID] = nil
				continue
			}
			v := *score
			cloneRow[categoryID] = &v
		}
		clone.Matrix[periodID] = cloneRow
	}
	for periodID, comment := range r.PeriodComments {
		clone.PeriodComments[periodID] = comment
	}
	return clone
}
