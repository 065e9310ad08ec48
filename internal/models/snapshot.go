package models

// Snapshot is the full persisted application state: roster, taxonomy, the
// active (date, student) selection and every materialized record. It is
// serialized as one JSON blob after each mutation.
type Snapshot struct {
	Students  []Student          `json:"students"`
	Settings  Settings           `json:"settings"`
	Date      string             `json:"date"`
	StudentID string             `json:"student_id"`
	Entries   map[string]*Record `json:"entries"`
}

// EntryKey builds the Entries map key for a (date, student) pair.
func EntryKey(date, studentID string) string {
	return date + "__" + studentID
}

// Normalize repairs nil maps after JSON decoding.
func (s *Snapshot) Normalize() {
	if s.Entries == nil {
		s.Entries = make(map[string]*Record)
	}
	if s.Students == nil {
		s.Students = []Student{}
	}
	for _, rec := range s.Entries {
		if rec != nil {
			rec.Normalize()
		}
	}
	if s.Settings.Scale.Labels == nil {
		s.Settings.Scale.Labels = make(map[int]string)
	}
}

// StudentByID returns the roster entry with the given id, if present.
func (s *Snapshot) StudentByID(id string) (Student, bool) {
	for _, student := range s.Students {
		if student.ID == id {
			return student, true
		}
	}
	return Student{}, false
}
