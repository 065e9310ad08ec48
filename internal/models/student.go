package models

// Student represents a learner on the roster.
type Student struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
