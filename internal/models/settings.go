package models

// Category is one scored behavior column of the rubric. Identity is the ID;
// the name is mutable display text.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Period is one scored time block of the school day. Same shape as Category
// but an independent id namespace.
type Period struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ScaleConfig defines the scoring scale: integer levels 0..ScaleMax with a
// display label per level.
type ScaleConfig struct {
	ScaleMax int            `json:"scale_max"`
	Labels   map[int]string `json:"labels"`
}

// Settings holds the configurable rubric taxonomy and the daily goal.
type Settings struct {
	Categories []Category  `json:"categories"`
	Periods    []Period    `json:"periods"`
	Scale      ScaleConfig `json:"scale"`
	GoalPoints int         `json:"goal_points"`
}

// Clone returns a deep copy safe to hand out past the store lock.
func (s Settings) Clone() Settings {
	clone := s
	clone.Categories = append([]Category(nil), s.Categories...)
	clone.Periods = append([]Period(nil), s.Periods...)
	clone.Scale.Labels = make(map[int]string, len(s.Scale.Labels))
	for level, label := range s.Scale.Labels {
		clone.Scale.Labels[level] = label
	}
	return clone
}

// CategoryByID returns the category with the given id, if present.
func (s Settings) CategoryByID(id string) (Category, bool) {
	for _, c := range s.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// PeriodByID returns the period with the given id, if present.
func (s Settings) PeriodByID(id string) (Period, bool) {
	for _, p := range s.Periods {
		if p.ID == id {
			return p, true
		}
	}
	return Period{}, false
}
