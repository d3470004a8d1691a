package models

// Course represents a course in the catalog, unique on (code, number).
// Level and credits are promoted from the course's first feed section for
// display purposes.
type Course struct {
	ID      string  `json:"id" db:"id"`
	Code    string  `json:"code" db:"code"`
	Number  string  `json:"number" db:"number"`
	Title   string  `json:"title" db:"title"`
	Level   *string `json:"level,omitempty" db:"level"`     // Nullable
	Credits *int    `json:"credits,omitempty" db:"credits"` // Nullable
}

// Key returns the compound natural key that identifies a course across feeds.
func (c *Course) Key() string {
	return CourseKey(c.Code, c.Number)
}

// FullCode returns the display label, e.g. "CPCS-203".
func (c *Course) FullCode() string {
	return c.Code + "-" + c.Number
}

// CourseKey builds the compound lookup key for a course code and number.
func CourseKey(code, number string) string {
	return code + "-" + number
}
