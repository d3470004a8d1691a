package models

// Instructor defines the instructor model. The id comes from the external
// feed and is stable across feeds; a record first seen through a section
// reference carries its id as name until the enrichment feed fills it in.
type Instructor struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email,omitempty" db:"email"`
}
