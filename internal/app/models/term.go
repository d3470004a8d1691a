package models

import "time"

// Term represents one academic term. Identity is keyed by the externally
// assigned term code; at most one row per code exists at any time.
type Term struct {
	ID        string     `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	TermCode  string     `json:"termCode" db:"term_code"`
	StartDate *time.Time `json:"startDate,omitempty" db:"start_date"` // Nullable, not feed-sourced
	EndDate   *time.Time `json:"endDate,omitempty" db:"end_date"`     // Nullable, not feed-sourced
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}
