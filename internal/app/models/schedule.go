package models

// Schedule represents one weekly meeting of a section. The feed provides no
// stable identity for meetings, so a section's schedule set is fully
// replaced on every sync of that section.
type Schedule struct {
	ID           string  `json:"id" db:"id"`
	SectionID    string  `json:"sectionId" db:"section_id"`
	InstructorID *string `json:"instructorId,omitempty" db:"instructor_id"` // Meeting-specific, falls back to the section's primary
	Type         string  `json:"type" db:"type"`
	StartTime    *int    `json:"startTime,omitempty" db:"start_time"` // Minutes since midnight, nil when unscheduled
	EndTime      *int    `json:"endTime,omitempty" db:"end_time"`     // Minutes since midnight, nil when unscheduled
	RawTime      string  `json:"rawTime" db:"raw_time"`
	Days         string  `json:"days" db:"days"` // Single-letter day codes in MTWRFSU order, e.g. "MW"
	Location     string  `json:"location" db:"location"`
	DateRange    string  `json:"dateRange" db:"date_range"`

	// Relations (populated when needed)
	Instructor *Instructor `json:"instructor,omitempty"`
}
