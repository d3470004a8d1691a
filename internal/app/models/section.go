package models

import "time"

// Section represents one offering of a course within a term. Its id is
// externally assigned and stable across synchronization runs, which is what
// makes reconciliation idempotent.
type Section struct {
	ID                string     `json:"id" db:"id"`
	CRN               int        `json:"crn" db:"crn"`
	TermID            string     `json:"termId" db:"term_id"`
	CourseID          string     `json:"courseId" db:"course_id"`
	InstructorID      *string    `json:"instructorId,omitempty" db:"instructor_id"` // Nullable, primary instructor
	Code              string     `json:"code" db:"code"`
	Branch            string     `json:"branch" db:"branch"`
	ScheduleType      string     `json:"scheduleType" db:"schedule_type"`
	InstructionMethod string     `json:"instructionMethod" db:"instruction_method"`
	Level             string     `json:"level" db:"level"`
	Credits           *int       `json:"credits,omitempty" db:"credits"`     // Nullable
	CreatedAt         *time.Time `json:"createdAt,omitempty" db:"created_at"` // Feed-sourced, may be absent
	UpdatedAt         *time.Time `json:"updatedAt,omitempty" db:"updated_at"` // Feed-sourced, may be absent

	// Relations (populated when needed)
	Term       *Term       `json:"term,omitempty"`
	Course     *Course     `json:"course,omitempty"`
	Instructor *Instructor `json:"instructor,omitempty"`
	Schedules  []*Schedule `json:"schedules,omitempty"`
}
