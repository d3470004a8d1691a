// Package feed defines the upstream catalog feed documents and the HTTP
// client that fetches them.
package feed

import "encoding/json"

// StatusSuccess is the status marker a usable feed document must carry.
const StatusSuccess = "success"

// CoursesDocument is the course feed: a term descriptor plus the full
// course/section/schedule tree for that term.
type CoursesDocument struct {
	Status   string         `json:"status"`
	TermName string         `json:"termName"`
	TermID   string         `json:"termId"`
	Data     []CourseRecord `json:"data"`
}

// CourseRecord is one course with its nested sections.
type CourseRecord struct {
	ID           string          `json:"id"`
	CourseCode   string          `json:"courseCode"`
	CourseNumber string          `json:"courseNumber"`
	Title        string          `json:"title"`
	Sections     []SectionRecord `json:"sections"`
}

// SectionRecord is one section inside a course record. CRN is decoded as
// json.Number so a single bad value rejects that record instead of failing
// the whole document.
type SectionRecord struct {
	ID                string           `json:"id"`
	CRN               json.Number      `json:"crn"`
	InstructorID      string           `json:"instructorId"`
	Code              string           `json:"code"`
	Branch            string           `json:"branch"`
	ScheduleType      string           `json:"scheduleType"`
	InstructionMethod string           `json:"instructionMethod"`
	Level             string           `json:"level"`
	Credits           *int             `json:"credits"`
	CreatedAt         string           `json:"createdAt"` // ISO-8601, may be empty
	UpdatedAt         string           `json:"updatedAt"` // ISO-8601, may be empty
	Schedules         []ScheduleRecord `json:"schedules"`
}

// ScheduleRecord is one weekly meeting of a section. The feed assigns no
// identity to meetings.
type ScheduleRecord struct {
	Type      string `json:"type"`
	StartTime *int   `json:"startTime"`
	EndTime   *int   `json:"endTime"`
	RawTime   string `json:"rawTime"`
	Days      string `json:"days"`
	Location  string `json:"location"`
	DateRange string `json:"dateRange"`
}

// InstructorsDocument is the enrichment feed: full instructor identities
// plus the section ids each one teaches.
type InstructorsDocument struct {
	Status   string             `json:"status"`
	TermName string             `json:"termName"`
	TermID   string             `json:"termId"`
	Data     []InstructorRecord `json:"data"`
}

// InstructorRecord is one instructor with the sections they teach.
type InstructorRecord struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Email    string       `json:"email"`
	Sections []SectionRef `json:"sections"`
}

// SectionRef references a section by its externally assigned id.
type SectionRef struct {
	ID string `json:"id"`
}
