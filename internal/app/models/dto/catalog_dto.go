package dto

// SectionResponse is the search result row: a section joined with its
// course, term and primary instructor, plus its meeting list.
type SectionResponse struct {
	ID          string `json:"id" example:"sec-40211"`
	CRN         int    `json:"crn" example:"40211"`
	SectionCode string `json:"sectionCode" example:"01"`

	CourseTitle  string `json:"courseTitle" example:"Programming II"`
	CourseCode   string `json:"courseCode" example:"CPCS"`
	CourseNumber string `json:"courseNumber" example:"203"`

	TermName string `json:"termName" example:"Fall 2025"`

	InstructorName  string `json:"instructorName" example:"John Smith"`
	InstructorEmail string `json:"instructorEmail,omitempty" example:"jsmith@kau.edu.sa"`

	Branch       string `json:"branch,omitempty"`
	ScheduleType string `json:"scheduleType,omitempty" example:"Lecture"`
	Level        string `json:"level,omitempty" example:"Undergraduate"`
	Credits      *int   `json:"credits,omitempty" example:"3"`

	Schedules []ScheduleResponse `json:"schedules"`
}

// ScheduleResponse is one weekly meeting inside a SectionResponse
type ScheduleResponse struct {
	Type       string `json:"type" example:"Lecture"`
	Days       string `json:"days" example:"MW"`
	Time       string `json:"time" example:"08:00 AM - 09:15 AM"`
	Room       string `json:"room,omitempty" example:"B21-101"`
	Instructor string `json:"instructor" example:"John Smith"`
}

// CourseSummary is one distinct course offered in a term
type CourseSummary struct {
	ID       string `json:"id"`
	Code     string `json:"code" example:"CPCS"`
	Number   string `json:"number" example:"203"`
	Title    string `json:"title" example:"Programming II"`
	FullCode string `json:"fullCode" example:"CPCS-203"`
}

// InstructorSummary is one distinct instructor teaching in a term
type InstructorSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name" example:"John Smith"`
	Email string `json:"email,omitempty" example:"jsmith@kau.edu.sa"`
}

// InstructorHierarchy groups an instructor's sections by course
type InstructorHierarchy struct {
	Name    string                  `json:"name"`
	Email   string                  `json:"email,omitempty"`
	Courses []InstructorCourseGroup `json:"courses"`
}

// InstructorCourseGroup is one course taught by an instructor with its
// section codes in sorted order
type InstructorCourseGroup struct {
	CourseLabel string   `json:"courseLabel" example:"CPCS-203"`
	CourseTitle string   `json:"courseTitle" example:"Programming II"`
	Sections    []string `json:"sections"`
}

// InstructorDetails is the per-course view of one instructor's meetings in a term
type InstructorDetails struct {
	InstructorName string                         `json:"instructorName"`
	Email          string                         `json:"email,omitempty"`
	Term           string                         `json:"term" example:"202510"`
	Schedule       map[string][]InstructorMeeting `json:"schedule"`
}

// InstructorMeeting is a single meeting row inside InstructorDetails
type InstructorMeeting struct {
	SectionCode string `json:"sectionCode" example:"01"`
	CRN         int    `json:"crn" example:"40211"`
	Days        string `json:"days" example:"MW"`
	Time        string `json:"time" example:"08:00 AM - 09:15 AM"`
	Location    string `json:"location,omitempty" example:"B21-101"`
}

// SyncReport summarizes one synchronization phase run
type SyncReport struct {
	Phase       string   `json:"phase" example:"courses"`
	TermCode    string   `json:"termCode,omitempty" example:"202510"`
	Instructors int      `json:"instructors"`
	Courses     int      `json:"courses,omitempty"`
	Sections    int      `json:"sections"`
	Schedules   int      `json:"schedules,omitempty"`
	Rejected    []string `json:"rejected,omitempty"`
	Skipped     string   `json:"skipped,omitempty" example:"course feed has no data"`
	DurationMS  int64    `json:"durationMs"`
}
