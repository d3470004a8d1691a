package search

import "strconv"

// Column identifiers understood by both the SQL renderer and the in-memory
// matcher. The aliases match the joined search query: s = sections,
// c = courses, i = primary instructor, sch = schedules, si = the meeting's
// own instructor.
const (
	ColCourseCode        = "c.code"
	ColCourseNumber      = "c.number"
	ColCourseTitle       = "c.title"
	ColSectionCode       = "s.code"
	ColSectionCRN        = "s.crn"
	ColSectionLevel      = "s.level"
	ColSectionBranch     = "s.branch"
	ColInstructorName    = "i.name"
	ColMeetingDays       = "sch.days"
	ColMeetingStart      = "sch.start_time"
	ColMeetingEnd        = "sch.end_time"
	ColMeetingInstructor = "si.name"
)

// CompareOp is a comparison operator usable in a Compare clause.
type CompareOp string

const (
	OpEq  CompareOp = "="
	OpGte CompareOp = ">="
	OpLte CompareOp = "<="
)

// Clause is one tagged predicate variant. A clause list is implicitly
// AND-composed.
type Clause interface {
	clause()
}

// Compare matches a column against a value with =, >= or <=.
type Compare struct {
	Column string
	Op     CompareOp
	Value  any
}

// Contains is a case-insensitive substring match on a text column.
type Contains struct {
	Column string
	Value  string
}

// Or matches when at least one inner clause matches.
type Or struct {
	Clauses []Clause
}

// ScheduleExists matches when at least one schedule row belonging to the
// current section satisfies every inner clause. It is an existence check,
// never a join: a section with several qualifying meetings still yields a
// single result row.
type ScheduleExists struct {
	Clauses []Clause
}

func (Compare) clause()        {}
func (Contains) clause()       {}
func (Or) clause()             {}
func (ScheduleExists) clause() {}

// BuildClauses folds the optional filter parameters into a clause list.
// Unparseable numeric or clock inputs drop their filter rather than fail
// the request.
func BuildClauses(p Params) []Clause {
	var clauses []Clause

	// Every token must match at least one of the course/section identity
	// fields; a numeric token may also match the CRN exactly.
	for _, token := range Tokenize(p.Query) {
		alternatives := []Clause{
			Contains{Column: ColCourseTitle, Value: token},
			Contains{Column: ColCourseCode, Value: token},
			Contains{Column: ColCourseNumber, Value: token},
			Contains{Column: ColSectionCode, Value: token},
		}
		if crn, err := strconv.Atoi(token); err == nil {
			alternatives = append(alternatives, Compare{Column: ColSectionCRN, Op: OpEq, Value: crn})
		}
		clauses = append(clauses, Or{Clauses: alternatives})
	}

	// The name may belong to the primary instructor or to any single
	// meeting's instructor.
	if p.Instructor != "" {
		clauses = append(clauses, Or{Clauses: []Clause{
			Contains{Column: ColInstructorName, Value: p.Instructor},
			ScheduleExists{Clauses: []Clause{
				Contains{Column: ColMeetingInstructor, Value: p.Instructor},
			}},
		}})
	}

	if p.CRN != "" {
		if crn, err := strconv.Atoi(p.CRN); err == nil {
			clauses = append(clauses, Compare{Column: ColSectionCRN, Op: OpEq, Value: crn})
		}
	}

	if p.Section != "" {
		clauses = append(clauses, Contains{Column: ColSectionCode, Value: p.Section})
	}

	if p.Level != "" {
		clauses = append(clauses, Contains{Column: ColSectionLevel, Value: p.Level})
	}

	if marker := MapGender(p.Gender); marker != "" {
		clauses = append(clauses, Contains{Column: ColSectionBranch, Value: marker})
	}

	if p.Branch != "" {
		clauses = append(clauses, Contains{Column: ColSectionBranch, Value: p.Branch})
	}

	// Day and time constraints must hold on one and the same meeting, so
	// they share a single existence subquery.
	var meeting []Clause
	if days := SortDays(p.Days); days != "" {
		meeting = append(meeting, Contains{Column: ColMeetingDays, Value: days})
	}
	if start, ok := ParseClock(p.StartTime); ok {
		meeting = append(meeting, Compare{Column: ColMeetingStart, Op: OpGte, Value: start})
	}
	if end, ok := ParseClock(p.EndTime); ok {
		meeting = append(meeting, Compare{Column: ColMeetingEnd, Op: OpLte, Value: end})
	}
	if len(meeting) > 0 {
		clauses = append(clauses, ScheduleExists{Clauses: meeting})
	}

	return clauses
}

// BuildCourseClauses folds a free-text query into clauses scoped to course
// identity fields only. Course listings use this so a query never matches a
// course through one of its sections' codes or CRNs.
func BuildCourseClauses(query string) []Clause {
	var clauses []Clause
	for _, token := range Tokenize(query) {
		clauses = append(clauses, Or{Clauses: []Clause{
			Contains{Column: ColCourseTitle, Value: token},
			Contains{Column: ColCourseCode, Value: token},
			Contains{Column: ColCourseNumber, Value: token},
		}})
	}
	return clauses
}
