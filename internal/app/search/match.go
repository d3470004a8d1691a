package search

import (
	"strings"

	"github.com/kaustack/catalog/internal/app/models"
)

// Match evaluates a clause list against a loaded section graph (course,
// primary instructor and schedules populated). It mirrors WhereSQL exactly,
// which keeps the engine testable without a database and lets read paths
// filter in memory.
func Match(clauses []Clause, s *models.Section) bool {
	for _, clause := range clauses {
		if !matchClause(clause, s) {
			return false
		}
	}
	return true
}

func matchClause(clause Clause, s *models.Section) bool {
	switch c := clause.(type) {
	case Compare:
		value, ok := sectionNumber(s, c.Column)
		if !ok {
			return false
		}
		return compare(value, c.Op, c.Value)

	case Contains:
		value, ok := sectionText(s, c.Column)
		if !ok {
			return false
		}
		return containsFold(value, c.Value)

	case Or:
		for _, inner := range c.Clauses {
			if matchClause(inner, s) {
				return true
			}
		}
		return false

	case ScheduleExists:
		for _, meeting := range s.Schedules {
			if matchMeeting(c.Clauses, meeting) {
				return true
			}
		}
		return false

	default:
		return false
	}
}

func matchMeeting(clauses []Clause, meeting *models.Schedule) bool {
	for _, clause := range clauses {
		switch c := clause.(type) {
		case Compare:
			value, ok := meetingNumber(meeting, c.Column)
			if !ok {
				return false
			}
			if !compare(value, c.Op, c.Value) {
				return false
			}

		case Contains:
			value, ok := meetingText(meeting, c.Column)
			if !ok {
				return false
			}
			if !containsFold(value, c.Value) {
				return false
			}

		default:
			return false
		}
	}
	return true
}

func sectionText(s *models.Section, column string) (string, bool) {
	switch column {
	case ColSectionCode:
		return s.Code, true
	case ColSectionLevel:
		return s.Level, true
	case ColSectionBranch:
		return s.Branch, true
	case ColCourseCode:
		if s.Course == nil {
			return "", false
		}
		return s.Course.Code, true
	case ColCourseNumber:
		if s.Course == nil {
			return "", false
		}
		return s.Course.Number, true
	case ColCourseTitle:
		if s.Course == nil {
			return "", false
		}
		return s.Course.Title, true
	case ColInstructorName:
		if s.Instructor == nil {
			return "", false
		}
		return s.Instructor.Name, true
	default:
		return "", false
	}
}

func sectionNumber(s *models.Section, column string) (int, bool) {
	if column == ColSectionCRN {
		return s.CRN, true
	}
	return 0, false
}

func meetingText(meeting *models.Schedule, column string) (string, bool) {
	switch column {
	case ColMeetingDays:
		return meeting.Days, true
	case ColMeetingInstructor:
		if meeting.Instructor == nil {
			return "", false
		}
		return meeting.Instructor.Name, true
	default:
		return "", false
	}
}

func meetingNumber(meeting *models.Schedule, column string) (int, bool) {
	switch column {
	case ColMeetingStart:
		if meeting.StartTime == nil {
			return 0, false
		}
		return *meeting.StartTime, true
	case ColMeetingEnd:
		if meeting.EndTime == nil {
			return 0, false
		}
		return *meeting.EndTime, true
	default:
		return 0, false
	}
}

func compare(value int, op CompareOp, target any) bool {
	expect, ok := target.(int)
	if !ok {
		return false
	}

	switch op {
	case OpEq:
		return value == expect
	case OpGte:
		return value >= expect
	case OpLte:
		return value <= expect
	default:
		return false
	}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
