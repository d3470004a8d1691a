// Package search implements the catalog's filter engine: it normalizes the
// raw query parameters, folds them into a small set of composable predicate
// clauses, and renders those clauses either as one SQL WHERE fragment or as
// an in-memory match against a loaded section graph.
package search

import (
	"regexp"
	"strings"
)

// Params carries the optional search filters plus pagination controls.
// Absence of a filter means no constraint.
type Params struct {
	TermCode   string `form:"termCode"`
	Query      string `form:"q"`
	Days       string `form:"days"`
	Instructor string `form:"instructor"`
	StartTime  string `form:"startTime"`
	EndTime    string `form:"endTime"`
	Level      string `form:"level"`
	CRN        string `form:"crn"`
	Section    string `form:"section"`
	Gender     string `form:"gender"`
	Branch     string `form:"branch"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit      int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
}

// dayOrder is the canonical day-letter ordering, Monday through Sunday
// (R = Thursday, U = Sunday).
const dayOrder = "MTWRFSU"

var clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// Tokenize normalizes a free-text query into lowercase tokens: dashes are
// removed, whitespace is collapsed, and a letter-digit boundary splits a
// token, so "cpcs203", "CPCS 203" and "CPCS-203" all yield ["cpcs" "203"].
func Tokenize(q string) []string {
	q = strings.ToLower(strings.ReplaceAll(q, "-", ""))

	var b strings.Builder
	var prev rune
	for _, r := range q {
		if prev != 0 && letterDigitBoundary(prev, r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	return strings.Fields(b.String())
}

func letterDigitBoundary(prev, cur rune) bool {
	return (isLetter(prev) && isDigit(cur)) || (isDigit(prev) && isLetter(cur))
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// SortDays canonicalizes a day-letter filter: unique valid letters sorted
// into MTWRFSU order, so "WM" and "MW" are equivalent. Letters outside the
// canonical set are dropped.
func SortDays(days string) string {
	days = strings.ToUpper(days)

	var b strings.Builder
	for _, day := range dayOrder {
		if strings.ContainsRune(days, day) {
			b.WriteRune(day)
		}
	}
	return b.String()
}

// ParseClock converts an "HH:MM" string to minutes since midnight. The
// second return is false when the input does not have the clock shape, in
// which case the filter is simply not applied.
func ParseClock(value string) (int, bool) {
	if !clockPattern.MatchString(value) {
		return 0, false
	}

	parts := strings.SplitN(value, ":", 2)
	hours := atoi(parts[0])
	minutes := atoi(parts[1])
	return hours*60 + minutes, true
}

// atoi parses a digits-only string already vetted by clockPattern.
func atoi(s string) int {
	n := 0
	for _, r := range s {
		n = n*10 + int(r-'0')
	}
	return n
}

// Cohort markers embedded in the section branch label by the upstream system.
const (
	branchMarkerMale   = "طلاب"
	branchMarkerFemale = "طالبات"
)

// MapGender maps the literal values "male"/"female" to the opaque cohort
// markers used inside branch labels. Any other value yields "" and the
// filter is ignored.
func MapGender(gender string) string {
	switch strings.ToLower(gender) {
	case "male":
		return branchMarkerMale
	case "female":
		return branchMarkerFemale
	default:
		return ""
	}
}
