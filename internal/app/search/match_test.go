package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaustack/catalog/internal/app/models"
)

func intPtr(v int) *int { return &v }

// newSection builds the CPCS-203 fixtures used across the matcher tests:
// section 01 meets MW 08:00-09:15, section 02 meets TR 10:00-11:15.
func testSections() (sec01, sec02 *models.Section) {
	course := &models.Course{ID: "crs-1", Code: "CPCS", Number: "203", Title: "Programming II"}
	smith := &models.Instructor{ID: "i-1", Name: "John Smith", Email: "jsmith@kau.edu.sa"}
	jones := &models.Instructor{ID: "i-2", Name: "Mary Jones"}

	sec01 = &models.Section{
		ID: "sec-100", CRN: 100, Code: "01", Course: course, Instructor: smith,
		Schedules: []*models.Schedule{
			{Days: "MW", StartTime: intPtr(480), EndTime: intPtr(555)},
		},
	}
	sec02 = &models.Section{
		ID: "sec-101", CRN: 101, Code: "02", Course: course, Instructor: jones,
		Schedules: []*models.Schedule{
			{Days: "TR", StartTime: intPtr(600), EndTime: intPtr(675)},
		},
	}
	return sec01, sec02
}

func TestMatchDayFilter(t *testing.T) {
	t.Parallel()

	sec01, sec02 := testSections()
	clauses := BuildClauses(Params{Days: "M"})

	assert.True(t, Match(clauses, sec01))
	assert.False(t, Match(clauses, sec02))
}

func TestMatchDayCanonicalizationEquivalence(t *testing.T) {
	t.Parallel()

	section := &models.Section{Schedules: []*models.Schedule{{Days: "MWF"}}}

	// "WM" and "MW" are the same filter, and both match an MWF meeting.
	assert.True(t, Match(BuildClauses(Params{Days: "WM"}), section))
	assert.True(t, Match(BuildClauses(Params{Days: "MW"}), section))
	assert.False(t, Match(BuildClauses(Params{Days: "TR"}), section))
}

func TestMatchStartTimeFilter(t *testing.T) {
	t.Parallel()

	sec01, sec02 := testSections()
	clauses := BuildClauses(Params{StartTime: "09:00"})

	// Section 01 starts 08:00, before the bound; section 02 starts 10:00.
	assert.False(t, Match(clauses, sec01))
	assert.True(t, Match(clauses, sec02))
}

func TestMatchEndTimeFilter(t *testing.T) {
	t.Parallel()

	sec01, sec02 := testSections()
	clauses := BuildClauses(Params{EndTime: "10:00"})

	assert.True(t, Match(clauses, sec01))
	assert.False(t, Match(clauses, sec02))
}

func TestMatchDayAndTimeMustHoldOnSameMeeting(t *testing.T) {
	t.Parallel()

	section := &models.Section{Schedules: []*models.Schedule{
		{Days: "M", StartTime: intPtr(480), EndTime: intPtr(555)},
		{Days: "W", StartTime: intPtr(600), EndTime: intPtr(675)},
	}}

	// Monday at 10:00 exists on no single meeting.
	assert.False(t, Match(BuildClauses(Params{Days: "M", StartTime: "10:00"}), section))
	assert.True(t, Match(BuildClauses(Params{Days: "W", StartTime: "10:00"}), section))
}

func TestMatchUnscheduledMeetingNeverSatisfiesTimeBounds(t *testing.T) {
	t.Parallel()

	section := &models.Section{Schedules: []*models.Schedule{{Days: "M"}}}

	assert.False(t, Match(BuildClauses(Params{StartTime: "08:00"}), section))
	assert.True(t, Match(BuildClauses(Params{Days: "M"}), section))
}

func TestMatchQueryTokensAcrossFields(t *testing.T) {
	t.Parallel()

	sec01, _ := testSections()

	// All spellings of the course resolve to the same token list and match.
	for _, q := range []string{"cpcs203", "CPCS-203", "CPCS 203"} {
		assert.True(t, Match(BuildClauses(Params{Query: q}), sec01), "query %q", q)
	}

	assert.True(t, Match(BuildClauses(Params{Query: "programming"}), sec01))
	assert.True(t, Match(BuildClauses(Params{Query: "100"}), sec01), "crn token matches CRN")
	assert.False(t, Match(BuildClauses(Params{Query: "math"}), sec01))
	// Tokens are ANDed: one matching and one non-matching token fails.
	assert.False(t, Match(BuildClauses(Params{Query: "cpcs math"}), sec01))
}

func TestMatchInstructorAgainstPrimaryOrMeeting(t *testing.T) {
	t.Parallel()

	guest := &models.Instructor{ID: "i-9", Name: "Guest Lecturer"}
	section := &models.Section{
		Instructor: &models.Instructor{Name: "John Smith"},
		Schedules: []*models.Schedule{
			{Days: "M", Instructor: guest},
		},
	}

	assert.True(t, Match(BuildClauses(Params{Instructor: "smith"}), section))
	assert.True(t, Match(BuildClauses(Params{Instructor: "guest"}), section))
	assert.False(t, Match(BuildClauses(Params{Instructor: "jones"}), section))
}

func TestMatchBranchAndGender(t *testing.T) {
	t.Parallel()

	male := &models.Section{Branch: "حرم الجامعة - " + branchMarkerMale}
	female := &models.Section{Branch: "حرم الجامعة - " + branchMarkerFemale}

	maleClauses := BuildClauses(Params{Gender: "male"})
	assert.True(t, Match(maleClauses, male))
	assert.False(t, Match(maleClauses, female))

	branchClauses := BuildClauses(Params{Branch: "حرم"})
	assert.True(t, Match(branchClauses, male))
	assert.True(t, Match(branchClauses, female))
}

func TestMatchSectionWithManyQualifyingMeetingsMatchesOnce(t *testing.T) {
	t.Parallel()

	section := &models.Section{Schedules: []*models.Schedule{
		{Days: "MW", StartTime: intPtr(480)},
		{Days: "MF", StartTime: intPtr(600)},
	}}

	// Existence semantics: the result is a single boolean per section, no
	// matter how many meetings qualify.
	assert.True(t, Match(BuildClauses(Params{Days: "M"}), section))
}
