package sync

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaustack/catalog/internal/app/feed"
	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/pkg/apperrors"
)

func sampleCoursesDocument() *feed.CoursesDocument {
	credits := 3
	start := 480
	end := 555
	return &feed.CoursesDocument{
		Status:   feed.StatusSuccess,
		TermName: "Fall 2025",
		TermID:   "202510",
		Data: []feed.CourseRecord{
			{
				ID:           "feed-c1",
				CourseCode:   "CPCS",
				CourseNumber: "203",
				Title:        "Programming II",
				Sections: []feed.SectionRecord{
					{
						ID:                "sec-100",
						CRN:               json.Number("40211"),
						InstructorID:      "inst-1",
						Code:              "01",
						Branch:            "main",
						ScheduleType:      "Lecture",
						InstructionMethod: "In person",
						Level:             "Undergraduate",
						Credits:           &credits,
						CreatedAt:         "2025-08-01T10:00:00Z",
						UpdatedAt:         "2025-08-02T10:00:00Z",
						Schedules: []feed.ScheduleRecord{
							{Type: "Lecture", StartTime: &start, EndTime: &end, RawTime: "08:00 AM - 09:15 AM", Days: "MW", Location: "B21-101", DateRange: "08/24 - 12/11"},
						},
					},
				},
			},
		},
	}
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Courses:     map[string]*models.Course{},
		Instructors: map[string]*models.Instructor{},
		Sections:    map[string]*models.Section{},
	}
}

// snapshotAfter applies a plan to an empty-store view so a second planning
// round can be diffed against the state the first round would have produced.
func snapshotAfter(plan *CoursePlan) Snapshot {
	snap := emptySnapshot()
	snap.Term = plan.Term
	for _, c := range plan.InsertCourses {
		snap.Courses[c.Key()] = c
	}
	for _, i := range plan.InsertInstructors {
		snap.Instructors[i.ID] = i
	}
	for _, s := range plan.InsertSections {
		copied := *s
		copied.Schedules = plan.ReplaceSchedules[s.ID]
		snap.Sections[s.ID] = &copied
	}
	return snap
}

func TestBuildCoursePlanFirstRunInsertsEverything(t *testing.T) {
	t.Parallel()

	plan, err := BuildCoursePlan(sampleCoursesDocument(), emptySnapshot())
	require.NoError(t, err)

	assert.True(t, plan.TermCreated)
	assert.Equal(t, "202510", plan.Term.TermCode)
	assert.Equal(t, "Fall 2025", plan.Term.Name)

	require.Len(t, plan.InsertCourses, 1)
	course := plan.InsertCourses[0]
	assert.Equal(t, "CPCS", course.Code)
	assert.Equal(t, "203", course.Number)
	require.NotNil(t, course.Level)
	assert.Equal(t, "Undergraduate", *course.Level)
	require.NotNil(t, course.Credits)
	assert.Equal(t, 3, *course.Credits)

	require.Len(t, plan.InsertInstructors, 1)
	assert.Equal(t, "inst-1", plan.InsertInstructors[0].ID)
	assert.Equal(t, "inst-1", plan.InsertInstructors[0].Name, "placeholder name is the id")

	require.Len(t, plan.InsertSections, 1)
	section := plan.InsertSections[0]
	assert.Equal(t, "sec-100", section.ID)
	assert.Equal(t, 40211, section.CRN)
	assert.Equal(t, course.ID, section.CourseID)
	assert.Equal(t, plan.Term.ID, section.TermID)
	require.NotNil(t, section.CreatedAt)

	require.Contains(t, plan.ReplaceSchedules, "sec-100")
	require.Len(t, plan.ReplaceSchedules["sec-100"], 1)
	meeting := plan.ReplaceSchedules["sec-100"][0]
	assert.Equal(t, "MW", meeting.Days)
	assert.NotEmpty(t, meeting.ID)
	require.NotNil(t, meeting.InstructorID)
	assert.Equal(t, "inst-1", *meeting.InstructorID)

	assert.Empty(t, plan.UpdateCourses)
	assert.Empty(t, plan.UpdateSections)
	assert.Empty(t, plan.Warnings)
}

func TestBuildCoursePlanSecondIdenticalRunIsNoOp(t *testing.T) {
	t.Parallel()

	first, err := BuildCoursePlan(sampleCoursesDocument(), emptySnapshot())
	require.NoError(t, err)

	second, err := BuildCoursePlan(sampleCoursesDocument(), snapshotAfter(first))
	require.NoError(t, err)

	assert.False(t, second.TermCreated)
	assert.Empty(t, second.InsertCourses)
	assert.Empty(t, second.UpdateCourses)
	assert.Empty(t, second.InsertInstructors)
	assert.Empty(t, second.InsertSections)
	assert.Empty(t, second.UpdateSections)
	assert.Empty(t, second.ReplaceSchedules, "unchanged schedule sets are not rebuilt")
}

func TestBuildCoursePlanUpdatesSectionInPlace(t *testing.T) {
	t.Parallel()

	first, err := BuildCoursePlan(sampleCoursesDocument(), emptySnapshot())
	require.NoError(t, err)

	changed := sampleCoursesDocument()
	changed.Data[0].Sections[0].Branch = "women campus"

	second, err := BuildCoursePlan(changed, snapshotAfter(first))
	require.NoError(t, err)

	assert.Empty(t, second.InsertSections, "same id must update, never duplicate")
	require.Len(t, second.UpdateSections, 1)
	assert.Equal(t, "sec-100", second.UpdateSections[0].ID)
	assert.Equal(t, "women campus", second.UpdateSections[0].Branch)
}

func TestBuildCoursePlanReplacesShrunkenScheduleSet(t *testing.T) {
	t.Parallel()

	doc := sampleCoursesDocument()
	extra := doc.Data[0].Sections[0].Schedules[0]
	extra.Days = "TR"
	doc.Data[0].Sections[0].Schedules = append(doc.Data[0].Sections[0].Schedules, extra, extra)

	first, err := BuildCoursePlan(doc, emptySnapshot())
	require.NoError(t, err)
	require.Len(t, first.ReplaceSchedules["sec-100"], 3)

	second, err := BuildCoursePlan(sampleCoursesDocument(), snapshotAfter(first))
	require.NoError(t, err)
	require.Contains(t, second.ReplaceSchedules, "sec-100")
	assert.Len(t, second.ReplaceSchedules["sec-100"], 1)
}

func TestBuildCoursePlanRejectsMalformedRecordsOnly(t *testing.T) {
	t.Parallel()

	doc := sampleCoursesDocument()
	bad := doc.Data[0].Sections[0]
	bad.ID = "sec-bad-crn"
	bad.CRN = json.Number("n/a")
	worse := doc.Data[0].Sections[0]
	worse.ID = "sec-bad-time"
	worse.UpdatedAt = "yesterday"
	doc.Data[0].Sections = append(doc.Data[0].Sections, bad, worse)

	plan, err := BuildCoursePlan(doc, emptySnapshot())
	require.NoError(t, err)

	require.Len(t, plan.InsertSections, 1, "healthy record still proceeds")
	assert.Equal(t, "sec-100", plan.InsertSections[0].ID)

	require.Len(t, plan.Warnings, 2)
	assert.Equal(t, "sec-bad-crn", plan.Warnings[0].RecordID)
	assert.Contains(t, plan.Warnings[0].Reason, "crn")
	assert.Equal(t, "sec-bad-time", plan.Warnings[1].RecordID)
	assert.Contains(t, plan.Warnings[1].Reason, "updatedAt")
}

func TestBuildCoursePlanRejectsDuplicateSectionID(t *testing.T) {
	t.Parallel()

	// A cross-listed section can show up under two course records; planning
	// it twice would double-insert one primary key.
	doc := sampleCoursesDocument()
	crossListed := doc.Data[0]
	crossListed.ID = "feed-c2"
	crossListed.CourseCode = "CPIT"
	crossListed.CourseNumber = "250"
	crossListed.Title = "Software Engineering I"
	doc.Data = append(doc.Data, crossListed)

	plan, err := BuildCoursePlan(doc, emptySnapshot())
	require.NoError(t, err)

	require.Len(t, plan.InsertSections, 1, "one insert per section id")
	assert.Equal(t, "sec-100", plan.InsertSections[0].ID)
	assert.Len(t, plan.ReplaceSchedules, 1)

	require.Len(t, plan.Warnings, 1)
	assert.Equal(t, "sec-100", plan.Warnings[0].RecordID)
	assert.Contains(t, plan.Warnings[0].Reason, "duplicate section id")

	// Both course records are still planned, only the repeated section is
	// dropped.
	assert.Len(t, plan.InsertCourses, 2)
}

func TestBuildCoursePlanSkipConditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  *feed.CoursesDocument
	}{
		{name: "absent document", doc: nil},
		{name: "failed status", doc: &feed.CoursesDocument{Status: "error", TermID: "202510", Data: []feed.CourseRecord{{}}}},
		{name: "empty data", doc: &feed.CoursesDocument{Status: feed.StatusSuccess, TermID: "202510"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := BuildCoursePlan(tt.doc, emptySnapshot())
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrSyncSkipped)
		})
	}
}

func TestBuildCoursePlanSectionWithoutInstructor(t *testing.T) {
	t.Parallel()

	doc := sampleCoursesDocument()
	doc.Data[0].Sections[0].InstructorID = ""

	plan, err := BuildCoursePlan(doc, emptySnapshot())
	require.NoError(t, err)

	assert.Empty(t, plan.InsertInstructors)
	require.Len(t, plan.InsertSections, 1)
	assert.Nil(t, plan.InsertSections[0].InstructorID)
}

func TestBuildInstructorPlanEnrichesAndLinks(t *testing.T) {
	t.Parallel()

	placeholder := &models.Instructor{ID: "inst-1", Name: "inst-1"}
	linked := "inst-1"
	sections := map[string]*models.Section{
		"sec-100": {ID: "sec-100", InstructorID: &linked},
		"sec-200": {ID: "sec-200"},
	}

	doc := &feed.InstructorsDocument{
		Status: feed.StatusSuccess,
		TermID: "202510",
		Data: []feed.InstructorRecord{
			{
				ID:    "inst-1",
				Name:  "Sara Ahmed",
				Email: "sahmed@kau.edu.sa",
				Sections: []feed.SectionRef{
					{ID: "sec-100"},
					{ID: "sec-200"},
					{ID: "sec-other-term"},
				},
			},
			{ID: "inst-2", Name: "Omar Hassan", Sections: []feed.SectionRef{{ID: "sec-unknown"}}},
		},
	}

	plan, err := BuildInstructorPlan(doc, map[string]*models.Instructor{"inst-1": placeholder}, sections)
	require.NoError(t, err)

	require.Len(t, plan.UpdateInstructors, 1)
	assert.Equal(t, "Sara Ahmed", plan.UpdateInstructors[0].Name)
	assert.Equal(t, "sahmed@kau.edu.sa", plan.UpdateInstructors[0].Email)

	require.Len(t, plan.InsertInstructors, 1)
	assert.Equal(t, "inst-2", plan.InsertInstructors[0].ID)

	// sec-100 already points at inst-1, sec-other-term is outside the
	// loaded term; only sec-200 needs a link.
	require.Len(t, plan.LinkSections, 1)
	assert.Equal(t, SectionLink{SectionID: "sec-200", InstructorID: "inst-1"}, plan.LinkSections[0])
}

func TestBuildInstructorPlanSecondIdenticalRunIsNoOp(t *testing.T) {
	t.Parallel()

	doc := &feed.InstructorsDocument{
		Status: feed.StatusSuccess,
		TermID: "202510",
		Data: []feed.InstructorRecord{
			{ID: "inst-1", Name: "Sara Ahmed", Email: "sahmed@kau.edu.sa", Sections: []feed.SectionRef{{ID: "sec-100"}}},
		},
	}
	linked := "inst-1"
	instructors := map[string]*models.Instructor{
		"inst-1": {ID: "inst-1", Name: "Sara Ahmed", Email: "sahmed@kau.edu.sa"},
	}
	sections := map[string]*models.Section{
		"sec-100": {ID: "sec-100", InstructorID: &linked},
	}

	plan, err := BuildInstructorPlan(doc, instructors, sections)
	require.NoError(t, err)
	assert.Empty(t, plan.InsertInstructors)
	assert.Empty(t, plan.UpdateInstructors)
	assert.Empty(t, plan.LinkSections)
}

func TestBuildInstructorPlanSkipConditions(t *testing.T) {
	t.Parallel()

	_, err := BuildInstructorPlan(nil, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrSyncSkipped)

	_, err = BuildInstructorPlan(&feed.InstructorsDocument{Status: "pending", Data: []feed.InstructorRecord{{ID: "x"}}}, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrSyncSkipped)

	_, err = BuildInstructorPlan(&feed.InstructorsDocument{Status: feed.StatusSuccess}, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrSyncSkipped)
}
