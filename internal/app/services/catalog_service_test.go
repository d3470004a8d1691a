package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/app/search"
	"github.com/kaustack/catalog/internal/pkg/apperrors"
)

// memStore is an in-memory stand-in for the repository layer. Filtering
// reuses the same clause evaluation the SQL renderer mirrors, so service
// behavior is exercised without a database.
type memStore struct {
	terms       []*models.Term
	courses     []*models.Course
	instructors []*models.Instructor
	sections    []*models.Section
	schedules   []*models.Schedule
}

func (m *memStore) GetByTermCode(_ context.Context, termCode string) (*models.Term, error) {
	for _, term := range m.terms {
		if term.TermCode == termCode {
			return term, nil
		}
	}
	return nil, fmt.Errorf("term %q: %w", termCode, apperrors.ErrTermNotFound)
}

func (m *memStore) GetLatest(_ context.Context) (*models.Term, error) {
	var latest *models.Term
	for _, term := range m.terms {
		if latest == nil || term.UpdatedAt.After(latest.UpdatedAt) {
			latest = term
		}
	}
	if latest == nil {
		return nil, apperrors.ErrTermNotFound
	}
	return latest, nil
}

func (m *memStore) GetByID(_ context.Context, id string) (*models.Course, error) {
	for _, course := range m.courses {
		if course.ID == id {
			return course, nil
		}
	}
	return nil, fmt.Errorf("course %q: %w", id, apperrors.ErrCourseNotFound)
}

type memInstructorStore struct{ store *memStore }

func (m memInstructorStore) GetByID(_ context.Context, id string) (*models.Instructor, error) {
	for _, instructor := range m.store.instructors {
		if instructor.ID == id {
			return instructor, nil
		}
	}
	return nil, fmt.Errorf("instructor %q: %w", id, apperrors.ErrInstructorNotFound)
}

func (m memInstructorStore) ListByTerm(_ context.Context, termID, nameFilter string) ([]*models.Instructor, error) {
	seen := make(map[string]bool)
	var result []*models.Instructor
	for _, section := range m.store.sections {
		if section.TermID != termID || section.Instructor == nil || seen[section.Instructor.ID] {
			continue
		}
		if nameFilter != "" && !strings.Contains(strings.ToLower(section.Instructor.Name), strings.ToLower(nameFilter)) {
			continue
		}
		seen[section.Instructor.ID] = true
		result = append(result, section.Instructor)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *memStore) Search(ctx context.Context, termID string, clauses []search.Clause, offset, limit int) ([]*models.Section, int, error) {
	matches, err := m.FindByTerm(ctx, termID, clauses)
	if err != nil {
		return nil, 0, err
	}
	total := len(matches)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (m *memStore) FindByTerm(_ context.Context, termID string, clauses []search.Clause) ([]*models.Section, error) {
	var matches []*models.Section
	for _, section := range m.sections {
		if section.TermID == termID && search.Match(clauses, section) {
			matches = append(matches, section)
		}
	}
	sortSections(matches)
	return matches, nil
}

func (m *memStore) FindByCourse(ctx context.Context, termID, courseID string, clauses []search.Clause) ([]*models.Section, error) {
	all, err := m.FindByTerm(ctx, termID, clauses)
	if err != nil {
		return nil, err
	}
	var matches []*models.Section
	for _, section := range all {
		if section.CourseID == courseID {
			matches = append(matches, section)
		}
	}
	return matches, nil
}

func (m *memStore) FindByInstructor(_ context.Context, termID, instructorID string) ([]*models.Section, error) {
	var matches []*models.Section
	for _, section := range m.sections {
		if section.TermID != termID {
			continue
		}
		if section.InstructorID != nil && *section.InstructorID == instructorID {
			matches = append(matches, section)
			continue
		}
		for _, meeting := range section.Schedules {
			if meeting.InstructorID != nil && *meeting.InstructorID == instructorID {
				matches = append(matches, section)
				break
			}
		}
	}
	sortSections(matches)
	return matches, nil
}

func (m *memStore) GetBySectionIDs(_ context.Context, sectionIDs []string) ([]*models.Schedule, error) {
	wanted := make(map[string]bool, len(sectionIDs))
	for _, id := range sectionIDs {
		wanted[id] = true
	}
	var result []*models.Schedule
	for _, schedule := range m.schedules {
		if wanted[schedule.SectionID] {
			result = append(result, schedule)
		}
	}
	return result, nil
}

func sortSections(sections []*models.Section) {
	sort.Slice(sections, func(i, j int) bool {
		a, b := sections[i], sections[j]
		if a.Course.Code != b.Course.Code {
			return a.Course.Code < b.Course.Code
		}
		if a.Course.Number != b.Course.Number {
			return a.Course.Number < b.Course.Number
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.ID < b.ID
	})
}

func ptr[T any](v T) *T { return &v }

// fixtureService builds a catalog over one term: CPCS-203 with two sections
// (one taught by Sara on MW mornings, one by Omar on TR middays) and
// MATH-101 with a single section without an instructor.
func fixtureService() (*CatalogService, *memStore) {
	term := &models.Term{ID: "t1", Name: "Fall 2025", TermCode: "202510", UpdatedAt: time.Now()}

	cpcs := &models.Course{ID: "crs-1", Code: "CPCS", Number: "203", Title: "Programming II"}
	math := &models.Course{ID: "crs-2", Code: "MATH", Number: "101", Title: "Calculus I"}

	sara := &models.Instructor{ID: "inst-1", Name: "Sara Ahmed", Email: "sahmed@kau.edu.sa"}
	omar := &models.Instructor{ID: "inst-2", Name: "Omar Hassan"}

	sec01 := &models.Section{
		ID: "sec-01", CRN: 100, TermID: "t1", CourseID: "crs-1",
		InstructorID: ptr("inst-1"), Code: "01", Branch: "main campus طلاب",
		Course: cpcs, Instructor: sara,
	}
	sec02 := &models.Section{
		ID: "sec-02", CRN: 101, TermID: "t1", CourseID: "crs-1",
		InstructorID: ptr("inst-2"), Code: "02", Branch: "main campus طالبات",
		Course: cpcs, Instructor: omar,
	}
	sec03 := &models.Section{
		ID: "sec-03", CRN: 102, TermID: "t1", CourseID: "crs-2",
		Code: "01", Branch: "main campus طلاب",
		Course: math,
	}

	meet01 := &models.Schedule{
		ID: "m1", SectionID: "sec-01", InstructorID: ptr("inst-1"), Instructor: sara,
		Type: "Lecture", StartTime: ptr(480), EndTime: ptr(555),
		RawTime: "08:00 AM - 09:15 AM", Days: "MW", Location: "B21-101",
	}
	meet02 := &models.Schedule{
		ID: "m2", SectionID: "sec-02", InstructorID: ptr("inst-2"), Instructor: omar,
		Type: "Lecture", StartTime: ptr(600), EndTime: ptr(675),
		RawTime: "10:00 AM - 11:15 AM", Days: "TR", Location: "B21-102",
	}
	sec01.Schedules = []*models.Schedule{meet01}
	sec02.Schedules = []*models.Schedule{meet02}

	store := &memStore{
		terms:       []*models.Term{term},
		courses:     []*models.Course{cpcs, math},
		instructors: []*models.Instructor{sara, omar},
		sections:    []*models.Section{sec01, sec02, sec03},
		schedules:   []*models.Schedule{meet01, meet02},
	}

	service := NewCatalogService(store, store, memInstructorStore{store}, store, store)
	return service, store
}

func TestSearchReturnsJoinedPage(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	results, pagination, err := service.Search(context.Background(), search.Params{TermCode: "202510", Page: 1, Limit: 20})
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, int64(3), pagination.TotalItems)
	assert.Equal(t, 1, pagination.TotalPages)

	first := results[0]
	assert.Equal(t, "CPCS", first.CourseCode)
	assert.Equal(t, "01", first.SectionCode)
	assert.Equal(t, "Fall 2025", first.TermName)
	assert.Equal(t, "Sara Ahmed", first.InstructorName)
	require.Len(t, first.Schedules, 1)
	assert.Equal(t, "MW", first.Schedules[0].Days)
	assert.Equal(t, "08:00 AM - 09:15 AM", first.Schedules[0].Time)

	// The section without an instructor falls back to the TBA label.
	last := results[2]
	assert.Equal(t, "MATH", last.CourseCode)
	assert.Equal(t, "TBA", last.InstructorName)
}

func TestSearchResolvesLatestTermWhenCodeOmitted(t *testing.T) {
	t.Parallel()
	service, store := fixtureService()
	store.terms = append(store.terms, &models.Term{
		ID: "t0", Name: "Spring 2025", TermCode: "202420",
		UpdatedAt: time.Now().Add(-24 * time.Hour),
	})

	results, _, err := service.Search(context.Background(), search.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Fall 2025", results[0].TermName)
}

func TestSearchUnknownTermIsNotFound(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	_, _, err := service.Search(context.Background(), search.Params{TermCode: "199910", Page: 1, Limit: 20})
	assert.ErrorIs(t, err, apperrors.ErrTermNotFound)
}

func TestSearchAppliesScheduleFilters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		params   search.Params
		wantCRNs []int
	}{
		{name: "monday only", params: search.Params{Days: "M"}, wantCRNs: []int{100}},
		{name: "late start", params: search.Params{StartTime: "09:00"}, wantCRNs: []int{101}},
		{name: "instructor substring", params: search.Params{Instructor: "sara"}, wantCRNs: []int{100}},
		{name: "female cohort", params: search.Params{Gender: "female"}, wantCRNs: []int{101}},
		{name: "free text course", params: search.Params{Query: "cpcs-203"}, wantCRNs: []int{100, 101}},
		{name: "crn filter", params: search.Params{CRN: "102"}, wantCRNs: []int{102}},
		{name: "bad crn ignored", params: search.Params{CRN: "abc"}, wantCRNs: []int{100, 101, 102}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			service, _ := fixtureService()
			params := tt.params
			params.TermCode = "202510"
			params.Page = 1
			params.Limit = 20

			results, _, err := service.Search(context.Background(), params)
			require.NoError(t, err)

			crns := make([]int, 0, len(results))
			for _, r := range results {
				crns = append(crns, r.CRN)
			}
			assert.Equal(t, tt.wantCRNs, crns)
		})
	}
}

func TestSearchPaginatesDeterministically(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	page1, pagination, err := service.Search(context.Background(), search.Params{TermCode: "202510", Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.Equal(t, int64(3), pagination.TotalItems)

	page2, _, err := service.Search(context.Background(), search.Params{TermCode: "202510", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "MATH", page2[0].CourseCode)
}

func TestGetCoursesListsDistinct(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	courses, err := service.GetCourses(context.Background(), "202510", "")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CPCS-203", courses[0].FullCode)
	assert.Equal(t, "MATH-101", courses[1].FullCode)

	filtered, err := service.GetCourses(context.Background(), "202510", "math101")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Calculus I", filtered[0].Title)
}

func TestGetCoursesQueryIgnoresSectionFields(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	// "100" is sec-01's CRN; a course listing must not surface CPCS-203
	// through one of its sections.
	courses, err := service.GetCourses(context.Background(), "202510", "100")
	require.NoError(t, err)
	assert.Empty(t, courses)

	byTitle, err := service.GetCourses(context.Background(), "202510", "calculus")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "MATH-101", byTitle[0].FullCode)
}

func TestGetGroupedSections(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	grouped, err := service.GetGroupedSections(context.Background(), "202510", "", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"CPCS-203": {"01", "02"},
		"MATH-101": {"01"},
	}, grouped)

	males, err := service.GetGroupedSections(context.Background(), "202510", "", "", "male", "")
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"CPCS-203": {"01"},
		"MATH-101": {"01"},
	}, males)
}

func TestGetSectionsByCourse(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	sections, err := service.GetSectionsByCourse(context.Background(), "202510", "crs-1", "")
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "01", sections[0].SectionCode)
	require.Len(t, sections[0].Schedules, 1)

	_, err = service.GetSectionsByCourse(context.Background(), "202510", "crs-missing", "")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestGetInstructorsSortedByName(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	instructors, err := service.GetInstructors(context.Background(), "202510", "")
	require.NoError(t, err)
	require.Len(t, instructors, 2)
	assert.Equal(t, "Omar Hassan", instructors[0].Name)
	assert.Equal(t, "Sara Ahmed", instructors[1].Name)

	filtered, err := service.GetInstructors(context.Background(), "202510", "ahmed")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Sara Ahmed", filtered[0].Name)
}

func TestGetInstructorHierarchy(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	hierarchy, err := service.GetInstructorHierarchy(context.Background(), "202510", "sara")
	require.NoError(t, err)
	require.Len(t, hierarchy, 1)

	entry := hierarchy[0]
	assert.Equal(t, "Sara Ahmed", entry.Name)
	require.Len(t, entry.Courses, 1)
	assert.Equal(t, "CPCS-203", entry.Courses[0].CourseLabel)
	assert.Equal(t, "Programming II", entry.Courses[0].CourseTitle)
	assert.Equal(t, []string{"01"}, entry.Courses[0].Sections)
}

func TestGetInstructorDetails(t *testing.T) {
	t.Parallel()
	service, _ := fixtureService()

	details, err := service.GetInstructorDetails(context.Background(), "inst-1", "202510")
	require.NoError(t, err)

	assert.Equal(t, "Sara Ahmed", details.InstructorName)
	assert.Equal(t, "202510", details.Term)
	require.Contains(t, details.Schedule, "CPCS-203")
	meetings := details.Schedule["CPCS-203"]
	require.Len(t, meetings, 1)
	assert.Equal(t, "01", meetings[0].SectionCode)
	assert.Equal(t, 100, meetings[0].CRN)
	assert.Equal(t, "MW", meetings[0].Days)
	assert.Equal(t, "B21-101", meetings[0].Location)

	_, err = service.GetInstructorDetails(context.Background(), "inst-missing", "202510")
	assert.ErrorIs(t, err, apperrors.ErrInstructorNotFound)
}

func TestGetInstructorDetailsWithoutSectionsIsNotFound(t *testing.T) {
	t.Parallel()
	service, store := fixtureService()
	store.instructors = append(store.instructors, &models.Instructor{ID: "inst-3", Name: "Nora Saleh"})

	// Known instructor, but teaching nothing in the resolved term.
	_, err := service.GetInstructorDetails(context.Background(), "inst-3", "202510")
	assert.ErrorIs(t, err, apperrors.ErrInstructorNotFound)
}
