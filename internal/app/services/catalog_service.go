package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/app/models/dto"
	"github.com/kaustack/catalog/internal/app/search"
	"github.com/kaustack/catalog/internal/pkg/apperrors"
	"github.com/kaustack/catalog/internal/pkg/helpers"
)

// CatalogService serves the read side of the catalog: section search with
// composable filters, course and instructor listings, and per-instructor
// schedule views. It never mutates the store.
type CatalogService struct {
	terms       TermStore
	courses     CourseStore
	instructors InstructorStore
	sections    SectionStore
	schedules   ScheduleStore
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(terms TermStore, courses CourseStore, instructors InstructorStore, sections SectionStore, schedules ScheduleStore) *CatalogService {
	return &CatalogService{
		terms:       terms,
		courses:     courses,
		instructors: instructors,
		sections:    sections,
		schedules:   schedules,
	}
}

// resolveTerm maps an optional term code to a term: an explicit code must
// exist, an absent one falls back to the most recently synchronized term.
// Side-effect free, every read entry point goes through it.
func (s *CatalogService) resolveTerm(ctx context.Context, termCode string) (*models.Term, error) {
	if termCode != "" {
		return s.terms.GetByTermCode(ctx, termCode)
	}
	return s.terms.GetLatest(ctx)
}

// Search runs one paginated section search. Filters that fail to parse are
// dropped rather than rejected, per the filter contract.
func (s *CatalogService) Search(ctx context.Context, params search.Params) ([]dto.SectionResponse, dto.PaginationInfo, error) {
	term, err := s.resolveTerm(ctx, params.TermCode)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	offset, limit := helpers.CalculateOffsetLimit(params.Page, params.Limit)
	clauses := search.BuildClauses(params)

	sections, total, err := s.sections.Search(ctx, term.ID, clauses, int(offset), limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, fmt.Errorf("failed to search sections: %w", err)
	}

	if err := s.attachSchedules(ctx, sections); err != nil {
		return nil, dto.PaginationInfo{}, err
	}

	responses := make([]dto.SectionResponse, 0, len(sections))
	for _, section := range sections {
		responses = append(responses, toSectionResponse(section, term))
	}

	pagination := helpers.NewPaginationInfo(int64(total), params.Page, limit)
	return responses, pagination, nil
}

// GetCourses lists the distinct courses offered in a term, optionally
// narrowed by a free-text query, in course order.
func (s *CatalogService) GetCourses(ctx context.Context, termCode, query string) ([]dto.CourseSummary, error) {
	term, err := s.resolveTerm(ctx, termCode)
	if err != nil {
		return nil, err
	}

	clauses := search.BuildCourseClauses(query)
	sections, err := s.sections.FindByTerm(ctx, term.ID, clauses)
	if err != nil {
		return nil, fmt.Errorf("failed to list term sections: %w", err)
	}

	seen := make(map[string]bool)
	summaries := make([]dto.CourseSummary, 0)
	for _, section := range sections {
		course := section.Course
		if course == nil || seen[course.ID] {
			continue
		}
		seen[course.ID] = true
		summaries = append(summaries, dto.CourseSummary{
			ID:       course.ID,
			Code:     course.Code,
			Number:   course.Number,
			Title:    course.Title,
			FullCode: course.FullCode(),
		})
	}

	return summaries, nil
}

// GetGroupedSections maps each matching course label to the sorted list of
// its matching section codes.
func (s *CatalogService) GetGroupedSections(ctx context.Context, termCode, query, sectionCode, gender, branch string) (map[string][]string, error) {
	term, err := s.resolveTerm(ctx, termCode)
	if err != nil {
		return nil, err
	}

	clauses := search.BuildClauses(search.Params{
		Query:   query,
		Section: sectionCode,
		Gender:  gender,
		Branch:  branch,
	})
	sections, err := s.sections.FindByTerm(ctx, term.ID, clauses)
	if err != nil {
		return nil, fmt.Errorf("failed to list term sections: %w", err)
	}

	grouped := make(map[string][]string)
	for _, section := range sections {
		if section.Course == nil {
			continue
		}
		label := section.Course.FullCode()
		grouped[label] = append(grouped[label], section.Code)
	}
	for _, codes := range grouped {
		sort.Strings(codes)
	}

	return grouped, nil
}

// GetSectionsByCourse lists one course's sections in a term
func (s *CatalogService) GetSectionsByCourse(ctx context.Context, termCode, courseID, gender string) ([]dto.SectionResponse, error) {
	term, err := s.resolveTerm(ctx, termCode)
	if err != nil {
		return nil, err
	}

	if _, err := s.courses.GetByID(ctx, courseID); err != nil {
		return nil, err
	}

	clauses := search.BuildClauses(search.Params{Gender: gender})
	sections, err := s.sections.FindByCourse(ctx, term.ID, courseID, clauses)
	if err != nil {
		return nil, fmt.Errorf("failed to list course sections: %w", err)
	}

	if err := s.attachSchedules(ctx, sections); err != nil {
		return nil, err
	}

	responses := make([]dto.SectionResponse, 0, len(sections))
	for _, section := range sections {
		responses = append(responses, toSectionResponse(section, term))
	}

	return responses, nil
}

// GetInstructors lists the distinct instructors teaching in a term, sorted
// by name, optionally filtered by a name substring.
func (s *CatalogService) GetInstructors(ctx context.Context, termCode, query string) ([]dto.InstructorSummary, error) {
	term, err := s.resolveTerm(ctx, termCode)
	if err != nil {
		return nil, err
	}

	instructors, err := s.instructors.ListByTerm(ctx, term.ID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}

	summaries := make([]dto.InstructorSummary, 0, len(instructors))
	for _, instructor := range instructors {
		summaries = append(summaries, dto.InstructorSummary{
			ID:    instructor.ID,
			Name:  instructor.Name,
			Email: instructor.Email,
		})
	}

	return summaries, nil
}

// GetInstructorHierarchy lists instructors with their sections grouped by
// course. Instructors arrive name-sorted from the store; course groups are
// sorted by label and section codes within a group are sorted too.
func (s *CatalogService) GetInstructorHierarchy(ctx context.Context, termCode, query string) ([]dto.InstructorHierarchy, error) {
	term, err := s.resolveTerm(ctx, termCode)
	if err != nil {
		return nil, err
	}

	instructors, err := s.instructors.ListByTerm(ctx, term.ID, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list instructors: %w", err)
	}

	hierarchy := make([]dto.InstructorHierarchy, 0, len(instructors))
	for _, instructor := range instructors {
		sections, err := s.sections.FindByInstructor(ctx, term.ID, instructor.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list instructor sections: %w", err)
		}
		hierarchy = append(hierarchy, dto.InstructorHierarchy{
			Name:    instructor.Name,
			Email:   instructor.Email,
			Courses: groupSectionsByCourse(sections),
		})
	}

	return hierarchy, nil
}

// GetInstructorDetails builds the per-course meeting view of one instructor
// in a term.
func (s *CatalogService) GetInstructorDetails(ctx context.Context, instructorID, termCode string) (*dto.InstructorDetails, error) {
	instructor, err := s.instructors.GetByID(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	term, err := s.resolveTerm(ctx, termCode)
	if err != nil {
		return nil, err
	}

	sections, err := s.sections.FindByInstructor(ctx, term.ID, instructor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list instructor sections: %w", err)
	}
	if len(sections) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrInstructorNotFound,
			fmt.Sprintf("instructor %q teaches no sections in term %s", instructorID, term.TermCode))
	}

	if err := s.attachSchedules(ctx, sections); err != nil {
		return nil, err
	}

	schedule := make(map[string][]dto.InstructorMeeting)
	for _, section := range sections {
		if section.Course == nil {
			continue
		}
		label := section.Course.FullCode()
		for _, meeting := range section.Schedules {
			schedule[label] = append(schedule[label], dto.InstructorMeeting{
				SectionCode: section.Code,
				CRN:         section.CRN,
				Days:        meeting.Days,
				Time:        meeting.RawTime,
				Location:    meeting.Location,
			})
		}
	}

	return &dto.InstructorDetails{
		InstructorName: instructor.Name,
		Email:          instructor.Email,
		Term:           term.TermCode,
		Schedule:       schedule,
	}, nil
}

// GetCourseByID resolves a single course
func (s *CatalogService) GetCourseByID(ctx context.Context, courseID string) (*dto.CourseSummary, error) {
	course, err := s.courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return &dto.CourseSummary{
		ID:       course.ID,
		Code:     course.Code,
		Number:   course.Number,
		Title:    course.Title,
		FullCode: course.FullCode(),
	}, nil
}

// attachSchedules loads and distributes the meetings of the given sections
func (s *CatalogService) attachSchedules(ctx context.Context, sections []*models.Section) error {
	if len(sections) == 0 {
		return nil
	}

	ids := make([]string, 0, len(sections))
	byID := make(map[string]*models.Section, len(sections))
	for _, section := range sections {
		section.Schedules = nil
		ids = append(ids, section.ID)
		byID[section.ID] = section
	}

	schedules, err := s.schedules.GetBySectionIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for _, schedule := range schedules {
		if section, ok := byID[schedule.SectionID]; ok {
			section.Schedules = append(section.Schedules, schedule)
		}
	}

	return nil
}

func groupSectionsByCourse(sections []*models.Section) []dto.InstructorCourseGroup {
	byLabel := make(map[string]*dto.InstructorCourseGroup)
	labels := make([]string, 0)
	for _, section := range sections {
		if section.Course == nil {
			continue
		}
		label := section.Course.FullCode()
		group, ok := byLabel[label]
		if !ok {
			group = &dto.InstructorCourseGroup{
				CourseLabel: label,
				CourseTitle: section.Course.Title,
			}
			byLabel[label] = group
			labels = append(labels, label)
		}
		group.Sections = append(group.Sections, section.Code)
	}

	sort.Strings(labels)
	groups := make([]dto.InstructorCourseGroup, 0, len(labels))
	for _, label := range labels {
		group := byLabel[label]
		sort.Strings(group.Sections)
		groups = append(groups, *group)
	}

	return groups
}
