package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/app/models/dto"
	"github.com/kaustack/catalog/internal/app/repositories"
	catalogsync "github.com/kaustack/catalog/internal/app/sync"
	"github.com/kaustack/catalog/internal/db"
	"github.com/kaustack/catalog/internal/pkg/apperrors"
	"github.com/kaustack/catalog/internal/pkg/logger"
)

// SyncService runs the two feed synchronization phases. Each phase fetches
// its feed document, preloads the relevant store state, builds a mutation
// plan, and applies it inside one transaction: either the whole phase
// commits or the store keeps its pre-phase state.
type SyncService struct {
	pool *pgxpool.Pool
	feed FeedClient
}

// NewSyncService creates a new sync service instance
func NewSyncService(pool *pgxpool.Pool, feedClient FeedClient) *SyncService {
	return &SyncService{pool: pool, feed: feedClient}
}

// SyncCourses runs the course phase: terms, courses, sections and schedules. A feed
// that is unavailable, unsuccessful or empty skips the phase without
// touching the store; the returned report carries the skip reason.
func (s *SyncService) SyncCourses(ctx context.Context) (*dto.SyncReport, error) {
	started := time.Now()
	report := &dto.SyncReport{Phase: "courses"}

	doc, err := s.feed.FetchCourses(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Course feed unavailable, skipping sync")
		report.Skipped = fmt.Sprintf("feed unavailable: %v", err)
		report.DurationMS = time.Since(started).Milliseconds()
		return report, nil
	}

	var plan *catalogsync.CoursePlan
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		repos := repositories.NewRepositories(tx)

		snap, err := loadSnapshot(ctx, repos, doc.TermID)
		if err != nil {
			return err
		}

		plan, err = catalogsync.BuildCoursePlan(doc, snap)
		if err != nil {
			return err
		}

		return applyCoursePlan(ctx, repos, plan)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrSyncSkipped) {
			logger.Warn().Err(err).Msg("Course sync skipped")
			report.Skipped = err.Error()
			report.DurationMS = time.Since(started).Milliseconds()
			return report, nil
		}
		return nil, fmt.Errorf("course sync failed: %w", err)
	}

	report.TermCode = plan.Term.TermCode
	report.Instructors = len(plan.InsertInstructors)
	report.Courses = len(plan.InsertCourses) + len(plan.UpdateCourses)
	report.Sections = len(plan.InsertSections) + len(plan.UpdateSections)
	for _, schedules := range plan.ReplaceSchedules {
		report.Schedules += len(schedules)
	}
	for _, warning := range plan.Warnings {
		logger.Warn().Str("record", warning.RecordID).Str("reason", warning.Reason).Msg("Feed record rejected")
		report.Rejected = append(report.Rejected, warning.String())
	}
	report.DurationMS = time.Since(started).Milliseconds()

	logger.Info().
		Str("termCode", report.TermCode).
		Int("courses", report.Courses).
		Int("sections", report.Sections).
		Int("schedules", report.Schedules).
		Int("rejected", len(report.Rejected)).
		Int64("durationMs", report.DurationMS).
		Msg("Course sync completed")

	return report, nil
}

// SyncInstructors runs the enrichment phase: instructor identities and section linkage.
// Section references outside the feed's term are skipped silently.
func (s *SyncService) SyncInstructors(ctx context.Context) (*dto.SyncReport, error) {
	started := time.Now()
	report := &dto.SyncReport{Phase: "instructors"}

	doc, err := s.feed.FetchInstructors(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Instructor feed unavailable, skipping sync")
		report.Skipped = fmt.Sprintf("feed unavailable: %v", err)
		report.DurationMS = time.Since(started).Milliseconds()
		return report, nil
	}

	var plan *catalogsync.InstructorPlan
	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		repos := repositories.NewRepositories(tx)

		instructors, err := loadInstructorMap(ctx, repos)
		if err != nil {
			return err
		}
		sections, err := loadSectionMap(ctx, repos, doc.TermID)
		if err != nil {
			return err
		}

		plan, err = catalogsync.BuildInstructorPlan(doc, instructors, sections)
		if err != nil {
			return err
		}

		if err := repos.InstructorRepository.InsertMany(ctx, plan.InsertInstructors); err != nil {
			return err
		}
		if err := repos.InstructorRepository.UpdateMany(ctx, plan.UpdateInstructors); err != nil {
			return err
		}

		links := make(map[string]string, len(plan.LinkSections))
		for _, link := range plan.LinkSections {
			links[link.SectionID] = link.InstructorID
		}
		return repos.SectionRepository.LinkInstructors(ctx, links)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrSyncSkipped) {
			logger.Warn().Err(err).Msg("Instructor sync skipped")
			report.Skipped = err.Error()
			report.DurationMS = time.Since(started).Milliseconds()
			return report, nil
		}
		return nil, fmt.Errorf("instructor sync failed: %w", err)
	}

	report.TermCode = doc.TermID
	report.Instructors = len(plan.InsertInstructors) + len(plan.UpdateInstructors)
	report.Sections = len(plan.LinkSections)
	for _, warning := range plan.Warnings {
		logger.Warn().Str("record", warning.RecordID).Str("reason", warning.Reason).Msg("Feed record rejected")
		report.Rejected = append(report.Rejected, warning.String())
	}
	report.DurationMS = time.Since(started).Milliseconds()

	logger.Info().
		Str("termCode", report.TermCode).
		Int("instructors", report.Instructors).
		Int("linkedSections", report.Sections).
		Int64("durationMs", report.DurationMS).
		Msg("Instructor sync completed")

	return report, nil
}

// loadSnapshot preloads the store state the course phase diffs against: the
// term by its code, every course and instructor, and the term's sections
// with their current schedules.
func loadSnapshot(ctx context.Context, repos *repositories.Repositories, termCode string) (catalogsync.Snapshot, error) {
	snap := catalogsync.Snapshot{
		Courses:     make(map[string]*models.Course),
		Instructors: make(map[string]*models.Instructor),
		Sections:    make(map[string]*models.Section),
	}

	term, err := repos.TermRepository.GetByTermCode(ctx, termCode)
	if err != nil && !errors.Is(err, apperrors.ErrTermNotFound) {
		return snap, err
	}
	snap.Term = term

	courses, err := repos.CourseRepository.GetAll(ctx)
	if err != nil {
		return snap, err
	}
	for _, course := range courses {
		snap.Courses[course.Key()] = course
	}

	instructors, err := loadInstructorMap(ctx, repos)
	if err != nil {
		return snap, err
	}
	snap.Instructors = instructors

	if term == nil {
		return snap, nil
	}

	sections, err := repos.SectionRepository.GetByTermID(ctx, term.ID)
	if err != nil {
		return snap, err
	}
	sectionIDs := make([]string, 0, len(sections))
	for _, section := range sections {
		snap.Sections[section.ID] = section
		sectionIDs = append(sectionIDs, section.ID)
	}

	schedules, err := repos.ScheduleRepository.GetBySectionIDs(ctx, sectionIDs)
	if err != nil {
		return snap, err
	}
	for _, schedule := range schedules {
		if section, ok := snap.Sections[schedule.SectionID]; ok {
			section.Schedules = append(section.Schedules, schedule)
		}
	}

	return snap, nil
}

func loadInstructorMap(ctx context.Context, repos *repositories.Repositories) (map[string]*models.Instructor, error) {
	instructors, err := repos.InstructorRepository.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Instructor, len(instructors))
	for _, instructor := range instructors {
		byID[instructor.ID] = instructor
	}
	return byID, nil
}

func loadSectionMap(ctx context.Context, repos *repositories.Repositories, termCode string) (map[string]*models.Section, error) {
	byID := make(map[string]*models.Section)

	term, err := repos.TermRepository.GetByTermCode(ctx, termCode)
	if err != nil {
		if errors.Is(err, apperrors.ErrTermNotFound) {
			return byID, nil
		}
		return nil, err
	}

	sections, err := repos.SectionRepository.GetByTermID(ctx, term.ID)
	if err != nil {
		return nil, err
	}
	for _, section := range sections {
		byID[section.ID] = section
	}
	return byID, nil
}

// applyCoursePlan persists a course plan in dependency order: term, then
// instructors, courses, sections, and finally the schedule replacements.
func applyCoursePlan(ctx context.Context, repos *repositories.Repositories, plan *catalogsync.CoursePlan) error {
	if err := repos.TermRepository.Upsert(ctx, plan.Term); err != nil {
		return err
	}
	if err := repos.InstructorRepository.InsertMany(ctx, plan.InsertInstructors); err != nil {
		return err
	}
	if err := repos.CourseRepository.InsertMany(ctx, plan.InsertCourses); err != nil {
		return err
	}
	if err := repos.CourseRepository.UpdateMany(ctx, plan.UpdateCourses); err != nil {
		return err
	}
	if err := repos.SectionRepository.InsertMany(ctx, plan.InsertSections); err != nil {
		return err
	}
	if err := repos.SectionRepository.UpdateMany(ctx, plan.UpdateSections); err != nil {
		return err
	}

	touched := make([]string, 0, len(plan.ReplaceSchedules))
	var replacements []*models.Schedule
	for sectionID, schedules := range plan.ReplaceSchedules {
		touched = append(touched, sectionID)
		replacements = append(replacements, schedules...)
	}
	if err := repos.ScheduleRepository.DeleteBySectionIDs(ctx, touched); err != nil {
		return err
	}
	return repos.ScheduleRepository.InsertMany(ctx, replacements)
}
