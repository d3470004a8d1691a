// Package sync reconciles catalog feed snapshots into the entity store.
// Planning is separated from persistence: a planner diffs a feed document
// against preloaded store state and emits an explicit mutation plan, which
// the service then applies inside a single transaction.
package sync

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kaustack/catalog/internal/app/feed"
	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/pkg/apperrors"
)

// Warning reports one feed record that was rejected without aborting the
// rest of the batch.
type Warning struct {
	RecordID string
	Reason   string
}

func (w Warning) String() string {
	return fmt.Sprintf("record %s rejected: %s", w.RecordID, w.Reason)
}

// Snapshot carries the store state a plan is diffed against. Courses are
// keyed by their compound (code, number) key, instructors and sections by
// their externally assigned ids. Term is nil when the term has never been
// synced before.
type Snapshot struct {
	Term        *models.Term
	Courses     map[string]*models.Course
	Instructors map[string]*models.Instructor
	Sections    map[string]*models.Section
}

// CoursePlan is the full set of mutations one course feed snapshot implies.
// Applying an empty plan (all slices empty, no schedule replacements) is the
// idempotent no-op a repeated identical feed must produce.
type CoursePlan struct {
	Term        *models.Term
	TermCreated bool

	InsertInstructors []*models.Instructor
	InsertCourses     []*models.Course
	UpdateCourses     []*models.Course
	InsertSections    []*models.Section
	UpdateSections    []*models.Section

	// ReplaceSchedules maps a touched section id to its full rebuilt
	// schedule set. Old rows for these sections are deleted before the
	// new ones are inserted.
	ReplaceSchedules map[string][]*models.Schedule

	Warnings []Warning
}

// SectionLink assigns a primary instructor to an existing section.
type SectionLink struct {
	SectionID    string
	InstructorID string
}

// InstructorPlan is the mutation set for one enrichment feed snapshot.
type InstructorPlan struct {
	InsertInstructors []*models.Instructor
	UpdateInstructors []*models.Instructor
	LinkSections      []SectionLink
	Warnings          []Warning
}

// BuildCoursePlan diffs a course feed document against the store snapshot.
// It returns ErrSyncSkipped (wrapped) when the document is absent, not
// successful, or empty; the caller must not mutate the store in that case.
func BuildCoursePlan(doc *feed.CoursesDocument, snap Snapshot) (*CoursePlan, error) {
	if doc == nil {
		return nil, fmt.Errorf("course feed document is absent: %w", apperrors.ErrSyncSkipped)
	}
	if doc.Status != feed.StatusSuccess {
		return nil, fmt.Errorf("course feed status %q: %w", doc.Status, apperrors.ErrSyncSkipped)
	}
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("course feed has no data: %w", apperrors.ErrSyncSkipped)
	}

	plan := &CoursePlan{ReplaceSchedules: make(map[string][]*models.Schedule)}
	now := time.Now().UTC()

	if snap.Term == nil {
		plan.Term = &models.Term{
			ID:        uuid.New().String(),
			Name:      doc.TermName,
			TermCode:  doc.TermID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		plan.TermCreated = true
	} else {
		term := *snap.Term
		term.Name = doc.TermName
		term.UpdatedAt = now
		plan.Term = &term
	}

	plannedInstructors := make(map[string]bool)
	plannedCourses := make(map[string]bool)
	plannedSections := make(map[string]bool)

	for _, courseRec := range doc.Data {
		course := planCourse(plan, snap, plannedCourses, courseRec)

		for _, sectionRec := range courseRec.Sections {
			// A section id may not repeat across course records; the first
			// occurrence wins and later ones are rejected like any other
			// bad record.
			if plannedSections[sectionRec.ID] {
				plan.Warnings = append(plan.Warnings, Warning{
					RecordID: sectionRec.ID,
					Reason:   "duplicate section id in feed",
				})
				continue
			}
			plannedSections[sectionRec.ID] = true

			crn, err := sectionRec.CRN.Int64()
			if err != nil {
				plan.Warnings = append(plan.Warnings, Warning{
					RecordID: sectionRec.ID,
					Reason:   fmt.Sprintf("non-numeric crn %q", sectionRec.CRN.String()),
				})
				continue
			}
			createdAt, err := parseFeedTime(sectionRec.CreatedAt)
			if err != nil {
				plan.Warnings = append(plan.Warnings, Warning{
					RecordID: sectionRec.ID,
					Reason:   fmt.Sprintf("malformed createdAt %q", sectionRec.CreatedAt),
				})
				continue
			}
			updatedAt, err := parseFeedTime(sectionRec.UpdatedAt)
			if err != nil {
				plan.Warnings = append(plan.Warnings, Warning{
					RecordID: sectionRec.ID,
					Reason:   fmt.Sprintf("malformed updatedAt %q", sectionRec.UpdatedAt),
				})
				continue
			}

			instructorID := planInstructor(plan, snap, plannedInstructors, sectionRec.InstructorID)

			next := &models.Section{
				ID:                sectionRec.ID,
				CRN:               int(crn),
				TermID:            plan.Term.ID,
				CourseID:          course.ID,
				InstructorID:      instructorID,
				Code:              sectionRec.Code,
				Branch:            sectionRec.Branch,
				ScheduleType:      sectionRec.ScheduleType,
				InstructionMethod: sectionRec.InstructionMethod,
				Level:             sectionRec.Level,
				Credits:           sectionRec.Credits,
				CreatedAt:         createdAt,
				UpdatedAt:         updatedAt,
			}

			existing, known := snap.Sections[sectionRec.ID]
			switch {
			case !known:
				plan.InsertSections = append(plan.InsertSections, next)
			case sectionChanged(existing, next):
				plan.UpdateSections = append(plan.UpdateSections, next)
			}

			schedules := buildSchedules(next, sectionRec.Schedules)
			if known && !schedulesChanged(existing.Schedules, schedules) {
				continue
			}
			plan.ReplaceSchedules[next.ID] = schedules
		}
	}

	return plan, nil
}

// BuildInstructorPlan diffs an enrichment feed against the known instructors
// and sections. Section references the store does not know are skipped
// silently since the feed may reach beyond the loaded term.
func BuildInstructorPlan(doc *feed.InstructorsDocument, instructors map[string]*models.Instructor, sections map[string]*models.Section) (*InstructorPlan, error) {
	if doc == nil {
		return nil, fmt.Errorf("instructor feed document is absent: %w", apperrors.ErrSyncSkipped)
	}
	if doc.Status != feed.StatusSuccess {
		return nil, fmt.Errorf("instructor feed status %q: %w", doc.Status, apperrors.ErrSyncSkipped)
	}
	if len(doc.Data) == 0 {
		return nil, fmt.Errorf("instructor feed has no data: %w", apperrors.ErrSyncSkipped)
	}

	plan := &InstructorPlan{}
	for _, rec := range doc.Data {
		if rec.ID == "" {
			plan.Warnings = append(plan.Warnings, Warning{RecordID: rec.ID, Reason: "instructor record without id"})
			continue
		}
		next := &models.Instructor{ID: rec.ID, Name: rec.Name, Email: rec.Email}
		if next.Name == "" {
			next.Name = rec.ID
		}

		existing, known := instructors[rec.ID]
		switch {
		case !known:
			plan.InsertInstructors = append(plan.InsertInstructors, next)
		case existing.Name != next.Name || existing.Email != next.Email:
			plan.UpdateInstructors = append(plan.UpdateInstructors, next)
		}

		for _, ref := range rec.Sections {
			section, ok := sections[ref.ID]
			if !ok {
				continue
			}
			if section.InstructorID != nil && *section.InstructorID == rec.ID {
				continue
			}
			plan.LinkSections = append(plan.LinkSections, SectionLink{SectionID: ref.ID, InstructorID: rec.ID})
		}
	}
	return plan, nil
}

// planCourse finds or creates the course for a feed record and records an
// update when its mutable fields drifted. Level and credits are promoted
// from the first section, mirroring the feed's section-level placement of
// course display attributes.
func planCourse(plan *CoursePlan, snap Snapshot, planned map[string]bool, rec feed.CourseRecord) *models.Course {
	key := models.CourseKey(rec.CourseCode, rec.CourseNumber)

	var level *string
	var credits *int
	if len(rec.Sections) > 0 {
		first := rec.Sections[0]
		if first.Level != "" {
			l := first.Level
			level = &l
		}
		credits = first.Credits
	}

	if existing, ok := snap.Courses[key]; ok {
		next := *existing
		next.Title = rec.Title
		next.Level = level
		next.Credits = credits
		if !planned[key] && courseChanged(existing, &next) {
			plan.UpdateCourses = append(plan.UpdateCourses, &next)
		}
		planned[key] = true
		snap.Courses[key] = &next
		return &next
	}

	if planned[key] {
		return snap.Courses[key]
	}

	course := &models.Course{
		ID:      uuid.New().String(),
		Code:    rec.CourseCode,
		Number:  rec.CourseNumber,
		Title:   rec.Title,
		Level:   level,
		Credits: credits,
	}
	plan.InsertCourses = append(plan.InsertCourses, course)
	planned[key] = true
	snap.Courses[key] = course
	return course
}

// planInstructor ensures the referenced instructor exists, creating a
// placeholder whose name is its id until the enrichment feed fills it in.
// An empty reference yields nil (section without a primary instructor).
func planInstructor(plan *CoursePlan, snap Snapshot, planned map[string]bool, id string) *string {
	if id == "" {
		return nil
	}
	if _, ok := snap.Instructors[id]; !ok && !planned[id] {
		plan.InsertInstructors = append(plan.InsertInstructors, &models.Instructor{ID: id, Name: id})
		planned[id] = true
	}
	ref := id
	return &ref
}

func buildSchedules(section *models.Section, recs []feed.ScheduleRecord) []*models.Schedule {
	schedules := make([]*models.Schedule, 0, len(recs))
	for _, rec := range recs {
		schedules = append(schedules, &models.Schedule{
			ID:           uuid.New().String(),
			SectionID:    section.ID,
			InstructorID: section.InstructorID,
			Type:         rec.Type,
			StartTime:    rec.StartTime,
			EndTime:      rec.EndTime,
			RawTime:      rec.RawTime,
			Days:         rec.Days,
			Location:     rec.Location,
			DateRange:    rec.DateRange,
		})
	}
	return schedules
}

// parseFeedTime parses an optional ISO-8601 timestamp. Absence is fine and
// yields nil; a malformed value is a data format error that rejects the
// owning record.
func parseFeedTime(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, apperrors.NewDataFormatError(fmt.Sprintf("timestamp %q: %v", value, err))
	}
	parsed = parsed.UTC()
	return &parsed, nil
}

func courseChanged(a, b *models.Course) bool {
	return a.Title != b.Title ||
		!equalStringPtr(a.Level, b.Level) ||
		!equalIntPtr(a.Credits, b.Credits)
}

func sectionChanged(a, b *models.Section) bool {
	return a.CRN != b.CRN ||
		a.TermID != b.TermID ||
		a.CourseID != b.CourseID ||
		!equalStringPtr(a.InstructorID, b.InstructorID) ||
		a.Code != b.Code ||
		a.Branch != b.Branch ||
		a.ScheduleType != b.ScheduleType ||
		a.InstructionMethod != b.InstructionMethod ||
		a.Level != b.Level ||
		!equalIntPtr(a.Credits, b.Credits) ||
		!equalTimePtr(a.CreatedAt, b.CreatedAt) ||
		!equalTimePtr(a.UpdatedAt, b.UpdatedAt)
}

// schedulesChanged compares schedule sets by value, ignoring the generated
// row ids. Order matters: the feed order is the canonical order.
func schedulesChanged(existing, next []*models.Schedule) bool {
	if len(existing) != len(next) {
		return true
	}
	for i := range existing {
		a, b := existing[i], next[i]
		if a.Type != b.Type ||
			!equalIntPtr(a.StartTime, b.StartTime) ||
			!equalIntPtr(a.EndTime, b.EndTime) ||
			a.RawTime != b.RawTime ||
			a.Days != b.Days ||
			a.Location != b.Location ||
			a.DateRange != b.DateRange ||
			!equalStringPtr(a.InstructorID, b.InstructorID) {
			return true
		}
	}
	return false
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalIntPtr(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
