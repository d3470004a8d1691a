package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/app/search"
	"github.com/kaustack/catalog/internal/db"
)

// SectionRepository handles database operations for sections. Read queries
// join the owning course and the primary instructor; schedule-dependent
// filters arrive as search clauses and fold into correlated EXISTS
// subqueries so a section never appears once per matching meeting.
type SectionRepository struct {
	db db.Querier
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(q db.Querier) *SectionRepository {
	return &SectionRepository{db: q}
}

const sectionSelect = `
	SELECT s.id, s.crn, s.term_id, s.course_id, s.instructor_id,
	       s.code, s.branch, s.schedule_type, s.instruction_method,
	       s.level, s.credits, s.created_at, s.updated_at,
	       c.id, c.code, c.number, c.title, c.level, c.credits,
	       i.id, i.name, i.email
	FROM sections s
	JOIN courses c ON c.id = s.course_id
	LEFT JOIN instructors i ON i.id = s.instructor_id
`

// Deterministic paging requires a total order; section id breaks the tie
// between sections sharing a course and code.
const sectionOrder = ` ORDER BY c.code, c.number, s.code, s.id`

// Search retrieves one page of sections matching the clause list within a
// term, plus the total match count before pagination.
func (r *SectionRepository) Search(ctx context.Context, termID string, clauses []search.Clause, offset, limit int) ([]*models.Section, int, error) {
	where, args := search.WhereSQL(clauses, 2)
	condition := ` WHERE s.term_id = $1`
	if where != "" {
		condition += ` AND ` + where
	}
	args = append([]any{termID}, args...)

	countQuery := `SELECT COUNT(*) FROM sections s JOIN courses c ON c.id = s.course_id LEFT JOIN instructors i ON i.id = s.instructor_id` + condition

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting sections: %w", err)
	}
	if total == 0 {
		return nil, 0, nil
	}

	pageQuery := fmt.Sprintf("%s%s%s LIMIT $%d OFFSET $%d",
		sectionSelect, condition, sectionOrder, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	sections, err := r.querySections(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	return sections, total, nil
}

// FindByTerm retrieves every section matching the clause list within a term,
// in the same deterministic order as Search. Grouped listings and the
// instructor hierarchy are built from this.
func (r *SectionRepository) FindByTerm(ctx context.Context, termID string, clauses []search.Clause) ([]*models.Section, error) {
	where, args := search.WhereSQL(clauses, 2)
	query := sectionSelect + ` WHERE s.term_id = $1`
	if where != "" {
		query += ` AND ` + where
	}
	query += sectionOrder
	args = append([]any{termID}, args...)

	return r.querySections(ctx, query, args...)
}

// FindByCourse retrieves a course's sections within a term
func (r *SectionRepository) FindByCourse(ctx context.Context, termID, courseID string, clauses []search.Clause) ([]*models.Section, error) {
	where, args := search.WhereSQL(clauses, 3)
	query := sectionSelect + ` WHERE s.term_id = $1 AND s.course_id = $2`
	if where != "" {
		query += ` AND ` + where
	}
	query += sectionOrder
	args = append([]any{termID, courseID}, args...)

	return r.querySections(ctx, query, args...)
}

// FindByInstructor retrieves the sections an instructor teaches within a
// term, whether linked as the section's primary instructor or through one of
// its meetings.
func (r *SectionRepository) FindByInstructor(ctx context.Context, termID, instructorID string) ([]*models.Section, error) {
	query := sectionSelect + `
	WHERE s.term_id = $1
	  AND (s.instructor_id = $2
	       OR EXISTS (SELECT 1 FROM schedules sch WHERE sch.section_id = s.id AND sch.instructor_id = $2))` +
		sectionOrder

	return r.querySections(ctx, query, termID, instructorID)
}

// GetByTermID retrieves every section of a term without joins, keyed scans
// only. The synchronization planner preloads this to decide insert versus
// update per feed record.
func (r *SectionRepository) GetByTermID(ctx context.Context, termID string) ([]*models.Section, error) {
	query := `
		SELECT id, crn, term_id, course_id, instructor_id,
		       code, branch, schedule_type, instruction_method,
		       level, credits, created_at, updated_at
		FROM sections
		WHERE term_id = $1
	`

	rows, err := r.db.Query(ctx, query, termID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		var section models.Section
		if err := rows.Scan(
			&section.ID, &section.CRN, &section.TermID, &section.CourseID, &section.InstructorID,
			&section.Code, &section.Branch, &section.ScheduleType, &section.InstructionMethod,
			&section.Level, &section.Credits, &section.CreatedAt, &section.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sections = append(sections, &section)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

// InsertMany inserts sections in one batch round trip
func (r *SectionRepository) InsertMany(ctx context.Context, sections []*models.Section) error {
	if len(sections) == 0 {
		return nil
	}

	query := `
		INSERT INTO sections (id, crn, term_id, course_id, instructor_id,
		                      code, branch, schedule_type, instruction_method,
		                      level, credits, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	batch := &pgx.Batch{}
	for _, s := range sections {
		batch.Queue(query,
			s.ID, s.CRN, s.TermID, s.CourseID, s.InstructorID,
			s.Code, s.Branch, s.ScheduleType, s.InstructionMethod,
			s.Level, s.Credits, s.CreatedAt, s.UpdatedAt,
		)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return fmt.Errorf("error inserting sections: %w", err)
	}

	return nil
}

// UpdateMany overwrites the mutable fields of existing sections in one
// batch, keyed by the externally assigned section id
func (r *SectionRepository) UpdateMany(ctx context.Context, sections []*models.Section) error {
	if len(sections) == 0 {
		return nil
	}

	query := `
		UPDATE sections
		SET crn = $2, term_id = $3, course_id = $4, instructor_id = $5,
		    code = $6, branch = $7, schedule_type = $8, instruction_method = $9,
		    level = $10, credits = $11, created_at = $12, updated_at = $13
		WHERE id = $1
	`

	batch := &pgx.Batch{}
	for _, s := range sections {
		batch.Queue(query,
			s.ID, s.CRN, s.TermID, s.CourseID, s.InstructorID,
			s.Code, s.Branch, s.ScheduleType, s.InstructionMethod,
			s.Level, s.Credits, s.CreatedAt, s.UpdatedAt,
		)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return fmt.Errorf("error updating sections: %w", err)
	}

	return nil
}

// LinkInstructors sets the primary instructor of each listed section
func (r *SectionRepository) LinkInstructors(ctx context.Context, links map[string]string) error {
	if len(links) == 0 {
		return nil
	}

	query := `
		UPDATE sections
		SET instructor_id = $2
		WHERE id = $1
	`

	batch := &pgx.Batch{}
	for sectionID, instructorID := range links {
		batch.Queue(query, sectionID, instructorID)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return fmt.Errorf("error linking section instructors: %w", err)
	}

	return nil
}

func (r *SectionRepository) querySections(ctx context.Context, query string, args ...any) ([]*models.Section, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		section, err := scanJoinedSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

// scanJoinedSection scans one sectionSelect row. The instructor side of the
// join is nullable since a section may have no primary instructor yet.
func scanJoinedSection(rows pgx.Rows) (*models.Section, error) {
	var section models.Section
	var course models.Course
	var instructorID, instructorName, instructorEmail *string

	err := rows.Scan(
		&section.ID, &section.CRN, &section.TermID, &section.CourseID, &section.InstructorID,
		&section.Code, &section.Branch, &section.ScheduleType, &section.InstructionMethod,
		&section.Level, &section.Credits, &section.CreatedAt, &section.UpdatedAt,
		&course.ID, &course.Code, &course.Number, &course.Title, &course.Level, &course.Credits,
		&instructorID, &instructorName, &instructorEmail,
	)
	if err != nil {
		return nil, err
	}

	section.Course = &course
	if instructorID != nil {
		instructor := models.Instructor{ID: *instructorID}
		if instructorName != nil {
			instructor.Name = *instructorName
		}
		if instructorEmail != nil {
			instructor.Email = *instructorEmail
		}
		section.Instructor = &instructor
	}

	return &section, nil
}
