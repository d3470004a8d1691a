package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/db"
	"github.com/kaustack/catalog/internal/pkg/apperrors"
	"github.com/kaustack/catalog/internal/pkg/dberrors"
)

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db db.Querier
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(q db.Querier) *CourseRepository {
	return &CourseRepository{db: q}
}

// GetByID retrieves a course by its id
func (r *CourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `
		SELECT id, code, number, title, level, credits
		FROM courses
		WHERE id = $1
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Code,
		&course.Number,
		&course.Title,
		&course.Level,
		&course.Credits,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("course %q: %w", id, apperrors.ErrCourseNotFound)
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return &course, nil
}

// GetAll retrieves every course. The synchronization planner loads this once
// per run to resolve courses by their (code, number) key without a query per
// feed record.
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	query := `
		SELECT id, code, number, title, level, credits
		FROM courses
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(
			&course.ID,
			&course.Code,
			&course.Number,
			&course.Title,
			&course.Level,
			&course.Credits,
		); err != nil {
			return nil, err
		}
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return courses, nil
}

// InsertMany inserts courses in one batch round trip
func (r *CourseRepository) InsertMany(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}

	query := `
		INSERT INTO courses (id, code, number, title, level, credits)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for _, course := range courses {
		batch.Queue(query, course.ID, course.Code, course.Number, course.Title, course.Level, course.Credits)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_code_number_key") {
			return fmt.Errorf("course with duplicate (code, number): %w", apperrors.ErrResourceAlreadyExists)
		}
		return fmt.Errorf("error inserting courses: %w", err)
	}

	return nil
}

// UpdateMany overwrites the mutable fields of existing courses in one batch
func (r *CourseRepository) UpdateMany(ctx context.Context, courses []*models.Course) error {
	if len(courses) == 0 {
		return nil
	}

	query := `
		UPDATE courses
		SET title = $2, level = $3, credits = $4
		WHERE id = $1
	`

	batch := &pgx.Batch{}
	for _, course := range courses {
		batch.Queue(query, course.ID, course.Title, course.Level, course.Credits)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return fmt.Errorf("error updating courses: %w", err)
	}

	return nil
}
