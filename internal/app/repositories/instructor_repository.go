package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/db"
	"github.com/kaustack/catalog/internal/pkg/apperrors"
)

// InstructorRepository handles database operations for instructors
type InstructorRepository struct {
	db db.Querier
}

// NewInstructorRepository creates a new instructor repository
func NewInstructorRepository(q db.Querier) *InstructorRepository {
	return &InstructorRepository{db: q}
}

// GetByID retrieves an instructor by its externally assigned id
func (r *InstructorRepository) GetByID(ctx context.Context, id string) (*models.Instructor, error) {
	query := `
		SELECT id, name, email
		FROM instructors
		WHERE id = $1
	`

	var instructor models.Instructor
	err := r.db.QueryRow(ctx, query, id).Scan(&instructor.ID, &instructor.Name, &instructor.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("instructor %q: %w", id, apperrors.ErrInstructorNotFound)
		}
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}

	return &instructor, nil
}

// GetAll retrieves every instructor for sync preloading
func (r *InstructorRepository) GetAll(ctx context.Context) ([]*models.Instructor, error) {
	query := `
		SELECT id, name, email
		FROM instructors
	`

	return r.queryInstructors(ctx, query)
}

// ListByTerm retrieves the distinct instructors teaching at least one
// section in the given term, optionally filtered by a case-insensitive name
// substring, sorted by name.
func (r *InstructorRepository) ListByTerm(ctx context.Context, termID, nameFilter string) ([]*models.Instructor, error) {
	query := `
		SELECT DISTINCT i.id, i.name, i.email
		FROM instructors i
		JOIN sections s ON s.instructor_id = i.id
		WHERE s.term_id = $1
	`
	args := []any{termID}

	if nameFilter != "" {
		query += ` AND LOWER(i.name) LIKE $2`
		args = append(args, "%"+strings.ToLower(nameFilter)+"%")
	}
	query += ` ORDER BY i.name`

	return r.queryInstructors(ctx, query, args...)
}

// InsertMany inserts instructors in one batch round trip
func (r *InstructorRepository) InsertMany(ctx context.Context, instructors []*models.Instructor) error {
	if len(instructors) == 0 {
		return nil
	}

	query := `
		INSERT INTO instructors (id, name, email)
		VALUES ($1, $2, $3)
	`

	batch := &pgx.Batch{}
	for _, instructor := range instructors {
		batch.Queue(query, instructor.ID, instructor.Name, instructor.Email)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return fmt.Errorf("error inserting instructors: %w", err)
	}

	return nil
}

// UpdateMany overwrites name and email of existing instructors in one batch
func (r *InstructorRepository) UpdateMany(ctx context.Context, instructors []*models.Instructor) error {
	if len(instructors) == 0 {
		return nil
	}

	query := `
		UPDATE instructors
		SET name = $2, email = $3
		WHERE id = $1
	`

	batch := &pgx.Batch{}
	for _, instructor := range instructors {
		batch.Queue(query, instructor.ID, instructor.Name, instructor.Email)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return fmt.Errorf("error updating instructors: %w", err)
	}

	return nil
}

func (r *InstructorRepository) queryInstructors(ctx context.Context, query string, args ...any) ([]*models.Instructor, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var instructors []*models.Instructor
	for rows.Next() {
		var instructor models.Instructor
		if err := rows.Scan(&instructor.ID, &instructor.Name, &instructor.Email); err != nil {
			return nil, err
		}
		instructors = append(instructors, &instructor)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return instructors, nil
}
