package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/db"
	"github.com/kaustack/catalog/internal/pkg/apperrors"
)

// TermRepository handles database operations for academic terms
type TermRepository struct {
	db db.Querier
}

// NewTermRepository creates a new term repository
func NewTermRepository(q db.Querier) *TermRepository {
	return &TermRepository{db: q}
}

const termColumns = "id, name, term_code, start_date, end_date, created_at, updated_at"

// GetByTermCode retrieves the term with the given external code
func (r *TermRepository) GetByTermCode(ctx context.Context, termCode string) (*models.Term, error) {
	query := `
		SELECT ` + termColumns + `
		FROM terms
		WHERE term_code = $1
	`

	term, err := scanTerm(r.db.QueryRow(ctx, query, termCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("term %q: %w", termCode, apperrors.ErrTermNotFound)
		}
		return nil, fmt.Errorf("error retrieving term: %w", err)
	}

	return term, nil
}

// GetLatest retrieves the most recently synchronized term
func (r *TermRepository) GetLatest(ctx context.Context) (*models.Term, error) {
	query := `
		SELECT ` + termColumns + `
		FROM terms
		ORDER BY updated_at DESC
		LIMIT 1
	`

	term, err := scanTerm(r.db.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("no terms synchronized yet: %w", apperrors.ErrTermNotFound)
		}
		return nil, fmt.Errorf("error retrieving latest term: %w", err)
	}

	return term, nil
}

// Upsert inserts the term or, when its code is already known, refreshes its
// name and updated_at while preserving id and created_at
func (r *TermRepository) Upsert(ctx context.Context, term *models.Term) error {
	query := `
		INSERT INTO terms (id, name, term_code, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (term_code) DO UPDATE
		SET name = EXCLUDED.name, updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		term.ID, term.Name, term.TermCode,
		term.StartDate, term.EndDate,
		term.CreatedAt, term.UpdatedAt,
	).Scan(&term.ID)
	if err != nil {
		return fmt.Errorf("error upserting term %q: %w", term.TermCode, err)
	}

	return nil
}

func scanTerm(row pgx.Row) (*models.Term, error) {
	var term models.Term
	err := row.Scan(
		&term.ID,
		&term.Name,
		&term.TermCode,
		&term.StartDate,
		&term.EndDate,
		&term.CreatedAt,
		&term.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &term, nil
}
