package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/kaustack/catalog/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	TermRepository       *TermRepository
	CourseRepository     *CourseRepository
	InstructorRepository *InstructorRepository
	SectionRepository    *SectionRepository
	ScheduleRepository   *ScheduleRepository
}

// NewRepositories initializes all repositories on the given querier, which
// is either the connection pool or an open transaction
func NewRepositories(q db.Querier) *Repositories {
	return &Repositories{
		TermRepository:       NewTermRepository(q),
		CourseRepository:     NewCourseRepository(q),
		InstructorRepository: NewInstructorRepository(q),
		SectionRepository:    NewSectionRepository(q),
		ScheduleRepository:   NewScheduleRepository(q),
	}
}

// sendBatch runs a queued batch and surfaces the first per-statement error
func sendBatch(ctx context.Context, q db.Querier, batch *pgx.Batch) error {
	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}

	return results.Close()
}
