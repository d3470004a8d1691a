// Package services implements the catalog's business operations on top of
// the repository layer: term resolution, search and grouped read views, and
// the two-phase feed synchronization.
package services

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kaustack/catalog/internal/app/feed"
	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/app/repositories"
	"github.com/kaustack/catalog/internal/app/search"
)

// TermStore resolves terms for read operations
type TermStore interface {
	GetByTermCode(ctx context.Context, termCode string) (*models.Term, error)
	GetLatest(ctx context.Context) (*models.Term, error)
}

// CourseStore resolves individual courses
type CourseStore interface {
	GetByID(ctx context.Context, id string) (*models.Course, error)
}

// InstructorStore lists and resolves instructors
type InstructorStore interface {
	GetByID(ctx context.Context, id string) (*models.Instructor, error)
	ListByTerm(ctx context.Context, termID, nameFilter string) ([]*models.Instructor, error)
}

// SectionStore runs the clause-filtered section queries
type SectionStore interface {
	Search(ctx context.Context, termID string, clauses []search.Clause, offset, limit int) ([]*models.Section, int, error)
	FindByTerm(ctx context.Context, termID string, clauses []search.Clause) ([]*models.Section, error)
	FindByCourse(ctx context.Context, termID, courseID string, clauses []search.Clause) ([]*models.Section, error)
	FindByInstructor(ctx context.Context, termID, instructorID string) ([]*models.Section, error)
}

// ScheduleStore loads the meetings of a section set
type ScheduleStore interface {
	GetBySectionIDs(ctx context.Context, sectionIDs []string) ([]*models.Schedule, error)
}

// FeedClient fetches the upstream feed documents
type FeedClient interface {
	FetchCourses(ctx context.Context) (*feed.CoursesDocument, error)
	FetchInstructors(ctx context.Context) (*feed.InstructorsDocument, error)
}

// Services holds all the service instances
type Services struct {
	CatalogService *CatalogService
	SyncService    *SyncService
}

// NewServices initializes all services
func NewServices(repos *repositories.Repositories, pool *pgxpool.Pool, feedClient FeedClient) *Services {
	return &Services{
		CatalogService: NewCatalogService(
			repos.TermRepository,
			repos.CourseRepository,
			repos.InstructorRepository,
			repos.SectionRepository,
			repos.ScheduleRepository,
		),
		SyncService: NewSyncService(pool, feedClient),
	}
}
