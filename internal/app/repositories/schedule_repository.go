package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kaustack/catalog/internal/app/models"
	"github.com/kaustack/catalog/internal/db"
)

// ScheduleRepository handles database operations for weekly meetings.
// Schedule rows carry no stable external identity, so writes are always a
// delete-then-insert replacement per section.
type ScheduleRepository struct {
	db db.Querier
}

// NewScheduleRepository creates a new schedule repository
func NewScheduleRepository(q db.Querier) *ScheduleRepository {
	return &ScheduleRepository{db: q}
}

// GetBySectionIDs retrieves the meetings of the given sections with their
// meeting-level instructors resolved
func (r *ScheduleRepository) GetBySectionIDs(ctx context.Context, sectionIDs []string) ([]*models.Schedule, error) {
	if len(sectionIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT sch.id, sch.section_id, sch.instructor_id,
		       sch.type, sch.start_time, sch.end_time,
		       sch.raw_time, sch.days, sch.location, sch.date_range,
		       si.id, si.name, si.email
		FROM schedules sch
		LEFT JOIN instructors si ON si.id = sch.instructor_id
		WHERE sch.section_id = ANY($1)
		ORDER BY sch.section_id, sch.days, sch.start_time, sch.id
	`

	rows, err := r.db.Query(ctx, query, sectionIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []*models.Schedule
	for rows.Next() {
		var schedule models.Schedule
		var instructorID, instructorName, instructorEmail *string
		if err := rows.Scan(
			&schedule.ID, &schedule.SectionID, &schedule.InstructorID,
			&schedule.Type, &schedule.StartTime, &schedule.EndTime,
			&schedule.RawTime, &schedule.Days, &schedule.Location, &schedule.DateRange,
			&instructorID, &instructorName, &instructorEmail,
		); err != nil {
			return nil, err
		}
		if instructorID != nil {
			instructor := models.Instructor{ID: *instructorID}
			if instructorName != nil {
				instructor.Name = *instructorName
			}
			if instructorEmail != nil {
				instructor.Email = *instructorEmail
			}
			schedule.Instructor = &instructor
		}
		schedules = append(schedules, &schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return schedules, nil
}

// DeleteBySectionIDs removes every meeting belonging to the given sections
func (r *ScheduleRepository) DeleteBySectionIDs(ctx context.Context, sectionIDs []string) error {
	if len(sectionIDs) == 0 {
		return nil
	}

	query := `
		DELETE FROM schedules
		WHERE section_id = ANY($1)
	`

	if _, err := r.db.Exec(ctx, query, sectionIDs); err != nil {
		return fmt.Errorf("error deleting schedules: %w", err)
	}

	return nil
}

// InsertMany inserts meetings in one batch round trip
func (r *ScheduleRepository) InsertMany(ctx context.Context, schedules []*models.Schedule) error {
	if len(schedules) == 0 {
		return nil
	}

	query := `
		INSERT INTO schedules (id, section_id, instructor_id, type,
		                       start_time, end_time, raw_time, days,
		                       location, date_range)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for _, s := range schedules {
		batch.Queue(query,
			s.ID, s.SectionID, s.InstructorID, s.Type,
			s.StartTime, s.EndTime, s.RawTime, s.Days,
			s.Location, s.DateRange,
		)
	}

	if err := sendBatch(ctx, r.db, batch); err != nil {
		return fmt.Errorf("error inserting schedules: %w", err)
	}

	return nil
}
