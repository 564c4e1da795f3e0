package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type WeeklyTimesheetRepository struct {
	pool *pgxpool.Pool
}

func NewWeeklyTimesheetRepository(pool *pgxpool.Pool) *WeeklyTimesheetRepository {
	return &WeeklyTimesheetRepository{pool: pool}
}

const weeklyColumns = `id, tutor_id, week_start, week_end, status, review_notes, submitted_at, reviewed_at, created_at`

func scanWeekly(row pgx.Row) (*model.WeeklyTimesheet, error) {
	var ts model.WeeklyTimesheet
	err := row.Scan(
		&ts.ID,
		&ts.TutorID,
		&ts.WeekStart,
		&ts.WeekEnd,
		&ts.Status,
		&ts.ReviewNotes,
		&ts.SubmittedAt,
		&ts.ReviewedAt,
		&ts.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// GetByID returns the weekly timesheet or nil when it does not exist.
func (r *WeeklyTimesheetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.WeeklyTimesheet, error) {
	query := `
		SELECT ` + weeklyColumns + `
		FROM weekly_timesheets
		WHERE id = $1
	`

	ts, err := scanWeekly(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get weekly timesheet by id: %w", err)
	}

	return ts, nil
}

// GetOrCreateForWeek returns the tutor's timesheet for the week starting
// at weekStart, creating a draft if none exists yet.
func (r *WeeklyTimesheetRepository) GetOrCreateForWeek(ctx context.Context, tutorID uuid.UUID, weekStart, weekEnd time.Time) (*model.WeeklyTimesheet, error) {
	query := `
		INSERT INTO weekly_timesheets (tutor_id, week_start, week_end)
		VALUES ($1, $2, $3)
		ON CONFLICT (tutor_id, week_start) DO UPDATE SET week_end = EXCLUDED.week_end
		RETURNING ` + weeklyColumns + `
	`

	ts, err := scanWeekly(r.pool.QueryRow(ctx, query, tutorID, weekStart, weekEnd))
	if err != nil {
		return nil, fmt.Errorf("get or create weekly timesheet: %w", err)
	}

	return ts, nil
}

// ListByTutor returns the tutor's weekly timesheets, newest first.
func (r *WeeklyTimesheetRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]*model.WeeklyTimesheet, error) {
	query := `
		SELECT ` + weeklyColumns + `
		FROM weekly_timesheets
		WHERE tutor_id = $1
		ORDER BY week_start DESC
	`

	rows, err := r.pool.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list weekly timesheets: %w", err)
	}
	defer rows.Close()

	var timesheets []*model.WeeklyTimesheet
	for rows.Next() {
		ts, err := scanWeekly(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weekly timesheet: %w", err)
		}
		timesheets = append(timesheets, ts)
	}

	return timesheets, nil
}

// Submit moves a draft (or rejected) timesheet into the submitted state.
func (r *WeeklyTimesheetRepository) Submit(ctx context.Context, id, tutorID uuid.UUID) error {
	query := `
		UPDATE weekly_timesheets
		SET status = 'submitted', submitted_at = now()
		WHERE id = $1 AND tutor_id = $2 AND status IN ('draft', 'rejected')
	`

	result, err := r.pool.Exec(ctx, query, id, tutorID)
	if err != nil {
		return fmt.Errorf("submit weekly timesheet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("weekly timesheet not submittable")
	}

	return nil
}

// Review records the admin decision on a submitted timesheet.
func (r *WeeklyTimesheetRepository) Review(ctx context.Context, id uuid.UUID, status model.WeeklyStatus, notes string) error {
	query := `
		UPDATE weekly_timesheets
		SET status = $1, review_notes = $2, reviewed_at = now()
		WHERE id = $3 AND status = 'submitted'
	`

	result, err := r.pool.Exec(ctx, query, status, notes, id)
	if err != nil {
		return fmt.Errorf("review weekly timesheet: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("weekly timesheet not reviewable")
	}

	return nil
}
