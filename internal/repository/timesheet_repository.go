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

type TimesheetRepository struct {
	pool *pgxpool.Pool
}

func NewTimesheetRepository(pool *pgxpool.Pool) *TimesheetRepository {
	return &TimesheetRepository{pool: pool}
}

// entry columns with the student name and the structured attendance flag
// joined in; earnings stay textual so the decimal survives the wire.
const entrySelect = `
	SELECT e.id, e.tutor_id, e.student_id, e.entry_date, e.duration::float8,
	       e.tutor_earnings::text, e.status, COALESCE(e.session_type, ''),
	       e.group_session_id, e.session_occurrence_id, e.weekly_timesheet_id,
	       e.notes, e.created_at,
	       COALESCE(s.name, ''), a.present
	FROM timesheet_entries e
	LEFT JOIN students s ON s.id = e.student_id
	LEFT JOIN group_session_attendance a
	       ON a.group_session_id = e.group_session_id AND a.student_id = e.student_id
`

func scanEntry(row pgx.Row) (*model.TimesheetEntry, error) {
	var entry model.TimesheetEntry
	err := row.Scan(
		&entry.ID,
		&entry.TutorID,
		&entry.StudentID,
		&entry.Date,
		&entry.Duration,
		&entry.TutorEarnings,
		&entry.Status,
		&entry.SessionType,
		&entry.GroupSessionID,
		&entry.SessionOccurrenceID,
		&entry.WeeklyTimesheetID,
		&entry.Notes,
		&entry.CreatedAt,
		&entry.StudentName,
		&entry.Present,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListByTutor returns the tutor's entries, optionally bounded by date.
func (r *TimesheetRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID, from, to *time.Time) ([]*model.TimesheetEntry, error) {
	query := entrySelect + `
	WHERE e.tutor_id = $1
	  AND ($2::date IS NULL OR e.entry_date >= $2)
	  AND ($3::date IS NULL OR e.entry_date <= $3)
	ORDER BY e.entry_date, e.created_at
	`

	rows, err := r.pool.Query(ctx, query, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries by tutor: %w", err)
	}
	defer rows.Close()

	var entries []*model.TimesheetEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ListByWeekly returns the entries attached to one weekly timesheet.
func (r *TimesheetRepository) ListByWeekly(ctx context.Context, weeklyID uuid.UUID) ([]*model.TimesheetEntry, error) {
	query := entrySelect + `
	WHERE e.weekly_timesheet_id = $1
	ORDER BY e.entry_date, e.created_at
	`

	rows, err := r.pool.Query(ctx, query, weeklyID)
	if err != nil {
		return nil, fmt.Errorf("list entries by weekly timesheet: %w", err)
	}
	defer rows.Close()

	var entries []*model.TimesheetEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Create inserts a new entry.
func (r *TimesheetRepository) Create(ctx context.Context, entry *model.TimesheetEntry) error {
	query := `
		INSERT INTO timesheet_entries
			(tutor_id, student_id, entry_date, duration, tutor_earnings, status,
			 session_type, group_session_id, session_occurrence_id, weekly_timesheet_id, notes)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, NULLIF($7, ''), $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		entry.TutorID,
		entry.StudentID,
		entry.Date,
		entry.Duration,
		entry.TutorEarnings,
		entry.Status,
		string(entry.SessionType),
		entry.GroupSessionID,
		entry.SessionOccurrenceID,
		entry.WeeklyTimesheetID,
		entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	return nil
}

// ListLoggedOccurrenceIDs returns the set of occurrence ids the tutor has
// already logged an entry for.
func (r *TimesheetRepository) ListLoggedOccurrenceIDs(ctx context.Context, tutorID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	query := `
		SELECT DISTINCT session_occurrence_id
		FROM timesheet_entries
		WHERE tutor_id = $1 AND session_occurrence_id IS NOT NULL
	`

	rows, err := r.pool.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list logged occurrence ids: %w", err)
	}
	defer rows.Close()

	logged := make(map[uuid.UUID]struct{})
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan occurrence id: %w", err)
		}
		logged[id] = struct{}{}
	}

	return logged, nil
}

// AttachWeekToTimesheet links the tutor's unattached entries of one week
// to the weekly timesheet.
func (r *TimesheetRepository) AttachWeekToTimesheet(ctx context.Context, tutorID, weeklyID uuid.UUID, weekStart, weekEnd time.Time) error {
	query := `
		UPDATE timesheet_entries
		SET weekly_timesheet_id = $1
		WHERE tutor_id = $2
		  AND weekly_timesheet_id IS NULL
		  AND entry_date >= $3
		  AND entry_date <= $4
	`

	_, err := r.pool.Exec(ctx, query, weeklyID, tutorID, weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("attach entries to weekly timesheet: %w", err)
	}

	return nil
}

// EarningsByMonth aggregates the tutor's earnings per month for a year.
func (r *TimesheetRepository) EarningsByMonth(ctx context.Context, tutorID uuid.UUID, year int) ([]model.MonthlyEarnings, error) {
	query := `
		SELECT EXTRACT(MONTH FROM entry_date)::int,
		       COALESCE(SUM(duration), 0)::float8,
		       COALESCE(SUM(tutor_earnings), 0)::text,
		       COUNT(*)::int
		FROM timesheet_entries
		WHERE tutor_id = $1
		  AND EXTRACT(YEAR FROM entry_date) = $2
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.pool.Query(ctx, query, tutorID, year)
	if err != nil {
		return nil, fmt.Errorf("earnings by month: %w", err)
	}
	defer rows.Close()

	var months []model.MonthlyEarnings
	for rows.Next() {
		var m model.MonthlyEarnings
		if err := rows.Scan(&m.Month, &m.TotalHours, &m.TotalEarnings, &m.EntryCount); err != nil {
			return nil, fmt.Errorf("scan monthly earnings: %w", err)
		}
		months = append(months, m)
	}

	return months, nil
}

// EarningsSummary aggregates the tutor's earnings over a date range.
func (r *TimesheetRepository) EarningsSummary(ctx context.Context, tutorID uuid.UUID, from, to time.Time) (*model.EarningsSummary, error) {
	query := `
		SELECT COALESCE(SUM(duration), 0)::float8,
		       COALESCE(SUM(tutor_earnings), 0)::text,
		       COALESCE(SUM(tutor_earnings) FILTER (WHERE status = 'pending'), 0)::text,
		       COUNT(*)::int
		FROM timesheet_entries
		WHERE tutor_id = $1
		  AND entry_date >= $2
		  AND entry_date <= $3
	`

	var summary model.EarningsSummary
	err := r.pool.QueryRow(ctx, query, tutorID, from, to).Scan(
		&summary.TotalHours,
		&summary.TotalEarnings,
		&summary.PendingEarnings,
		&summary.EntryCount,
	)
	if err != nil {
		return nil, fmt.Errorf("earnings summary: %w", err)
	}

	return &summary, nil
}
