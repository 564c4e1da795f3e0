package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type GroupSessionRepository struct {
	pool *pgxpool.Pool
}

func NewGroupSessionRepository(pool *pgxpool.Pool) *GroupSessionRepository {
	return &GroupSessionRepository{pool: pool}
}

// Create inserts the group session, its attendance rows and the
// per-student timesheet entries in one transaction, so a failed insert
// never leaves a session without its entries.
func (r *GroupSessionRepository) Create(ctx context.Context, session *model.GroupSession, entries []*model.TimesheetEntry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO group_sessions (tutor_id, subject, session_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err = tx.QueryRow(ctx, query, session.TutorID, session.Subject, session.Date).
		Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return fmt.Errorf("create group session: %w", err)
	}

	for _, att := range session.Attendance {
		_, err = tx.Exec(ctx, `
			INSERT INTO group_session_attendance (group_session_id, student_id, present, note)
			VALUES ($1, $2, $3, $4)
		`, session.ID, att.StudentID, att.Present, att.Note)
		if err != nil {
			return fmt.Errorf("create attendance row: %w", err)
		}
	}

	for _, entry := range entries {
		entry.GroupSessionID = &session.ID
		err = tx.QueryRow(ctx, `
			INSERT INTO timesheet_entries
				(tutor_id, student_id, entry_date, duration, tutor_earnings, status,
				 session_type, group_session_id, session_occurrence_id, weekly_timesheet_id, notes)
			VALUES ($1, $2, $3, $4, $5::numeric, $6, NULLIF($7, ''), $8, $9, $10, $11)
			RETURNING id, created_at
		`,
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
			return fmt.Errorf("create group entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetByID returns the group session with attendance, or nil.
func (r *GroupSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GroupSession, error) {
	query := `
		SELECT id, tutor_id, subject, session_date, created_at
		FROM group_sessions
		WHERE id = $1
	`

	var session model.GroupSession
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.TutorID,
		&session.Subject,
		&session.Date,
		&session.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get group session by id: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT student_id, present, note
		FROM group_session_attendance
		WHERE group_session_id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var att model.GroupAttendance
		if err := rows.Scan(&att.StudentID, &att.Present, &att.Note); err != nil {
			return nil, fmt.Errorf("scan attendance row: %w", err)
		}
		session.Attendance = append(session.Attendance, att)
	}

	return &session, nil
}

// Delete removes the group session and, via cascade, its attendance.
func (r *GroupSessionRepository) Delete(ctx context.Context, id, tutorID uuid.UUID) error {
	query := `
		DELETE FROM group_sessions
		WHERE id = $1 AND tutor_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, tutorID)
	if err != nil {
		return fmt.Errorf("delete group session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("group session: %w", ErrNoRows)
	}

	return nil
}
