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

type OccurrenceRepository struct {
	pool *pgxpool.Pool
}

func NewOccurrenceRepository(pool *pgxpool.Pool) *OccurrenceRepository {
	return &OccurrenceRepository{pool: pool}
}

const occurrenceColumns = `id, tutor_id, student_id, subject, start_time, end_time, status, group_id, created_at, updated_at`

func scanOccurrence(row pgx.Row) (*model.SessionOccurrence, error) {
	var occ model.SessionOccurrence
	err := row.Scan(
		&occ.ID,
		&occ.TutorID,
		&occ.StudentID,
		&occ.Subject,
		&occ.StartTime,
		&occ.EndTime,
		&occ.Status,
		&occ.GroupID,
		&occ.CreatedAt,
		&occ.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &occ, nil
}

// GetByID returns the occurrence or nil when it does not exist.
func (r *OccurrenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SessionOccurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM session_occurrences
		WHERE id = $1
	`

	occ, err := scanOccurrence(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get occurrence by id: %w", err)
	}

	return occ, nil
}

// ListByTutor returns the tutor's occurrences in [from, to) ordered by start time.
func (r *OccurrenceRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID, from, to time.Time) ([]*model.SessionOccurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM session_occurrences
		WHERE tutor_id = $1
		  AND start_time >= $2
		  AND start_time < $3
		ORDER BY start_time
	`

	rows, err := r.pool.Query(ctx, query, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list occurrences by tutor: %w", err)
	}
	defer rows.Close()

	var occurrences []*model.SessionOccurrence
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		occurrences = append(occurrences, occ)
	}

	return occurrences, nil
}

// ListByGroupKey returns every occurrence of one logical class session,
// i.e. the rows sharing (group_id, start_time, end_time).
func (r *OccurrenceRepository) ListByGroupKey(ctx context.Context, groupID uuid.UUID, start, end time.Time) ([]*model.SessionOccurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM session_occurrences
		WHERE group_id = $1
		  AND start_time = $2
		  AND end_time = $3
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, groupID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list occurrences by group key: %w", err)
	}
	defer rows.Close()

	var occurrences []*model.SessionOccurrence
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		occurrences = append(occurrences, occ)
	}

	return occurrences, nil
}

// MapGroupMembers returns, per group id, the distinct students that
// appear in the tutor's occurrences of that group.
func (r *OccurrenceRepository) MapGroupMembers(ctx context.Context, tutorID uuid.UUID) (map[uuid.UUID][]model.Student, error) {
	query := `
		SELECT DISTINCT o.group_id, s.id, s.name, s.parent_id, s.tutor_id, s.created_at
		FROM session_occurrences o
		JOIN students s ON s.id = o.student_id
		WHERE o.tutor_id = $1 AND o.group_id IS NOT NULL
		ORDER BY o.group_id, s.name
	`

	rows, err := r.pool.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("map group members: %w", err)
	}
	defer rows.Close()

	groups := make(map[uuid.UUID][]model.Student)
	for rows.Next() {
		var groupID uuid.UUID
		var student model.Student
		err := rows.Scan(
			&groupID,
			&student.ID,
			&student.Name,
			&student.ParentID,
			&student.TutorID,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan group member: %w", err)
		}
		groups[groupID] = append(groups[groupID], student)
	}

	return groups, nil
}

// ListUnactionedPast returns occurrences across all tutors whose end
// time has passed while still scheduled/confirmed and with no timesheet
// entry logged against them. Feeds the notification sweep.
func (r *OccurrenceRepository) ListUnactionedPast(ctx context.Context, now time.Time) ([]*model.SessionOccurrence, error) {
	query := `
		SELECT ` + occurrenceColumns + `
		FROM session_occurrences o
		WHERE o.end_time < $1
		  AND o.status IN ('scheduled', 'confirmed')
		  AND NOT EXISTS (
			SELECT 1 FROM timesheet_entries e
			WHERE e.session_occurrence_id = o.id
		  )
		ORDER BY o.end_time
	`

	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("list unactioned past occurrences: %w", err)
	}
	defer rows.Close()

	var occurrences []*model.SessionOccurrence
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		occurrences = append(occurrences, occ)
	}

	return occurrences, nil
}

// UpdateStatus sets the occurrence status.
func (r *OccurrenceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OccurrenceStatus) error {
	query := `
		UPDATE session_occurrences
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update occurrence status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("occurrence: %w", ErrNoRows)
	}

	return nil
}

// UpdateTimes moves the occurrence to new start/end times (direct reschedule).
func (r *OccurrenceRepository) UpdateTimes(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	query := `
		UPDATE session_occurrences
		SET start_time = $1, end_time = $2, updated_at = now()
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, start, end, id)
	if err != nil {
		return fmt.Errorf("update occurrence times: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("occurrence: %w", ErrNoRows)
	}

	return nil
}
