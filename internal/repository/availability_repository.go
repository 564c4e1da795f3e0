package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type AvailabilityRepository struct {
	pool *pgxpool.Pool
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{pool: pool}
}

// ListByTutor returns all availability slots of a tutor.
func (r *AvailabilityRepository) ListByTutor(ctx context.Context, tutorID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	query := `
		SELECT id, tutor_id, day_of_week, start_time, end_time, is_recurring,
		       timeframe_start, timeframe_end, notes, created_at
		FROM availability_slots
		WHERE tutor_id = $1
		ORDER BY day_of_week, start_time
	`

	rows, err := r.pool.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list availability by tutor: %w", err)
	}
	defer rows.Close()

	var slots []*model.AvailabilitySlot
	for rows.Next() {
		var slot model.AvailabilitySlot
		err := rows.Scan(
			&slot.ID,
			&slot.TutorID,
			&slot.DayOfWeek,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsRecurring,
			&slot.TimeframeStart,
			&slot.TimeframeEnd,
			&slot.Notes,
			&slot.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan availability slot: %w", err)
		}
		slots = append(slots, &slot)
	}

	return slots, nil
}

// Create inserts a new availability slot.
func (r *AvailabilityRepository) Create(ctx context.Context, slot *model.AvailabilitySlot) error {
	query := `
		INSERT INTO availability_slots
			(tutor_id, day_of_week, start_time, end_time, is_recurring, timeframe_start, timeframe_end, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		slot.TutorID,
		slot.DayOfWeek,
		slot.StartTime,
		slot.EndTime,
		slot.IsRecurring,
		slot.TimeframeStart,
		slot.TimeframeEnd,
		slot.Notes,
	).Scan(&slot.ID, &slot.CreatedAt)

	if err != nil {
		return fmt.Errorf("create availability slot: %w", err)
	}

	return nil
}

// Delete removes the slot; the tutor id guards against deleting someone
// else's slot.
func (r *AvailabilityRepository) Delete(ctx context.Context, id, tutorID uuid.UUID) error {
	query := `
		DELETE FROM availability_slots
		WHERE id = $1 AND tutor_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, tutorID)
	if err != nil {
		return fmt.Errorf("delete availability slot: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("availability slot: %w", ErrNoRows)
	}

	return nil
}
