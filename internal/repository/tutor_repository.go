package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

// TutorRepository holds the per-tutor singleton rows: emergency contact
// and preferences.
type TutorRepository struct {
	pool *pgxpool.Pool
}

func NewTutorRepository(pool *pgxpool.Pool) *TutorRepository {
	return &TutorRepository{pool: pool}
}

// GetEmergencyContact returns the tutor's contact or nil when unset.
func (r *TutorRepository) GetEmergencyContact(ctx context.Context, tutorID uuid.UUID) (*model.EmergencyContact, error) {
	query := `
		SELECT tutor_id, name, relationship, phone, updated_at
		FROM emergency_contacts
		WHERE tutor_id = $1
	`

	var contact model.EmergencyContact
	err := r.pool.QueryRow(ctx, query, tutorID).Scan(
		&contact.TutorID,
		&contact.Name,
		&contact.Relationship,
		&contact.Phone,
		&contact.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get emergency contact: %w", err)
	}

	return &contact, nil
}

// UpsertEmergencyContact creates or replaces the tutor's contact.
func (r *TutorRepository) UpsertEmergencyContact(ctx context.Context, contact *model.EmergencyContact) error {
	query := `
		INSERT INTO emergency_contacts (tutor_id, name, relationship, phone, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (tutor_id) DO UPDATE
		SET name = EXCLUDED.name,
		    relationship = EXCLUDED.relationship,
		    phone = EXCLUDED.phone,
		    updated_at = now()
		RETURNING updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		contact.TutorID,
		contact.Name,
		contact.Relationship,
		contact.Phone,
	).Scan(&contact.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert emergency contact: %w", err)
	}

	return nil
}

// GetPreferences returns the tutor's preferences, defaulting to an empty
// dismissed set when no row exists yet.
func (r *TutorRepository) GetPreferences(ctx context.Context, tutorID uuid.UUID) (*model.TutorPreferences, error) {
	query := `
		SELECT tutor_id, dismissed_change_request_ids, updated_at
		FROM tutor_preferences
		WHERE tutor_id = $1
	`

	var prefs model.TutorPreferences
	err := r.pool.QueryRow(ctx, query, tutorID).Scan(
		&prefs.TutorID,
		&prefs.DismissedChangeRequestIDs,
		&prefs.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return &model.TutorPreferences{
				TutorID:                   tutorID,
				DismissedChangeRequestIDs: []uuid.UUID{},
			}, nil
		}
		return nil, fmt.Errorf("get tutor preferences: %w", err)
	}

	return &prefs, nil
}

// UpsertPreferences replaces the tutor's preference row.
func (r *TutorRepository) UpsertPreferences(ctx context.Context, prefs *model.TutorPreferences) error {
	query := `
		INSERT INTO tutor_preferences (tutor_id, dismissed_change_request_ids, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (tutor_id) DO UPDATE
		SET dismissed_change_request_ids = EXCLUDED.dismissed_change_request_ids,
		    updated_at = now()
		RETURNING updated_at
	`

	err := r.pool.QueryRow(ctx, query, prefs.TutorID, prefs.DismissedChangeRequestIDs).
		Scan(&prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert tutor preferences: %w", err)
	}

	return nil
}
