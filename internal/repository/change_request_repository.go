package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type ChangeRequestRepository struct {
	pool *pgxpool.Pool
}

func NewChangeRequestRepository(pool *pgxpool.Pool) *ChangeRequestRepository {
	return &ChangeRequestRepository{pool: pool}
}

const changeRequestColumns = `id, occurrence_id, requested_by, type, status, proposed_start, proposed_end, reason, message, created_at, updated_at`

func scanChangeRequest(row pgx.Row) (*model.ChangeRequest, error) {
	var req model.ChangeRequest
	err := row.Scan(
		&req.ID,
		&req.OccurrenceID,
		&req.RequestedBy,
		&req.Type,
		&req.Status,
		&req.ProposedStart,
		&req.ProposedEnd,
		&req.Reason,
		&req.Message,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create inserts a new change request.
func (r *ChangeRequestRepository) Create(ctx context.Context, req *model.ChangeRequest) error {
	query := `
		INSERT INTO change_requests
			(occurrence_id, requested_by, type, status, proposed_start, proposed_end, reason, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		req.OccurrenceID,
		req.RequestedBy,
		req.Type,
		req.Status,
		req.ProposedStart,
		req.ProposedEnd,
		req.Reason,
		req.Message,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create change request: %w", err)
	}

	return nil
}

// GetByID returns the change request or nil when it does not exist.
func (r *ChangeRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ChangeRequest, error) {
	query := `
		SELECT ` + changeRequestColumns + `
		FROM change_requests
		WHERE id = $1
	`

	req, err := scanChangeRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get change request by id: %w", err)
	}

	return req, nil
}

// ListPendingByTutor returns pending requests touching the tutor's occurrences.
func (r *ChangeRequestRepository) ListPendingByTutor(ctx context.Context, tutorID uuid.UUID) ([]*model.ChangeRequest, error) {
	query := `
		SELECT cr.id, cr.occurrence_id, cr.requested_by, cr.type, cr.status,
		       cr.proposed_start, cr.proposed_end, cr.reason, cr.message, cr.created_at, cr.updated_at
		FROM change_requests cr
		JOIN session_occurrences o ON o.id = cr.occurrence_id
		WHERE o.tutor_id = $1 AND cr.status = 'pending'
		ORDER BY cr.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list pending change requests: %w", err)
	}
	defer rows.Close()

	var requests []*model.ChangeRequest
	for rows.Next() {
		req, err := scanChangeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan change request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// MapPendingByOccurrence returns the newest pending request per
// occurrence for the given occurrence ids.
func (r *ChangeRequestRepository) MapPendingByOccurrence(ctx context.Context, occurrenceIDs []uuid.UUID) (map[uuid.UUID]*model.ChangeRequest, error) {
	if len(occurrenceIDs) == 0 {
		return map[uuid.UUID]*model.ChangeRequest{}, nil
	}

	query := `
		SELECT DISTINCT ON (occurrence_id) ` + changeRequestColumns + `
		FROM change_requests
		WHERE occurrence_id = ANY($1) AND status = 'pending'
		ORDER BY occurrence_id, created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, occurrenceIDs)
	if err != nil {
		return nil, fmt.Errorf("map pending change requests: %w", err)
	}
	defer rows.Close()

	pending := make(map[uuid.UUID]*model.ChangeRequest)
	for rows.Next() {
		req, err := scanChangeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan change request: %w", err)
		}
		pending[req.OccurrenceID] = req
	}

	return pending, nil
}

// UpdateStatus records the admin decision on a pending request.
func (r *ChangeRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ChangeRequestStatus) error {
	query := `
		UPDATE change_requests
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = 'pending'
	`

	result, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update change request status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("change request not pending")
	}

	return nil
}
