package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type TopicRepository struct {
	pool *pgxpool.Pool
}

func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

// ListByStudent returns the student's topics in creation order.
func (r *TopicRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Topic, error) {
	query := `
		SELECT id, student_id, subject, title, covered, covered_at, created_at
		FROM topics
		WHERE student_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("list topics by student: %w", err)
	}
	defer rows.Close()

	var topics []*model.Topic
	for rows.Next() {
		var topic model.Topic
		err := rows.Scan(
			&topic.ID,
			&topic.StudentID,
			&topic.Subject,
			&topic.Title,
			&topic.Covered,
			&topic.CoveredAt,
			&topic.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, &topic)
	}

	return topics, nil
}

// GetByID returns the topic or nil when it does not exist.
func (r *TopicRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Topic, error) {
	query := `
		SELECT id, student_id, subject, title, covered, covered_at, created_at
		FROM topics
		WHERE id = $1
	`

	var topic model.Topic
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&topic.ID,
		&topic.StudentID,
		&topic.Subject,
		&topic.Title,
		&topic.Covered,
		&topic.CoveredAt,
		&topic.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get topic by id: %w", err)
	}

	return &topic, nil
}

// SetCovered toggles the covered flag.
func (r *TopicRepository) SetCovered(ctx context.Context, id uuid.UUID, covered bool) error {
	query := `
		UPDATE topics
		SET covered = $1,
		    covered_at = CASE WHEN $1 THEN now() ELSE NULL END
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, covered, id)
	if err != nil {
		return fmt.Errorf("set topic covered: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("topic: %w", ErrNoRows)
	}

	return nil
}
