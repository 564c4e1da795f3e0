package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type MockExamRepository struct {
	pool *pgxpool.Pool
}

func NewMockExamRepository(pool *pgxpool.Pool) *MockExamRepository {
	return &MockExamRepository{pool: pool}
}

// ListForTutor returns upcoming mock exam bookings of the tutor's
// students.
func (r *MockExamRepository) ListForTutor(ctx context.Context, tutorID uuid.UUID) ([]*model.MockExamBooking, error) {
	query := `
		SELECT b.id, b.student_id, b.subject, b.exam_date, b.location, b.created_at
		FROM mock_exam_bookings b
		JOIN students s ON s.id = b.student_id
		WHERE s.tutor_id = $1
		ORDER BY b.exam_date
	`

	rows, err := r.pool.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list mock exams for tutor: %w", err)
	}
	defer rows.Close()

	var bookings []*model.MockExamBooking
	for rows.Next() {
		var booking model.MockExamBooking
		err := rows.Scan(
			&booking.ID,
			&booking.StudentID,
			&booking.Subject,
			&booking.ExamDate,
			&booking.Location,
			&booking.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan mock exam booking: %w", err)
		}
		bookings = append(bookings, &booking)
	}

	return bookings, nil
}
