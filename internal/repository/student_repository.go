package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByID returns the student or nil when it does not exist.
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `
		SELECT id, name, parent_id, tutor_id, created_at
		FROM students
		WHERE id = $1
	`

	var student model.Student
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&student.ID,
		&student.Name,
		&student.ParentID,
		&student.TutorID,
		&student.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return &student, nil
}

// GetByIDs returns the students for the given ids, keyed by id.
func (r *StudentRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Student, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]model.Student{}, nil
	}

	query := `
		SELECT id, name, parent_id, tutor_id, created_at
		FROM students
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get students by ids: %w", err)
	}
	defer rows.Close()

	students := make(map[uuid.UUID]model.Student, len(ids))
	for rows.Next() {
		var student model.Student
		err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.ParentID,
			&student.TutorID,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students[student.ID] = student
	}

	return students, nil
}

// GetByTutorID returns all students assigned to the tutor.
func (r *StudentRepository) GetByTutorID(ctx context.Context, tutorID uuid.UUID) ([]model.Student, error) {
	query := `
		SELECT id, name, parent_id, tutor_id, created_at
		FROM students
		WHERE tutor_id = $1
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get students by tutor: %w", err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var student model.Student
		err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.ParentID,
			&student.TutorID,
			&student.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		students = append(students, student)
	}

	return students, nil
}
