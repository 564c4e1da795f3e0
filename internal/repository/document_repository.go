package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

// ListVisible returns the metadata of documents the user may see: their
// own uploads plus documents attached to a student they tutor or parent.
// Content is not loaded here.
func (r *DocumentRepository) ListVisible(ctx context.Context, userID uuid.UUID) ([]*model.Document, error) {
	query := `
		SELECT d.id, d.owner_id, d.student_id, d.name, d.content_type, d.size_bytes, d.created_at
		FROM documents d
		LEFT JOIN students s ON s.id = d.student_id
		WHERE d.owner_id = $1 OR s.tutor_id = $1 OR s.parent_id = $1
		ORDER BY d.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list visible documents: %w", err)
	}
	defer rows.Close()

	var documents []*model.Document
	for rows.Next() {
		var doc model.Document
		err := rows.Scan(
			&doc.ID,
			&doc.OwnerID,
			&doc.StudentID,
			&doc.Name,
			&doc.ContentType,
			&doc.SizeBytes,
			&doc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, &doc)
	}

	return documents, nil
}

// GetWithData returns the document including its content, or nil.
func (r *DocumentRepository) GetWithData(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	query := `
		SELECT id, owner_id, student_id, name, content_type, size_bytes, data, created_at
		FROM documents
		WHERE id = $1
	`

	var doc model.Document
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.StudentID,
		&doc.Name,
		&doc.ContentType,
		&doc.SizeBytes,
		&doc.Data,
		&doc.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get document by id: %w", err)
	}

	return &doc, nil
}

// Create stores the document with its content.
func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	query := `
		INSERT INTO documents (owner_id, student_id, name, content_type, size_bytes, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		doc.OwnerID,
		doc.StudentID,
		doc.Name,
		doc.ContentType,
		doc.SizeBytes,
		doc.Data,
	).Scan(&doc.ID, &doc.CreatedAt)

	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// Delete removes the document; the owner id guards ownership.
func (r *DocumentRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `
		DELETE FROM documents
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document: %w", ErrNoRows)
	}

	return nil
}
