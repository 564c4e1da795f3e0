package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/tutorhub/internal/model"
)

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// ListForUser returns threads the user participates in, newest first.
func (r *MessageRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, subject, body, is_read, created_at
		FROM messages
		WHERE sender_id = $1 OR recipient_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages for user: %w", err)
	}
	defer rows.Close()

	var messages []*model.Message
	for rows.Next() {
		var msg model.Message
		err := rows.Scan(
			&msg.ID,
			&msg.SenderID,
			&msg.RecipientID,
			&msg.Subject,
			&msg.Body,
			&msg.IsRead,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	return messages, nil
}

// GetByID returns the message thread with replies, or nil.
func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	query := `
		SELECT id, sender_id, recipient_id, subject, body, is_read, created_at
		FROM messages
		WHERE id = $1
	`

	var msg model.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID,
		&msg.SenderID,
		&msg.RecipientID,
		&msg.Subject,
		&msg.Body,
		&msg.IsRead,
		&msg.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get message by id: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, message_id, sender_id, body, created_at
		FROM message_replies
		WHERE message_id = $1
		ORDER BY created_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var reply model.MessageReply
		err := rows.Scan(&reply.ID, &reply.MessageID, &reply.SenderID, &reply.Body, &reply.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		msg.Replies = append(msg.Replies, reply)
	}

	return &msg, nil
}

// CreateReply appends a reply to a thread.
func (r *MessageRepository) CreateReply(ctx context.Context, reply *model.MessageReply) error {
	query := `
		INSERT INTO message_replies (message_id, sender_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query, reply.MessageID, reply.SenderID, reply.Body).
		Scan(&reply.ID, &reply.CreatedAt)
	if err != nil {
		return fmt.Errorf("create reply: %w", err)
	}

	return nil
}

// MarkRead flags the message as read.
func (r *MessageRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE messages
		SET is_read = true
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("message: %w", ErrNoRows)
	}

	return nil
}
