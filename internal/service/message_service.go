package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository"
)

type MessageService struct {
	messageRepo      *repository.MessageRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewMessageService(
	messageRepo *repository.MessageRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		messageRepo:      messageRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// ListForUser returns the user's message threads.
func (s *MessageService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Message, error) {
	messages, err := s.messageRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// Get returns one thread with replies; only participants may read it.
func (s *MessageService) Get(ctx context.Context, id, userID uuid.UUID) (*model.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: message", ErrNotFound)
	}
	if msg.SenderID != userID && msg.RecipientID != userID {
		return nil, fmt.Errorf("%w: not a participant", ErrForbidden)
	}

	return msg, nil
}

// Reply appends to a thread and notifies the other participant.
func (s *MessageService) Reply(ctx context.Context, messageID, senderID uuid.UUID, body string) (*model.MessageReply, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: reply body is required", ErrValidation)
	}

	msg, err := s.Get(ctx, messageID, senderID)
	if err != nil {
		return nil, err
	}

	reply := &model.MessageReply{
		MessageID: messageID,
		SenderID:  senderID,
		Body:      body,
	}
	if err := s.messageRepo.CreateReply(ctx, reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}

	recipient := msg.SenderID
	if recipient == senderID {
		recipient = msg.RecipientID
	}
	_, err = s.notificationRepo.CreateIfAbsent(ctx, &model.Notification{
		UserID: recipient,
		Type:   model.NotificationNewMessage,
		Title:  "New reply: " + msg.Subject,
	})
	if err != nil {
		s.logger.Warn("Failed to notify message recipient", zap.Error(err))
	}

	return reply, nil
}

// MarkRead flags the thread as read; only participants may do so.
func (s *MessageService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}

	if err := s.messageRepo.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}

	return nil
}
