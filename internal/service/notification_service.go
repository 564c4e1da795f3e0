package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	occurrenceRepo   *repository.OccurrenceRepository
	logger           *zap.Logger
	clock            func() time.Time
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	occurrenceRepo *repository.OccurrenceRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		occurrenceRepo:   occurrenceRepo,
		logger:           logger,
		clock:            time.Now,
	}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.notificationRepo.MarkRead(ctx, id, userID); err != nil {
		return notFoundOr(err, "notification", "mark notification read")
	}
	return nil
}

// SweepSessionsNeedingAction materializes one notification per past
// session that was never actioned. Deduplicated on
// (user, occurrence, type), so re-running the sweep is idempotent.
// Returns the number of notifications created.
func (s *NotificationService) SweepSessionsNeedingAction(ctx context.Context) (int, error) {
	flagged, err := s.occurrenceRepo.ListUnactionedPast(ctx, s.clock())
	if err != nil {
		return 0, fmt.Errorf("list unactioned occurrences: %w", err)
	}

	created := 0
	for _, occ := range flagged {
		occurrenceID := occ.ID
		inserted, err := s.notificationRepo.CreateIfAbsent(ctx, &model.Notification{
			UserID:       occ.TutorID,
			Type:         model.NotificationSessionNeedsAction,
			Title:        "Session needs attention",
			Body:         fmt.Sprintf("Your session on %s ended without a status update or timesheet entry.", occ.StartTime.Format("Mon Jan 2 15:04")),
			OccurrenceID: &occurrenceID,
		})
		if err != nil {
			return created, fmt.Errorf("create notification: %w", err)
		}
		if inserted {
			created++
		}
	}

	return created, nil
}
