package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationSessionNeedsAction NotificationType = "session_needs_action"
	NotificationChangeRequest      NotificationType = "change_request"
	NotificationTimesheetReviewed  NotificationType = "timesheet_reviewed"
	NotificationNewMessage         NotificationType = "new_message"
)

type Notification struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	Type         NotificationType `json:"type"`
	Title        string           `json:"title"`
	Body         string           `json:"body"`
	IsRead       bool             `json:"is_read"`
	OccurrenceID *uuid.UUID       `json:"occurrence_id"`
	CreatedAt    time.Time        `json:"created_at"`
}
