package model

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilitySlot is a weekly-recurring or seasonal window in which a
// tutor accepts sessions. Times are "HH:MM" strings in the tutor's zone.
type AvailabilitySlot struct {
	ID             uuid.UUID  `json:"id"`
	TutorID        uuid.UUID  `json:"tutor_id"`
	DayOfWeek      int        `json:"day_of_week"` // 0 = Sunday, 6 = Saturday
	StartTime      string     `json:"start_time"`
	EndTime        string     `json:"end_time"`
	IsRecurring    bool       `json:"is_recurring"`
	TimeframeStart *time.Time `json:"timeframe_start"` // seasonal slots only
	TimeframeEnd   *time.Time `json:"timeframe_end"`
	Notes          string     `json:"notes"`
	CreatedAt      time.Time  `json:"created_at"`
}
