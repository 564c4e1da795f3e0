package model

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventKindSession      EventKind = "session"
	EventKindGroupSession EventKind = "group_session"
	EventKindAvailability EventKind = "availability"
	EventKindMockExam     EventKind = "mock_exam"
)

// EventStyle is the status color class a calendar entry renders with.
type EventStyle string

const (
	StyleScheduled           EventStyle = "scheduled"
	StyleConfirmed           EventStyle = "confirmed"
	StyleCompleted           EventStyle = "completed"
	StyleCancelled           EventStyle = "cancelled"
	StyleNoShow              EventStyle = "no_show"
	StyleNeedsAction         EventStyle = "needs_action"
	StyleTentativeCancel     EventStyle = "tentative_cancel"
	StyleTentativeReschedule EventStyle = "tentative_reschedule"
	StyleAvailability        EventStyle = "availability"
	StyleMockExam            EventStyle = "mock_exam"
)

// CalendarEvent is the derived display entry; recomputed per request,
// never persisted.
type CalendarEvent struct {
	ID            string      `json:"id"`
	Kind          EventKind   `json:"kind"`
	Title         string      `json:"title"`
	Start         time.Time   `json:"start"`
	End           time.Time   `json:"end"`
	AllDay        bool        `json:"all_day"`
	Style         EventStyle  `json:"style"`
	Clickable     bool        `json:"clickable"`
	OccurrenceIDs []uuid.UUID `json:"occurrence_ids,omitempty"`
	Members       []Student   `json:"members,omitempty"`
}
