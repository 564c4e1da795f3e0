package model

import (
	"time"

	"github.com/google/uuid"
)

type OccurrenceStatus string

const (
	OccurrenceStatusScheduled OccurrenceStatus = "scheduled"
	OccurrenceStatusConfirmed OccurrenceStatus = "confirmed"
	OccurrenceStatusCompleted OccurrenceStatus = "completed"
	OccurrenceStatusCancelled OccurrenceStatus = "cancelled"
	OccurrenceStatusNoShow    OccurrenceStatus = "no_show"
)

// SessionOccurrence is one concrete scheduled tutoring instance.
// Occurrences sharing the same (group_id, start, end) are one logical
// class session replicated per student.
type SessionOccurrence struct {
	ID        uuid.UUID        `json:"id"`
	TutorID   uuid.UUID        `json:"tutor_id"`
	StudentID *uuid.UUID       `json:"student_id"` // nil on group rows without a direct student link
	Subject   string           `json:"subject"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Status    OccurrenceStatus `json:"status"`
	GroupID   *uuid.UUID       `json:"group_id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Denormalized for responses (not stored on this row)
	Student              *Student       `json:"student,omitempty"`
	GroupMembers         []Student      `json:"group_members,omitempty"`
	PendingChangeRequest *ChangeRequest `json:"pending_change_request,omitempty"`
}
