package model

import (
	"time"

	"github.com/google/uuid"
)

type MockExamBooking struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	Subject   string    `json:"subject"`
	ExamDate  time.Time `json:"exam_date"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

type EmergencyContact struct {
	TutorID      uuid.UUID `json:"tutor_id"`
	Name         string    `json:"name"`
	Relationship string    `json:"relationship"`
	Phone        string    `json:"phone"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TutorPreferences is per-tutor UI state the server keeps so it survives
// devices and reloads. Currently only the dismissed change-request set.
type TutorPreferences struct {
	TutorID                   uuid.UUID   `json:"tutor_id"`
	DismissedChangeRequestIDs []uuid.UUID `json:"dismissed_change_request_ids"`
	UpdatedAt                 time.Time   `json:"updated_at"`
}
