package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupSession ties together the timesheet entries logged for one class
// of several students.
type GroupSession struct {
	ID         uuid.UUID         `json:"id"`
	TutorID    uuid.UUID         `json:"tutor_id"`
	Subject    string            `json:"subject"`
	Date       time.Time         `json:"date"`
	Attendance []GroupAttendance `json:"attendance"`
	CreatedAt  time.Time         `json:"created_at"`
}

// GroupAttendance records presence per student as a structured field
// rather than free text.
type GroupAttendance struct {
	StudentID uuid.UUID `json:"student_id"`
	Present   bool      `json:"present"`
	Note      string    `json:"note"`
}
