package model

import (
	"time"

	"github.com/google/uuid"
)

type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusRejected EntryStatus = "rejected"
)

type SessionType string

const (
	SessionTypeIndividual SessionType = "individual"
	SessionTypeGroup      SessionType = "group"
	SessionTypeOther      SessionType = "other"
)

// TimesheetEntry is one logged unit of work. Duration is in hours at
// quarter-hour granularity; earnings travel as a decimal string to keep
// the currency representation exact on the wire.
type TimesheetEntry struct {
	ID                  uuid.UUID   `json:"id"`
	TutorID             uuid.UUID   `json:"tutor_id"`
	StudentID           *uuid.UUID  `json:"student_id"`
	Date                time.Time   `json:"date"`
	Duration            float64     `json:"duration"`
	TutorEarnings       string      `json:"tutor_earnings"`
	Status              EntryStatus `json:"status"`
	SessionType         SessionType `json:"session_type,omitempty"`
	GroupSessionID      *uuid.UUID  `json:"group_session_id"`
	SessionOccurrenceID *uuid.UUID  `json:"session_occurrence_id"`
	WeeklyTimesheetID   *uuid.UUID  `json:"weekly_timesheet_id"`
	Notes               string      `json:"notes"`
	CreatedAt           time.Time   `json:"created_at"`

	// Denormalized for responses (not stored on this row)
	StudentName string `json:"student_name,omitempty"`
	Present     *bool  `json:"present,omitempty"` // from the group session attendance row
}

type WeeklyStatus string

const (
	WeeklyStatusDraft     WeeklyStatus = "draft"
	WeeklyStatusSubmitted WeeklyStatus = "submitted"
	WeeklyStatusApproved  WeeklyStatus = "approved"
	WeeklyStatusRejected  WeeklyStatus = "rejected"
)

// WeeklyTimesheet aggregates a tutor's entries for one calendar week and
// carries the admin approval workflow. A rejected timesheet is editable
// again, like a draft.
type WeeklyTimesheet struct {
	ID          uuid.UUID    `json:"id"`
	TutorID     uuid.UUID    `json:"tutor_id"`
	WeekStart   time.Time    `json:"week_start"`
	WeekEnd     time.Time    `json:"week_end"`
	Status      WeeklyStatus `json:"status"`
	ReviewNotes string       `json:"review_notes"`
	SubmittedAt *time.Time   `json:"submitted_at"`
	ReviewedAt  *time.Time   `json:"reviewed_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

type GroupedEntryType string

const (
	GroupedEntryIndividual GroupedEntryType = "individual"
	GroupedEntryGroup      GroupedEntryType = "group"
)

// GroupedMember is one student within a grouped timesheet row.
type GroupedMember struct {
	StudentID   *uuid.UUID `json:"student_id"`
	StudentName string     `json:"student_name"`
	Present     *bool      `json:"present"`
}

// GroupedEntry is a derived display row: entries logged together under
// one group session collapse into a single row with summed totals.
// Never persisted; recomputed from the entry list on every request.
type GroupedEntry struct {
	Type          GroupedEntryType `json:"type"`
	ID            uuid.UUID        `json:"id"`
	Date          time.Time        `json:"date"`
	Entries       []TimesheetEntry `json:"entries"`
	Members       []GroupedMember  `json:"members,omitempty"`
	TotalDuration float64          `json:"total_duration"`
	TotalEarnings string           `json:"total_earnings"`
}
