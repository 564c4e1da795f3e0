package model

import (
	"time"

	"github.com/google/uuid"
)

type ChangeRequestType string

const (
	ChangeRequestCancel     ChangeRequestType = "cancel"
	ChangeRequestReschedule ChangeRequestType = "reschedule"
)

type ChangeRequestStatus string

const (
	ChangeRequestStatusPending  ChangeRequestStatus = "pending"
	ChangeRequestStatusApproved ChangeRequestStatus = "approved"
	ChangeRequestStatusRejected ChangeRequestStatus = "rejected"
)

// ChangeRequest is a proposal to cancel or reschedule an occurrence; it
// does not alter the occurrence until an admin approves it.
type ChangeRequest struct {
	ID            uuid.UUID           `json:"id"`
	OccurrenceID  uuid.UUID           `json:"occurrence_id"`
	RequestedBy   uuid.UUID           `json:"requested_by"`
	Type          ChangeRequestType   `json:"type"`
	Status        ChangeRequestStatus `json:"status"`
	ProposedStart *time.Time          `json:"proposed_start"`
	ProposedEnd   *time.Time          `json:"proposed_end"`
	Reason        string              `json:"reason"`
	Message       string              `json:"message"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// BatchItemResult reports the outcome for one occurrence of a batch
// group operation. Batches never roll back completed siblings, so the
// caller gets one result per occurrence instead of a single pass/fail.
type BatchItemResult struct {
	OccurrenceID uuid.UUID `json:"occurrence_id"`
	OK           bool      `json:"ok"`
	Error        string    `json:"error,omitempty"`
}
