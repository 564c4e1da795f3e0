package model

import (
	"time"

	"github.com/google/uuid"
)

// Document is a file shared between the tutor, the student's parent and
// the admin. Content lives in the row; Data is only populated on
// download.
type Document struct {
	ID          uuid.UUID  `json:"id"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	StudentID   *uuid.UUID `json:"student_id"` // nil for private documents
	Name        string     `json:"name"`
	ContentType string     `json:"content_type"`
	SizeBytes   int64      `json:"size_bytes"`
	Data        []byte     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
}
