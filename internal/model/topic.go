package model

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	ID        uuid.UUID  `json:"id"`
	StudentID uuid.UUID  `json:"student_id"`
	Subject   string     `json:"subject"`
	Title     string     `json:"title"`
	Covered   bool       `json:"covered"`
	CoveredAt *time.Time `json:"covered_at"`
	CreatedAt time.Time  `json:"created_at"`
}
