package model

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleTutor  Role = "tutor"
	RoleParent Role = "parent"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Student struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentID  uuid.UUID  `json:"parent_id"`
	TutorID   *uuid.UUID `json:"tutor_id"` // nil until a tutor is assigned
	CreatedAt time.Time  `json:"created_at"`
}
