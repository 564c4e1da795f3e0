package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/tutorhub/internal/model"
)

func TestStudentAccess(t *testing.T) {
	tutorID, parentID, strangerID := uuid.New(), uuid.New(), uuid.New()
	student := &model.Student{
		ID:       uuid.New(),
		Name:     "Alice",
		TutorID:  &tutorID,
		ParentID: parentID,
	}
	unassigned := &model.Student{
		ID:       uuid.New(),
		Name:     "Bob",
		ParentID: parentID,
	}

	tests := []struct {
		name      string
		student   *model.Student
		requester uuid.UUID
		role      model.Role
		canView   bool
		canManage bool
	}{
		{name: "assigned tutor", student: student, requester: tutorID, role: model.RoleTutor, canView: true, canManage: true},
		{name: "parent can view but not manage", student: student, requester: parentID, role: model.RoleParent, canView: true, canManage: false},
		{name: "admin passes everywhere", student: student, requester: strangerID, role: model.RoleAdmin, canView: true, canManage: true},
		{name: "other tutor", student: student, requester: strangerID, role: model.RoleTutor, canView: false, canManage: false},
		{name: "no assigned tutor", student: unassigned, requester: tutorID, role: model.RoleTutor, canView: false, canManage: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.canView, canViewStudent(tt.student, tt.requester, tt.role))
			assert.Equal(t, tt.canManage, canManageStudent(tt.student, tt.requester, tt.role))
		})
	}
}
