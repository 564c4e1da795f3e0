package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository"
)

// TutorService covers the tutor-profile surface: students, topics and
// the emergency contact.
type TutorService struct {
	studentRepo *repository.StudentRepository
	topicRepo   *repository.TopicRepository
	tutorRepo   *repository.TutorRepository
	logger      *zap.Logger
}

func NewTutorService(
	studentRepo *repository.StudentRepository,
	topicRepo *repository.TopicRepository,
	tutorRepo *repository.TutorRepository,
	logger *zap.Logger,
) *TutorService {
	return &TutorService{
		studentRepo: studentRepo,
		topicRepo:   topicRepo,
		tutorRepo:   tutorRepo,
		logger:      logger,
	}
}

// Students returns the tutor's assigned students.
func (s *TutorService) Students(ctx context.Context, tutorID uuid.UUID) ([]model.Student, error) {
	students, err := s.studentRepo.GetByTutorID(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// canViewStudent reports whether the requester may read the student's
// records: the assigned tutor, the parent, or an admin.
func canViewStudent(student *model.Student, requesterID uuid.UUID, role model.Role) bool {
	if role == model.RoleAdmin {
		return true
	}
	if student.TutorID != nil && *student.TutorID == requesterID {
		return true
	}
	return student.ParentID == requesterID
}

// canManageStudent is the write-side gate: assigned tutor or admin only.
func canManageStudent(student *model.Student, requesterID uuid.UUID, role model.Role) bool {
	if role == model.RoleAdmin {
		return true
	}
	return student.TutorID != nil && *student.TutorID == requesterID
}

// StudentTopics lists a student's topics; only the assigned tutor, the
// parent or an admin may see them.
func (s *TutorService) StudentTopics(ctx context.Context, studentID, requesterID uuid.UUID, requesterRole model.Role) ([]*model.Topic, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, fmt.Errorf("%w: student", ErrNotFound)
	}

	if !canViewStudent(student, requesterID, requesterRole) {
		return nil, fmt.Errorf("%w: student not assigned to you", ErrForbidden)
	}

	topics, err := s.topicRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	return topics, nil
}

// SetTopicCovered toggles a topic's covered flag. Only the student's
// assigned tutor or an admin may change it.
func (s *TutorService) SetTopicCovered(ctx context.Context, topicID, requesterID uuid.UUID, requesterRole model.Role, covered bool) error {
	topic, err := s.topicRepo.GetByID(ctx, topicID)
	if err != nil {
		return fmt.Errorf("get topic: %w", err)
	}
	if topic == nil {
		return fmt.Errorf("%w: topic", ErrNotFound)
	}

	student, err := s.studentRepo.GetByID(ctx, topic.StudentID)
	if err != nil {
		return fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return fmt.Errorf("%w: student", ErrNotFound)
	}
	if !canManageStudent(student, requesterID, requesterRole) {
		return fmt.Errorf("%w: student not assigned to you", ErrForbidden)
	}

	if err := s.topicRepo.SetCovered(ctx, topicID, covered); err != nil {
		return notFoundOr(err, "topic", "set topic covered")
	}

	s.logger.Info("Topic coverage updated",
		zap.String("topic_id", topicID.String()),
		zap.Bool("covered", covered))

	return nil
}

// EmergencyContact returns the tutor's contact, nil when unset.
func (s *TutorService) EmergencyContact(ctx context.Context, tutorID uuid.UUID) (*model.EmergencyContact, error) {
	contact, err := s.tutorRepo.GetEmergencyContact(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get emergency contact: %w", err)
	}
	return contact, nil
}

// SaveEmergencyContact validates and upserts the tutor's contact.
func (s *TutorService) SaveEmergencyContact(ctx context.Context, contact *model.EmergencyContact) (*model.EmergencyContact, error) {
	if strings.TrimSpace(contact.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(contact.Phone) == "" {
		return nil, fmt.Errorf("%w: phone is required", ErrValidation)
	}

	if err := s.tutorRepo.UpsertEmergencyContact(ctx, contact); err != nil {
		return nil, fmt.Errorf("save emergency contact: %w", err)
	}

	return contact, nil
}
