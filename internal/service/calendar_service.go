package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository"
)

type CalendarService struct {
	occurrenceRepo   *repository.OccurrenceRepository
	availabilityRepo *repository.AvailabilityRepository
	timesheetRepo    *repository.TimesheetRepository
	changeRepo       *repository.ChangeRequestRepository
	studentRepo      *repository.StudentRepository
	mockExamRepo     *repository.MockExamRepository
	undo             *UndoBuffer
	logger           *zap.Logger
	clock            func() time.Time
}

func NewCalendarService(
	occurrenceRepo *repository.OccurrenceRepository,
	availabilityRepo *repository.AvailabilityRepository,
	timesheetRepo *repository.TimesheetRepository,
	changeRepo *repository.ChangeRequestRepository,
	studentRepo *repository.StudentRepository,
	mockExamRepo *repository.MockExamRepository,
	logger *zap.Logger,
) *CalendarService {
	return &CalendarService{
		occurrenceRepo:   occurrenceRepo,
		availabilityRepo: availabilityRepo,
		timesheetRepo:    timesheetRepo,
		changeRepo:       changeRepo,
		studentRepo:      studentRepo,
		mockExamRepo:     mockExamRepo,
		undo:             NewUndoBuffer(),
		logger:           logger,
		clock:            time.Now,
	}
}

// ListOccurrences returns the tutor's occurrences with the student, the
// newest pending change request and the group member list denormalized
// onto each row.
func (s *CalendarService) ListOccurrences(ctx context.Context, tutorID uuid.UUID, from, to time.Time) ([]*model.SessionOccurrence, error) {
	occurrences, err := s.occurrenceRepo.ListByTutor(ctx, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(occurrences))
	var studentIDs []uuid.UUID
	for _, occ := range occurrences {
		ids = append(ids, occ.ID)
		if occ.StudentID != nil {
			studentIDs = append(studentIDs, *occ.StudentID)
		}
	}

	pending, err := s.changeRepo.MapPendingByOccurrence(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("map pending change requests: %w", err)
	}

	students, err := s.studentRepo.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("get students: %w", err)
	}

	buckets := make(map[string][]*model.SessionOccurrence)
	for _, occ := range occurrences {
		occ.PendingChangeRequest = pending[occ.ID]
		if occ.StudentID != nil {
			if student, ok := students[*occ.StudentID]; ok {
				occ.Student = &student
			}
		}
		if occ.GroupID != nil {
			key := GroupKey(*occ.GroupID, occ.StartTime, occ.EndTime)
			buckets[key] = append(buckets[key], occ)
		}
	}

	// every row of a group bucket carries the full member list
	for _, bucket := range buckets {
		var members []model.Student
		seen := make(map[uuid.UUID]struct{})
		for _, occ := range bucket {
			if occ.Student == nil {
				continue
			}
			if _, dup := seen[occ.Student.ID]; dup {
				continue
			}
			seen[occ.Student.ID] = struct{}{}
			members = append(members, *occ.Student)
		}
		for _, occ := range bucket {
			occ.GroupMembers = members
		}
	}

	return occurrences, nil
}

// CalendarEvents projects the tutor's calendar for [from, to).
func (s *CalendarService) CalendarEvents(ctx context.Context, tutorID uuid.UUID, from, to time.Time) ([]model.CalendarEvent, error) {
	occurrences, err := s.ListOccurrences(ctx, tutorID, from, to)
	if err != nil {
		return nil, err
	}

	slots, err := s.availabilityRepo.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}

	exams, err := s.mockExamRepo.ListForTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list mock exams: %w", err)
	}

	logged, err := s.timesheetRepo.ListLoggedOccurrenceIDs(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list logged occurrence ids: %w", err)
	}

	var studentIDs []uuid.UUID
	for _, occ := range occurrences {
		if occ.StudentID != nil {
			studentIDs = append(studentIDs, *occ.StudentID)
		}
	}
	for _, exam := range exams {
		studentIDs = append(studentIDs, exam.StudentID)
	}
	students, err := s.studentRepo.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("get students: %w", err)
	}

	groups, err := s.occurrenceRepo.MapGroupMembers(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("map group members: %w", err)
	}

	pending := make(map[uuid.UUID]*model.ChangeRequest, len(occurrences))
	for _, occ := range occurrences {
		if occ.PendingChangeRequest != nil {
			pending[occ.ID] = occ.PendingChangeRequest
		}
	}

	return ProjectEvents(ProjectorInput{
		Occurrences: occurrences,
		Slots:       slots,
		MockExams:   exams,
		Pending:     pending,
		LoggedIDs:   logged,
		Students:    students,
		Groups:      groups,
		Now:         s.clock(),
	}), nil
}

// SessionsNeedingAction returns past, unactioned, unlogged occurrences
// for the alert list.
func (s *CalendarService) SessionsNeedingAction(ctx context.Context, tutorID uuid.UUID) ([]*model.SessionOccurrence, error) {
	now := s.clock()

	occurrences, err := s.ListOccurrences(ctx, tutorID, now.AddDate(0, -3, 0), now)
	if err != nil {
		return nil, err
	}

	logged, err := s.timesheetRepo.ListLoggedOccurrenceIDs(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list logged occurrence ids: %w", err)
	}

	return SessionsNeedingAction(occurrences, logged, now), nil
}

// UpdateOccurrence applies a status change and/or a direct reschedule.
// A reschedule captures the original times in the tutor's undo buffer
// before moving the session.
func (s *CalendarService) UpdateOccurrence(ctx context.Context, tutorID, id uuid.UUID, status *model.OccurrenceStatus, start, end *time.Time) (*model.SessionOccurrence, error) {
	occ, err := s.occurrenceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get occurrence: %w", err)
	}
	if occ == nil {
		return nil, fmt.Errorf("%w: occurrence", ErrNotFound)
	}
	if occ.TutorID != tutorID {
		return nil, fmt.Errorf("%w: occurrence belongs to another tutor", ErrForbidden)
	}

	if status != nil {
		if err := s.occurrenceRepo.UpdateStatus(ctx, id, *status); err != nil {
			return nil, fmt.Errorf("update status: %w", err)
		}
		s.logger.Info("Occurrence status updated",
			zap.String("occurrence_id", id.String()),
			zap.String("status", string(*status)))
	}

	if start != nil || end != nil {
		newStart, newEnd := occ.StartTime, occ.EndTime
		if start != nil {
			newStart = *start
		}
		if end != nil {
			newEnd = *end
		}
		if !newEnd.After(newStart) {
			return nil, fmt.Errorf("%w: end must be after start", ErrValidation)
		}

		// capture the original before moving; one slot, overwritten
		s.undo.Push(tutorID, RescheduleSnapshot{
			OccurrenceID: occ.ID,
			Start:        occ.StartTime,
			End:          occ.EndTime,
		})

		if err := s.occurrenceRepo.UpdateTimes(ctx, id, newStart, newEnd); err != nil {
			return nil, fmt.Errorf("update times: %w", err)
		}
		s.logger.Info("Occurrence rescheduled",
			zap.String("occurrence_id", id.String()),
			zap.Time("new_start", newStart),
			zap.Time("new_end", newEnd))
	}

	updated, err := s.occurrenceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get occurrence: %w", err)
	}

	return updated, nil
}

// UndoReschedule restores the tutor's last directly-rescheduled
// occurrence to its captured original times. The buffer holds one
// snapshot; a second undo without an intervening reschedule is a no-op.
func (s *CalendarService) UndoReschedule(ctx context.Context, tutorID uuid.UUID) (*model.SessionOccurrence, error) {
	snap, ok := s.undo.Pop(tutorID)
	if !ok {
		return nil, fmt.Errorf("%w: nothing to undo", ErrNotFound)
	}

	if err := s.occurrenceRepo.UpdateTimes(ctx, snap.OccurrenceID, snap.Start, snap.End); err != nil {
		return nil, fmt.Errorf("restore occurrence times: %w", err)
	}

	s.logger.Info("Reschedule undone",
		zap.String("occurrence_id", snap.OccurrenceID.String()),
		zap.Time("restored_start", snap.Start))

	occ, err := s.occurrenceRepo.GetByID(ctx, snap.OccurrenceID)
	if err != nil {
		return nil, fmt.Errorf("get occurrence: %w", err)
	}

	return occ, nil
}

// ListAvailability returns the tutor's availability slots.
func (s *CalendarService) ListAvailability(ctx context.Context, tutorID uuid.UUID) ([]*model.AvailabilitySlot, error) {
	slots, err := s.availabilityRepo.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return slots, nil
}

// CreateAvailability validates and stores a new slot.
func (s *CalendarService) CreateAvailability(ctx context.Context, slot *model.AvailabilitySlot) (*model.AvailabilitySlot, error) {
	if slot.DayOfWeek < 0 || slot.DayOfWeek > 6 {
		return nil, fmt.Errorf("%w: day_of_week must be 0-6", ErrValidation)
	}

	startHour, startMinute, err := parseClock(slot.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time must be HH:MM", ErrValidation)
	}
	endHour, endMinute, err := parseClock(slot.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time must be HH:MM", ErrValidation)
	}
	if endHour*60+endMinute <= startHour*60+startMinute {
		return nil, fmt.Errorf("%w: end_time must be after start_time", ErrValidation)
	}

	if !slot.IsRecurring && (slot.TimeframeStart == nil || slot.TimeframeEnd == nil) {
		return nil, fmt.Errorf("%w: seasonal slots need a timeframe", ErrValidation)
	}

	if err := s.availabilityRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("create availability: %w", err)
	}

	s.logger.Info("Availability slot created",
		zap.String("tutor_id", slot.TutorID.String()),
		zap.Int("day_of_week", slot.DayOfWeek),
		zap.String("start", slot.StartTime),
		zap.String("end", slot.EndTime))

	return slot, nil
}

// DeleteAvailability removes the tutor's slot.
func (s *CalendarService) DeleteAvailability(ctx context.Context, id, tutorID uuid.UUID) error {
	if err := s.availabilityRepo.Delete(ctx, id, tutorID); err != nil {
		return notFoundOr(err, "availability slot", "delete availability")
	}

	s.logger.Info("Availability slot deleted",
		zap.String("slot_id", id.String()),
		zap.String("tutor_id", tutorID.String()))

	return nil
}

// ListMockExams returns the mock exam bookings of the tutor's students.
func (s *CalendarService) ListMockExams(ctx context.Context, tutorID uuid.UUID) ([]*model.MockExamBooking, error) {
	exams, err := s.mockExamRepo.ListForTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list mock exams: %w", err)
	}
	return exams, nil
}
