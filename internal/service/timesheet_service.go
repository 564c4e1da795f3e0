package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/repository"
)

type TimesheetService struct {
	timesheetRepo    *repository.TimesheetRepository
	weeklyRepo       *repository.WeeklyTimesheetRepository
	groupSessionRepo *repository.GroupSessionRepository
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
	clock            func() time.Time
}

func NewTimesheetService(
	timesheetRepo *repository.TimesheetRepository,
	weeklyRepo *repository.WeeklyTimesheetRepository,
	groupSessionRepo *repository.GroupSessionRepository,
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *TimesheetService {
	return &TimesheetService{
		timesheetRepo:    timesheetRepo,
		weeklyRepo:       weeklyRepo,
		groupSessionRepo: groupSessionRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		clock:            time.Now,
	}
}

// weekBounds returns the Monday and Sunday of the week containing t.
func weekBounds(t time.Time) (time.Time, time.Time) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// ListEntries returns the tutor's entries, optionally date-bounded.
func (s *TimesheetService) ListEntries(ctx context.Context, tutorID uuid.UUID, from, to *time.Time) ([]*model.TimesheetEntry, error) {
	entries, err := s.timesheetRepo.ListByTutor(ctx, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// GroupedEntries returns the collapsed display rows for the tutor.
func (s *TimesheetService) GroupedEntries(ctx context.Context, tutorID uuid.UUID, from, to *time.Time) ([]model.GroupedEntry, error) {
	entries, err := s.timesheetRepo.ListByTutor(ctx, tutorID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return GroupEntries(entries), nil
}

// CreateEntry validates and stores one logged unit of work, attaching it
// to the weekly timesheet of its week. Logging into an already-submitted
// week is a conflict.
func (s *TimesheetService) CreateEntry(ctx context.Context, entry *model.TimesheetEntry) (*model.TimesheetEntry, error) {
	if entry.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	// quarter-hour granularity
	if q := entry.Duration * 4; q != math.Trunc(q) {
		return nil, fmt.Errorf("%w: duration must be a multiple of 0.25", ErrValidation)
	}
	if entry.TutorEarnings == "" {
		entry.TutorEarnings = "0.00"
	}
	if _, err := strconv.ParseFloat(entry.TutorEarnings, 64); err != nil {
		return nil, fmt.Errorf("%w: tutor_earnings must be a decimal amount", ErrValidation)
	}
	if entry.SessionType == model.SessionTypeGroup && entry.GroupSessionID == nil {
		return nil, fmt.Errorf("%w: group entries need a group_session_id", ErrValidation)
	}

	weekly, err := s.attachableWeekly(ctx, entry.TutorID, entry.Date)
	if err != nil {
		return nil, err
	}
	entry.WeeklyTimesheetID = &weekly.ID
	entry.Status = model.EntryStatusPending

	if err := s.timesheetRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}

	s.logger.Info("Timesheet entry created",
		zap.String("entry_id", entry.ID.String()),
		zap.String("tutor_id", entry.TutorID.String()),
		zap.Float64("duration", entry.Duration))

	return entry, nil
}

// attachableWeekly finds (or creates) the weekly timesheet covering date
// and checks it still accepts entries.
func (s *TimesheetService) attachableWeekly(ctx context.Context, tutorID uuid.UUID, date time.Time) (*model.WeeklyTimesheet, error) {
	weekStart, weekEnd := weekBounds(date)
	weekly, err := s.weeklyRepo.GetOrCreateForWeek(ctx, tutorID, weekStart, weekEnd)
	if err != nil {
		return nil, fmt.Errorf("get weekly timesheet: %w", err)
	}

	if weekly.Status == model.WeeklyStatusSubmitted || weekly.Status == model.WeeklyStatusApproved {
		return nil, fmt.Errorf("%w: week already %s", ErrConflict, weekly.Status)
	}

	return weekly, nil
}

// CurrentWeekly returns the tutor's timesheet for the current week,
// creating the draft on first touch.
func (s *TimesheetService) CurrentWeekly(ctx context.Context, tutorID uuid.UUID) (*model.WeeklyTimesheet, []*model.TimesheetEntry, error) {
	weekStart, weekEnd := weekBounds(s.clock())
	weekly, err := s.weeklyRepo.GetOrCreateForWeek(ctx, tutorID, weekStart, weekEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("get weekly timesheet: %w", err)
	}

	if err := s.timesheetRepo.AttachWeekToTimesheet(ctx, tutorID, weekly.ID, weekStart, weekEnd); err != nil {
		return nil, nil, err
	}

	entries, err := s.timesheetRepo.ListByWeekly(ctx, weekly.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list weekly entries: %w", err)
	}

	return weekly, entries, nil
}

// ListWeekly returns the tutor's weekly timesheets, newest first.
func (s *TimesheetService) ListWeekly(ctx context.Context, tutorID uuid.UUID) ([]*model.WeeklyTimesheet, error) {
	timesheets, err := s.weeklyRepo.ListByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list weekly timesheets: %w", err)
	}
	return timesheets, nil
}

// SubmitWeekly sends a draft (or rejected) timesheet for admin review.
func (s *TimesheetService) SubmitWeekly(ctx context.Context, id, tutorID uuid.UUID) (*model.WeeklyTimesheet, error) {
	weekly, err := s.weeklyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get weekly timesheet: %w", err)
	}
	if weekly == nil {
		return nil, fmt.Errorf("%w: weekly timesheet", ErrNotFound)
	}
	if weekly.TutorID != tutorID {
		return nil, fmt.Errorf("%w: weekly timesheet belongs to another tutor", ErrForbidden)
	}
	if weekly.Status != model.WeeklyStatusDraft && weekly.Status != model.WeeklyStatusRejected {
		return nil, fmt.Errorf("%w: timesheet already %s", ErrConflict, weekly.Status)
	}

	if err := s.weeklyRepo.Submit(ctx, id, tutorID); err != nil {
		return nil, fmt.Errorf("submit weekly timesheet: %w", err)
	}

	s.logger.Info("Weekly timesheet submitted",
		zap.String("timesheet_id", id.String()),
		zap.String("tutor_id", tutorID.String()))

	return s.weeklyRepo.GetByID(ctx, id)
}

// ReviewWeekly records the admin decision and notifies the tutor.
// Rejection makes the week editable again.
func (s *TimesheetService) ReviewWeekly(ctx context.Context, id uuid.UUID, approve bool, notes string) (*model.WeeklyTimesheet, error) {
	weekly, err := s.weeklyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get weekly timesheet: %w", err)
	}
	if weekly == nil {
		return nil, fmt.Errorf("%w: weekly timesheet", ErrNotFound)
	}
	if weekly.Status != model.WeeklyStatusSubmitted {
		return nil, fmt.Errorf("%w: timesheet is %s, not submitted", ErrConflict, weekly.Status)
	}

	status := model.WeeklyStatusApproved
	if !approve {
		status = model.WeeklyStatusRejected
	}

	if err := s.weeklyRepo.Review(ctx, id, status, notes); err != nil {
		return nil, fmt.Errorf("review weekly timesheet: %w", err)
	}

	_, err = s.notificationRepo.CreateIfAbsent(ctx, &model.Notification{
		UserID: weekly.TutorID,
		Type:   model.NotificationTimesheetReviewed,
		Title:  fmt.Sprintf("Timesheet for week of %s %s", weekly.WeekStart.Format("Jan 2"), status),
		Body:   notes,
	})
	if err != nil {
		s.logger.Warn("Failed to notify tutor of review", zap.Error(err))
	}

	s.logger.Info("Weekly timesheet reviewed",
		zap.String("timesheet_id", id.String()),
		zap.String("status", string(status)))

	return s.weeklyRepo.GetByID(ctx, id)
}

// buildGroupEntries derives one pending timesheet entry per attendance
// row; the repository fills the group session id on insert.
func buildGroupEntries(session *model.GroupSession, duration float64, earningsPerStudent string, weeklyID uuid.UUID) []*model.TimesheetEntry {
	entries := make([]*model.TimesheetEntry, 0, len(session.Attendance))
	for _, att := range session.Attendance {
		studentID := att.StudentID
		weekly := weeklyID
		entries = append(entries, &model.TimesheetEntry{
			TutorID:           session.TutorID,
			StudentID:         &studentID,
			Date:              session.Date,
			Duration:          duration,
			TutorEarnings:     earningsPerStudent,
			Status:            model.EntryStatusPending,
			SessionType:       model.SessionTypeGroup,
			WeeklyTimesheetID: &weekly,
			Notes:             att.Note,
		})
	}
	return entries
}

// CreateGroupSession stores the class record with structured attendance
// and logs one timesheet entry per student, all in one transaction so
// the entry set never disagrees with the attendance rows.
func (s *TimesheetService) CreateGroupSession(ctx context.Context, session *model.GroupSession, duration float64, earningsPerStudent string) (*model.GroupSession, error) {
	if len(session.Attendance) == 0 {
		return nil, fmt.Errorf("%w: attendance is required", ErrValidation)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrValidation)
	}
	if _, err := strconv.ParseFloat(earningsPerStudent, 64); err != nil {
		return nil, fmt.Errorf("%w: earnings must be a decimal amount", ErrValidation)
	}

	weekly, err := s.attachableWeekly(ctx, session.TutorID, session.Date)
	if err != nil {
		return nil, err
	}

	entries := buildGroupEntries(session, duration, earningsPerStudent, weekly.ID)
	if err := s.groupSessionRepo.Create(ctx, session, entries); err != nil {
		return nil, fmt.Errorf("create group session: %w", err)
	}

	s.logger.Info("Group session logged",
		zap.String("group_session_id", session.ID.String()),
		zap.Int("students", len(session.Attendance)))

	return session, nil
}

// GetGroupSession returns the tutor's class record with attendance.
func (s *TimesheetService) GetGroupSession(ctx context.Context, id, tutorID uuid.UUID) (*model.GroupSession, error) {
	session, err := s.groupSessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get group session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: group session", ErrNotFound)
	}
	if session.TutorID != tutorID {
		return nil, fmt.Errorf("%w: group session belongs to another tutor", ErrForbidden)
	}

	return session, nil
}

// DeleteGroupSession removes the class record; the linked entries keep
// their data but lose the grouping key.
func (s *TimesheetService) DeleteGroupSession(ctx context.Context, id, tutorID uuid.UUID) error {
	if err := s.groupSessionRepo.Delete(ctx, id, tutorID); err != nil {
		return notFoundOr(err, "group session", "delete group session")
	}

	s.logger.Info("Group session deleted", zap.String("group_session_id", id.String()))
	return nil
}
