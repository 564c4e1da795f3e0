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

type ChangeRequestService struct {
	changeRepo     *repository.ChangeRequestRepository
	occurrenceRepo *repository.OccurrenceRepository
	tutorRepo      *repository.TutorRepository
	logger         *zap.Logger
}

func NewChangeRequestService(
	changeRepo *repository.ChangeRequestRepository,
	occurrenceRepo *repository.OccurrenceRepository,
	tutorRepo *repository.TutorRepository,
	logger *zap.Logger,
) *ChangeRequestService {
	return &ChangeRequestService{
		changeRepo:     changeRepo,
		occurrenceRepo: occurrenceRepo,
		tutorRepo:      tutorRepo,
		logger:         logger,
	}
}

// ChangeRequestInput is one cancel/reschedule proposal.
type ChangeRequestInput struct {
	OccurrenceID  uuid.UUID
	RequestedBy   uuid.UUID
	Type          model.ChangeRequestType
	ProposedStart *time.Time
	ProposedEnd   *time.Time
	Reason        string
	Message       string
	ApplyToGroup  bool
}

// Create files change requests for the occurrence and, when asked, its
// whole group bucket. Group batches report a per-occurrence result list
// instead of a single pass/fail: completed requests stand even when a
// sibling fails.
func (s *ChangeRequestService) Create(ctx context.Context, in ChangeRequestInput) ([]model.BatchItemResult, error) {
	if in.Type == model.ChangeRequestReschedule {
		if in.ProposedStart == nil || in.ProposedEnd == nil {
			return nil, fmt.Errorf("%w: reschedule requests need proposed times", ErrValidation)
		}
		if !in.ProposedEnd.After(*in.ProposedStart) {
			return nil, fmt.Errorf("%w: proposed end must be after proposed start", ErrValidation)
		}
	}

	occ, err := s.occurrenceRepo.GetByID(ctx, in.OccurrenceID)
	if err != nil {
		return nil, fmt.Errorf("get occurrence: %w", err)
	}
	if occ == nil {
		return nil, fmt.Errorf("%w: occurrence", ErrNotFound)
	}

	targets := []*model.SessionOccurrence{occ}
	if in.ApplyToGroup && occ.GroupID != nil {
		bucket, err := s.occurrenceRepo.ListByGroupKey(ctx, *occ.GroupID, occ.StartTime, occ.EndTime)
		if err != nil {
			return nil, fmt.Errorf("list group occurrences: %w", err)
		}
		if len(bucket) > 0 {
			targets = bucket
		}
	}

	results := fileRequestBatch(targets, func(target *model.SessionOccurrence) error {
		req := &model.ChangeRequest{
			OccurrenceID:  target.ID,
			RequestedBy:   in.RequestedBy,
			Type:          in.Type,
			Status:        model.ChangeRequestStatusPending,
			ProposedStart: in.ProposedStart,
			ProposedEnd:   in.ProposedEnd,
			Reason:        in.Reason,
			Message:       in.Message,
		}

		if err := s.changeRepo.Create(ctx, req); err != nil {
			s.logger.Error("Failed to create change request",
				zap.String("occurrence_id", target.ID.String()),
				zap.Error(err))
			return err
		}
		return nil
	})

	s.logger.Info("Change requests filed",
		zap.String("type", string(in.Type)),
		zap.Int("targets", len(targets)))

	return results, nil
}

// fileRequestBatch runs create once per target and collects a result per
// occurrence: a failed sibling never undoes requests already filed.
func fileRequestBatch(targets []*model.SessionOccurrence, create func(*model.SessionOccurrence) error) []model.BatchItemResult {
	results := make([]model.BatchItemResult, 0, len(targets))
	for _, target := range targets {
		if err := create(target); err != nil {
			results = append(results, model.BatchItemResult{
				OccurrenceID: target.ID,
				OK:           false,
				Error:        "could not create request",
			})
			continue
		}
		results = append(results, model.BatchItemResult{OccurrenceID: target.ID, OK: true})
	}
	return results
}

// Resolve records the admin decision on a pending request. Approval
// applies the change: a cancel sets the occurrence to cancelled, a
// reschedule moves it to the proposed times.
func (s *ChangeRequestService) Resolve(ctx context.Context, id uuid.UUID, approve bool) (*model.ChangeRequest, error) {
	req, err := s.changeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get change request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: change request", ErrNotFound)
	}
	if req.Status != model.ChangeRequestStatusPending {
		return nil, fmt.Errorf("%w: request already %s", ErrConflict, req.Status)
	}

	status := model.ChangeRequestStatusApproved
	if !approve {
		status = model.ChangeRequestStatusRejected
	}

	if err := s.changeRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("update change request status: %w", err)
	}

	if approve {
		switch req.Type {
		case model.ChangeRequestCancel:
			if err := s.occurrenceRepo.UpdateStatus(ctx, req.OccurrenceID, model.OccurrenceStatusCancelled); err != nil {
				return nil, fmt.Errorf("cancel occurrence: %w", err)
			}
		case model.ChangeRequestReschedule:
			if err := s.occurrenceRepo.UpdateTimes(ctx, req.OccurrenceID, *req.ProposedStart, *req.ProposedEnd); err != nil {
				return nil, fmt.Errorf("reschedule occurrence: %w", err)
			}
		}
	}

	s.logger.Info("Change request resolved",
		zap.String("request_id", id.String()),
		zap.String("status", string(status)))

	return s.changeRepo.GetByID(ctx, id)
}

// ListPending returns pending requests on the tutor's sessions, hiding
// the ones the tutor has dismissed.
func (s *ChangeRequestService) ListPending(ctx context.Context, tutorID uuid.UUID) ([]*model.ChangeRequest, error) {
	requests, err := s.changeRepo.ListPendingByTutor(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("list pending change requests: %w", err)
	}

	prefs, err := s.tutorRepo.GetPreferences(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}

	dismissed := make(map[uuid.UUID]struct{}, len(prefs.DismissedChangeRequestIDs))
	for _, id := range prefs.DismissedChangeRequestIDs {
		dismissed[id] = struct{}{}
	}

	visible := make([]*model.ChangeRequest, 0, len(requests))
	for _, req := range requests {
		if _, hidden := dismissed[req.ID]; !hidden {
			visible = append(visible, req)
		}
	}

	return visible, nil
}

// Dismissed returns the tutor's dismissed change-request ids.
func (s *ChangeRequestService) Dismissed(ctx context.Context, tutorID uuid.UUID) (*model.TutorPreferences, error) {
	prefs, err := s.tutorRepo.GetPreferences(ctx, tutorID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	return prefs, nil
}

// SetDismissed replaces the tutor's dismissed set.
func (s *ChangeRequestService) SetDismissed(ctx context.Context, tutorID uuid.UUID, ids []uuid.UUID) (*model.TutorPreferences, error) {
	if ids == nil {
		ids = []uuid.UUID{}
	}

	prefs := &model.TutorPreferences{
		TutorID:                   tutorID,
		DismissedChangeRequestIDs: ids,
	}
	if err := s.tutorRepo.UpsertPreferences(ctx, prefs); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}

	return prefs, nil
}
