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

type EarningsService struct {
	timesheetRepo *repository.TimesheetRepository
	logger        *zap.Logger
	clock         func() time.Time
}

func NewEarningsService(timesheetRepo *repository.TimesheetRepository, logger *zap.Logger) *EarningsService {
	return &EarningsService{
		timesheetRepo: timesheetRepo,
		logger:        logger,
		clock:         time.Now,
	}
}

// ByYear returns a month-by-month breakdown; months without entries are
// filled in as zero rows so the client always gets twelve.
func (s *EarningsService) ByYear(ctx context.Context, tutorID uuid.UUID, year int) ([]model.MonthlyEarnings, error) {
	if year == 0 {
		year = s.clock().Year()
	}

	months, err := s.timesheetRepo.EarningsByMonth(ctx, tutorID, year)
	if err != nil {
		return nil, fmt.Errorf("earnings by month: %w", err)
	}

	byMonth := make(map[int]model.MonthlyEarnings, len(months))
	for _, m := range months {
		byMonth[m.Month] = m
	}

	full := make([]model.MonthlyEarnings, 0, 12)
	for month := 1; month <= 12; month++ {
		if m, ok := byMonth[month]; ok {
			full = append(full, m)
			continue
		}
		full = append(full, model.MonthlyEarnings{Month: month, TotalEarnings: "0.00"})
	}

	return full, nil
}

// Summary aggregates a date range; defaults to the last 30 days.
func (s *EarningsService) Summary(ctx context.Context, tutorID uuid.UUID, from, to *time.Time) (*model.EarningsSummary, error) {
	now := s.clock()
	rangeFrom := now.AddDate(0, 0, -30)
	rangeTo := now
	if from != nil {
		rangeFrom = *from
	}
	if to != nil {
		rangeTo = *to
	}

	if rangeTo.Before(rangeFrom) {
		return nil, fmt.Errorf("%w: date range end before start", ErrValidation)
	}

	summary, err := s.timesheetRepo.EarningsSummary(ctx, tutorID, rangeFrom, rangeTo)
	if err != nil {
		return nil, fmt.Errorf("earnings summary: %w", err)
	}

	return summary, nil
}
