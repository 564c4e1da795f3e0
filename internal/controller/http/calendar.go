package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tutorhub/tutorhub/internal/model"
)

// parseTimeParam accepts RFC3339 or plain dates in query strings.
func parseTimeParam(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q", v)
	}
	return t, nil
}

// timeRange reads the from/to query params, defaulting to a window of
// one month back and two months forward.
func timeRange(c echo.Context) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now.AddDate(0, 2, 0)

	if v := c.QueryParam("from"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid from")
		}
		from = t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return time.Time{}, time.Time{}, echo.NewHTTPError(http.StatusBadRequest, "invalid to")
		}
		to = t
	}

	return from, to, nil
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (s *Server) handleListOccurrences(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	from, to, err := timeRange(c)
	if err != nil {
		return err
	}

	occurrences, err := s.opts.CalendarSvc.ListOccurrences(c.Request().Context(), claims.UserID, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, occurrences)
}

func (s *Server) handleCalendarEvents(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	from, to, err := timeRange(c)
	if err != nil {
		return err
	}

	events, err := s.opts.CalendarSvc.CalendarEvents(c.Request().Context(), claims.UserID, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, events)
}

func (s *Server) handleSessionsNeedingAction(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	flagged, err := s.opts.CalendarSvc.SessionsNeedingAction(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	if flagged == nil {
		flagged = []*model.SessionOccurrence{}
	}
	return c.JSON(http.StatusOK, flagged)
}

type updateOccurrenceRequest struct {
	Status    *model.OccurrenceStatus `json:"status" validate:"omitempty,oneof=scheduled confirmed completed cancelled no_show"`
	StartTime *time.Time              `json:"start_time"`
	EndTime   *time.Time              `json:"end_time"`
}

func (s *Server) handleUpdateOccurrence(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateOccurrenceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if req.Status == nil && req.StartTime == nil && req.EndTime == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	occ, err := s.opts.CalendarSvc.UpdateOccurrence(c.Request().Context(), claims.UserID, id, req.Status, req.StartTime, req.EndTime)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, occ)
}

func (s *Server) handleUndoReschedule(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	occ, err := s.opts.CalendarSvc.UndoReschedule(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, occ)
}

func (s *Server) handleListAvailability(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	slots, err := s.opts.CalendarSvc.ListAvailability(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, slots)
}

type createAvailabilityRequest struct {
	DayOfWeek      int        `json:"day_of_week" validate:"min=0,max=6"`
	StartTime      string     `json:"start_time" validate:"required"`
	EndTime        string     `json:"end_time" validate:"required"`
	IsRecurring    bool       `json:"is_recurring"`
	TimeframeStart *time.Time `json:"timeframe_start"`
	TimeframeEnd   *time.Time `json:"timeframe_end"`
	Notes          string     `json:"notes"`
}

func (s *Server) handleCreateAvailability(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	var req createAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	slot, err := s.opts.CalendarSvc.CreateAvailability(c.Request().Context(), &model.AvailabilitySlot{
		TutorID:        claims.UserID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		IsRecurring:    req.IsRecurring,
		TimeframeStart: req.TimeframeStart,
		TimeframeEnd:   req.TimeframeEnd,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, slot)
}

func (s *Server) handleDeleteAvailability(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.opts.CalendarSvc.DeleteAvailability(c.Request().Context(), id, claims.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListMockExams(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	exams, err := s.opts.CalendarSvc.ListMockExams(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, exams)
}
