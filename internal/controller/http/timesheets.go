package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tutorhub/tutorhub/internal/model"
)

// optionalDateRange reads from/to without applying defaults.
func optionalDateRange(c echo.Context) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if v := c.QueryParam("from"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid from")
		}
		from = &t
	}
	if v := c.QueryParam("to"); v != "" {
		t, err := parseTimeParam(v)
		if err != nil {
			return nil, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid to")
		}
		to = &t
	}

	return from, to, nil
}

func (s *Server) handleListEntries(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	from, to, err := optionalDateRange(c)
	if err != nil {
		return err
	}

	entries, err := s.opts.TimesheetSvc.ListEntries(c.Request().Context(), claims.UserID, from, to)
	if err != nil {
		return err
	}

	if entries == nil {
		entries = []*model.TimesheetEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleGroupedEntries(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	from, to, err := optionalDateRange(c)
	if err != nil {
		return err
	}

	grouped, err := s.opts.TimesheetSvc.GroupedEntries(c.Request().Context(), claims.UserID, from, to)
	if err != nil {
		return err
	}

	if grouped == nil {
		grouped = []model.GroupedEntry{}
	}
	return c.JSON(http.StatusOK, grouped)
}

type createEntryRequest struct {
	StudentID           *uuid.UUID `json:"student_id"`
	Date                string     `json:"date" validate:"required"`
	Duration            float64    `json:"duration" validate:"required,gt=0"`
	TutorEarnings       string     `json:"tutor_earnings"`
	SessionType         string     `json:"session_type" validate:"omitempty,oneof=individual group other"`
	GroupSessionID      *uuid.UUID `json:"group_session_id"`
	SessionOccurrenceID *uuid.UUID `json:"session_occurrence_id"`
	Notes               string     `json:"notes"`
}

func (s *Server) handleCreateEntry(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	entry, err := s.opts.TimesheetSvc.CreateEntry(c.Request().Context(), &model.TimesheetEntry{
		TutorID:             claims.UserID,
		StudentID:           req.StudentID,
		Date:                date,
		Duration:            req.Duration,
		TutorEarnings:       req.TutorEarnings,
		SessionType:         model.SessionType(req.SessionType),
		GroupSessionID:      req.GroupSessionID,
		SessionOccurrenceID: req.SessionOccurrenceID,
		Notes:               req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, entry)
}

type attendanceRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Present   bool      `json:"present"`
	Note      string    `json:"note"`
}

type createGroupSessionRequest struct {
	Subject            string              `json:"subject" validate:"required"`
	Date               string              `json:"date" validate:"required"`
	Duration           float64             `json:"duration" validate:"required,gt=0"`
	EarningsPerStudent string              `json:"earnings_per_student" validate:"required"`
	Attendance         []attendanceRequest `json:"attendance" validate:"required,min=1,dive"`
}

func (s *Server) handleCreateGroupSession(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	var req createGroupSessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
	}

	attendance := make([]model.GroupAttendance, 0, len(req.Attendance))
	for _, a := range req.Attendance {
		attendance = append(attendance, model.GroupAttendance{
			StudentID: a.StudentID,
			Present:   a.Present,
			Note:      a.Note,
		})
	}

	session, err := s.opts.TimesheetSvc.CreateGroupSession(c.Request().Context(), &model.GroupSession{
		TutorID:    claims.UserID,
		Subject:    req.Subject,
		Date:       date,
		Attendance: attendance,
	}, req.Duration, req.EarningsPerStudent)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, session)
}

func (s *Server) handleGetGroupSession(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	session, err := s.opts.TimesheetSvc.GetGroupSession(c.Request().Context(), id, claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, session)
}

func (s *Server) handleDeleteGroupSession(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.opts.TimesheetSvc.DeleteGroupSession(c.Request().Context(), id, claims.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCurrentWeekly(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	weekly, entries, err := s.opts.TimesheetSvc.CurrentWeekly(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	if entries == nil {
		entries = []*model.TimesheetEntry{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"timesheet": weekly,
		"entries":   entries,
	})
}

func (s *Server) handleListWeekly(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	timesheets, err := s.opts.TimesheetSvc.ListWeekly(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	if timesheets == nil {
		timesheets = []*model.WeeklyTimesheet{}
	}
	return c.JSON(http.StatusOK, timesheets)
}

func (s *Server) handleSubmitWeekly(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	weekly, err := s.opts.TimesheetSvc.SubmitWeekly(c.Request().Context(), id, claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, weekly)
}

type reviewWeeklyRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

func (s *Server) handleReviewWeekly(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req reviewWeeklyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	weekly, err := s.opts.TimesheetSvc.ReviewWeekly(c.Request().Context(), id, req.Approve, req.Notes)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, weekly)
}
