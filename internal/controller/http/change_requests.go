package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/service"
)

type changeRequestRequest struct {
	OccurrenceID uuid.UUID `json:"occurrence_id" validate:"required"`
	Reason       string    `json:"reason"`
	Message      string    `json:"message"`
	ApplyToGroup bool      `json:"apply_to_group"`
}

func (s *Server) handleCreateChangeRequest(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	var req changeRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	results, err := s.opts.ChangeRequestSvc.Create(c.Request().Context(), service.ChangeRequestInput{
		OccurrenceID: req.OccurrenceID,
		RequestedBy:  claims.UserID,
		Type:         model.ChangeRequestCancel,
		Reason:       req.Reason,
		Message:      req.Message,
		ApplyToGroup: req.ApplyToGroup,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"results": results})
}

type rescheduleRequestRequest struct {
	OccurrenceID  uuid.UUID `json:"occurrence_id" validate:"required"`
	ProposedStart time.Time `json:"proposed_start" validate:"required"`
	ProposedEnd   time.Time `json:"proposed_end" validate:"required"`
	Reason        string    `json:"reason"`
	Message       string    `json:"message"`
	ApplyToGroup  bool      `json:"apply_to_group"`
}

func (s *Server) handleCreateRescheduleRequest(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	var req rescheduleRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	results, err := s.opts.ChangeRequestSvc.Create(c.Request().Context(), service.ChangeRequestInput{
		OccurrenceID:  req.OccurrenceID,
		RequestedBy:   claims.UserID,
		Type:          model.ChangeRequestReschedule,
		ProposedStart: &req.ProposedStart,
		ProposedEnd:   &req.ProposedEnd,
		Reason:        req.Reason,
		Message:       req.Message,
		ApplyToGroup:  req.ApplyToGroup,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"results": results})
}

type resolveChangeRequestRequest struct {
	Approve bool `json:"approve"`
}

func (s *Server) handleResolveChangeRequest(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req resolveChangeRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resolved, err := s.opts.ChangeRequestSvc.Resolve(c.Request().Context(), id, req.Approve)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resolved)
}

func (s *Server) handleListChangeRequests(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	requests, err := s.opts.ChangeRequestSvc.ListPending(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	if requests == nil {
		requests = []*model.ChangeRequest{}
	}
	return c.JSON(http.StatusOK, requests)
}

func (s *Server) handleGetDismissed(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	prefs, err := s.opts.ChangeRequestSvc.Dismissed(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, prefs)
}

type setDismissedRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

func (s *Server) handleSetDismissed(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	var req setDismissedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	prefs, err := s.opts.ChangeRequestSvc.SetDismissed(c.Request().Context(), claims.UserID, req.IDs)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, prefs)
}
