package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorhub/tutorhub/internal/model"
)

func (s *Server) handleListMessages(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	messages, err := s.opts.MessageSvc.ListForUser(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	if messages == nil {
		messages = []*model.Message{}
	}
	return c.JSON(http.StatusOK, messages)
}

func (s *Server) handleGetMessage(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	msg, err := s.opts.MessageSvc.Get(c.Request().Context(), id, claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, msg)
}

type createReplyRequest struct {
	Body string `json:"body" validate:"required"`
}

func (s *Server) handleCreateReply(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req createReplyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	reply, err := s.opts.MessageSvc.Reply(c.Request().Context(), id, claims.UserID, req.Body)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, reply)
}

func (s *Server) handleMarkMessageRead(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.opts.MessageSvc.MarkRead(c.Request().Context(), id, claims.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListNotifications(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	notifications, err := s.opts.NotificationSvc.List(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	if notifications == nil {
		notifications = []*model.Notification{}
	}
	return c.JSON(http.StatusOK, notifications)
}

func (s *Server) handleMarkNotificationRead(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.opts.NotificationSvc.MarkRead(c.Request().Context(), id, claims.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
