package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tutorhub/tutorhub/internal/model"
)

func (s *Server) handleListStudents(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	students, err := s.opts.TutorSvc.Students(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	if students == nil {
		students = []model.Student{}
	}
	return c.JSON(http.StatusOK, students)
}

func (s *Server) handleStudentTopics(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	studentID, err := pathID(c)
	if err != nil {
		return err
	}

	topics, err := s.opts.TutorSvc.StudentTopics(c.Request().Context(), studentID, claims.UserID, claims.Role)
	if err != nil {
		return err
	}

	if topics == nil {
		topics = []*model.Topic{}
	}
	return c.JSON(http.StatusOK, topics)
}

type setCoveredRequest struct {
	Covered bool `json:"covered"`
}

func (s *Server) handleSetTopicCovered(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req setCoveredRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.opts.TutorSvc.SetTopicCovered(c.Request().Context(), id, claims.UserID, claims.Role, req.Covered); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleGetEmergencyContact(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	contact, err := s.opts.TutorSvc.EmergencyContact(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	if contact == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{})
	}

	return c.JSON(http.StatusOK, contact)
}

type emergencyContactRequest struct {
	Name         string `json:"name" validate:"required"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone" validate:"required"`
}

func (s *Server) handleSaveEmergencyContact(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	var req emergencyContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contact, err := s.opts.TutorSvc.SaveEmergencyContact(c.Request().Context(), &model.EmergencyContact{
		TutorID:      claims.UserID,
		Name:         req.Name,
		Relationship: req.Relationship,
		Phone:        req.Phone,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, contact)
}

func (s *Server) handleEarningsSummary(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	from, to, err := optionalDateRange(c)
	if err != nil {
		return err
	}

	summary, err := s.opts.EarningsSvc.Summary(c.Request().Context(), claims.UserID, from, to)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summary)
}

func (s *Server) handleEarningsByYear(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	year := 0
	if v := c.QueryParam("year"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid year")
		}
		year = parsed
	}

	months, err := s.opts.EarningsSvc.ByYear(c.Request().Context(), claims.UserID, year)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, months)
}
