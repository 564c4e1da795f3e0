package http

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/service"
)

func (s *Server) handleListDocuments(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	documents, err := s.opts.DocumentSvc.List(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}

	if documents == nil {
		documents = []*model.Document{}
	}
	return c.JSON(http.StatusOK, documents)
}

func (s *Server) handleUploadDocument(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	if fileHeader.Size > service.MaxDocumentSize {
		return echo.NewHTTPError(http.StatusBadRequest, "document exceeds the 10 MiB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxDocumentSize+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read file")
	}

	var studentID *uuid.UUID
	if v := c.FormValue("student_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid student_id")
		}
		studentID = &id
	}

	doc, err := s.opts.DocumentSvc.Upload(c.Request().Context(), &model.Document{
		OwnerID:     claims.UserID,
		StudentID:   studentID,
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, doc)
}

func (s *Server) handleDownloadDocument(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	doc, err := s.opts.DocumentSvc.Download(c.Request().Context(), id, claims.UserID, claims.Role)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.Name+`"`)
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}

func (s *Server) handleDeleteDocument(c echo.Context) error {
	claims, err := contextClaims(c)
	if err != nil {
		return errUnauthorized
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := s.opts.DocumentSvc.Delete(c.Request().Context(), id, claims.UserID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
