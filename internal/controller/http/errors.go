package http

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/service"
)

var (
	errUnauthorized = echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	errForbidden    = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// newHTTPErrorHandler maps the error taxonomy to status codes:
// unauthorized (the client's redirect contract), validation with a field
// map, the service sentinels, and a logged 500 for everything else.
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var code int
		var message interface{}

		var httpErr *echo.HTTPError
		var fieldErrs validator.ValidationErrors

		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
			message = httpErr.Message

		case errors.As(err, &fieldErrs):
			fields := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields[fe.Field()] = "failed on " + fe.Tag()
			}
			code = http.StatusBadRequest
			message = fields

		case errors.Is(err, service.ErrValidation):
			code = http.StatusBadRequest
			message = err.Error()

		case errors.Is(err, service.ErrForbidden):
			code = http.StatusForbidden
			message = err.Error()

		case errors.Is(err, service.ErrNotFound):
			code = http.StatusNotFound
			message = err.Error()

		case errors.Is(err, service.ErrConflict):
			code = http.StatusConflict
			message = err.Error()

		default:
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			logger.Error("Unhandled request error",
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, map[string]interface{}{"error": message})
		}
		if writeErr != nil {
			logger.Error("Failed to write error response", zap.Error(writeErr))
		}
	}
}
