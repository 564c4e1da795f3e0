package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/service"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{name: "validation sentinel", err: fmt.Errorf("%w: end before start", service.ErrValidation), wantCode: http.StatusBadRequest, wantMessage: "validation failed: end before start"},
		{name: "forbidden sentinel", err: service.ErrForbidden, wantCode: http.StatusForbidden, wantMessage: "forbidden"},
		{name: "not found sentinel", err: service.ErrNotFound, wantCode: http.StatusNotFound, wantMessage: "not found"},
		{name: "conflict sentinel", err: fmt.Errorf("%w: timesheet already submitted", service.ErrConflict), wantCode: http.StatusConflict, wantMessage: "conflict: timesheet already submitted"},
		{name: "echo error passes through", err: echo.NewHTTPError(http.StatusTeapot, "short and stout"), wantCode: http.StatusTeapot, wantMessage: "short and stout"},
		{name: "unknown error is a masked 500", err: fmt.Errorf("pool exhausted"), wantCode: http.StatusInternalServerError, wantMessage: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := echo.New()
			app.HTTPErrorHandler = newHTTPErrorHandler(zap.NewNop())
			app.GET("/boom", func(c echo.Context) error { return tt.err })

			req := httptest.NewRequest(http.MethodGet, "/boom", nil)
			rec := httptest.NewRecorder()
			app.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body["error"])
		})
	}
}

func TestHTTPErrorHandlerHead(t *testing.T) {
	app := echo.New()
	app.HTTPErrorHandler = newHTTPErrorHandler(zap.NewNop())
	app.HEAD("/boom", func(c echo.Context) error { return service.ErrNotFound })

	req := httptest.NewRequest(http.MethodHead, "/boom", nil)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}
