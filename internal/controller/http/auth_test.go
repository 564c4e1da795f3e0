package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/model"
)

var testSecret = []byte("test-secret")

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(&Options{
		JWTSecret:      testSecret,
		DisableReqLogs: true,
	}, zap.NewNop())
}

func tokenFor(t *testing.T, role model.Role) string {
	t.Helper()
	token, _, err := GenerateToken(&model.User{
		ID:       uuid.New(),
		FullName: "Test Tutor",
		Role:     role,
	}, testSecret)
	require.NoError(t, err)
	return token
}

func TestTokenRoundTrip(t *testing.T) {
	user := &model.User{ID: uuid.New(), FullName: "Test Tutor", Role: model.RoleTutor}

	token, expiresAt, err := GenerateToken(user, testSecret)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleTutor, claims.Role)
	assert.Equal(t, "Test Tutor", claims.Name)
	assert.Equal(t, "tutorhub", claims.Issuer)

	_, err = ValidateToken(token, []byte("wrong-secret"))
	assert.Error(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "not a bearer token", header: "Basic abc", want: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.jwt", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, "unauthorized", body["error"])
		})
	}
}

func TestRequireRole(t *testing.T) {
	srv := newTestServer(t)

	// a tutor may not review weekly timesheets
	req := httptest.NewRequest(http.MethodPost, "/api/weekly-timesheets/"+uuid.NewString()+"/review", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, model.RoleTutor))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "permission denied", body["error"])
}

func TestLoginValidation(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"not-an-email","password":""}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "failed on email", body["error"]["Email"])
	assert.Equal(t, "failed on required", body["error"]["Password"])
}
