package http

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/model"
	"github.com/tutorhub/tutorhub/internal/service"
)

// Options wires the server to its services.
type Options struct {
	Address        string
	JWTSecret      []byte
	DisableReqLogs bool

	AuthSvc          *service.AuthService
	CalendarSvc      *service.CalendarService
	TimesheetSvc     *service.TimesheetService
	ChangeRequestSvc *service.ChangeRequestService
	MessageSvc       *service.MessageService
	NotificationSvc  *service.NotificationService
	EarningsSvc      *service.EarningsService
	TutorSvc         *service.TutorService
	DocumentSvc      *service.DocumentService
}

type Server struct {
	opts   *Options
	app    *echo.Echo
	logger *zap.Logger
}

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func NewServer(opts *Options, logger *zap.Logger) *Server {
	s := &Server{
		opts:   opts,
		app:    echo.New(),
		logger: logger,
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	s.app.Use(middleware.Recover())

	s.app.Validator = &requestValidator{validate: validator.New()}
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.logger)

	api := s.app.Group("/api")
	api.POST("/auth/login", s.handleLogin)

	auth := api.Group("", s.authMiddleware)
	tutor := requireRole(model.RoleTutor)
	admin := requireRole(model.RoleAdmin)

	// calendar
	auth.GET("/session-occurrences", s.handleListOccurrences, tutor)
	auth.GET("/session-occurrences/needs-action", s.handleSessionsNeedingAction, tutor)
	auth.PATCH("/session-occurrences/:id", s.handleUpdateOccurrence, tutor)
	auth.POST("/session-occurrences/undo-reschedule", s.handleUndoReschedule, tutor)
	auth.GET("/calendar/events", s.handleCalendarEvents, tutor)
	auth.GET("/tutor-availability", s.handleListAvailability, tutor)
	auth.POST("/tutor-availability", s.handleCreateAvailability, tutor)
	auth.DELETE("/tutor-availability/:id", s.handleDeleteAvailability, tutor)
	auth.GET("/mock-exams", s.handleListMockExams, tutor)

	// change requests
	auth.POST("/tutor/session-change-request", s.handleCreateChangeRequest, tutor)
	auth.POST("/tutor/session-reschedule-request", s.handleCreateRescheduleRequest, tutor)
	auth.GET("/tutor/session-change-requests", s.handleListChangeRequests, tutor)
	auth.GET("/tutor/preferences/dismissed-change-requests", s.handleGetDismissed, tutor)
	auth.PUT("/tutor/preferences/dismissed-change-requests", s.handleSetDismissed, tutor)
	auth.POST("/session-change-requests/:id/resolve", s.handleResolveChangeRequest, admin)

	// timesheets
	auth.GET("/timesheets", s.handleListEntries, tutor)
	auth.GET("/timesheets/my-sessions", s.handleListEntries, tutor)
	auth.GET("/timesheets/grouped", s.handleGroupedEntries, tutor)
	auth.POST("/timesheets", s.handleCreateEntry, tutor)
	auth.POST("/group-sessions", s.handleCreateGroupSession, tutor)
	auth.GET("/group-sessions/:id", s.handleGetGroupSession, tutor)
	auth.DELETE("/group-sessions/:id", s.handleDeleteGroupSession, tutor)
	auth.GET("/weekly-timesheets/current", s.handleCurrentWeekly, tutor)
	auth.GET("/weekly-timesheets/my", s.handleListWeekly, tutor)
	auth.POST("/weekly-timesheets/:id/submit", s.handleSubmitWeekly, tutor)
	auth.POST("/weekly-timesheets/:id/review", s.handleReviewWeekly, admin)

	// users, students and topics
	auth.POST("/users", s.handleCreateUser, admin)
	auth.GET("/students", s.handleListStudents, tutor)
	auth.GET("/students/:id/topics", s.handleStudentTopics)
	auth.PATCH("/topics/:id/covered", s.handleSetTopicCovered, tutor)

	// messages and notifications
	auth.GET("/messages/tutor", s.handleListMessages)
	auth.GET("/messages/:id", s.handleGetMessage)
	auth.POST("/messages/:id/replies", s.handleCreateReply)
	auth.PATCH("/messages/:id/read", s.handleMarkMessageRead)
	auth.GET("/notifications", s.handleListNotifications)
	auth.PATCH("/notifications/:id/read", s.handleMarkNotificationRead)

	// shared documents
	auth.GET("/documents", s.handleListDocuments)
	auth.POST("/documents", s.handleUploadDocument, tutor)
	auth.GET("/documents/:id/download", s.handleDownloadDocument)
	auth.DELETE("/documents/:id", s.handleDeleteDocument)

	// profile and analytics
	auth.GET("/tutors/me/emergency-contact", s.handleGetEmergencyContact, tutor)
	auth.PUT("/tutors/me/emergency-contact", s.handleSaveEmergencyContact, tutor)
	auth.GET("/analytics/tutor-earnings", s.handleEarningsSummary, tutor)
	auth.GET("/tutor/earnings", s.handleEarningsByYear, tutor)
}

func (s *Server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// ServeHTTP lets tests drive the server through httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}
