package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub/internal/app"
	"github.com/tutorhub/tutorhub/internal/config"
	httpcontroller "github.com/tutorhub/tutorhub/internal/controller/http"
	"github.com/tutorhub/tutorhub/internal/repository"
	"github.com/tutorhub/tutorhub/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting tutorhub",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, "migrations", logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	occurrenceRepo := repository.NewOccurrenceRepository(pool)
	availabilityRepo := repository.NewAvailabilityRepository(pool)
	timesheetRepo := repository.NewTimesheetRepository(pool)
	weeklyRepo := repository.NewWeeklyTimesheetRepository(pool)
	groupSessionRepo := repository.NewGroupSessionRepository(pool)
	changeRepo := repository.NewChangeRequestRepository(pool)
	mockExamRepo := repository.NewMockExamRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	topicRepo := repository.NewTopicRepository(pool)
	tutorRepo := repository.NewTutorRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)

	authSvc := service.NewAuthService(userRepo, logger)
	calendarSvc := service.NewCalendarService(
		occurrenceRepo, availabilityRepo, timesheetRepo, changeRepo, studentRepo, mockExamRepo, logger)
	timesheetSvc := service.NewTimesheetService(
		timesheetRepo, weeklyRepo, groupSessionRepo, notificationRepo, logger)
	changeRequestSvc := service.NewChangeRequestService(changeRepo, occurrenceRepo, tutorRepo, logger)
	messageSvc := service.NewMessageService(messageRepo, notificationRepo, logger)
	notificationSvc := service.NewNotificationService(notificationRepo, occurrenceRepo, logger)
	earningsSvc := service.NewEarningsService(timesheetRepo, logger)
	tutorSvc := service.NewTutorService(studentRepo, topicRepo, tutorRepo, logger)
	documentSvc := service.NewDocumentService(documentRepo, studentRepo, logger)

	scheduler := app.NewScheduler(notificationSvc, cfg.SweepInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	server := httpcontroller.NewServer(&httpcontroller.Options{
		Address:          cfg.HTTPAddr,
		JWTSecret:        []byte(cfg.JWTSecret),
		AuthSvc:          authSvc,
		CalendarSvc:      calendarSvc,
		TimesheetSvc:     timesheetSvc,
		ChangeRequestSvc: changeRequestSvc,
		MessageSvc:       messageSvc,
		NotificationSvc:  notificationSvc,
		EarningsSvc:      earningsSvc,
		TutorSvc:         tutorSvc,
		DocumentSvc:      documentSvc,
	}, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		logger.Fatal("Server stopped unexpectedly", zap.Error(err))
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("Failed to stop server gracefully", zap.Error(err))
	}

	logger.Info("Stopped")
}
