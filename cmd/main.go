package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	blockSlotHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/block_slot"
	cancelEventReservationHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/cancel_event_reservation"
	cancelReservationHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/cancel_reservation"
	createEventHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/create_event"
	createEventReservationHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/create_event_reservation"
	createReservationHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/create_reservation"
	createSlotHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/create_slot"
	deleteEventHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/delete_event"
	deleteSlotHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/delete_slot"
	getEventParticipantsHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/get_event_participants"
	getEventsHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/get_events"
	getSlotOccupancyHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/get_slot_occupancy"
	getSlotParticipantsHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/get_slot_participants"
	getSlotsHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/get_slots"
	getUserReservationsHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/get_user_reservations"
	joinWaitlistHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/join_waitlist"
	leaveWaitlistHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/leave_waitlist"
	updateEventHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/update_event"
	updateSlotHandler "github.com/nextsteppro/NSP-BookingService/internal/api/handlers/update_slot"
	"github.com/nextsteppro/NSP-BookingService/internal/api/middleware"
	"github.com/nextsteppro/NSP-BookingService/internal/config"
	eventRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/event"
	reservationRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/reservation"
	timeslotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
	waitlistRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/waitlist"
	mailServiceClient "github.com/nextsteppro/NSP-BookingService/internal/integrations/mailservice"
	userServiceClient "github.com/nextsteppro/NSP-BookingService/internal/integrations/userservice"
	capacityService "github.com/nextsteppro/NSP-BookingService/internal/service/capacity"
	eventsService "github.com/nextsteppro/NSP-BookingService/internal/service/events"
	expanderService "github.com/nextsteppro/NSP-BookingService/internal/service/expander"
	notifyService "github.com/nextsteppro/NSP-BookingService/internal/service/notify"
	reservationsService "github.com/nextsteppro/NSP-BookingService/internal/service/reservations"
	slotsService "github.com/nextsteppro/NSP-BookingService/internal/service/slots"
	waitlistService "github.com/nextsteppro/NSP-BookingService/internal/service/waitlist"
	cancelEventReservationUC "github.com/nextsteppro/NSP-BookingService/internal/usecase/cancel_event_reservation"
	createEventReservationUC "github.com/nextsteppro/NSP-BookingService/internal/usecase/create_event_reservation"
	createReservationUC "github.com/nextsteppro/NSP-BookingService/internal/usecase/create_reservation"
	"github.com/nextsteppro/NSP-BookingService/pkg/dbmetrics"
	"github.com/nextsteppro/NSP-BookingService/pkg/logger"
	"github.com/nextsteppro/NSP-BookingService/pkg/metrics"
	"github.com/nextsteppro/NSP-BookingService/pkg/simpletxmanager"
	"github.com/nextsteppro/NSP-BookingService/pkg/txmanager"
)

type realTime struct{}

func (realTime) Now() time.Time { return time.Now() }

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting NSP-BookingService...")
	log.Info("Configuration loaded from config.toml")

	bookingWindow := time.Duration(cfg.Booking.WindowHours) * time.Hour

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	mailClient := mailServiceClient.NewClient(
		cfg.MailService.URL,
		time.Duration(cfg.MailService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, MailService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.MailService.URL, cfg.MailService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		timeslotRepository    *timeslotRepo.Repository
		eventRepository       *eventRepo.Repository
		reservationRepository *reservationRepo.Repository
		waitlistRepository    *waitlistRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		timeslotRepository = timeslotRepo.NewRepository(wrappedDB)
		eventRepository = eventRepo.NewRepository(wrappedDB)
		reservationRepository = reservationRepo.NewRepository(wrappedDB)
		waitlistRepository = waitlistRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		timeslotRepository = timeslotRepo.NewRepository(db)
		eventRepository = eventRepo.NewRepository(db)
		reservationRepository = reservationRepo.NewRepository(db)
		waitlistRepository = waitlistRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	notifySvc := notifyService.NewService(userClient, mailClient, cfg.Notifications.AdminEmail, log)
	expanderSvc := expanderService.NewService(timeslotRepository, log)
	capacitySvc := capacityService.NewService(reservationRepository, timeslotRepository, log)
	waitlistSvc := waitlistService.NewService(
		waitlistRepository,
		timeslotRepository,
		reservationRepository,
		notifySvc,
		txMgr,
		realTime{},
		log,
	)
	reservationsSvc := reservationsService.NewService(
		reservationRepository,
		timeslotRepository,
		waitlistSvc,
		notifySvc,
		txMgr,
		realTime{},
		bookingWindow,
		log,
	)
	slotsSvc := slotsService.NewService(
		timeslotRepository,
		reservationRepository,
		notifySvc,
		txMgr,
		log,
	)
	eventsSvc := eventsService.NewService(
		eventRepository,
		timeslotRepository,
		reservationRepository,
		expanderSvc,
		notifySvc,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		reservationRepository,
		timeslotRepository,
		waitlistRepository,
		txMgr,
		notifySvc,
		bookingWindow,
		cfg.Booking.MaxCommentLength,
		log,
	)
	createEventReservationUseCase := createEventReservationUC.NewUseCase(
		eventRepository,
		reservationRepository,
		expanderSvc,
		txMgr,
		notifySvc,
		bookingWindow,
		cfg.Booking.MaxCommentLength,
		log,
	)
	cancelEventReservationUseCase := cancelEventReservationUC.NewUseCase(
		eventRepository,
		timeslotRepository,
		reservationRepository,
		waitlistSvc,
		notifySvc,
		txMgr,
		bookingWindow,
		log,
	)

	// Инициализируем handlers
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	cancelReservation := cancelReservationHandler.NewHandler(reservationsSvc, log)
	createEventReservation := createEventReservationHandler.NewHandler(createEventReservationUseCase, log)
	cancelEventReservation := cancelEventReservationHandler.NewHandler(cancelEventReservationUseCase, log)
	joinWaitlist := joinWaitlistHandler.NewHandler(waitlistSvc, log)
	leaveWaitlist := leaveWaitlistHandler.NewHandler(waitlistSvc, log)
	getSlotOccupancy := getSlotOccupancyHandler.NewHandler(capacitySvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationsSvc, log)
	getSlots := getSlotsHandler.NewHandler(slotsSvc, log)
	getEvents := getEventsHandler.NewHandler(eventsSvc, log)
	createSlot := createSlotHandler.NewHandler(slotsSvc, log)
	updateSlot := updateSlotHandler.NewHandler(slotsSvc, log)
	blockSlot := blockSlotHandler.NewHandler(slotsSvc, log)
	deleteSlot := deleteSlotHandler.NewHandler(slotsSvc, log)
	getSlotParticipants := getSlotParticipantsHandler.NewHandler(slotsSvc, log)
	createEvent := createEventHandler.NewHandler(eventsSvc, log)
	updateEvent := updateEventHandler.NewHandler(eventsSvc, log)
	deleteEvent := deleteEventHandler.NewHandler(eventsSvc, log)
	getEventParticipants := getEventParticipantsHandler.NewHandler(eventsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Расписание слотов
	api.HandleFunc("/slots", getSlots.Handle).Methods(http.MethodGet)

	// Занятость слотов
	api.HandleFunc("/slots/occupancy", getSlotOccupancy.HandleBatch).Methods(http.MethodGet)
	api.HandleFunc("/slots/{slotId}/occupancy", getSlotOccupancy.Handle).Methods(http.MethodGet)

	// Мероприятия
	api.HandleFunc("/events", getEvents.Handle).Methods(http.MethodGet)
	api.HandleFunc("/events/{eventId}", getEvents.HandleByID).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Брони ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", cancelReservation.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/users/me/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Брони мероприятий ---
	protected.HandleFunc("/events/{eventId}/reservations", createEventReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/events/{eventId}/reservations", cancelEventReservation.Handle).Methods(http.MethodDelete)

	// --- Лист ожидания ---
	protected.HandleFunc("/waitlist/slots/{slotId}", joinWaitlist.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/waitlist/{entryId}", leaveWaitlist.Handle).Methods(http.MethodDelete)

	// ============================================================
	// ADMIN ROUTES (требуют X-User-Role: admin)
	// ============================================================

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AdminOnly)

	// --- Слоты ---
	admin.HandleFunc("/slots", createSlot.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/slots/{slotId}", updateSlot.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/slots/{slotId}", deleteSlot.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/slots/{slotId}/block", blockSlot.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/slots/{slotId}/unblock", blockSlot.HandleUnblock).Methods(http.MethodPut)
	admin.HandleFunc("/slots/{slotId}/participants", getSlotParticipants.Handle).Methods(http.MethodGet)

	// --- Мероприятия ---
	admin.HandleFunc("/events", createEvent.Handle).Methods(http.MethodPost)
	admin.HandleFunc("/events/{eventId}", updateEvent.Handle).Methods(http.MethodPut)
	admin.HandleFunc("/events/{eventId}", deleteEvent.Handle).Methods(http.MethodDelete)
	admin.HandleFunc("/events/{eventId}/participants", getEventParticipants.Handle).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
