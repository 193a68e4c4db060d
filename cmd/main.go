package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/m04kA/SMC-SlotBoard/internal/api"
	addUserHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/add_user"
	checkBookingHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/check_booking"
	createBookingHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/get_available_slots"
	getBoardConfigHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/get_board_config"
	getUserBookingsHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/list_bookings"
	resetBookingsHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/reset_bookings"
	"github.com/m04kA/SMC-SlotBoard/internal/config"
	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	bookingsService "github.com/m04kA/SMC-SlotBoard/internal/service/bookings"
	configService "github.com/m04kA/SMC-SlotBoard/internal/service/config"
	usersService "github.com/m04kA/SMC-SlotBoard/internal/service/users"
	checkBookingUC "github.com/m04kA/SMC-SlotBoard/internal/usecase/check_booking"
	createBookingUC "github.com/m04kA/SMC-SlotBoard/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-SlotBoard/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SlotBoard/pkg/logger"
	"github.com/m04kA/SMC-SlotBoard/pkg/metrics"
)

func main() {
	configPath := pflag.StringP("config", "c", "config.toml", "path to TOML config")
	pflag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-SlotBoard...")
	log.Info("Configuration loaded from %s", *configPath)

	rules, err := cfg.Rules()
	if err != nil {
		log.Fatal("Invalid booking rules: %v", err)
	}
	log.Info("Board rules: provisioning=%s, slots=%d, window=%dd, rebooking=%dd, tz=%s",
		rules.Provisioning, len(rules.TimeSlots), rules.BookingWindowDays, rules.RebookingWindowDays, cfg.Booking.Timezone)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище журнала
	storage, err := openStorage(cfg, rules.Location, metricsCollector, stopMetricsCh, log)
	if err != nil {
		log.Fatal("Failed to open %s storage: %v", cfg.Storage.Driver, err)
	}
	defer storage.close()

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(storage.bookings, storage.txManager, log)
	configSvc := configService.NewService(rules, log)
	userSvc := usersService.NewService(storage.users, storage.txManager, rules.Provisioning, log)

	if len(cfg.Booking.SeedUsers) > 0 {
		seed := make([]*domain.User, 0, len(cfg.Booking.SeedUsers))
		for _, u := range cfg.Booking.SeedUsers {
			seed = append(seed, &domain.User{Number: u.Number, Username: u.Username})
		}
		if _, err := userSvc.Seed(context.Background(), seed); err != nil {
			log.Fatal("Failed to seed users: %v", err)
		}
	}

	// Инициализируем use cases
	var bookingMetrics createBookingUC.Metrics
	if metricsCollector != nil {
		bookingMetrics = metricsCollector
	}
	createBookingUseCase := createBookingUC.NewUseCase(
		storage.bookings,
		storage.users,
		storage.txManager,
		rules,
		bookingMetrics,
		log,
	)
	checkBookingUseCase := checkBookingUC.NewUseCase(storage.bookings, storage.users, rules, log)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(storage.bookings, rules, log)

	// Инициализируем handlers
	h := api.Handlers{
		ListBookings:      listBookingsHandler.NewHandler(bookingSvc, log),
		CheckBooking:      checkBookingHandler.NewHandler(checkBookingUseCase, log),
		CreateBooking:     createBookingHandler.NewHandler(createBookingUseCase, log),
		ResetBookings:     resetBookingsHandler.NewHandler(bookingSvc, log),
		GetUserBookings:   getUserBookingsHandler.NewHandler(bookingSvc, log),
		GetAvailableSlots: getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log),
		GetBoardConfig:    getBoardConfigHandler.NewHandler(configSvc),
	}
	if rules.Provisioning == domain.ProvisioningFixed {
		h.AddUser = addUserHandler.NewHandler(userSvc, log)
	}

	opts := api.Options{
		MetricsPath:      cfg.Metrics.Path,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AdminToken:       cfg.Admin.Token,
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimitRPS:     cfg.RateLimit.RPS,
		RateLimitBurst:   cfg.RateLimit.Burst,
	}
	if metricsCollector != nil {
		opts.Metrics = metricsCollector
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}
	if cfg.Admin.Token == "" {
		log.Warn("Admin token is empty, /api/reset is not protected")
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      api.NewRouter(h, opts, log),
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
	close(stopMetricsCh)

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
