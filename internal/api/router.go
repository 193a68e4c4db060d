package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/m04kA/SMC-SlotBoard/internal/api/handlers"
	addUserHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/add_user"
	checkBookingHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/check_booking"
	createBookingHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/get_available_slots"
	getBoardConfigHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/get_board_config"
	getUserBookingsHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/list_bookings"
	resetBookingsHandler "github.com/m04kA/SMC-SlotBoard/internal/api/handlers/reset_bookings"
	"github.com/m04kA/SMC-SlotBoard/internal/api/middleware"
)

// Handlers обработчики ручек; AddUser = nil - ручка /api/users не регистрируется
type Handlers struct {
	ListBookings      *listBookingsHandler.Handler
	CheckBooking      *checkBookingHandler.Handler
	CreateBooking     *createBookingHandler.Handler
	ResetBookings     *resetBookingsHandler.Handler
	AddUser           *addUserHandler.Handler
	GetUserBookings   *getUserBookingsHandler.Handler
	GetAvailableSlots *getAvailableSlotsHandler.Handler
	GetBoardConfig    *getBoardConfigHandler.Handler
}

// Options сквозные настройки роутера
type Options struct {
	// Metrics nil - метрики выключены, /metrics не публикуется
	Metrics     middleware.HTTPMetrics
	MetricsPath string
	// MetricsHandler по умолчанию promhttp.Handler()
	MetricsHandler http.Handler

	AllowedOrigins []string
	AdminToken     string

	RateLimitEnabled bool
	RateLimitRPS     float64
	RateLimitBurst   int
}

// NewRouter собирает HTTP обработчик доски
func NewRouter(h Handlers, opts Options, logger middleware.Logger) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(logger))

	if opts.Metrics != nil {
		r.Use(middleware.MetricsMiddleware(opts.Metrics))

		metricsHandler := opts.MetricsHandler
		if metricsHandler == nil {
			metricsHandler = promhttp.Handler()
		}
		path := opts.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, metricsHandler).Methods(http.MethodGet)
	}

	r.HandleFunc("/health", handlers.Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	if opts.RateLimitEnabled {
		api.Use(middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).Limit)
	}

	// --- Журнал ---
	api.HandleFunc("/bookings", h.ListBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings", h.CreateBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/check-booking", h.CheckBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/users/{username}/bookings", h.GetUserBookings.Handle).Methods(http.MethodGet)
	api.HandleFunc("/available-slots", h.GetAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/config", h.GetBoardConfig.Handle).Methods(http.MethodGet)

	// --- Администрирование ---
	admin := api.PathPrefix("").Subrouter()
	admin.Use(middleware.AdminToken(opts.AdminToken, logger))
	admin.HandleFunc("/reset", h.ResetBookings.Handle).Methods(http.MethodPost)
	if h.AddUser != nil {
		admin.HandleFunc("/users", h.AddUser.Handle).Methods(http.MethodPost)
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.HeaderAdminToken, middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
	}).Handler(r)
}
