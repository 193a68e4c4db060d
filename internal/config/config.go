package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
)

// Драйверы хранилища
const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
)

// ErrInvalidConfig возвращается, когда конфигурация не проходит валидацию
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Database  DatabaseConfig  `toml:"database"`
	Storage   StorageConfig   `toml:"storage"`
	Booking   BookingConfig   `toml:"booking"`
	CORS      CORSConfig      `toml:"cors"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Admin     AdminConfig     `toml:"admin"`
}

// ServerConfig параметры HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// DatabaseConfig параметры PostgreSQL (используются при storage.driver = "postgres")
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// StorageConfig выбор бэкенда хранилища
type StorageConfig struct {
	Driver  string `toml:"driver"`
	DataDir string `toml:"data_dir"`
}

// SeedUser заранее заведенный пользователь (политика fixed)
type SeedUser struct {
	Number   int64  `toml:"number"`
	Username string `toml:"username"`
}

// BookingConfig правила доски
type BookingConfig struct {
	UserProvisioning    string     `toml:"user_provisioning"`
	Timezone            string     `toml:"timezone"`
	TimeSlots           []string   `toml:"time_slots"`
	BookingWindowDays   int        `toml:"booking_window_days"`
	RebookingWindowDays int        `toml:"rebooking_window_days"`
	SeedUsers           []SeedUser `toml:"seed_users"`
}

// Location часовой пояс доски; пустое значение или "Local" - часовой пояс процесса
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" || b.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(b.Timezone)
}

type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

type RateLimitConfig struct {
	Enabled bool    `toml:"enabled"`
	RPS     float64 `toml:"rps"`
	Burst   int     `toml:"burst"`
}

// AdminConfig пустой токен отключает проверку на административных ручках
type AdminConfig struct {
	Token string `toml:"token"`
}

// Default конфигурация по умолчанию: файловое хранилище, автосоздание пользователей
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        3002,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     false,
			Path:        "/metrics",
			ServiceName: "slotboard",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "slotboard",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{
			Driver:  StorageDriverFile,
			DataDir: "data",
		},
		Booking: BookingConfig{
			UserProvisioning:    string(domain.ProvisioningAuto),
			Timezone:            "Local",
			TimeSlots:           append([]string(nil), domain.DefaultTimeSlots...),
			BookingWindowDays:   domain.DefaultBookingWindowDays,
			RebookingWindowDays: domain.DefaultRebookingWindowDays,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     10,
			Burst:   20,
		},
	}
}

// Load читает TOML поверх значений по умолчанию, затем применяет переменные окружения
// (включая .env в рабочей директории, если он есть)
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load()
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv переопределяет секреты и адреса из окружения
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv("SLOTBOARD_HTTP_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.HTTPPort = port
		}
	}
	if v, ok := os.LookupEnv("SLOTBOARD_DB_HOST"); ok {
		cfg.Database.Host = v
	}
	if v, ok := os.LookupEnv("SLOTBOARD_DB_PASSWORD"); ok {
		cfg.Database.Password = v
	}
	if v, ok := os.LookupEnv("SLOTBOARD_STORAGE_DRIVER"); ok {
		cfg.Storage.Driver = v
	}
	if v, ok := os.LookupEnv("SLOTBOARD_ADMIN_TOKEN"); ok {
		cfg.Admin.Token = v
	}
}

// Rules собирает правила доски из секции [booking]; конфиг должен пройти Validate
func (c *Config) Rules() (domain.Rules, error) {
	provisioning, err := domain.ParseUserProvisioning(c.Booking.UserProvisioning)
	if err != nil {
		return domain.Rules{}, fmt.Errorf("%w: booking.user_provisioning: %v", ErrInvalidConfig, err)
	}
	slots, err := domain.ParseTimeSlots(c.Booking.TimeSlots)
	if err != nil {
		return domain.Rules{}, fmt.Errorf("%w: booking.time_slots: %v", ErrInvalidConfig, err)
	}
	loc, err := c.Booking.Location()
	if err != nil {
		return domain.Rules{}, fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	return domain.Rules{
		Provisioning:        provisioning,
		TimeSlots:           slots,
		BookingWindowDays:   c.Booking.BookingWindowDays,
		RebookingWindowDays: c.Booking.RebookingWindowDays,
		Location:            loc,
	}, nil
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Storage.Driver {
	case StorageDriverFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("%w: storage.data_dir is required for file driver", ErrInvalidConfig)
		}
	case StorageDriverPostgres:
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	if _, err := domain.ParseUserProvisioning(c.Booking.UserProvisioning); err != nil {
		return fmt.Errorf("%w: booking.user_provisioning: %v", ErrInvalidConfig, err)
	}
	if _, err := domain.ParseTimeSlots(c.Booking.TimeSlots); err != nil {
		return fmt.Errorf("%w: booking.time_slots: %v", ErrInvalidConfig, err)
	}
	if c.Booking.BookingWindowDays <= 0 {
		return fmt.Errorf("%w: booking.booking_window_days must be positive", ErrInvalidConfig)
	}
	if c.Booking.RebookingWindowDays < 0 {
		return fmt.Errorf("%w: booking.rebooking_window_days must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	seenNumbers := make(map[int64]struct{}, len(c.Booking.SeedUsers))
	seenNames := make(map[string]struct{}, len(c.Booking.SeedUsers))
	for _, u := range c.Booking.SeedUsers {
		if u.Number <= 0 || u.Username == "" {
			return fmt.Errorf("%w: seed user needs positive number and username", ErrInvalidConfig)
		}
		if _, dup := seenNumbers[u.Number]; dup {
			return fmt.Errorf("%w: duplicate seed user number %d", ErrInvalidConfig, u.Number)
		}
		if _, dup := seenNames[u.Username]; dup {
			return fmt.Errorf("%w: duplicate seed username %q", ErrInvalidConfig, u.Username)
		}
		seenNumbers[u.Number] = struct{}{}
		seenNames[u.Username] = struct{}{}
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit.rps and rate_limit.burst must be positive", ErrInvalidConfig)
	}

	return nil
}
