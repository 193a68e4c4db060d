package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-SlotBoard/internal/config"
	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SlotBoard/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage/filestore"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage/schema"
	userRepo "github.com/m04kA/SMC-SlotBoard/internal/infra/storage/user"
	"github.com/m04kA/SMC-SlotBoard/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBoard/pkg/logger"
	"github.com/m04kA/SMC-SlotBoard/pkg/metrics"
	"github.com/m04kA/SMC-SlotBoard/pkg/txmanager"
)

// ledgerLockKey ключ pg_advisory_xact_lock для изменений журнала
const ledgerLockKey int64 = 0x536c6f74

type bookingStore interface {
	List(ctx context.Context) ([]*domain.Booking, error)
	ListByUsername(ctx context.Context, username string) ([]*domain.Booking, error)
	Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	GetBySlot(ctx context.Context, date time.Time, slot domain.TimeSlot) (*domain.Booking, error)
	InsertIfAbsent(ctx context.Context, booking *domain.Booking) error
	DeleteMatching(ctx context.Context, filter domain.BookingFilter) (int64, error)
	ReplaceAll(ctx context.Context, bookings []*domain.Booking) error
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByNumber(ctx context.Context, number int64) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	CreateNext(ctx context.Context, username string) (*domain.User, error)
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// ledgerStorage выбранный бэкенд журнала
type ledgerStorage struct {
	bookings  bookingStore
	users     userStore
	txManager txManager
	close     func() error
}

func openStorage(cfg *config.Config, loc *time.Location, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*ledgerStorage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		return openPostgres(cfg, loc, m, stopCh, log)
	default:
		return openFileStore(cfg, loc, m, log)
	}
}

func openPostgres(cfg *config.Config, loc *time.Location, m *metrics.Metrics, stopCh <-chan struct{}, log *logger.Logger) (*ledgerStorage, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	var wrappedDB *dbmetrics.DB
	if m != nil {
		wrappedDB = dbmetrics.WrapWithDefault(db, m, stopCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Wrap(db, nil)
	}

	if err := schema.EnsureSchema(context.Background(), wrappedDB); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("Database schema is up to date")

	return &ledgerStorage{
		bookings:  bookingRepo.NewRepository(wrappedDB, loc),
		users:     userRepo.NewRepository(wrappedDB),
		txManager: txmanager.NewTransactionManager(wrappedDB, txmanager.WithAdvisoryLock(ledgerLockKey)),
		close:     db.Close,
	}, nil
}

func openFileStore(cfg *config.Config, loc *time.Location, m *metrics.Metrics, log *logger.Logger) (*ledgerStorage, error) {
	var storeMetrics filestore.Metrics
	if m != nil {
		storeMetrics = m
	}

	store, err := filestore.Open(cfg.Storage.DataDir, loc, storeMetrics)
	if err != nil {
		return nil, err
	}
	log.Info("Using file storage at %s", store.Dir())

	return &ledgerStorage{
		bookings:  filestore.NewBookingRepository(store),
		users:     filestore.NewUserRepository(store),
		txManager: store,
		close:     func() error { return nil },
	}, nil
}
