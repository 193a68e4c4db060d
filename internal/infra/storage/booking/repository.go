package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage"
	"github.com/m04kA/SMC-SlotBoard/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBoard/pkg/pgerrors"
	"github.com/m04kA/SMC-SlotBoard/pkg/psqlbuilder"
	"github.com/m04kA/SMC-SlotBoard/pkg/types"
)

// Колонки выборки броней вместе с данными пользователя
var selectColumns = []string{
	"b.booking_date",
	"b.slot_start",
	"b.slot_end",
	"u.id",
	"u.password",
}

// Repository репозиторий броней в PostgreSQL
//
// Таблица bookings: slot_key (PK, уникальность слота), user_id -> users(id),
// booking_date DATE, slot_start/slot_end TIME
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает репозиторий; loc - часовой пояс доски, в нем возвращаются даты
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.Local
	}
	return &Repository{db: db, loc: loc}
}

// List возвращает все брони, упорядоченные по дате и началу окна
func (r *Repository) List(ctx context.Context) ([]*domain.Booking, error) {
	return r.Find(ctx, domain.BookingFilter{})
}

// ListByUsername возвращает брони одного пользователя
func (r *Repository) ListByUsername(ctx context.Context, username string) ([]*domain.Booking, error) {
	return r.Find(ctx, domain.BookingFilter{Username: &username})
}

// Find возвращает брони, подходящие под фильтр
// Внутри транзакции строки блокируются (FOR UPDATE), чтобы проверка и удаление шли по одному снимку
func (r *Repository) Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyFilter(r.baseSelect(), filter).
		OrderBy("b.booking_date ASC", "b.slot_start ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Find - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: Find - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// GetBySlot возвращает бронь слота или storage.ErrBookingNotFound
func (r *Repository) GetBySlot(ctx context.Context, date time.Time, slot domain.TimeSlot) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := r.baseSelect().
		Where(squirrel.Eq{"b.slot_key": domain.SlotKey(date, slot)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlot - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := r.scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySlot - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// InsertIfAbsent добавляет бронь, если слот свободен
// Занятый слот (в том числе конкурентной транзакцией) - storage.ErrSlotTaken
func (r *Repository) InsertIfAbsent(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns("slot_key", "user_id", "booking_date", "slot_start", "slot_end").
		Values(
			booking.SlotKey(),
			booking.UserNumber,
			booking.Date.Format(domain.DateFormat),
			booking.TimeSlot.Start,
			booking.TimeSlot.End,
		).
		Suffix("ON CONFLICT (slot_key) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: InsertIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", storage.ErrSlotTaken, booking.SlotKey())
		}
		if pgerrors.IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user_id=%d", ErrUnknownUser, booking.UserNumber)
		}
		return fmt.Errorf("%w: InsertIfAbsent - execute insert: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: InsertIfAbsent - get rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", storage.ErrSlotTaken, booking.SlotKey())
	}

	return nil
}

// DeleteMatching удаляет все брони, подходящие под фильтр, и возвращает их количество
func (r *Repository) DeleteMatching(ctx context.Context, filter domain.BookingFilter) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("bookings")
	if filter.Username != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Expr("user_id IN (SELECT id FROM users WHERE password = ?)", *filter.Username))
	}
	if filter.StartDate != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.GtOrEq{"booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		deleteBuilder = deleteBuilder.Where(squirrel.LtOrEq{"booking_date": filter.EndDate.Format(domain.DateFormat)})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteMatching - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteMatching - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteMatching - get rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

// ReplaceAll заменяет содержимое таблицы переданным набором (nil - полная очистка)
// Вызывать внутри транзакции, иначе читатели могут увидеть промежуточное состояние
func (r *Repository) ReplaceAll(ctx context.Context, bookings []*domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceAll - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceAll - execute delete: %w", ErrExecQuery, err)
	}

	for _, booking := range bookings {
		if err := r.InsertIfAbsent(ctx, booking); err != nil {
			return err
		}
	}

	return nil
}

func (r *Repository) baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From("bookings b").
		Join("users u ON u.id = b.user_id")
}

func applyFilter(builder squirrel.SelectBuilder, filter domain.BookingFilter) squirrel.SelectBuilder {
	if filter.Username != nil {
		builder = builder.Where(squirrel.Eq{"u.password": *filter.Username})
	}
	if filter.StartDate != nil {
		builder = builder.Where(squirrel.GtOrEq{"b.booking_date": filter.StartDate.Format(domain.DateFormat)})
	}
	if filter.EndDate != nil {
		builder = builder.Where(squirrel.LtOrEq{"b.booking_date": filter.EndDate.Format(domain.DateFormat)})
	}
	return builder
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanBooking(row rowScanner) (*domain.Booking, error) {
	var (
		booking    domain.Booking
		date       time.Time
		start, end types.TimeString
	)

	if err := row.Scan(&date, &start, &end, &booking.UserNumber, &booking.Username); err != nil {
		return nil, err
	}

	// DATE приходит полночью UTC, переносим календарную дату в часовой пояс доски
	booking.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, r.loc)
	booking.TimeSlot = domain.NewTimeSlot(start, end)

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
