package filestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage"
)

// BookingRepository брони в bookings.json
type BookingRepository struct {
	store *Store
}

// NewBookingRepository создает репозиторий броней поверх хранилища
func NewBookingRepository(store *Store) *BookingRepository {
	return &BookingRepository{store: store}
}

// List возвращает все брони, упорядоченные по дате и началу окна
func (r *BookingRepository) List(ctx context.Context) ([]*domain.Booking, error) {
	return r.Find(ctx, domain.BookingFilter{})
}

// ListByUsername возвращает брони одного пользователя
func (r *BookingRepository) ListByUsername(ctx context.Context, username string) ([]*domain.Booking, error) {
	return r.Find(ctx, domain.BookingFilter{Username: &username})
}

// Find возвращает брони, подходящие под фильтр
func (r *BookingRepository) Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	defer r.store.observe("find", time.Now())

	result := make([]*domain.Booking, 0)
	err := r.store.view(ctx, func(snap *snapshot) error {
		for _, rec := range snap.bookings {
			booking, err := r.toDomain(rec)
			if err != nil {
				return err
			}
			if filter.Matches(booking) {
				result = append(result, booking)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].TimeSlot.Start.IsBefore(result[j].TimeSlot.Start)
	})

	return result, nil
}

// GetBySlot возвращает бронь слота или storage.ErrBookingNotFound
func (r *BookingRepository) GetBySlot(ctx context.Context, date time.Time, slot domain.TimeSlot) (*domain.Booking, error) {
	defer r.store.observe("get_by_slot", time.Now())

	var found *domain.Booking
	err := r.store.view(ctx, func(snap *snapshot) error {
		idx := indexOfSlot(snap.bookings, date, slot)
		if idx < 0 {
			return storage.ErrBookingNotFound
		}
		booking, err := r.toDomain(snap.bookings[idx])
		if err != nil {
			return err
		}
		found = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	return found, nil
}

// InsertIfAbsent добавляет бронь, если слот свободен, иначе storage.ErrSlotTaken
func (r *BookingRepository) InsertIfAbsent(ctx context.Context, booking *domain.Booking) error {
	defer r.store.observe("insert", time.Now())

	return r.store.update(ctx, func(snap *snapshot) error {
		if indexOfSlot(snap.bookings, booking.Date, booking.TimeSlot) >= 0 {
			return fmt.Errorf("%w: %s", storage.ErrSlotTaken, booking.SlotKey())
		}
		snap.bookings = append(snap.bookings, toRecord(booking))
		snap.bookingsDirty = true
		return nil
	})
}

// DeleteMatching удаляет брони, подходящие под фильтр, и возвращает их количество
func (r *BookingRepository) DeleteMatching(ctx context.Context, filter domain.BookingFilter) (int64, error) {
	defer r.store.observe("delete", time.Now())

	var deleted int64
	err := r.store.update(ctx, func(snap *snapshot) error {
		kept := make([]bookingRecord, 0, len(snap.bookings))
		for _, rec := range snap.bookings {
			booking, err := r.toDomain(rec)
			if err != nil {
				return err
			}
			if filter.Matches(booking) {
				deleted++
				continue
			}
			kept = append(kept, rec)
		}
		if deleted > 0 {
			snap.bookings = kept
			snap.bookingsDirty = true
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return deleted, nil
}

// ReplaceAll заменяет документ переданным набором (nil - очистка)
func (r *BookingRepository) ReplaceAll(ctx context.Context, bookings []*domain.Booking) error {
	defer r.store.observe("replace_all", time.Now())

	return r.store.update(ctx, func(snap *snapshot) error {
		records := make([]bookingRecord, 0, len(bookings))
		for _, b := range bookings {
			if indexOfSlot(records, b.Date, b.TimeSlot) >= 0 {
				return fmt.Errorf("%w: %s", storage.ErrSlotTaken, b.SlotKey())
			}
			records = append(records, toRecord(b))
		}
		snap.bookings = records
		snap.bookingsDirty = true
		return nil
	})
}

func indexOfSlot(records []bookingRecord, date time.Time, slot domain.TimeSlot) int {
	day := date.Format(domain.DateFormat)
	for i, rec := range records {
		if rec.Date == day && rec.TimeSlot == slot.Label {
			return i
		}
	}
	return -1
}

func toRecord(b *domain.Booking) bookingRecord {
	return bookingRecord{
		Date:       b.Date.Format(domain.DateFormat),
		TimeSlot:   b.TimeSlot.Label,
		Username:   b.Username,
		UserNumber: b.UserNumber,
	}
}

func (r *BookingRepository) toDomain(rec bookingRecord) (*domain.Booking, error) {
	date, err := time.ParseInLocation(domain.DateFormat, rec.Date, r.store.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: booking date %q: %v", ErrReadDocument, rec.Date, err)
	}
	slot, err := domain.ParseTimeSlot(rec.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("%w: booking slot: %v", ErrReadDocument, err)
	}
	return &domain.Booking{
		Date:       date,
		TimeSlot:   slot,
		Username:   rec.Username,
		UserNumber: rec.UserNumber,
	}, nil
}
