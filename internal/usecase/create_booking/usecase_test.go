package create_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage"
	"github.com/m04kA/SMC-SlotBoard/pkg/logger"
)

// fakeLedger журнал в памяти с теми же гарантиями, что и хранилища
type fakeLedger struct {
	bookings []*domain.Booking
	users    map[string]int64

	getBySlotErr error
	insertErr    error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{users: map[string]int64{}}
}

func (f *fakeLedger) GetBySlot(ctx context.Context, date time.Time, slot domain.TimeSlot) (*domain.Booking, error) {
	if f.getBySlotErr != nil {
		return nil, f.getBySlotErr
	}
	for _, b := range f.bookings {
		if b.SameSlot(date, slot) {
			return b, nil
		}
	}
	return nil, storage.ErrBookingNotFound
}

func (f *fakeLedger) Find(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range f.bookings {
		if filter.Matches(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeLedger) InsertIfAbsent(ctx context.Context, booking *domain.Booking) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, b := range f.bookings {
		if b.SlotKey() == booking.SlotKey() {
			return storage.ErrSlotTaken
		}
	}
	f.bookings = append(f.bookings, booking)
	return nil
}

func (f *fakeLedger) DeleteMatching(ctx context.Context, filter domain.BookingFilter) (int64, error) {
	kept := f.bookings[:0:0]
	var n int64
	for _, b := range f.bookings {
		if filter.Matches(b) {
			n++
			continue
		}
		kept = append(kept, b)
	}
	f.bookings = kept
	return n, nil
}

func (f *fakeLedger) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	n, ok := f.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return &domain.User{Number: n, Username: username}, nil
}

func (f *fakeLedger) CreateNext(ctx context.Context, username string) (*domain.User, error) {
	var max int64
	for _, n := range f.users {
		if n > max {
			max = n
		}
	}
	f.users[username] = max + 1
	return &domain.User{Number: max + 1, Username: username}, nil
}

// snapshotTx откатывает журнал, если fn вернула ошибку
type snapshotTx struct {
	ledger *fakeLedger
}

func (tx snapshotTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	bookings := append([]*domain.Booking(nil), tx.ledger.bookings...)
	users := make(map[string]int64, len(tx.ledger.users))
	for k, v := range tx.ledger.users {
		users[k] = v
	}
	if err := fn(ctx); err != nil {
		tx.ledger.bookings = bookings
		tx.ledger.users = users
		return err
	}
	return nil
}

type fixedTime time.Time

func (t fixedTime) Now() time.Time { return time.Time(t) }

type countingMetrics map[string]int

func (m countingMetrics) IncBookingOutcome(outcome string) { m[outcome]++ }

var now = time.Date(2026, 10, 15, 16, 30, 0, 0, time.UTC)

func rules(p domain.UserProvisioning) domain.Rules {
	r := domain.DefaultRules()
	r.Provisioning = p
	r.Location = time.UTC
	return r
}

func newTestUseCase(ledger *fakeLedger, p domain.UserProvisioning) (*UseCase, countingMetrics) {
	m := countingMetrics{}
	uc := NewUseCase(ledger, ledger, snapshotTx{ledger: ledger}, rules(p), m, logger.Nop())
	uc.timeProvider = fixedTime(now)
	return uc, m
}

func dateOffset(days int) string {
	return now.AddDate(0, 0, days).Format(domain.DateFormat)
}

func TestExecute_CreatesThenSlotTaken(t *testing.T) {
	ledger := newFakeLedger()
	uc, m := newTestUseCase(ledger, domain.ProvisioningAuto)
	req := &Request{Date: dateOffset(0), TimeSlot: "08:00-13:00", Username: "alice"}

	resp, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, resp.Booking)
	assert.False(t, resp.NeedsReplace)
	assert.Equal(t, int64(1), resp.Booking.UserNumber)
	assert.Len(t, ledger.bookings, 1)

	_, err = uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Len(t, ledger.bookings, 1)

	assert.Equal(t, 1, m[OutcomeCreated])
	assert.Equal(t, 1, m[OutcomeSlotTaken])
}

func TestExecute_OutsideWindow(t *testing.T) {
	uc, m := newTestUseCase(newFakeLedger(), domain.ProvisioningAuto)

	for _, offset := range []int{-1, 14, 30} {
		t.Run(fmt.Sprintf("offset %d", offset), func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &Request{Date: dateOffset(offset), TimeSlot: "08:00-13:00", Username: "alice"})
			assert.ErrorIs(t, err, ErrOutsideWindow)
		})
	}
	assert.Equal(t, 3, m[OutcomeOutsideWindow])

	_, err := uc.Execute(context.Background(), &Request{Date: dateOffset(13), TimeSlot: "08:00-13:00", Username: "alice"})
	assert.NoError(t, err)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc, _ := newTestUseCase(newFakeLedger(), domain.ProvisioningAuto)

	tests := []struct {
		name string
		req  Request
	}{
		{name: "empty username", req: Request{Date: dateOffset(0), TimeSlot: "08:00-13:00", Username: "  "}},
		{name: "bad date", req: Request{Date: "2026-13-40", TimeSlot: "08:00-13:00", Username: "alice"}},
		{name: "unknown slot", req: Request{Date: dateOffset(0), TimeSlot: "07:00-08:00", Username: "alice"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_AcceptsAlternativeDateFormat(t *testing.T) {
	uc, _ := newTestUseCase(newFakeLedger(), domain.ProvisioningAuto)

	resp, err := uc.Execute(context.Background(), &Request{Date: now.Format("2/1/2006"), TimeSlot: "13:00-18:00", Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, dateOffset(0), resp.Booking.Date.Format(domain.DateFormat))
}

func TestExecute_NeedsReplaceThenReplace(t *testing.T) {
	ledger := newFakeLedger()
	uc, m := newTestUseCase(ledger, domain.ProvisioningAuto)
	ctx := context.Background()

	_, err := uc.Execute(ctx, &Request{Date: dateOffset(0), TimeSlot: "08:00-13:00", Username: "alice"})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{Date: dateOffset(5), TimeSlot: "13:00-18:00", Username: "alice"})
	require.NoError(t, err)
	assert.True(t, resp.NeedsReplace)
	assert.Nil(t, resp.Booking)
	require.NotNil(t, resp.Existing)
	assert.Equal(t, dateOffset(0), resp.Existing.Date.Format(domain.DateFormat))
	assert.Len(t, ledger.bookings, 1)

	resp, err = uc.Execute(ctx, &Request{Date: dateOffset(5), TimeSlot: "13:00-18:00", Username: "alice", Replace: true})
	require.NoError(t, err)
	require.NotNil(t, resp.Booking)
	require.Len(t, resp.Replaced, 1)
	require.Len(t, ledger.bookings, 1)
	assert.Equal(t, dateOffset(5), ledger.bookings[0].Date.Format(domain.DateFormat))

	assert.Equal(t, 1, m[OutcomeNeedsReplace])
	assert.Equal(t, 2, m[OutcomeCreated])
}

func TestExecute_ReplaceRemovesAllBookingsInWindow(t *testing.T) {
	ledger := newFakeLedger()
	ledger.users["alice"] = 1
	ledger.users["bob"] = 2
	slots := rules(domain.ProvisioningAuto).TimeSlots
	day := func(offset int) time.Time { return domain.DateOnly(now).AddDate(0, 0, offset) }
	ledger.bookings = []*domain.Booking{
		{Date: day(1), TimeSlot: slots[0], Username: "alice", UserNumber: 1},
		{Date: day(3), TimeSlot: slots[1], Username: "alice", UserNumber: 1},
		{Date: day(3), TimeSlot: slots[2], Username: "bob", UserNumber: 2},
		{Date: day(30), TimeSlot: slots[0], Username: "alice", UserNumber: 1},
	}
	uc, _ := newTestUseCase(ledger, domain.ProvisioningAuto)

	resp, err := uc.Execute(context.Background(), &Request{Date: dateOffset(10), TimeSlot: "18:00-22:00", Username: "alice", Replace: true})
	require.NoError(t, err)
	assert.Len(t, resp.Replaced, 2)

	var mine []string
	for _, b := range ledger.bookings {
		if b.Username == "alice" {
			mine = append(mine, b.Date.Format(domain.DateFormat))
		}
	}
	assert.ElementsMatch(t, []string{dateOffset(10), dateOffset(30)}, mine)
	assert.Len(t, ledger.bookings, 3)
}

func TestExecute_ReplaceRolledBackWhenSlotTaken(t *testing.T) {
	ledger := newFakeLedger()
	ledger.users["alice"] = 1
	ledger.users["bob"] = 2
	slots := rules(domain.ProvisioningAuto).TimeSlots
	today := domain.DateOnly(now)
	ledger.bookings = []*domain.Booking{
		{Date: today, TimeSlot: slots[0], Username: "alice", UserNumber: 1},
		{Date: today.AddDate(0, 0, 2), TimeSlot: slots[0], Username: "bob", UserNumber: 2},
	}
	uc, _ := newTestUseCase(ledger, domain.ProvisioningAuto)

	_, err := uc.Execute(context.Background(), &Request{Date: dateOffset(2), TimeSlot: "08:00-13:00", Username: "alice", Replace: true})
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Len(t, ledger.bookings, 2)
}

func TestExecute_AutoProvisioningNumbers(t *testing.T) {
	ledger := newFakeLedger()
	ledger.users["existing"] = 7
	uc, _ := newTestUseCase(ledger, domain.ProvisioningAuto)

	resp, err := uc.Execute(context.Background(), &Request{Date: dateOffset(1), TimeSlot: "08:00-13:00", Username: "newcomer"})
	require.NoError(t, err)
	assert.Equal(t, int64(8), resp.Booking.UserNumber)

	resp, err = uc.Execute(context.Background(), &Request{Date: dateOffset(1), TimeSlot: "13:00-18:00", Username: "existing"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), resp.Booking.UserNumber)
}

func TestExecute_FixedRejectsUnknownUser(t *testing.T) {
	ledger := newFakeLedger()
	ledger.users["s3cret"] = 4
	uc, m := newTestUseCase(ledger, domain.ProvisioningFixed)

	_, err := uc.Execute(context.Background(), &Request{Date: dateOffset(0), TimeSlot: "08:00-13:00", Username: "guess"})
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Empty(t, ledger.bookings)
	assert.NotContains(t, ledger.users, "guess")
	assert.Equal(t, 1, m[OutcomeUnknownUser])

	resp, err := uc.Execute(context.Background(), &Request{Date: dateOffset(0), TimeSlot: "08:00-13:00", Username: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Booking.UserNumber)
}

func TestExecute_StorageFailure(t *testing.T) {
	ledger := newFakeLedger()
	ledger.getBySlotErr = errors.New("disk on fire")
	uc, m := newTestUseCase(ledger, domain.ProvisioningAuto)

	_, err := uc.Execute(context.Background(), &Request{Date: dateOffset(0), TimeSlot: "08:00-13:00", Username: "alice"})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, m[OutcomeError])
}

func TestExecute_InsertConflictMapsToSlotTaken(t *testing.T) {
	ledger := newFakeLedger()
	ledger.insertErr = fmt.Errorf("%w: concurrent writer", storage.ErrSlotTaken)
	uc, _ := newTestUseCase(ledger, domain.ProvisioningAuto)

	_, err := uc.Execute(context.Background(), &Request{Date: dateOffset(0), TimeSlot: "08:00-13:00", Username: "alice"})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

// recordingTx запоминает ошибку, которую транзакция получила от fn
type recordingTx struct {
	snapshotTx
	fnErr error
}

func (tx *recordingTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return tx.snapshotTx.DoSerializable(ctx, func(ctx context.Context) error {
		tx.fnErr = fn(ctx)
		return tx.fnErr
	})
}

func TestExecute_StorageErrorKeepsCauseForTransactionManager(t *testing.T) {
	driverErr := errors.New("could not serialize access")
	ledger := newFakeLedger()
	ledger.insertErr = fmt.Errorf("booking.repository: execute insert: %w", driverErr)

	tx := &recordingTx{snapshotTx: snapshotTx{ledger: ledger}}
	uc := NewUseCase(ledger, ledger, tx, rules(domain.ProvisioningAuto), countingMetrics{}, logger.Nop())
	uc.timeProvider = fixedTime(now)

	_, err := uc.Execute(context.Background(), &Request{Date: dateOffset(0), TimeSlot: "08:00-13:00", Username: "alice"})
	assert.ErrorIs(t, err, ErrInternal)
	// менеджер транзакций по причине решает, повторять ли транзакцию
	assert.ErrorIs(t, tx.fnErr, driverErr)
	assert.ErrorIs(t, tx.fnErr, ErrInternal)
}
