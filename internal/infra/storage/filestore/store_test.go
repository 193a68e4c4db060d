package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), time.UTC, nil)
	require.NoError(t, err)
	return store
}

func mustSlot(t *testing.T, label string) domain.TimeSlot {
	t.Helper()
	slot, err := domain.ParseTimeSlot(label)
	require.NoError(t, err)
	return slot
}

func day(s string) time.Time {
	d, _ := time.ParseInLocation(domain.DateFormat, s, time.UTC)
	return d
}

func TestOpen_CreatesEmptyDocuments(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir, time.UTC, nil)
	require.NoError(t, err)

	bookings, err := os.ReadFile(filepath.Join(dir, bookingsFile))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(bookings))

	users, err := os.ReadFile(filepath.Join(dir, usersFile))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(users))
}

func TestBookingRepository_InsertAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewBookingRepository(store)

	late := &domain.Booking{Date: day("2026-10-16"), TimeSlot: mustSlot(t, "08:00-13:00"), Username: "alice", UserNumber: 1}
	early := &domain.Booking{Date: day("2026-10-15"), TimeSlot: mustSlot(t, "13:00-18:00"), Username: "bob", UserNumber: 2}

	require.NoError(t, repo.InsertIfAbsent(ctx, late))
	require.NoError(t, repo.InsertIfAbsent(ctx, early))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "bob", all[0].Username)
	assert.Equal(t, "alice", all[1].Username)

	got, err := repo.GetBySlot(ctx, day("2026-10-16"), mustSlot(t, "08:00-13:00"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.UserNumber)

	_, err = repo.GetBySlot(ctx, day("2026-10-16"), mustSlot(t, "18:00-22:00"))
	assert.ErrorIs(t, err, storage.ErrBookingNotFound)

	mine, err := repo.ListByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 1)
}

func TestBookingRepository_InsertIfAbsent_SlotTaken(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(newTestStore(t))

	b := &domain.Booking{Date: day("2026-10-15"), TimeSlot: mustSlot(t, "08:00-13:00"), Username: "alice", UserNumber: 1}
	require.NoError(t, repo.InsertIfAbsent(ctx, b))

	other := *b
	other.Username = "bob"
	err := repo.InsertIfAbsent(ctx, &other)
	assert.ErrorIs(t, err, storage.ErrSlotTaken)
}

func TestBookingRepository_DeleteMatching(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingRepository(newTestStore(t))
	slot := mustSlot(t, "08:00-13:00")

	for _, b := range []*domain.Booking{
		{Date: day("2026-10-01"), TimeSlot: slot, Username: "alice", UserNumber: 1},
		{Date: day("2026-10-20"), TimeSlot: slot, Username: "alice", UserNumber: 1},
		{Date: day("2026-11-20"), TimeSlot: slot, Username: "alice", UserNumber: 1},
		{Date: day("2026-10-20"), TimeSlot: mustSlot(t, "13:00-18:00"), Username: "bob", UserNumber: 2},
	} {
		require.NoError(t, repo.InsertIfAbsent(ctx, b))
	}

	deleted, err := repo.DeleteMatching(ctx, domain.RebookingFilter("alice", day("2026-10-14"), 14))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	rest, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, rest, 2)
	assert.Equal(t, "bob", rest[0].Username)
	assert.Equal(t, day("2026-11-20"), rest[1].Date)
}

func TestBookingRepository_ReplaceAllEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewBookingRepository(store)

	require.NoError(t, repo.InsertIfAbsent(ctx, &domain.Booking{Date: day("2026-10-15"), TimeSlot: mustSlot(t, "08:00-13:00"), Username: "alice", UserNumber: 1}))
	require.NoError(t, repo.ReplaceAll(ctx, nil))
	require.NoError(t, repo.ReplaceAll(ctx, nil))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	data, err := os.ReadFile(filepath.Join(store.Dir(), bookingsFile))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestStore_DoSerializable_DiscardsOnError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	bookings := NewBookingRepository(store)
	users := NewUserRepository(store)
	boom := errors.New("boom")

	err := store.DoSerializable(ctx, func(ctx context.Context) error {
		if _, err := users.CreateNext(ctx, "alice"); err != nil {
			return err
		}
		if err := bookings.InsertIfAbsent(ctx, &domain.Booking{Date: day("2026-10-15"), TimeSlot: mustSlot(t, "08:00-13:00"), Username: "alice", UserNumber: 1}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	all, err := bookings.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = users.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStore_PersistsAcrossOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := Open(dir, time.UTC, nil)
	require.NoError(t, err)
	require.NoError(t, NewBookingRepository(store).InsertIfAbsent(ctx, &domain.Booking{Date: day("2026-10-15"), TimeSlot: mustSlot(t, "08:00-13:00"), Username: "alice", UserNumber: 3}))

	reopened, err := Open(dir, time.UTC, nil)
	require.NoError(t, err)
	all, err := NewBookingRepository(reopened).List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(3), all[0].UserNumber)
	assert.Equal(t, "2026-10-15_08:00-13:00", all[0].SlotKey())
}

func TestStore_CorruptDocument(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), bookingsFile), []byte("{not json"), 0o644))

	_, err := NewBookingRepository(store).List(context.Background())
	assert.ErrorIs(t, err, ErrReadDocument)
}

func TestUserRepository_CreateNext(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestStore(t))

	first, err := repo.CreateNext(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Number)

	require.NoError(t, repo.Create(ctx, &domain.User{Number: 7, Username: "bob"}))

	next, err := repo.CreateNext(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, int64(8), next.Number)

	_, err = repo.CreateNext(ctx, "alice")
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)

	err = repo.Create(ctx, &domain.User{Number: 7, Username: "dave"})
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)

	byNumber, err := repo.GetByNumber(ctx, 8)
	require.NoError(t, err)
	assert.Equal(t, "carol", byNumber.Username)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []int64{1, 7, 8}, []int64{all[0].Number, all[1].Number, all[2].Number})
}

func TestStore_ConcurrentInsertSameSlot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewBookingRepository(store)
	slot := mustSlot(t, "08:00-13:00")

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := store.DoSerializable(ctx, func(ctx context.Context) error {
				_, err := repo.GetBySlot(ctx, day("2026-10-15"), slot)
				if err == nil {
					return storage.ErrSlotTaken
				}
				return repo.InsertIfAbsent(ctx, &domain.Booking{Date: day("2026-10-15"), TimeSlot: slot, Username: "user", UserNumber: int64(n)})
			})
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(i + 1)
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
