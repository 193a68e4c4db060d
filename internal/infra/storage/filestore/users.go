package filestore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage"
)

// UserRepository пользователи в users.json (имя -> номер)
type UserRepository struct {
	store *Store
}

// NewUserRepository создает репозиторий пользователей поверх хранилища
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	defer r.store.observe("get_user", time.Now())

	var found *domain.User
	err := r.store.view(ctx, func(snap *snapshot) error {
		number, ok := snap.users[username]
		if !ok {
			return storage.ErrUserNotFound
		}
		found = &domain.User{Number: number, Username: username}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *UserRepository) GetByNumber(ctx context.Context, number int64) (*domain.User, error) {
	defer r.store.observe("get_user", time.Now())

	var found *domain.User
	err := r.store.view(ctx, func(snap *snapshot) error {
		for username, n := range snap.users {
			if n == number {
				found = &domain.User{Number: n, Username: username}
				return nil
			}
		}
		return storage.ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// List возвращает всех пользователей по возрастанию номера
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	defer r.store.observe("list_users", time.Now())

	users := make([]*domain.User, 0)
	err := r.store.view(ctx, func(snap *snapshot) error {
		users = usersOf(snap)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create добавляет пользователя с заданным номером
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	defer r.store.observe("create_user", time.Now())

	return r.store.update(ctx, func(snap *snapshot) error {
		if _, ok := snap.users[u.Username]; ok {
			return fmt.Errorf("%w: username=%s", storage.ErrUserAlreadyExists, u.Username)
		}
		for _, n := range snap.users {
			if n == u.Number {
				return fmt.Errorf("%w: number=%d", storage.ErrUserAlreadyExists, u.Number)
			}
		}
		snap.users[u.Username] = u.Number
		snap.usersDirty = true
		return nil
	})
}

// CreateNext добавляет пользователя с номером max+1
func (r *UserRepository) CreateNext(ctx context.Context, username string) (*domain.User, error) {
	defer r.store.observe("create_user", time.Now())

	var created *domain.User
	err := r.store.update(ctx, func(snap *snapshot) error {
		if _, ok := snap.users[username]; ok {
			return fmt.Errorf("%w: username=%s", storage.ErrUserAlreadyExists, username)
		}
		created = &domain.User{
			Number:   domain.NextUserNumber(usersOf(snap)),
			Username: username,
		}
		snap.users[username] = created.Number
		snap.usersDirty = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func usersOf(snap *snapshot) []*domain.User {
	users := make([]*domain.User, 0, len(snap.users))
	for username, number := range snap.users {
		users = append(users, &domain.User{Number: number, Username: username})
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Number < users[j].Number })
	return users
}
