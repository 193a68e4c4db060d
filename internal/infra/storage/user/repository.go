package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage"
	"github.com/m04kA/SMC-SlotBoard/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBoard/pkg/pgerrors"
	"github.com/m04kA/SMC-SlotBoard/pkg/psqlbuilder"
)

// Repository репозиторий пользователей в PostgreSQL
// Колонка password хранит имя пользователя (в режиме fixed это код доступа)
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByUsername возвращает пользователя по имени или storage.ErrUserNotFound
func (r *Repository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "GetByUsername", squirrel.Eq{"password": username})
}

// GetByNumber возвращает пользователя по номеру или storage.ErrUserNotFound
func (r *Repository) GetByNumber(ctx context.Context, number int64) (*domain.User, error) {
	return r.getOne(ctx, "GetByNumber", squirrel.Eq{"id": number})
}

func (r *Repository) getOne(ctx context.Context, method string, where squirrel.Sqlizer) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "password").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, method, err)
	}

	var u domain.User
	err = executor.QueryRowContext(ctx, query, args...).Scan(&u.Number, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan user: %v", ErrScanRow, method, err)
	}

	return &u, nil
}

// List возвращает всех пользователей по возрастанию номера
func (r *Repository) List(ctx context.Context) ([]*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "password").
		From("users").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.Number, &u.Username); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return users, nil
}

// Create добавляет пользователя с заданным номером
// Занятый номер или имя - storage.ErrUserAlreadyExists
func (r *Repository) Create(ctx context.Context, u *domain.User) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("users").
		Columns("id", "password").
		Values(u.Number, u.Username).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return fmt.Errorf("%w: number=%d", storage.ErrUserAlreadyExists, u.Number)
		}
		return fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// CreateNext добавляет пользователя с номером max+1 одним запросом
func (r *Repository) CreateNext(ctx context.Context, username string) (*domain.User, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// squirrel не умеет подставлять аргументы в колонки вложенного SELECT
	const query = `INSERT INTO users (id, password)
		SELECT COALESCE(MAX(id), 0) + 1, $1 FROM users
		RETURNING id`

	u := &domain.User{Username: username}
	if err := executor.QueryRowContext(ctx, query, username).Scan(&u.Number); err != nil {
		if pgerrors.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username=%s", storage.ErrUserAlreadyExists, username)
		}
		return nil, fmt.Errorf("%w: CreateNext - execute insert: %w", ErrExecQuery, err)
	}

	return u, nil
}
