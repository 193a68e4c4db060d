package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotBoard/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotBoard/pkg/pgerrors"
)

// maxAttempts сколько раз выполняется транзакция при serialization failure (40001)
const maxAttempts = 3

var (
	// ErrBeginTx ошибка открытия транзакции
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommitTx ошибка фиксации транзакции
	ErrCommitTx = errors.New("txmanager: failed to commit transaction")

	// ErrLockTx ошибка взятия advisory lock внутри транзакции
	ErrLockTx = errors.New("txmanager: failed to acquire advisory lock")
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// TransactionManager выполняет функции в транзакции, передавая её через контекст
type TransactionManager struct {
	db      TxBeginner
	lockKey *int64
}

// Option настройка менеджера
type Option func(*TransactionManager)

// WithAdvisoryLock каждая транзакция DoSerializable сначала берёт pg_advisory_xact_lock(key)
// Изменения выполняются строго по очереди, поэтому такие транзакции идут в READ COMMITTED:
// снимок берется каждым запросом уже после получения блокировки.
// В SERIALIZABLE снимок фиксировался бы на самом SELECT pg_advisory_xact_lock, до ожидания
func WithAdvisoryLock(key int64) Option {
	return func(m *TransactionManager) {
		m.lockKey = &key
	}
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts ...Option) *TransactionManager {
	m := &TransactionManager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, false, fn)
}

// DoSerializable выполняет fn так, будто других изменяющих транзакций нет:
// под advisory lock в READ COMMITTED, без него в SERIALIZABLE с повтором при 40001
// fn может быть вызвана несколько раз
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.lockKey != nil {
		return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, true, fn)
	}
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, false, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, false, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts *sql.TxOptions, lock bool, fn func(ctx context.Context) error) error {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = m.runOnce(ctx, opts, lock, fn)
		if err == nil || !pgerrors.IsSerializationFailure(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (m *TransactionManager) runOnce(ctx context.Context, opts *sql.TxOptions, lock bool, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginTx, err)
	}

	if lock && m.lockKey != nil {
		if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", *m.lockKey); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: %w", ErrLockTx, err)
		}
	}

	if err := fn(dbmetrics.WithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitTx, err)
	}

	return nil
}
