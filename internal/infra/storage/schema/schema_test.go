package schema

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execFunc func(ctx context.Context, query string, args ...interface{}) (sql.Result, error)

type fakeDB struct {
	exec execFunc
}

func (f fakeDB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return f.exec(ctx, query, args...)
}

func (f fakeDB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f fakeDB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func TestDDL_DeclaresSlotUniqueness(t *testing.T) {
	assert.Contains(t, DDL(), "slot_key     TEXT   PRIMARY KEY")
	assert.Contains(t, DDL(), "password TEXT   NOT NULL UNIQUE")
}

func TestEnsureSchema(t *testing.T) {
	var got string
	db := fakeDB{exec: func(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
		got = query
		return nil, nil
	}}

	require.NoError(t, EnsureSchema(context.Background(), db))
	assert.Equal(t, DDL(), got)
}

func TestEnsureSchema_WrapsError(t *testing.T) {
	db := fakeDB{exec: func(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
		return nil, errors.New("connection refused")
	}}

	err := EnsureSchema(context.Background(), db)
	require.ErrorIs(t, err, ErrApplySchema)
}
