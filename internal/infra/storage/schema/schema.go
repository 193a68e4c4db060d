package schema

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotBoard/pkg/dbmetrics"
)

// ErrApplySchema ошибка применения схемы
var ErrApplySchema = errors.New("schema: failed to apply schema")

//go:embed schema.sql
var ddl string

// DDL возвращает текст схемы
func DDL() string {
	return ddl
}

// EnsureSchema создает таблицы, если их нет; повторный вызов ничего не меняет
func EnsureSchema(ctx context.Context, db dbmetrics.DBExecutor) error {
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("%w: %v", ErrApplySchema, err)
	}
	return nil
}
