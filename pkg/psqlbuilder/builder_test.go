package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("slot_key").
		From("bookings").
		Where(squirrel.Eq{"user_id": 7}).
		Where(squirrel.GtOrEq{"booking_date": "2026-10-01"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT slot_key FROM bookings WHERE user_id = $1 AND booking_date >= $2", query)
	assert.Equal(t, []interface{}{7, "2026-10-01"}, args)
}

func TestDelete_WithoutWhere(t *testing.T) {
	query, args, err := Delete("bookings").ToSql()

	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM bookings", query)
	assert.Empty(t, args)
}
