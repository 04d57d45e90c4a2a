package ordernumber

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "00000001", Format(1))
	assert.Equal(t, "00001234", Format(1234))
	assert.Equal(t, "123456789", Format(123456789))
}

func TestService_NextSequential(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(NewRepository(db))
	ctx := context.Background()

	mock.ExpectQuery("INSERT INTO order_counters .* ON CONFLICT \\(user_id\\) DO UPDATE").
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO order_counters").
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(2))

	first, err := svc.Next(ctx, 7)
	require.NoError(t, err)
	second, err := svc.Next(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, "00000001", first)
	assert.Equal(t, "00000002", second)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_NextFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(NewRepository(db))

	t.Run("Write failure propagates", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO order_counters").
			WithArgs(uint(7)).
			WillReturnError(errors.New("could not serialize access"))

		number, err := svc.Next(context.Background(), 7)
		assert.ErrorIs(t, err, ErrCounterUnavailable)
		assert.Empty(t, number)
	})

	t.Run("Missing user", func(t *testing.T) {
		_, err := svc.Next(context.Background(), 0)
		assert.ErrorIs(t, err, ErrCounterUnavailable)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_NextTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(NewRepository(db))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO order_counters").
		WithArgs(uint(7)).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(42))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)

	number, err := svc.NextTx(context.Background(), tx, 7)
	require.NoError(t, err)
	assert.Equal(t, "00000042", number)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Current(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewService(NewRepository(db))

	t.Run("No counter yet", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM order_counters WHERE user_id = \\$1").
			WithArgs(uint(9)).
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		current, err := svc.Current(context.Background(), 9)
		require.NoError(t, err)
		assert.Equal(t, "00000000", current)
	})

	t.Run("Existing counter", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM order_counters").
			WithArgs(uint(7)).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(17))

		current, err := svc.Current(context.Background(), 7)
		require.NoError(t, err)
		assert.Equal(t, "00000017", current)
	})
}
