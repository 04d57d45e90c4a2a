package ordernumber

import (
	"context"
	"database/sql"
	"errors"

	"caixa-be/internal/db"
)

type Repository interface {
	// Next increments the user's counter and returns the new value. A user
	// without a counter starts at 1.
	Next(ctx context.Context, q db.Querier, userID uint) (int64, error)
	Current(ctx context.Context, userID uint) (int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// The upsert takes a row lock, so concurrent callers for the same user are
// serialized by Postgres and each sees a distinct value.
const nextQuery = `
	INSERT INTO order_counters (user_id, value)
	VALUES ($1, 1)
	ON CONFLICT (user_id) DO UPDATE
	SET value = order_counters.value + 1,
	    updated_at = NOW()
	RETURNING value
`

func (r *repository) Next(ctx context.Context, q db.Querier, userID uint) (int64, error) {
	if q == nil {
		q = r.db
	}

	var value int64
	if err := q.QueryRowContext(ctx, nextQuery, userID).Scan(&value); err != nil {
		return 0, err
	}
	return value, nil
}

func (r *repository) Current(ctx context.Context, userID uint) (int64, error) {
	var value int64
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM order_counters WHERE user_id = $1`,
		userID,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return value, err
}
