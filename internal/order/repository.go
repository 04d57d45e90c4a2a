package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"caixa-be/internal/db"
	"caixa-be/internal/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Repository interface {
	Insert(ctx context.Context, q db.Querier, s *Sale) error
	GetByID(ctx context.Context, userID uint, id string) (*Sale, error)
	// GetForUpdate locks the row until q's transaction ends.
	GetForUpdate(ctx context.Context, q db.Querier, userID uint, id string) (*Sale, error)
	List(ctx context.Context, userID uint, filter ListFilter) ([]Sale, error)
	// ListAll returns every sale of the user regardless of status.
	ListAll(ctx context.Context, userID uint) ([]Sale, error)
	UpdateStatus(ctx context.Context, q db.Querier, userID uint, id string, from, to Status) error
	UpdateItems(ctx context.Context, q db.Querier, userID uint, id string, items []LineItem, total decimal.Decimal) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const saleColumns = `id, user_id, order_number, items, total, status, customer_name, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSale(ctx context.Context, row rowScanner) (Sale, error) {
	var (
		s         Sale
		items     []byte
		createdAt sql.NullTime
	)
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.OrderNumber,
		&items,
		&s.Total,
		&s.Status,
		&s.CustomerName,
		&createdAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return s, err
	}

	s.Items = DecodeItems(items)
	if len(s.Items) == 0 && len(items) > 2 {
		logger.FromCtx(ctx).Warn("sale items could not be decoded",
			zap.String("sale_id", s.ID),
		)
	}
	if createdAt.Valid {
		t := createdAt.Time
		s.CreatedAt = &t
	}
	return s, nil
}

func (r *repository) Insert(ctx context.Context, q db.Querier, s *Sale) error {
	if q == nil {
		q = r.db
	}
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Insert"),
		zap.String("sale_id", s.ID),
	)

	items, err := json.Marshal(s.Items)
	if err != nil {
		return fmt.Errorf("encode sale items: %w", err)
	}

	err = q.QueryRowContext(ctx, `
		INSERT INTO sales (id, user_id, order_number, items, total, status, customer_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING updated_at
	`,
		s.ID,
		s.UserID,
		s.OrderNumber,
		items,
		s.Total,
		s.Status,
		s.CustomerName,
		s.CreatedAt,
	).Scan(&s.UpdatedAt)
	if err != nil {
		log.Error("failed to insert sale", zap.Error(err))
		return fmt.Errorf("insert sale: %w", err)
	}

	log.Info("sale inserted", zap.String("order_number", s.OrderNumber))
	return nil
}

func (r *repository) GetByID(ctx context.Context, userID uint, id string) (*Sale, error) {
	return r.get(ctx, r.db, userID, id, "")
}

func (r *repository) GetForUpdate(ctx context.Context, q db.Querier, userID uint, id string) (*Sale, error) {
	if q == nil {
		q = r.db
	}
	return r.get(ctx, q, userID, id, " FOR UPDATE")
}

func (r *repository) get(ctx context.Context, q db.Querier, userID uint, id, lock string) (*Sale, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE user_id = $1 AND id = $2`+lock,
		userID, id,
	)

	s, err := scanSale(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get sale",
			zap.String("sale_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return &s, nil
}

func (r *repository) List(ctx context.Context, userID uint, filter ListFilter) ([]Sale, error) {
	limit := 20
	page := 1
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	if limit > 100 {
		limit = 100
	}
	if filter.Page > 0 {
		page = filter.Page
	}
	offset := (page - 1) * limit

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
		zap.Int("limit", limit),
		zap.Int("page", page),
	)

	query := `SELECT ` + saleColumns + ` FROM sales WHERE user_id = $1`
	args := []any{userID}
	argIndex := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIndex)
		args = append(args, *filter.From)
		argIndex++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at < $%d", argIndex)
		args = append(args, *filter.To)
		argIndex++
	}

	query += " ORDER BY created_at DESC NULLS LAST, order_number DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	log.Debug("executing list sales query", zap.String("query", query))

	return r.query(ctx, query, args...)
}

func (r *repository) ListAll(ctx context.Context, userID uint) ([]Sale, error) {
	return r.query(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE user_id = $1
		ORDER BY created_at ASC NULLS LAST
	`, userID)
}

func (r *repository) query(ctx context.Context, query string, args ...any) ([]Sale, error) {
	log := logger.FromCtx(ctx)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query sales", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	sales := []Sale{}
	for rows.Next() {
		s, err := scanSale(ctx, rows)
		if err != nil {
			log.Error("failed to scan sale", zap.Error(err))
			return nil, err
		}
		sales = append(sales, s)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}
	return sales, nil
}

// UpdateStatus only applies when the row is still in status from.
func (r *repository) UpdateStatus(ctx context.Context, q db.Querier, userID uint, id string, from, to Status) error {
	if q == nil {
		q = r.db
	}

	res, err := q.ExecContext(ctx, `
		UPDATE sales
		SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND id = $3 AND status = $4
	`, to, userID, id, from)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrStaleStatus
	}
	return nil
}

func (r *repository) UpdateItems(
	ctx context.Context,
	q db.Querier,
	userID uint,
	id string,
	items []LineItem,
	total decimal.Decimal,
) error {
	if q == nil {
		q = r.db
	}

	encoded, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode sale items: %w", err)
	}

	res, err := q.ExecContext(ctx, `
		UPDATE sales
		SET items = $1, total = $2, updated_at = NOW()
		WHERE user_id = $3 AND id = $4 AND status = $5
	`, encoded, total, userID, id, StatusPending)
	if err != nil {
		return fmt.Errorf("update sale items: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotEditable
	}
	return nil
}
