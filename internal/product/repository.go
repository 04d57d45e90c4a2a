package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"caixa-be/internal/db"
	"caixa-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, userID uint) ([]Product, error)
	GetByID(ctx context.Context, userID uint, id string) (*Product, error)
	GetByIDs(ctx context.Context, userID uint, ids []string) (map[string]Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Upsert(ctx context.Context, q db.Querier, p *Product) error
	SetImageKey(ctx context.Context, userID uint, id, key string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `id, user_id, title, value, cost, category_id, is_variable_price, image_key, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var (
		p          Product
		categoryID sql.NullString
		imageKey   sql.NullString
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Title,
		&p.Value,
		&p.Cost,
		&categoryID,
		&p.IsVariablePrice,
		&imageKey,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}
	p.CategoryID = categoryID.String
	if imageKey.Valid {
		p.ImageKey = &imageKey.String
	}
	return p, nil
}

func (r *repository) List(ctx context.Context, userID uint) ([]Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)
	log.Debug("listing products")

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE user_id = $1
		ORDER BY title ASC
	`, userID)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			log.Error("failed to scan product", zap.Error(err))
			return nil, err
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return products, nil
}

func (r *repository) GetByID(ctx context.Context, userID uint, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE user_id = $1 AND id = $2
	`, userID, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get product",
			zap.String("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return &p, nil
}

// GetByIDs returns the products found among ids, keyed by id. Missing ids are
// simply absent from the map.
func (r *repository) GetByIDs(ctx context.Context, userID uint, ids []string) (map[string]Product, error) {
	out := make(map[string]Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE user_id = $1 AND id = ANY($2)
	`, userID, pq.Array(ids))
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query products by ids", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}

	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, p *Product) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("product_id", p.ID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (id, user_id, title, value, cost, category_id, is_variable_price)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING created_at, updated_at
	`,
		p.ID,
		p.UserID,
		p.Title,
		p.Value,
		p.Cost,
		p.CategoryID,
		p.IsVariablePrice,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		log.Error("failed to insert product", zap.Error(err))
		return fmt.Errorf("create product failed: %w", err)
	}

	log.Info("product created")
	return nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE products
		SET title = $1,
		    value = $2,
		    cost = $3,
		    category_id = NULLIF($4, ''),
		    is_variable_price = $5,
		    updated_at = NOW()
		WHERE user_id = $6 AND id = $7
		RETURNING created_at, updated_at
	`,
		p.Title,
		p.Value,
		p.Cost,
		p.CategoryID,
		p.IsVariablePrice,
		p.UserID,
		p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to update product",
			zap.String("product_id", p.ID),
			zap.Error(err),
		)
		return fmt.Errorf("update product failed: %w", err)
	}
	return nil
}

func (r *repository) Upsert(ctx context.Context, q db.Querier, p *Product) error {
	if q == nil {
		q = r.db
	}

	res, err := q.ExecContext(ctx, `
		INSERT INTO products (id, user_id, title, value, cost, category_id, is_variable_price)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		ON CONFLICT (user_id, id) DO UPDATE
		SET title = EXCLUDED.title,
		    value = EXCLUDED.value,
		    cost = EXCLUDED.cost,
		    category_id = EXCLUDED.category_id,
		    is_variable_price = EXCLUDED.is_variable_price,
		    updated_at = NOW()
	`,
		p.ID,
		p.UserID,
		p.Title,
		p.Value,
		p.Cost,
		p.CategoryID,
		p.IsVariablePrice,
	)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", p.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("upsert product %s: %w", p.ID, ErrNotStored)
	}
	return nil
}

func (r *repository) SetImageKey(ctx context.Context, userID uint, id, key string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET image_key = $1, updated_at = NOW()
		WHERE user_id = $2 AND id = $3
	`, key, userID, id)
	if err != nil {
		return fmt.Errorf("set product image failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}
