package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"caixa-be/internal/db"
	"caixa-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, userID uint) ([]Category, error)
	GetByID(ctx context.Context, userID uint, id string) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Rename(ctx context.Context, userID uint, id, name string) error
	Sales(ctx context.Context, userID uint) ([]Sales, error)
	ApplySales(ctx context.Context, q db.Querier, userID uint, deltas []SalesDelta) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, userID uint) ([]Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "List"),
	)
	log.Debug("listing categories")

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name ASC
	`, userID)
	if err != nil {
		log.Error("failed to query categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt); err != nil {
			log.Error("failed to scan category", zap.Error(err))
			return nil, err
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return categories, nil
}

func (r *repository) GetByID(ctx context.Context, userID uint, id string) (*Category, error) {
	var c Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, created_at
		FROM categories
		WHERE user_id = $1 AND id = $2
	`, userID, id).Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCategoryNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get category",
			zap.String("category_id", id),
			zap.Error(err),
		)
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.String("category_id", c.ID),
	)

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, user_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, c.ID, c.UserID, c.Name).Scan(&c.CreatedAt)
	if err != nil {
		log.Error("failed to insert category", zap.Error(err))
		return fmt.Errorf("add category failed: %w", err)
	}

	log.Info("category created")
	return nil
}

func (r *repository) Rename(ctx context.Context, userID uint, id, name string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = $1
		WHERE user_id = $2 AND id = $3
	`, name, userID, id)
	if err != nil {
		return fmt.Errorf("rename category failed: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *repository) Sales(ctx context.Context, userID uint) ([]Sales, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Sales"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT cs.category_id, c.name, cs.quantity, cs.revenue
		FROM category_sales cs
		JOIN categories c ON c.id = cs.category_id AND c.user_id = cs.user_id
		WHERE cs.user_id = $1
		ORDER BY cs.quantity DESC, c.name ASC
	`, userID)
	if err != nil {
		log.Error("failed to query category sales", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	out := []Sales{}
	for rows.Next() {
		var s Sales
		if err := rows.Scan(&s.CategoryID, &s.Name, &s.Quantity, &s.Revenue); err != nil {
			log.Error("failed to scan category sales", zap.Error(err))
			return nil, err
		}
		out = append(out, s)
	}

	return out, rows.Err()
}

// ApplySales adds each delta to the category tally. It runs on q so the
// caller can keep it in the same transaction as the sale status change.
func (r *repository) ApplySales(ctx context.Context, q db.Querier, userID uint, deltas []SalesDelta) error {
	if q == nil {
		q = r.db
	}

	for _, d := range deltas {
		if d.CategoryID == "" {
			continue
		}

		_, err := q.ExecContext(ctx, `
			INSERT INTO category_sales (user_id, category_id, quantity, revenue)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, category_id) DO UPDATE
			SET quantity = category_sales.quantity + EXCLUDED.quantity,
			    revenue  = category_sales.revenue + EXCLUDED.revenue
		`, userID, d.CategoryID, d.Quantity, d.Revenue)
		if err != nil {
			logger.FromCtx(ctx).Error("failed to apply category sales",
				zap.String("category_id", d.CategoryID),
				zap.Error(err),
			)
			return fmt.Errorf("apply category sales: %w", err)
		}
	}

	return nil
}
