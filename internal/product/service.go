package product

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"caixa-be/internal/category"
	"caixa-be/internal/db"
	"caixa-be/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, userID uint) ([]Product, error)
	Get(ctx context.Context, userID uint, id string) (*Product, error)
	Create(ctx context.Context, userID uint, in Input) (*Product, error)
	Update(ctx context.Context, userID uint, id string, in Input) (*Product, error)
	ImageUploadURL(ctx context.Context, userID uint, id, contentType string) (*ImageUpload, error)
	Import(ctx context.Context, userID uint, products []Product) (*ImportResult, error)
}

type CategoryLookup interface {
	GetByID(ctx context.Context, userID uint, id string) (*category.Category, error)
}

type ImageStorage interface {
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
}

type Invalidator interface {
	Invalidate(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	categories  CategoryLookup
	images      ImageStorage
	tx          db.TxRunner
	invalidator Invalidator
	validate    *validator.Validate
}

// NewService wires the product service. images may be nil when object
// storage is not configured; ImageUploadURL then fails with
// ErrStorageUnavailable.
func NewService(
	repo Repository,
	categories CategoryLookup,
	images ImageStorage,
	tx db.TxRunner,
	invalidator Invalidator,
) Service {
	return &service{
		repo:        repo,
		categories:  categories,
		images:      images,
		tx:          tx,
		invalidator: invalidator,
		validate:    validator.New(),
	}
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

func (s *service) List(ctx context.Context, userID uint) ([]Product, error) {
	return s.repo.List(ctx, userID)
}

func (s *service) Get(ctx context.Context, userID uint, id string) (*Product, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *service) Create(ctx context.Context, userID uint, in Input) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	if err := s.checkInput(ctx, userID, &in); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return nil, err
	}

	p := &Product{
		ID:              uuid.NewString(),
		UserID:          userID,
		Title:           in.Title,
		Value:           in.Value,
		Cost:            in.Cost,
		CategoryID:      in.CategoryID,
		IsVariablePrice: in.IsVariablePrice,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, userID)
	log.Info("product created", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) Update(ctx context.Context, userID uint, id string, in Input) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Update"),
		zap.String("product_id", id),
	)

	if err := s.checkInput(ctx, userID, &in); err != nil {
		log.Warn("invalid product input", zap.Error(err))
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	existing.Title = in.Title
	existing.Value = in.Value
	existing.Cost = in.Cost
	existing.CategoryID = in.CategoryID
	existing.IsVariablePrice = in.IsVariablePrice

	if err := s.repo.Update(ctx, existing); err != nil {
		log.Error("failed to update product", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, userID)
	return existing, nil
}

func (s *service) ImageUploadURL(ctx context.Context, userID uint, id, contentType string) (*ImageUpload, error) {
	if s.images == nil {
		return nil, ErrStorageUnavailable
	}

	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%d/%s/%s%s", userID, id, uuid.NewString(), ext)
	url, expiresAt, err := s.images.GenerateUploadURL(ctx, key, contentType, 0)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to presign product image upload",
			zap.String("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.repo.SetImageKey(ctx, userID, id, key); err != nil {
		return nil, err
	}

	// The previous image is orphaned once the key is replaced.
	if existing.ImageKey != nil && *existing.ImageKey != "" {
		if err := s.images.DeleteObject(ctx, *existing.ImageKey); err != nil {
			logger.FromCtx(ctx).Warn("failed to delete previous product image",
				zap.String("product_id", id),
				zap.String("key", *existing.ImageKey),
				zap.Error(err),
			)
		}
	}

	return &ImageUpload{UploadURL: url, Key: key, ExpiresAt: expiresAt}, nil
}

// Import upserts a batch of products in one transaction. Records without a
// title, with negative amounts, or that the database did not store are
// skipped and reported back rather than failing the batch.
func (s *service) Import(ctx context.Context, userID uint, products []Product) (*ImportResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Import"),
		zap.Int("count", len(products)),
	)
	log.Info("import started")

	result := &ImportResult{Skipped: []string{}}

	err := s.tx.WithTx(ctx, func(q db.Querier) error {
		for i := range products {
			p := products[i]
			p.Title = strings.TrimSpace(p.Title)
			if p.Title == "" || p.Value.IsNegative() || p.Cost.IsNegative() {
				ref := p.ID
				if ref == "" {
					ref = fmt.Sprintf("#%d", i)
				}
				result.Skipped = append(result.Skipped, ref)
				continue
			}
			if p.ID == "" {
				p.ID = uuid.NewString()
			}
			p.UserID = userID

			if err := s.repo.Upsert(ctx, q, &p); err != nil {
				if errors.Is(err, ErrNotStored) {
					log.Warn("import record not stored", zap.String("product_id", p.ID))
					result.Skipped = append(result.Skipped, p.ID)
					continue
				}
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		log.Error("import failed", zap.Error(err))
		return nil, err
	}

	if result.Imported > 0 {
		s.invalidate(ctx, userID)
	}
	log.Info("import finished",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *service) checkInput(ctx context.Context, userID uint, in *Input) error {
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if in.Value.IsNegative() || in.Cost.IsNegative() {
		return ErrNegativeValue
	}

	if _, err := s.categories.GetByID(ctx, userID, in.CategoryID); err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			return ErrUnknownCategory
		}
		return err
	}
	return nil
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, userID); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate report cache", zap.Error(err))
	}
}
