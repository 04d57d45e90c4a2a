package category

import (
	"context"
	"strings"
	"unicode/utf8"

	"caixa-be/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxNameLength = 80

type Service interface {
	List(ctx context.Context, userID uint) ([]Category, error)
	Get(ctx context.Context, userID uint, id string) (*Category, error)
	Create(ctx context.Context, userID uint, name string) (*Category, error)
	Rename(ctx context.Context, userID uint, id, name string) (*Category, error)
	Sales(ctx context.Context, userID uint) ([]Sales, error)
}

// Invalidator drops whatever derived data depends on the catalog.
type Invalidator interface {
	Invalidate(ctx context.Context, userID uint) error
}

type service struct {
	repo        Repository
	invalidator Invalidator
}

func NewService(repo Repository, invalidator Invalidator) Service {
	return &service{repo: repo, invalidator: invalidator}
}

func (s *service) List(ctx context.Context, userID uint) ([]Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "List"),
	)

	categories, err := s.repo.List(ctx, userID)
	if err != nil {
		log.Error("failed to list categories", zap.Error(err))
		return nil, err
	}

	log.Debug("categories listed", zap.Int("count", len(categories)))
	return categories, nil
}

func (s *service) Get(ctx context.Context, userID uint, id string) (*Category, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *service) Create(ctx context.Context, userID uint, name string) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	name, err := normalizeName(name)
	if err != nil {
		log.Warn("invalid category name", zap.Error(err))
		return nil, err
	}

	c := &Category{
		ID:     uuid.NewString(),
		UserID: userID,
		Name:   name,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		log.Error("failed to create category", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, userID)
	log.Info("category created", zap.String("category_id", c.ID))
	return c, nil
}

func (s *service) Rename(ctx context.Context, userID uint, id, name string) (*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Rename"),
		zap.String("category_id", id),
	)

	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Rename(ctx, userID, id, name); err != nil {
		log.Error("failed to rename category", zap.Error(err))
		return nil, err
	}

	// Reports are keyed by category name, so a rename makes them stale.
	s.invalidate(ctx, userID)
	return s.repo.GetByID(ctx, userID, id)
}

func (s *service) Sales(ctx context.Context, userID uint) ([]Sales, error) {
	return s.repo.Sales(ctx, userID)
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, userID); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate report cache", zap.Error(err))
	}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}
