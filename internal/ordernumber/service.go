// Package ordernumber issues the sequential, human-readable order numbers
// printed on receipts.
package ordernumber

import (
	"context"
	"errors"
	"fmt"

	"caixa-be/internal/db"
	"caixa-be/internal/logger"
	"caixa-be/internal/metrics"

	"go.uber.org/zap"
)

const Width = 8

var ErrCounterUnavailable = errors.New("order counter unavailable")

type Service interface {
	Next(ctx context.Context, userID uint) (string, error)
	// NextTx allocates the number on q so it commits or rolls back together
	// with the order that carries it.
	NextTx(ctx context.Context, q db.Querier, userID uint) (string, error)
	Current(ctx context.Context, userID uint) (string, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func Format(n int64) string {
	return fmt.Sprintf("%0*d", Width, n)
}

func (s *service) Next(ctx context.Context, userID uint) (string, error) {
	return s.NextTx(ctx, nil, userID)
}

func (s *service) NextTx(ctx context.Context, q db.Querier, userID uint) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "NextOrderNumber"),
	)

	if userID == 0 {
		return "", fmt.Errorf("%w: missing user", ErrCounterUnavailable)
	}

	n, err := s.repo.Next(ctx, q, userID)
	if err != nil {
		metrics.Inc(metrics.OrderNumberFailures)
		log.Error("failed to increment order counter", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrCounterUnavailable, err)
	}

	metrics.Inc(metrics.OrderNumbersIssued)
	number := Format(n)
	log.Debug("order number issued", zap.String("order_number", number))
	return number, nil
}

func (s *service) Current(ctx context.Context, userID uint) (string, error) {
	n, err := s.repo.Current(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCounterUnavailable, err)
	}
	return Format(n), nil
}
