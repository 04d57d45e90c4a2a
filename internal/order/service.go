package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"caixa-be/internal/category"
	"caixa-be/internal/db"
	"caixa-be/internal/logger"
	"caixa-be/internal/metrics"
	"caixa-be/internal/product"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Checkout(ctx context.Context, userID uint, in CheckoutInput) (*Sale, error)
	Complete(ctx context.Context, userID uint, id string) (*Sale, error)
	Cancel(ctx context.Context, userID uint, id string) (*Sale, error)
	EditItems(ctx context.Context, userID uint, id string, items []CartItem) (*Sale, error)
	Get(ctx context.Context, userID uint, id string) (*Sale, error)
	List(ctx context.Context, userID uint, filter ListFilter) ([]Sale, error)
}

type ProductLookup interface {
	GetByIDs(ctx context.Context, userID uint, ids []string) (map[string]product.Product, error)
}

type CategorySales interface {
	ApplySales(ctx context.Context, q db.Querier, userID uint, deltas []category.SalesDelta) error
}

type NumberIssuer interface {
	NextTx(ctx context.Context, q db.Querier, userID uint) (string, error)
}

type Invalidator interface {
	Invalidate(ctx context.Context, userID uint) error
}

type Deps struct {
	Repo        Repository
	Products    ProductLookup
	Categories  CategorySales
	Numbers     NumberIssuer
	Tx          db.TxRunner
	Invalidator Invalidator
}

type service struct {
	repo        Repository
	products    ProductLookup
	categories  CategorySales
	numbers     NumberIssuer
	tx          db.TxRunner
	invalidator Invalidator
	validate    *validator.Validate
	now         func() time.Time
}

func NewService(d Deps) Service {
	return &service{
		repo:        d.Repo,
		products:    d.Products,
		categories:  d.Categories,
		numbers:     d.Numbers,
		tx:          d.Tx,
		invalidator: d.Invalidator,
		validate:    validator.New(),
		now:         time.Now,
	}
}

func (s *service) Checkout(ctx context.Context, userID uint, in CheckoutInput) (*Sale, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Checkout"),
	)
	log.Debug("checkout started", zap.Int("items", len(in.Items)))

	if err := s.validate.Struct(in); err != nil {
		log.Warn("invalid checkout input", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidCheckout, err)
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}

	items, err := s.resolveItems(ctx, userID, in.Items)
	if err != nil {
		log.Warn("failed to resolve cart items", zap.Error(err))
		return nil, err
	}

	now := s.now()
	sale := &Sale{
		ID:           uuid.NewString(),
		UserID:       userID,
		Items:        items,
		Total:        SumItems(items),
		Status:       status,
		CreatedAt:    &now,
		CustomerName: strings.TrimSpace(in.CustomerName),
	}

	// The number is allocated in the same transaction as the insert, so a
	// failed insert never leaves a sale with an uncommitted number.
	err = s.tx.WithTx(ctx, func(q db.Querier) error {
		number, err := s.numbers.NextTx(ctx, q, userID)
		if err != nil {
			return err
		}
		sale.OrderNumber = number

		if err := s.repo.Insert(ctx, q, sale); err != nil {
			return err
		}

		if status == StatusCompleted {
			return s.categories.ApplySales(ctx, q, userID, CategoryDeltas(items))
		}
		return nil
	})
	if err != nil {
		log.Error("checkout failed", zap.Error(err))
		return nil, err
	}

	metrics.Inc(metrics.OrdersCheckedOut)
	s.invalidate(ctx, userID)

	log.Info("checkout success",
		zap.String("sale_id", sale.ID),
		zap.String("order_number", sale.OrderNumber),
		zap.String("total", sale.Total.StringFixed(2)),
	)
	return sale, nil
}

func (s *service) Complete(ctx context.Context, userID uint, id string) (*Sale, error) {
	return s.transition(ctx, userID, id, StatusCompleted)
}

func (s *service) Cancel(ctx context.Context, userID uint, id string) (*Sale, error) {
	sale, err := s.transition(ctx, userID, id, StatusCanceled)
	if err == nil {
		metrics.Inc(metrics.OrdersCanceled)
	}
	return sale, err
}

func (s *service) transition(ctx context.Context, userID uint, id string, to Status) (*Sale, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("sale_id", id),
		zap.String("to", string(to)),
	)

	var updated *Sale
	err := s.tx.WithTx(ctx, func(q db.Querier) error {
		sale, err := s.repo.GetForUpdate(ctx, q, userID, id)
		if err != nil {
			return err
		}

		from := sale.Status
		if !CanTransition(from, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
		}

		if err := s.repo.UpdateStatus(ctx, q, userID, id, from, to); err != nil {
			return err
		}

		deltas := CategoryDeltas(sale.Items)
		switch {
		case to == StatusCompleted:
			err = s.categories.ApplySales(ctx, q, userID, deltas)
		case to == StatusCanceled && from == StatusCompleted:
			err = s.categories.ApplySales(ctx, q, userID, negate(deltas))
		}
		if err != nil {
			return err
		}

		sale.Status = to
		updated = sale
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrOrderNotFound) {
			log.Warn("transition rejected", zap.Error(err))
		} else {
			log.Error("transition failed", zap.Error(err))
		}
		return nil, err
	}

	s.invalidate(ctx, userID)
	log.Info("sale status updated")
	return updated, nil
}

func (s *service) EditItems(ctx context.Context, userID uint, id string, cart []CartItem) (*Sale, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "EditItems"),
		zap.String("sale_id", id),
	)

	in := CheckoutInput{Items: cart}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCheckout, err)
	}

	items, err := s.resolveItems(ctx, userID, cart)
	if err != nil {
		return nil, err
	}
	total := SumItems(items)

	var updated *Sale
	err = s.tx.WithTx(ctx, func(q db.Querier) error {
		sale, err := s.repo.GetForUpdate(ctx, q, userID, id)
		if err != nil {
			return err
		}
		if sale.Status != StatusPending {
			return ErrNotEditable
		}

		if err := s.repo.UpdateItems(ctx, q, userID, id, items, total); err != nil {
			return err
		}

		sale.Items = items
		sale.Total = total
		updated = sale
		return nil
	})
	if err != nil {
		log.Warn("edit items failed", zap.Error(err))
		return nil, err
	}

	s.invalidate(ctx, userID)
	return updated, nil
}

func (s *service) Get(ctx context.Context, userID uint, id string) (*Sale, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *service) List(ctx context.Context, userID uint, filter ListFilter) ([]Sale, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidCheckout, *filter.Status)
	}
	return s.repo.List(ctx, userID, filter)
}

// resolveItems snapshots the current catalog into line items. Fixed-price
// products are charged their listed value; variable-price ones the value
// supplied by the cashier.
func (s *service) resolveItems(ctx context.Context, userID uint, cart []CartItem) ([]LineItem, error) {
	ids := make([]string, 0, len(cart))
	seen := make(map[string]struct{}, len(cart))
	for _, ci := range cart {
		if _, ok := seen[ci.ProductID]; ok {
			continue
		}
		seen[ci.ProductID] = struct{}{}
		ids = append(ids, ci.ProductID)
	}

	products, err := s.products.GetByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(cart))
	for _, ci := range cart {
		p, ok := products[ci.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, ci.ProductID)
		}

		value := p.Value
		if p.IsVariablePrice {
			if ci.Value == nil || !ci.Value.IsPositive() {
				return nil, fmt.Errorf("%w: %s", ErrVariablePriceRequired, p.Title)
			}
			value = *ci.Value
		}

		items = append(items, LineItem{
			ProductID:   p.ID,
			Title:       p.Title,
			Value:       value,
			Quantity:    ci.Quantity,
			CategoryID:  p.CategoryID,
			Observation: strings.TrimSpace(ci.Observation),
		})
	}
	return items, nil
}

func (s *service) invalidate(ctx context.Context, userID uint) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, userID); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate report cache", zap.Error(err))
	}
}

// CategoryDeltas sums quantity and revenue per category snapshot, sorted by
// category id. Items without a category are left out.
func CategoryDeltas(items []LineItem) []category.SalesDelta {
	byID := map[string]*category.SalesDelta{}
	for _, it := range items {
		if it.CategoryID == "" || it.Quantity <= 0 {
			continue
		}
		d, ok := byID[it.CategoryID]
		if !ok {
			d = &category.SalesDelta{CategoryID: it.CategoryID, Revenue: decimal.Zero}
			byID[it.CategoryID] = d
		}
		d.Quantity += int64(it.Quantity)
		d.Revenue = d.Revenue.Add(it.Subtotal())
	}

	out := make([]category.SalesDelta, 0, len(byID))
	for _, d := range byID {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryID < out[j].CategoryID })
	return out
}

func negate(deltas []category.SalesDelta) []category.SalesDelta {
	out := make([]category.SalesDelta, len(deltas))
	for i, d := range deltas {
		out[i] = d.Negate()
	}
	return out
}
