package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caixa-be/internal/category"
	"caixa-be/internal/logger"
	"caixa-be/internal/metrics"
	"caixa-be/internal/order"
	"caixa-be/internal/product"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrBackendUnavailable = errors.New("report backend unavailable")
	ErrExportUnavailable  = errors.New("report export storage not configured")
)

type Service interface {
	Generate(ctx context.Context, userID uint) (*Report, error)
	Daily(ctx context.Context, userID uint) ([]DailySales, error)
	Trend(ctx context.Context, userID uint, filter TrendFilter) ([]TrendPoint, error)
	Export(ctx context.Context, userID uint, format Format) (*ExportResult, error)
	Invalidate(ctx context.Context, userID uint) error
}

type ProductSource interface {
	List(ctx context.Context, userID uint) ([]product.Product, error)
}

type CategorySource interface {
	List(ctx context.Context, userID uint) ([]category.Category, error)
}

type SaleSource interface {
	ListAll(ctx context.Context, userID uint) ([]order.Sale, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

type Deps struct {
	Products   ProductSource
	Categories CategorySource
	Sales      SaleSource
	// Cache and Store are optional.
	Cache    Cache
	Store    ObjectStore
	CacheTTL time.Duration
	Location *time.Location
}

type service struct {
	products   ProductSource
	categories CategorySource
	sales      SaleSource
	cache      Cache
	store      ObjectStore
	ttl        time.Duration
	loc        *time.Location
	now        func() time.Time
}

func NewService(d Deps) Service {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return &service{
		products:   d.Products,
		categories: d.Categories,
		sales:      d.Sales,
		cache:      d.Cache,
		store:      d.Store,
		ttl:        d.CacheTTL,
		loc:        loc,
		now:        time.Now,
	}
}

func cacheKey(userID uint) string {
	return fmt.Sprintf("report:%d", userID)
}

func (s *service) Generate(ctx context.Context, userID uint) (*Report, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Report, nil
}

func (s *service) Daily(ctx context.Context, userID uint) ([]DailySales, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return snap.Daily, nil
}

func (s *service) Trend(ctx context.Context, userID uint, filter TrendFilter) ([]TrendPoint, error) {
	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Trend(snap.Daily, filter), nil
}

func (s *service) Export(ctx context.Context, userID uint, format Format) (*ExportResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ExportReport"),
	)

	if s.store == nil {
		return nil, ErrExportUnavailable
	}
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	snap, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := Render(format, snap.Report, snap.Daily)
	if err != nil {
		log.Error("failed to render export", zap.String("format", string(format)), zap.Error(err))
		return nil, err
	}

	key := fmt.Sprintf("reports/%d/%s.%s", userID, s.now().UTC().Format("20060102T150405Z"), format)
	if err := s.store.Upload(ctx, key, data, format.ContentType()); err != nil {
		log.Error("failed to upload export", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	url, expiresAt, err := s.store.GenerateDownloadURL(ctx, key, 0)
	if err != nil {
		log.Error("failed to presign export", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	metrics.Inc(metrics.ReportExports)
	log.Info("report exported", zap.String("key", key), zap.Int("size", len(data)))

	return &ExportResult{Key: key, URL: url, ExpiresAt: expiresAt, Size: len(data)}, nil
}

func (s *service) Invalidate(ctx context.Context, userID uint) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cacheKey(userID))
}

// snapshot serves the cached report when present. Otherwise it loads the
// three collections concurrently and rebuilds; a failure in any of them
// fails the whole report.
func (s *service) snapshot(ctx context.Context, userID uint) (*Snapshot, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GenerateReport"),
	)

	key := cacheKey(userID)
	if s.cache != nil {
		var cached Snapshot
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Warn("report cache read failed", zap.Error(err))
		} else if hit && cached.Report != nil {
			metrics.Inc(metrics.ReportCacheHits)
			log.Debug("report served from cache")
			return &cached, nil
		}
	}

	timer := metrics.StartTimer()

	var (
		products   []product.Product
		categories []category.Category
		sales      []order.Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.products.List(gctx, userID)
		if err != nil {
			return fmt.Errorf("load products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		categories, err = s.categories.List(gctx, userID)
		if err != nil {
			return fmt.Errorf("load categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		sales, err = s.sales.ListAll(gctx, userID)
		if err != nil {
			return fmt.Errorf("load sales: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.Inc(metrics.ReportFetchFailures)
		metrics.ObserveReportBuild("error", timer.Duration())
		log.Error("failed to load report inputs", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	rollups := Rollup(sales, IndexProducts(products), IndexCategories(categories), RollupOptions{Location: s.loc})
	rep := BuildReport(rollups)
	rep.GeneratedAt = s.now()
	snap := &Snapshot{Report: rep, Daily: rollups.DailySeries}

	took := timer.Duration()
	metrics.Inc(metrics.ReportsGenerated)
	metrics.ObserveReportBuild("ok", took)
	log.Info("report generated",
		zap.Int("sales", len(sales)),
		zap.Int("completed", rep.CompletedCount),
		zap.Duration("took", took),
	)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, snap, s.ttl); err != nil {
			log.Warn("report cache write failed", zap.Error(err))
		}
	}
	return snap, nil
}
