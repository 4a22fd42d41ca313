package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/repositories"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/storefront-api/configs"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const bannerCacheKey = "cache:banners:active"

// CatalogService serves the storefront read paths: products, categories and
// promotional banners. Banners sit on every page, so they are cached in
// redis; admin-api invalidates the key on banner writes.
type CatalogService interface {
	ListProducts(ctx context.Context, traceID string, categoryID uuid.UUID, limit, offset int) ([]pkgviews.ProductView, error)
	GetProduct(ctx context.Context, traceID string, productID uuid.UUID) (pkgviews.ProductView, error)
	ListCategories(ctx context.Context, traceID string) ([]pkgviews.CategoryView, error)
	ListBanners(ctx context.Context, traceID string) ([]pkgviews.BannerView, error)
}

type CatalogServiceImpl struct {
	logger      *zap.Logger
	cnf         *configs.Config
	productRepo repositories.ProductRepository
	catalogRepo repositories.CatalogRepository
	redisClient *redis.Client
}

func NewCatalogService(logger *zap.Logger, cnf *configs.Config, productRepo repositories.ProductRepository, catalogRepo repositories.CatalogRepository, redisClient *redis.Client) CatalogService {
	return &CatalogServiceImpl{
		logger:      logger,
		cnf:         cnf,
		productRepo: productRepo,
		catalogRepo: catalogRepo,
		redisClient: redisClient,
	}
}

func (s *CatalogServiceImpl) ListProducts(ctx context.Context, traceID string, categoryID uuid.UUID, limit, offset int) ([]pkgviews.ProductView, error) {
	products, err := s.productRepo.List(ctx, categoryID, limit, offset)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	out := make([]pkgviews.ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, p.ToView())
	}
	return out, nil
}

func (s *CatalogServiceImpl) GetProduct(ctx context.Context, traceID string, productID uuid.UUID) (pkgviews.ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return pkgviews.ProductView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return product.ToView(), nil
}

func (s *CatalogServiceImpl) ListCategories(ctx context.Context, traceID string) ([]pkgviews.CategoryView, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	out := make([]pkgviews.CategoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, c.ToView())
	}
	return out, nil
}

func (s *CatalogServiceImpl) ListBanners(ctx context.Context, traceID string) ([]pkgviews.BannerView, error) {
	if s.redisClient != nil {
		cached, err := s.redisClient.Get(ctx, bannerCacheKey).Bytes()
		if err == nil {
			var banners []pkgviews.BannerView
			if err = json.Unmarshal(cached, &banners); err == nil {
				return banners, nil
			}
			// Corrupt cache entry; fall through to the database.
		}
	}

	rows, err := s.catalogRepo.ListBanners(ctx, true)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	banners := make([]pkgviews.BannerView, 0, len(rows))
	for _, b := range rows {
		banners = append(banners, b.ToView())
	}

	if s.redisClient != nil {
		if b, err := json.Marshal(banners); err == nil {
			if err = s.redisClient.Set(ctx, bannerCacheKey, b, s.cnf.BannerCacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache banners", zap.String(pkg.TraceId, traceID), zap.Error(err))
			}
		}
	}
	return banners, nil
}
