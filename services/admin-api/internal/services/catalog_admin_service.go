package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/models"
	"github.com/marketbay/shopfront/pkg/repositories"
	pkgviews "github.com/marketbay/shopfront/pkg/views"
	"github.com/marketbay/shopfront/services/admin-api/internal/views"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// bannerCacheKey mirrors the storefront read cache; banner writes here must
// invalidate it or the storefront serves stale promotions until TTL.
const bannerCacheKey = "cache:banners:active"

// CatalogAdminService owns the back-office write paths for products,
// categories and banners.
type CatalogAdminService interface {
	CreateProduct(ctx context.Context, traceID string, req views.CreateProductRequest) (pkgviews.ProductView, error)
	UpdateProduct(ctx context.Context, traceID string, productID uuid.UUID, req views.UpdateProductRequest) (pkgviews.ProductView, error)
	DeleteProduct(ctx context.Context, traceID string, productID uuid.UUID) error
	ListProducts(ctx context.Context, traceID string, categoryID uuid.UUID, limit, offset int) ([]pkgviews.ProductView, error)

	CreateCategory(ctx context.Context, traceID string, req views.CreateCategoryRequest) (pkgviews.CategoryView, error)
	ListCategories(ctx context.Context, traceID string) ([]pkgviews.CategoryView, error)
	DeleteCategory(ctx context.Context, traceID string, categoryID uuid.UUID) error

	CreateBanner(ctx context.Context, traceID string, req views.CreateBannerRequest) (pkgviews.BannerView, error)
	UpdateBanner(ctx context.Context, traceID string, bannerID uuid.UUID, req views.UpdateBannerRequest) (pkgviews.BannerView, error)
	DeleteBanner(ctx context.Context, traceID string, bannerID uuid.UUID) error
	ListBanners(ctx context.Context, traceID string) ([]pkgviews.BannerView, error)
}

type CatalogAdminServiceImpl struct {
	logger      *zap.Logger
	productRepo repositories.ProductRepository
	catalogRepo repositories.CatalogRepository
	redisClient *redis.Client
}

func NewCatalogAdminService(logger *zap.Logger, productRepo repositories.ProductRepository, catalogRepo repositories.CatalogRepository, redisClient *redis.Client) CatalogAdminService {
	return &CatalogAdminServiceImpl{
		logger:      logger,
		productRepo: productRepo,
		catalogRepo: catalogRepo,
		redisClient: redisClient,
	}
}

func (s *CatalogAdminServiceImpl) CreateProduct(ctx context.Context, traceID string, req views.CreateProductRequest) (pkgviews.ProductView, error) {
	product, err := productFromRequest(req.CategoryID, req.Name, req.Description, req.ImageURL, req.Price, req.Quantity)
	if err != nil {
		return pkgviews.ProductView{}, err
	}
	if err := s.productRepo.Create(ctx, &product); err != nil {
		return pkgviews.ProductView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	s.logger.Info("product created",
		zap.String(pkg.TraceId, traceID),
		zap.String("productId", product.ID.String()),
		zap.String("name", product.Name))
	return product.ToView(), nil
}

func (s *CatalogAdminServiceImpl) UpdateProduct(ctx context.Context, traceID string, productID uuid.UUID, req views.UpdateProductRequest) (pkgviews.ProductView, error) {
	product, err := productFromRequest(req.CategoryID, req.Name, req.Description, req.ImageURL, req.Price, req.Quantity)
	if err != nil {
		return pkgviews.ProductView{}, err
	}
	product.ID = productID
	ok, err := s.productRepo.Update(ctx, product)
	if err != nil {
		return pkgviews.ProductView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	if !ok {
		return pkgviews.ProductView{}, pkg.NewAppError(pkg.ErrRecordNotFoundCode, "product not found", nil)
	}
	updated, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return pkgviews.ProductView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return updated.ToView(), nil
}

func (s *CatalogAdminServiceImpl) DeleteProduct(ctx context.Context, traceID string, productID uuid.UUID) error {
	ok, err := s.productRepo.Delete(ctx, productID)
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	if !ok {
		return pkg.NewAppError(pkg.ErrRecordNotFoundCode, "product not found", nil)
	}
	s.logger.Info("product deleted",
		zap.String(pkg.TraceId, traceID),
		zap.String("productId", productID.String()))
	return nil
}

func (s *CatalogAdminServiceImpl) ListProducts(ctx context.Context, traceID string, categoryID uuid.UUID, limit, offset int) ([]pkgviews.ProductView, error) {
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

func (s *CatalogAdminServiceImpl) CreateCategory(ctx context.Context, traceID string, req views.CreateCategoryRequest) (pkgviews.CategoryView, error) {
	now := time.Now()
	category := models.Category{
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.catalogRepo.CreateCategory(ctx, &category); err != nil {
		return pkgviews.CategoryView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	return category.ToView(), nil
}

func (s *CatalogAdminServiceImpl) ListCategories(ctx context.Context, traceID string) ([]pkgviews.CategoryView, error) {
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

func (s *CatalogAdminServiceImpl) DeleteCategory(ctx context.Context, traceID string, categoryID uuid.UUID) error {
	ok, err := s.catalogRepo.DeleteCategory(ctx, categoryID)
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	if !ok {
		return pkg.NewAppError(pkg.ErrRecordNotFoundCode, "category not found", nil)
	}
	return nil
}

func (s *CatalogAdminServiceImpl) CreateBanner(ctx context.Context, traceID string, req views.CreateBannerRequest) (pkgviews.BannerView, error) {
	now := time.Now()
	banner := models.Banner{
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		LinkURL:   req.LinkURL,
		Active:    req.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.catalogRepo.CreateBanner(ctx, &banner); err != nil {
		return pkgviews.BannerView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	s.invalidateBannerCache(ctx, traceID)
	return banner.ToView(), nil
}

func (s *CatalogAdminServiceImpl) UpdateBanner(ctx context.Context, traceID string, bannerID uuid.UUID, req views.UpdateBannerRequest) (pkgviews.BannerView, error) {
	banner := models.Banner{
		ID:        bannerID,
		Title:     req.Title,
		ImageURL:  req.ImageURL,
		LinkURL:   req.LinkURL,
		Active:    req.Active,
		UpdatedAt: time.Now(),
	}
	ok, err := s.catalogRepo.UpdateBanner(ctx, banner)
	if err != nil {
		return pkgviews.BannerView{}, pkg.HandleSQLError(traceID, s.logger, err)
	}
	if !ok {
		return pkgviews.BannerView{}, pkg.NewAppError(pkg.ErrRecordNotFoundCode, "banner not found", nil)
	}
	s.invalidateBannerCache(ctx, traceID)
	return banner.ToView(), nil
}

func (s *CatalogAdminServiceImpl) DeleteBanner(ctx context.Context, traceID string, bannerID uuid.UUID) error {
	ok, err := s.catalogRepo.DeleteBanner(ctx, bannerID)
	if err != nil {
		return pkg.HandleSQLError(traceID, s.logger, err)
	}
	if !ok {
		return pkg.NewAppError(pkg.ErrRecordNotFoundCode, "banner not found", nil)
	}
	s.invalidateBannerCache(ctx, traceID)
	return nil
}

func (s *CatalogAdminServiceImpl) ListBanners(ctx context.Context, traceID string) ([]pkgviews.BannerView, error) {
	// Back office sees inactive banners too.
	banners, err := s.catalogRepo.ListBanners(ctx, false)
	if err != nil {
		return nil, pkg.HandleSQLError(traceID, s.logger, err)
	}
	out := make([]pkgviews.BannerView, 0, len(banners))
	for _, b := range banners {
		out = append(out, b.ToView())
	}
	return out, nil
}

func (s *CatalogAdminServiceImpl) invalidateBannerCache(ctx context.Context, traceID string) {
	if s.redisClient == nil {
		return
	}
	if err := s.redisClient.Del(ctx, bannerCacheKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate banner cache",
			zap.String(pkg.TraceId, traceID), zap.Error(err))
	}
}

func productFromRequest(categoryID, name, description, imageURL string, price int64, quantity int) (models.Product, error) {
	now := time.Now()
	product := models.Product{
		Name:        name,
		Description: description,
		ImageURL:    imageURL,
		Price:       price,
		Quantity:    quantity,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			return models.Product{}, pkg.NewAppError(pkg.ErrInvalidInputCode, "invalid category id", err)
		}
		product.CategoryID = id
	}
	return product, nil
}
