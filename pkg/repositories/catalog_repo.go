package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/models"
)

// CatalogRepository covers the non-product catalog surfaces: categories and
// promotional banners.
type CatalogRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) (bool, error)

	CreateBanner(ctx context.Context, banner *models.Banner) error
	ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error)
	UpdateBanner(ctx context.Context, banner models.Banner) (bool, error)
	DeleteBanner(ctx context.Context, bannerID uuid.UUID) (bool, error)
}

type CatalogRepositoryImpl struct {
	db *database.DB
}

func NewCatalogRepository(db *database.DB) CatalogRepository {
	return &CatalogRepositoryImpl{db: db}
}

func (c CatalogRepositoryImpl) CreateCategory(ctx context.Context, category *models.Category) error {
	return c.db.QueryRowWriter(ctx, `
		INSERT INTO categories (name, created_at, updated_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		category.Name, category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)
}

func (c CatalogRepositoryImpl) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := c.db.Query(ctx, `SELECT id, name, created_at, updated_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var categories []models.Category
	for rows.Next() {
		var cat models.Category
		if err = rows.Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (c CatalogRepositoryImpl) DeleteCategory(ctx context.Context, categoryID uuid.UUID) (bool, error) {
	tag, err := c.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, categoryID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (c CatalogRepositoryImpl) CreateBanner(ctx context.Context, banner *models.Banner) error {
	return c.db.QueryRowWriter(ctx, `
		INSERT INTO banners (title, image_url, link_url, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		banner.Title, banner.ImageURL, banner.LinkURL, banner.Active, banner.CreatedAt, banner.UpdatedAt,
	).Scan(&banner.ID)
}

func (c CatalogRepositoryImpl) ListBanners(ctx context.Context, activeOnly bool) ([]models.Banner, error) {
	rows, err := c.db.Query(ctx, `
		SELECT id, title, image_url, COALESCE(link_url, ''), active, created_at, updated_at
		FROM banners
		WHERE (NOT $1 OR active)
		ORDER BY created_at DESC`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var banners []models.Banner
	for rows.Next() {
		var b models.Banner
		if err = rows.Scan(&b.ID, &b.Title, &b.ImageURL, &b.LinkURL, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

func (c CatalogRepositoryImpl) UpdateBanner(ctx context.Context, banner models.Banner) (bool, error) {
	tag, err := c.db.Exec(ctx, `
		UPDATE banners
		SET title = $1, image_url = $2, link_url = $3, active = $4, updated_at = $5
		WHERE id = $6`,
		banner.Title, banner.ImageURL, banner.LinkURL, banner.Active, time.Now(), banner.ID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (c CatalogRepositoryImpl) DeleteBanner(ctx context.Context, bannerID uuid.UUID) (bool, error) {
	tag, err := c.db.Exec(ctx, `DELETE FROM banners WHERE id = $1`, bannerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
