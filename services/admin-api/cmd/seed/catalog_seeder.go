package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/marketbay/shopfront/pkg/models"
	"github.com/marketbay/shopfront/pkg/repositories"
	"go.uber.org/zap"
)

var categoryNames = []string{
	"Electronics", "Books", "Home & Kitchen", "Sports", "Toys",
	"Beauty", "Garden", "Automotive", "Grocery", "Fashion",
}

type CatalogSeederConfig struct {
	Logger              *zap.Logger
	ProductRepo         repositories.ProductRepository
	CatalogRepo         repositories.CatalogRepository
	UserRepo            repositories.UserRepository
	NoOfCategories      int
	ProductsPerCategory int
	NoOfBanners         int
	NoOfUsers           int
	MinStock            int
	MaxStock            int
}

type CatalogSeeder struct {
	cfg CatalogSeederConfig
}

func NewCatalogSeeder(cfg CatalogSeederConfig) *CatalogSeeder {
	if cfg.NoOfCategories > len(categoryNames) {
		cfg.NoOfCategories = len(categoryNames)
	}
	if cfg.MinStock > cfg.MaxStock {
		// swap to be safe
		cfg.MinStock, cfg.MaxStock = cfg.MaxStock, cfg.MinStock
	}
	return &CatalogSeeder{cfg: cfg}
}

func (s *CatalogSeeder) Run(ctx context.Context) error {
	if err := s.seedCatalog(ctx); err != nil {
		return err
	}
	if err := s.seedBanners(ctx); err != nil {
		return err
	}
	return s.seedUsers(ctx)
}

func (s *CatalogSeeder) seedCatalog(ctx context.Context) error {
	logger := s.cfg.Logger
	now := time.Now()

	for i := 0; i < s.cfg.NoOfCategories; i++ {
		category := models.Category{
			Name:      categoryNames[i],
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.cfg.CatalogRepo.CreateCategory(ctx, &category); err != nil {
			return err
		}
		logger.Info("category_created", zap.String("name", category.Name))

		for j := 1; j <= s.cfg.ProductsPerCategory; j++ {
			stock := s.cfg.MinStock + rand.Intn(s.cfg.MaxStock-s.cfg.MinStock+1)
			product := models.Product{
				CategoryID:  category.ID,
				Name:        fmt.Sprintf("%s Item %d", category.Name, j),
				Description: fmt.Sprintf("Demo %s product number %d", category.Name, j),
				ImageURL:    fmt.Sprintf("https://cdn.example.com/products/%s-%d.jpg", category.ID, j),
				Price:       int64(500 + rand.Intn(99500)), // 5.00 to 1000.00 in minor units
				Quantity:    stock,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := s.cfg.ProductRepo.Create(ctx, &product); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *CatalogSeeder) seedBanners(ctx context.Context) error {
	now := time.Now()
	for i := 1; i <= s.cfg.NoOfBanners; i++ {
		banner := models.Banner{
			Title:     fmt.Sprintf("Promotion %d", i),
			ImageURL:  fmt.Sprintf("https://cdn.example.com/banners/promo-%d.jpg", i),
			LinkURL:   fmt.Sprintf("/promotions/%d", i),
			Active:    i%2 == 1, // alternate active/inactive for UI testing
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.cfg.CatalogRepo.CreateBanner(ctx, &banner); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogSeeder) seedUsers(ctx context.Context) error {
	logger := s.cfg.Logger
	now := time.Now()

	for i := 1; i <= s.cfg.NoOfUsers; i++ {
		user := models.User{
			Email:     fmt.Sprintf("customer%d@example.com", i),
			FullName:  fmt.Sprintf("Demo Customer %d", i),
			Phone:     fmt.Sprintf("+1555%07d", i),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.cfg.UserRepo.Create(ctx, &user); err != nil {
			return err
		}
		logger.Info("user_created", zap.Int("i", i), zap.String("user_id", user.ID.String()))

		address := models.Address{
			UserID:    user.ID,
			Line1:     fmt.Sprintf("%d Main Street", 100+i),
			City:      "Toronto",
			Country:   "CA",
			Postal:    fmt.Sprintf("M5V %dK%d", i%10, i%9),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.cfg.UserRepo.CreateAddress(ctx, &address); err != nil {
			return err
		}
	}
	return nil
}
