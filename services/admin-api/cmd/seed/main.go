package main

import (
	"context"
	"flag"

	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/database"
	"github.com/marketbay/shopfront/pkg/repositories"
	"github.com/marketbay/shopfront/services/admin-api/configs"
	"go.uber.org/zap"
)

// main seeds demo catalog data: categories, products, banners, and a handful
// of customers with addresses. It initializes logging, loads config, connects
// to the database, runs migrations, and performs inserts.
func main() {
	noOfCategories := flag.Int("noOfCategories", 6, "Number of categories to seed")
	productsPerCategory := flag.Int("productsPerCategory", 10, "Products per category")
	noOfBanners := flag.Int("noOfBanners", 4, "Number of banners to seed")
	noOfUsers := flag.Int("noOfUsers", 20, "Number of demo customers to seed")
	minStock := flag.Int("minStock", 5, "Min product stock")
	maxStock := flag.Int("maxStock", 50, "Max product stock")

	flag.Parse()

	// Initialize logger
	pkg.InitLogger()
	logger := pkg.Logger
	defer logger.Sync()

	cfg, err := configs.Load(logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// Initialize postgres db
	dbConfig := database.Config{
		PrimaryDSN:  cfg.PrimaryDbAddr,
		ReplicaDSNs: []string{cfg.ReplicaDbAddr},
		MaxConns:    cfg.MaxDbCons,
		MinConns:    cfg.MinDbCons,
	}

	ctx := context.Background()
	db, closer, err := database.New(ctx, logger, dbConfig)
	if err != nil {
		logger.Fatal("failed_to_init_DB", zap.Error(err))
	}
	defer closer()

	// Initialize db migrations
	err = database.RunMigrations(logger, cfg.PrimaryDbAddr)
	if err != nil {
		logger.Fatal("failed_to_run_database_migrations", zap.Error(err))
	}

	seeder := NewCatalogSeeder(CatalogSeederConfig{
		Logger:              logger,
		ProductRepo:         repositories.NewProductRepository(db),
		CatalogRepo:         repositories.NewCatalogRepository(db),
		UserRepo:            repositories.NewUserRepository(db),
		NoOfCategories:      *noOfCategories,
		ProductsPerCategory: *productsPerCategory,
		NoOfBanners:         *noOfBanners,
		NoOfUsers:           *noOfUsers,
		MinStock:            *minStock,
		MaxStock:            *maxStock,
	})

	if err := seeder.Run(ctx); err != nil {
		logger.Fatal("seeding_failed", zap.Error(err))
	}
	logger.Info("seeding_completed")
}
