// Command seed populates the catalog database with sample categories and
// products for local development.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/nexocart/catalog-service/internal/config"
	"github.com/nexocart/catalog-service/internal/domain"
	"github.com/nexocart/catalog-service/internal/repository/postgres"
	"github.com/nexocart/catalog-service/migrations"
	"github.com/nexocart/catalog-service/pkg/database"
	apperrors "github.com/nexocart/catalog-service/pkg/errors"
	"github.com/nexocart/catalog-service/pkg/logger"
)

type seedProduct struct {
	name        string
	description string
	category    string
	price       int64
}

var seedCategories = []string{"Audio", "Computing", "Accessories"}

var seedProducts = []seedProduct{
	{"Nebula Speaker", "Portable bluetooth speaker with 360-degree sound", "Audio", 12999},
	{"Pulse Headphones", "Over-ear headphones with active noise cancellation", "Audio", 24999},
	{"Drift Keyboard", "Low-profile mechanical keyboard, hot-swappable switches", "Computing", 15999},
	{"Orbit Mouse", "Wireless ergonomic mouse with adjustable DPI", "Computing", 6999},
	{"Flux Charger", "65W GaN charger with dual USB-C ports", "Accessories", 4999},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("catalog-seed", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgCfg := database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSL,
		MaxConns: 5,
		MinConns: 1,
	}

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool, migrations.FS, log); err != nil {
		log.Error("failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)

	// Seeding is idempotent: rows that already exist are left untouched.
	categoryIDs := make(map[string]string, len(seedCategories))
	for _, name := range seedCategories {
		now := time.Now().UTC()
		category := &domain.Category{
			ID:        uuid.New().String(),
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := categoryRepo.Create(ctx, category)
		switch {
		case err == nil:
			log.Info("created category", slog.String("name", name))
		case errors.Is(err, apperrors.ErrAlreadyExists):
			log.Info("category already exists, skipping", slog.String("name", name))
		default:
			log.Error("failed to create category", slog.String("name", name), slog.String("error", err.Error()))
			os.Exit(1)
		}
		categoryIDs[name] = category.ID
	}

	// Resolve actual category IDs so reruns attach products to the rows that
	// already exist rather than the IDs generated above.
	existing, err := categoryRepo.ListAll(ctx)
	if err != nil {
		log.Error("failed to list categories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	for _, c := range existing {
		categoryIDs[c.Name] = c.ID
	}

	for _, sp := range seedProducts {
		now := time.Now().UTC()
		categoryID := categoryIDs[sp.category]
		product := &domain.Product{
			ID:          uuid.New().String(),
			Name:        sp.name,
			Description: sp.description,
			CategoryID:  &categoryID,
			Price:       sp.price,
			Currency:    "USD",
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		err := productRepo.Create(ctx, product)
		switch {
		case err == nil:
			log.Info("created product", slog.String("name", sp.name))
		case errors.Is(err, apperrors.ErrAlreadyExists):
			log.Info("product already exists, skipping", slog.String("name", sp.name))
		default:
			log.Error("failed to create product", slog.String("name", sp.name), slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	log.Info("seed complete",
		slog.Int("categories", len(seedCategories)),
		slog.Int("products", len(seedProducts)),
	)
}
