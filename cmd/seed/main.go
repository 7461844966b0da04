package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	catalogapp "github.com/billing/backend/internal/application/catalog"
	tradeapp "github.com/billing/backend/internal/application/trade"
	"github.com/billing/backend/internal/infrastructure/backend"
	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/billing/backend/internal/infrastructure/fixture"
	"github.com/billing/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

func main() {
	var (
		fixturePath string
		logLevel    string
	)
	flag.StringVar(&fixturePath, "file", "fixtures/seed.yaml", "Path to the YAML fixture file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	f, err := fixture.LoadFromFile(fixturePath)
	if err != nil {
		log.Fatal("Failed to load fixture", zap.String("path", fixturePath), zap.Error(err))
	}

	ctx := context.Background()
	b, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		if err := b.Close(ctx); err != nil {
			log.Error("Error closing store", zap.Error(err))
		}
	}()

	seeder := fixture.NewSeeder(
		catalogapp.NewProductService(b.Products, log),
		tradeapp.NewOrderService(b.Orders, log),
		log,
	)
	res, err := seeder.Seed(ctx, f)
	if err != nil {
		log.Error("Seeding failed",
			zap.Int("products_created", res.ProductsCreated),
			zap.Int("orders_created", res.OrdersCreated),
			zap.Error(err),
		)
		os.Exit(1)
	}
}
