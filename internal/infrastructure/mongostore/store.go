// Package mongostore implements the product and order repositories on MongoDB.
// Documents use string UUIDs as _id; addresses are embedded sub-documents.
package mongostore

import (
	"context"
	"fmt"

	"github.com/billing/backend/internal/infrastructure/config"
	applogger "github.com/billing/backend/internal/infrastructure/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Collection names
const (
	ProductsCollection = "products"
	OrdersCollection   = "orders"
)

// Store holds the MongoDB client and the billing database
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect opens a client for cfg.URI, verifies it with a ping and selects cfg.Name.
// Commands are logged through zapLogger; slow ones at warn level.
func Connect(ctx context.Context, cfg *config.DatabaseConfig, zapLogger *zap.Logger) (*Store, error) {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(uint64(cfg.MaxOpenConns)).
		SetBSONOptions(&options.BSONOptions{DefaultDocumentM: true}).
		SetMonitor(applogger.NewMongoMonitor(zapLogger, cfg.SlowThreshold))
	if cfg.MaxIdleConns > 0 {
		opts.SetMinPoolSize(uint64(cfg.MaxIdleConns))
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	zapLogger.Info("MongoDB connected", zap.String("database", cfg.Name))
	return NewStore(client, cfg.Name, zapLogger), nil
}

// NewStore wraps an existing client
func NewStore(client *mongo.Client, database string, zapLogger *zap.Logger) *Store {
	if zapLogger == nil {
		zapLogger = zap.NewNop()
	}
	return &Store{
		client: client,
		db:     client.Database(database),
		logger: zapLogger,
	}
}

// indexModels lists the indexes of every collection
func indexModels() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		ProductsCollection: {
			{
				Keys:    bson.D{{Key: "name", Value: 1}},
				Options: options.Index().SetName("name_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "description", Value: "text"}},
				Options: options.Index().SetName("description_text"),
			},
			{
				Keys:    bson.D{{Key: "price", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("price_created_at"),
			},
		},
		OrdersCollection: {
			{
				Keys:    bson.D{{Key: "order_id", Value: 1}},
				Options: options.Index().SetName("order_id_unique").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "items", Value: 1}},
				Options: options.Index().SetName("items"),
			},
			{
				Keys:    bson.D{{Key: "customer_email", Value: 1}},
				Options: options.Index().SetName("customer_email"),
			},
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("created_at"),
			},
		},
	}
}

// EnsureIndexes creates the indexes of both collections. Existing indexes
// with the same definition are left as they are.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	for collection, models := range indexModels() {
		names, err := s.db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		s.logger.Debug("Indexes ensured",
			zap.String("collection", collection),
			zap.Strings("indexes", names),
		)
	}
	return nil
}

// Products returns the product repository
func (s *Store) Products() *ProductRepository {
	return NewProductRepository(s.db.Collection(ProductsCollection))
}

// Orders returns the order repository
func (s *Store) Orders() *OrderRepository {
	return NewOrderRepository(s.db.Collection(OrdersCollection))
}

// Ping checks that the primary is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Name identifies the store in health reports
func (s *Store) Name() string {
	return config.DriverMongoDB
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
