package catalog

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	applogger "github.com/billing/backend/internal/infrastructure/logger"
	"github.com/billing/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	schema      *ProductSchema
	filters     ProductFilterSchema
	logger      *zap.Logger
	metrics     *telemetry.ProductMetrics
	now         func() time.Time
}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*ProductService)

// WithProductMetrics counts create, update and delete outcomes on m
func WithProductMetrics(m *telemetry.ProductMetrics) ProductServiceOption {
	return func(s *ProductService) {
		s.metrics = m
	}
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository, logger *zap.Logger, opts ...ProductServiceOption) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ProductService{
		productRepo: productRepo,
		schema:      NewProductSchema(),
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schema returns the schema used to load and dump products
func (s *ProductService) Schema() *ProductSchema {
	return s.schema
}

// List returns every product matching the filter
func (s *ProductService) List(ctx context.Context, filter catalog.ProductFilter) ([]ProductOut, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "list")
	defer span.End()

	products, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrResultCount, len(products))
	return s.schema.DumpMany(products), nil
}

// ListByQuery parses raw query parameters with the filter schema and lists
func (s *ProductService) ListByQuery(ctx context.Context, query url.Values) ([]ProductOut, error) {
	filter, err := s.filters.Load(query)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, filter)
}

// GetByID returns a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductOut, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := s.schema.Dump(product)
	return &out, nil
}

// Create loads a product from a JSON payload and saves it
func (s *ProductService) Create(ctx context.Context, payload []byte) (_ *ProductOut, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create")
	defer span.End()
	defer func() { s.metrics.Record(ctx, "create", err) }()

	product, err := s.schema.Load(payload)
	if err != nil {
		return nil, err
	}

	if err := s.Save(ctx, product, true); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrProductID, product.ID.String())

	applogger.Or(ctx, s.logger).Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name))

	out := s.schema.Dump(product)
	return &out, nil
}

// Update applies a partial JSON payload to an existing product and saves it.
// The write only succeeds if the product still exists.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, payload []byte) (_ *ProductOut, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update",
		telemetry.SpanAttrProductID, id.String())
	defer span.End()
	defer func() { s.metrics.Record(ctx, "update", err) }()

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.schema.Update(product, payload); err != nil {
		return nil, err
	}

	if err := s.Save(ctx, product, false); err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, shared.ErrNotFound) {
			applogger.Or(ctx, s.logger).Warn("product vanished before update",
				zap.String("product_id", id.String()))
		}
		return nil, err
	}

	out := s.schema.Dump(product)
	return &out, nil
}

// Save validates the product, refreshes last_updated and writes it.
// A name collision, whether found by the pre-check or reported by the store,
// is returned as a field error on name.
func (s *ProductService) Save(ctx context.Context, product *catalog.Product, insert bool) error {
	if err := product.PrepareSave(s.now()); err != nil {
		return err
	}

	exists, err := s.productRepo.ExistsByName(ctx, product.Name, product.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.FieldError("name", catalog.MsgNameAlreadyExists)
	}

	if insert {
		err = s.productRepo.Insert(ctx, product)
	} else {
		err = s.productRepo.Update(ctx, product)
	}

	var dup *shared.DuplicateKeyError
	if errors.As(err, &dup) {
		return shared.FieldError(dup.Field, catalog.MsgNameAlreadyExists)
	}
	return err
}

// Delete deletes a product. Orders referencing it are left untouched.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "delete",
		telemetry.SpanAttrProductID, id.String())
	defer span.End()
	defer func() { s.metrics.Record(ctx, "delete", err) }()

	if _, err = s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err = s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	applogger.Or(ctx, s.logger).Info("product deleted", zap.String("product_id", id.String()))
	return nil
}

// DeleteAll is not supported
func (s *ProductService) DeleteAll(ctx context.Context) error {
	return shared.ErrNotImplemented
}
