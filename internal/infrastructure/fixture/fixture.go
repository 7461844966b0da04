// Package fixture loads products and orders from YAML seed files.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	catalogapp "github.com/billing/backend/internal/application/catalog"
	tradeapp "github.com/billing/backend/internal/application/trade"
	"github.com/billing/backend/internal/domain/catalog"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// File is the top level of a seed file. Product and order fields are kept
// untyped so they go through the same coercion as API payloads.
type File struct {
	Products []map[string]any `yaml:"products"`
	Orders   []Order          `yaml:"orders"`
}

// Order is one order entry. ItemNames reference products by name and are
// resolved to ids before the order is built.
type Order struct {
	ItemNames []string       `yaml:"item_names,omitempty"`
	Fields    map[string]any `yaml:",inline"`
}

// Result counts what a Seed run did
type Result struct {
	ProductsCreated int
	ProductsSkipped int
	OrdersCreated   int
}

// Parse decodes a seed file
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// LoadFromFile reads and decodes the seed file at path
func LoadFromFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}
	return Parse(data)
}

// Seeder writes fixture contents through the application services
type Seeder struct {
	products *catalogapp.ProductService
	orders   *tradeapp.OrderService
	logger   *zap.Logger
}

// NewSeeder creates a Seeder
func NewSeeder(products *catalogapp.ProductService, orders *tradeapp.OrderService, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{products: products, orders: orders, logger: logger}
}

// Seed creates every product and then every order of f. Products whose
// name is already taken are reused, so a file can be applied repeatedly
// for its products. The first failing entry stops the run.
func (s *Seeder) Seed(ctx context.Context, f *File) (Result, error) {
	var res Result
	ids := make(map[string]string)

	for i, fields := range f.Products {
		name, _ := fields["name"].(string)
		if name != "" {
			existing, err := s.lookup(ctx, name)
			if err != nil {
				return res, fmt.Errorf("product %d: %w", i, err)
			}
			if existing != "" {
				ids[name] = existing
				res.ProductsSkipped++
				continue
			}
		}

		payload, err := json.Marshal(fields)
		if err != nil {
			return res, fmt.Errorf("product %d: %w", i, err)
		}
		out, err := s.products.Create(ctx, payload)
		if err != nil {
			return res, fmt.Errorf("product %d: %w", i, err)
		}
		ids[out.Name] = out.ID.String()
		res.ProductsCreated++
	}

	for i, entry := range f.Orders {
		fields, err := s.resolveItems(ctx, entry, ids)
		if err != nil {
			return res, fmt.Errorf("order %d: %w", i, err)
		}
		if _, err := s.orders.CreateFromFields(ctx, fields); err != nil {
			return res, fmt.Errorf("order %d: %w", i, err)
		}
		res.OrdersCreated++
	}

	s.logger.Info("Fixture applied",
		zap.Int("products_created", res.ProductsCreated),
		zap.Int("products_skipped", res.ProductsSkipped),
		zap.Int("orders_created", res.OrdersCreated),
	)
	return res, nil
}

func (s *Seeder) lookup(ctx context.Context, name string) (string, error) {
	found, err := s.products.List(ctx, catalog.ProductFilter{Name: &name})
	if err != nil {
		return "", err
	}
	if len(found) == 0 {
		return "", nil
	}
	return found[0].ID.String(), nil
}

// resolveItems appends the ids of ItemNames to any literal items list
func (s *Seeder) resolveItems(ctx context.Context, entry Order, ids map[string]string) (map[string]any, error) {
	fields := make(map[string]any, len(entry.Fields)+1)
	for k, v := range entry.Fields {
		fields[k] = v
	}
	if len(entry.ItemNames) == 0 {
		return fields, nil
	}

	var items []any
	if literal, ok := fields["items"].([]any); ok {
		items = append(items, literal...)
	}
	for _, name := range entry.ItemNames {
		id, ok := ids[name]
		if !ok {
			var err error
			if id, err = s.lookup(ctx, name); err != nil {
				return nil, err
			}
			if id == "" {
				return nil, fmt.Errorf("unknown product %q", name)
			}
			ids[name] = id
		}
		items = append(items, id)
	}
	fields["items"] = items
	return fields, nil
}
