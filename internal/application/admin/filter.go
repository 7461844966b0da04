package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/trade"
)

// OrderFilter narrows an order query from one admin filter value
type OrderFilter interface {
	// Name is the query parameter the filter reads
	Name() string
	// Operation is the label shown next to the filter
	Operation() string
	// Apply adds the filter's predicate to the query
	Apply(ctx context.Context, query *trade.OrderQuery, value string) error
}

// OrderByItemFilter restricts orders to those containing the product with
// the given name. An unknown name yields no orders.
type OrderByItemFilter struct {
	products catalog.ProductRepository
}

// NewOrderByItemFilter creates the product name join filter
func NewOrderByItemFilter(products catalog.ProductRepository) *OrderByItemFilter {
	return &OrderByItemFilter{products: products}
}

// Name implements OrderFilter
func (f *OrderByItemFilter) Name() string { return "items" }

// Operation implements OrderFilter
func (f *OrderByItemFilter) Operation() string { return "is" }

// Apply implements OrderFilter
func (f *OrderByItemFilter) Apply(ctx context.Context, query *trade.OrderQuery, value string) error {
	product, err := f.products.FindByName(ctx, value)
	if errors.Is(err, shared.ErrNotFound) {
		query.MatchNothing()
		return nil
	}
	if err != nil {
		return err
	}
	query.RequireItem(product.ID)
	return nil
}

// columnFilter is an equality filter on a single order column
type columnFilter struct {
	name  string
	apply func(query *trade.OrderQuery, value string) error
}

func (f columnFilter) Name() string      { return f.name }
func (f columnFilter) Operation() string { return "equals" }

func (f columnFilter) Apply(_ context.Context, query *trade.OrderQuery, value string) error {
	return f.apply(query, value)
}

// StatusFilter matches orders by status code or label
func StatusFilter() OrderFilter {
	return columnFilter{name: "status", apply: func(q *trade.OrderQuery, value string) error {
		status, err := trade.ParseOrderStatus(value)
		if err != nil {
			return err
		}
		q.Status = &status
		return nil
	}}
}

// CustomerEmailFilter matches orders by exact customer email
func CustomerEmailFilter() OrderFilter {
	return columnFilter{name: "customer_email", apply: func(q *trade.OrderQuery, value string) error {
		email := strings.TrimSpace(value)
		q.CustomerEmail = &email
		return nil
	}}
}

// TotalPriceFilter matches orders by exact total price
func TotalPriceFilter() OrderFilter {
	return columnFilter{name: "total_price", apply: func(q *trade.OrderQuery, value string) error {
		total, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return shared.FieldError("total_price", trade.MsgNotNumeric("total_price"))
		}
		q.TotalPrice = &total
		return nil
	}}
}

// TrackingURLFilter matches orders by exact tracking URL
func TrackingURLFilter() OrderFilter {
	return columnFilter{name: "tracking_url", apply: func(q *trade.OrderQuery, value string) error {
		u := strings.TrimSpace(value)
		q.TrackingURL = &u
		return nil
	}}
}

// DefaultOrderFilters returns the filters offered on the order list
func DefaultOrderFilters(products catalog.ProductRepository) []OrderFilter {
	return []OrderFilter{
		StatusFilter(),
		CustomerEmailFilter(),
		TotalPriceFilter(),
		TrackingURLFilter(),
		NewOrderByItemFilter(products),
	}
}
