package trade

import (
	"context"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// OrderSortFields are the order attributes a listing may be sorted by
var OrderSortFields = []string{"created_at", "customer_email", "total_price", "status"}

// OrderQuery describes an order lookup built from admin filters.
// Zero values match everything. Empty forces an empty result without a query.
type OrderQuery struct {
	shared.Filter
	Status        *OrderStatus
	CustomerEmail *string
	TotalPrice    *float64
	TrackingURL   *string
	ItemIDs       []uuid.UUID
	Empty         bool
}

// NewOrderQuery returns a query with default paging
func NewOrderQuery() OrderQuery {
	return OrderQuery{Filter: shared.DefaultFilter()}
}

// RequireItem restricts the query to orders that reference productID
func (q *OrderQuery) RequireItem(productID uuid.UUID) {
	q.ItemIDs = append(q.ItemIDs, productID)
}

// MatchNothing marks the query as yielding no orders
func (q *OrderQuery) MatchNothing() {
	q.Empty = true
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindAll returns every order
	FindAll(ctx context.Context) ([]Order, error)

	// FindByID finds an order by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// Find returns one page of orders matching the query and the total count
	Find(ctx context.Context, query OrderQuery) ([]Order, int64, error)

	// Insert stores a new order
	Insert(ctx context.Context, order *Order) error

	// UpdateStatus sets the status of a stored order
	UpdateStatus(ctx context.Context, id uuid.UUID, status OrderStatus) error
}
