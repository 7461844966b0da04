package mongostore

import (
	"context"
	"errors"
	"regexp"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository implements trade.OrderRepository on a MongoDB collection
type OrderRepository struct {
	coll *mongo.Collection
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(coll *mongo.Collection) *OrderRepository {
	return &OrderRepository{coll: coll}
}

// FindAll returns every order in creation order
func (r *OrderRepository) FindAll(ctx context.Context) ([]trade.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.D{}, opts)
}

// FindByID finds an order by its ID
func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var doc orderDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

// Find returns one page of orders matching query and the total match count
func (r *OrderRepository) Find(ctx context.Context, query trade.OrderQuery) ([]trade.Order, int64, error) {
	if query.Empty {
		return []trade.Order{}, 0, nil
	}

	filter := orderFilter(query)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}

	opts := options.Find().
		SetSort(orderSort(query.Filter)).
		SetSkip(int64(query.Offset())).
		SetLimit(int64(pageSize))
	orders, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *OrderRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]trade.Order, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []orderDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	orders := make([]trade.Order, 0, len(docs))
	for i := range docs {
		o, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, nil
}

// orderFilter joins every set condition with $and. Search and the exact
// customer_email filter both target customer_email, so they cannot share one document.
func orderFilter(query trade.OrderQuery) bson.D {
	var conds bson.A
	add := func(key string, value any) {
		conds = append(conds, bson.D{{Key: key, Value: value}})
	}

	if query.Status != nil {
		add("status", string(*query.Status))
	}
	if query.CustomerEmail != nil {
		add("customer_email", *query.CustomerEmail)
	}
	if query.TotalPrice != nil {
		add("total_price", *query.TotalPrice)
	}
	if query.TrackingURL != nil {
		add("tracking_url", *query.TrackingURL)
	}
	if query.Search != "" {
		add("customer_email", primitive.Regex{Pattern: regexp.QuoteMeta(query.Search), Options: "i"})
	}
	if len(query.ItemIDs) > 0 {
		ids := make(bson.A, len(query.ItemIDs))
		for i, id := range query.ItemIDs {
			ids[i] = id.String()
		}
		add("items", bson.D{{Key: "$all", Value: ids}})
	}

	if len(conds) == 0 {
		return bson.D{}
	}
	return bson.D{{Key: "$and", Value: conds}}
}

func orderSort(f shared.Filter) bson.D {
	field, desc := f.Sort(trade.OrderSortFields, "created_at")
	dir := 1
	if desc {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}
}

// Insert stores a new order with its embedded addresses
func (r *OrderRepository) Insert(ctx context.Context, order *trade.Order) error {
	_, err := r.coll.InsertOne(ctx, toOrderDocument(order))
	return translateWriteError(err, "order_id")
}

// UpdateStatus sets the status of a stored order
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status trade.OrderStatus) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: string(status)}}}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ trade.OrderRepository = (*OrderRepository)(nil)
