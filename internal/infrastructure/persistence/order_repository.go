package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/trade"
	"github.com/billing/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("position ASC")
	})
}

// FindAll returns every order in creation order
func (r *GormOrderRepository) FindAll(ctx context.Context) ([]trade.Order, error) {
	var rows []models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toOrders(rows), nil
}

// FindByID finds an order by its ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var m models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Find returns one page of orders matching query and the total match count
func (r *GormOrderRepository) Find(ctx context.Context, query trade.OrderQuery) ([]trade.Order, int64, error) {
	if query.Empty {
		return []trade.Order{}, 0, nil
	}

	scoped := func() *gorm.DB {
		return r.applyQuery(r.db.WithContext(ctx).Model(&models.OrderModel{}), query)
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = shared.DefaultPageSize
	}

	var rows []models.OrderModel
	if err := preloadItems(scoped()).
		Order(orderClause(query.Filter)).Order("id ASC").
		Offset(query.Offset()).
		Limit(pageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return toOrders(rows), total, nil
}

func (r *GormOrderRepository) applyQuery(db *gorm.DB, query trade.OrderQuery) *gorm.DB {
	if query.Status != nil {
		db = db.Where("status = ?", string(*query.Status))
	}
	if query.CustomerEmail != nil {
		db = db.Where("customer_email = ?", *query.CustomerEmail)
	}
	if query.TotalPrice != nil {
		db = db.Where("total_price = ?", *query.TotalPrice)
	}
	if query.TrackingURL != nil {
		db = db.Where("tracking_url = ?", *query.TrackingURL)
	}
	if query.Search != "" {
		db = db.Where("LOWER(customer_email) LIKE ?", "%"+strings.ToLower(query.Search)+"%")
	}
	for _, productID := range query.ItemIDs {
		db = db.Where("id IN (?)",
			r.db.Model(&models.OrderItemModel{}).Select("order_pk").Where("product_id = ?", productID))
	}
	return db
}

func orderClause(f shared.Filter) clause.OrderByColumn {
	field, desc := f.Sort(trade.OrderSortFields, "created_at")
	return clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: desc}
}

// Insert stores a new order together with its item references
func (r *GormOrderRepository) Insert(ctx context.Context, order *trade.Order) error {
	if err := r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.NewDuplicateKeyError("order_id", err)
		}
		return err
	}
	return nil
}

// UpdateStatus sets the status of a stored order
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status trade.OrderStatus) error {
	result := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toOrders(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
