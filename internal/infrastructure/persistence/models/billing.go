package models

import (
	"time"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/billing/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product entity.
// Timestamps are owned by the domain, so GORM's auto timestamps are off.
type ProductModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"size:100;not null;uniqueIndex:idx_products_name"`
	Description string          `gorm:"size:255"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;index:idx_products_price_created,priority:1"`
	Quantity    int             `gorm:"not null"`
	Categories  []string        `gorm:"type:text;serializer:json"`
	Available   bool            `gorm:"not null"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime:false;index:idx_products_price_created,priority:2,sort:desc"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	categories := make([]catalog.Category, len(m.Categories))
	for i, c := range m.Categories {
		categories[i] = catalog.Category(c)
	}
	return &catalog.Product{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: shared.Timestamp(m.CreatedAt),
			UpdatedAt: shared.Timestamp(m.UpdatedAt),
		},
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Quantity:    m.Quantity,
		Categories:  categories,
		Available:   m.Available,
	}
}

// ProductModelFromDomain creates a persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	categories := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		categories[i] = string(c)
	}
	return &ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Categories:  categories,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// OrderModel is the persistence model for the Order entity.
// Addresses and metadata are stored as JSON documents, items in order_items.
type OrderModel struct {
	ID              uuid.UUID            `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID            `gorm:"type:uuid;not null;uniqueIndex:idx_orders_order_id"`
	CustomerEmail   string               `gorm:"size:254;not null;index:idx_orders_customer_email"`
	ShippingAddress *valueobject.Address `gorm:"type:text"`
	BillingAddress  *valueobject.Address `gorm:"type:text"`
	Status          string               `gorm:"size:1;not null;index:idx_orders_status"`
	TotalPrice      float64              `gorm:"not null"`
	Metadata        map[string]any       `gorm:"type:text;serializer:json"`
	TrackingURL     string               `gorm:"size:2048"`
	Items           []OrderItemModel     `gorm:"foreignKey:OrderPK;references:ID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"not null;autoCreateTime:false;index:idx_orders_created_at"`
	UpdatedAt       time.Time            `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is one product reference of an order.
// Position keeps the item order of the domain list.
type OrderItemModel struct {
	OrderPK   uuid.UUID `gorm:"column:order_pk;type:uuid;primaryKey"`
	Position  int       `gorm:"primaryKey;autoIncrement:false"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_order_items_product"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	items := make([]uuid.UUID, len(m.Items))
	for _, it := range m.Items {
		if it.Position >= 0 && it.Position < len(items) {
			items[it.Position] = it.ProductID
		}
	}
	metadata := m.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &trade.Order{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: shared.Timestamp(m.CreatedAt),
			UpdatedAt: shared.Timestamp(m.UpdatedAt),
		},
		OrderID:         m.OrderID,
		CustomerEmail:   m.CustomerEmail,
		ShippingAddress: nonEmpty(m.ShippingAddress),
		BillingAddress:  nonEmpty(m.BillingAddress),
		Items:           items,
		Status:          trade.OrderStatus(m.Status),
		TotalPrice:      m.TotalPrice,
		Metadata:        metadata,
		TrackingURL:     m.TrackingURL,
	}
}

// OrderModelFromDomain creates a persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, id := range o.Items {
		items[i] = OrderItemModel{OrderPK: o.ID, Position: i, ProductID: id}
	}
	return &OrderModel{
		ID:              o.ID,
		OrderID:         o.OrderID,
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: nonEmpty(o.ShippingAddress),
		BillingAddress:  nonEmpty(o.BillingAddress),
		Status:          string(o.Status),
		TotalPrice:      o.TotalPrice,
		Metadata:        o.Metadata,
		TrackingURL:     o.TrackingURL,
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func nonEmpty(a *valueobject.Address) *valueobject.Address {
	if a == nil || a.IsEmpty() {
		return nil
	}
	return a
}

// AllModels returns every model managed by AutoMigrate
func AllModels() []any {
	return []any{
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
	}
}
