package mongostore

import (
	"fmt"
	"time"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/billing/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// productDocument is the stored form of a product
type productDocument struct {
	ID          string               `bson:"_id"`
	Name        string               `bson:"name"`
	Description string               `bson:"description,omitempty"`
	Price       primitive.Decimal128 `bson:"price"`
	Quantity    int                  `bson:"quantity"`
	Categories  []string             `bson:"categories"`
	Available   bool                 `bson:"available"`
	CreatedAt   time.Time            `bson:"created_at"`
	LastUpdated time.Time            `bson:"last_updated"`
}

// addressDocument is an address embedded in an order
type addressDocument struct {
	Street  string `bson:"street"`
	City    string `bson:"city"`
	State   string `bson:"state,omitempty"`
	ZipCode string `bson:"zip_code"`
}

// orderDocument is the stored form of an order
type orderDocument struct {
	ID              string           `bson:"_id"`
	OrderID         string           `bson:"order_id"`
	CustomerEmail   string           `bson:"customer_email"`
	ShippingAddress *addressDocument `bson:"shipping_address,omitempty"`
	BillingAddress  *addressDocument `bson:"billing_address,omitempty"`
	Items           []string         `bson:"items"`
	Status          string           `bson:"status"`
	TotalPrice      float64          `bson:"total_price"`
	Metadata        map[string]any   `bson:"metadata"`
	TrackingURL     string           `bson:"tracking_url,omitempty"`
	CreatedAt       time.Time        `bson:"created_at"`
	UpdatedAt       time.Time        `bson:"updated_at"`
}

func toProductDocument(p *catalog.Product) (*productDocument, error) {
	price, err := primitive.ParseDecimal128(p.Price.StringFixed(catalog.PricePrecision))
	if err != nil {
		return nil, fmt.Errorf("failed to encode price %s: %w", p.Price, err)
	}
	categories := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		categories[i] = string(c)
	}
	return &productDocument{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Quantity:    p.Quantity,
		Categories:  categories,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.LastUpdated(),
	}, nil
}

func (d *productDocument) toDomain() (*catalog.Product, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", d.ID, err)
	}
	price, err := decimal.NewFromString(d.Price.String())
	if err != nil {
		return nil, fmt.Errorf("invalid price on product %s: %w", d.ID, err)
	}
	categories := make([]catalog.Category, len(d.Categories))
	for i, c := range d.Categories {
		categories[i] = catalog.Category(c)
	}
	return &catalog.Product{
		BaseEntity: shared.BaseEntity{
			ID:        id,
			CreatedAt: shared.Timestamp(d.CreatedAt),
			UpdatedAt: shared.Timestamp(d.LastUpdated),
		},
		Name:        d.Name,
		Description: d.Description,
		Price:       price,
		Quantity:    d.Quantity,
		Categories:  categories,
		Available:   d.Available,
	}, nil
}

func toAddressDocument(a *valueobject.Address) *addressDocument {
	if a == nil || a.IsEmpty() {
		return nil
	}
	return &addressDocument{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
	}
}

func (d *addressDocument) toDomain() *valueobject.Address {
	if d == nil {
		return nil
	}
	return &valueobject.Address{
		Street:  d.Street,
		City:    d.City,
		State:   d.State,
		ZipCode: d.ZipCode,
	}
}

func toOrderDocument(o *trade.Order) *orderDocument {
	items := make([]string, len(o.Items))
	for i, id := range o.Items {
		items[i] = id.String()
	}
	metadata := o.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &orderDocument{
		ID:              o.ID.String(),
		OrderID:         o.OrderID.String(),
		CustomerEmail:   o.CustomerEmail,
		ShippingAddress: toAddressDocument(o.ShippingAddress),
		BillingAddress:  toAddressDocument(o.BillingAddress),
		Items:           items,
		Status:          string(o.Status),
		TotalPrice:      o.TotalPrice,
		Metadata:        metadata,
		TrackingURL:     o.TrackingURL,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (d *orderDocument) toDomain() (*trade.Order, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", d.ID, err)
	}
	orderID, err := uuid.Parse(d.OrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order token on order %s: %w", d.ID, err)
	}
	items := make([]uuid.UUID, len(d.Items))
	for i, raw := range d.Items {
		if items[i], err = uuid.Parse(raw); err != nil {
			return nil, fmt.Errorf("invalid item %q on order %s: %w", raw, d.ID, err)
		}
	}
	metadata := d.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &trade.Order{
		BaseEntity: shared.BaseEntity{
			ID:        id,
			CreatedAt: shared.Timestamp(d.CreatedAt),
			UpdatedAt: shared.Timestamp(d.UpdatedAt),
		},
		OrderID:         orderID,
		CustomerEmail:   d.CustomerEmail,
		ShippingAddress: d.ShippingAddress.toDomain(),
		BillingAddress:  d.BillingAddress.toDomain(),
		Items:           items,
		Status:          trade.OrderStatus(d.Status),
		TotalPrice:      d.TotalPrice,
		Metadata:        metadata,
		TrackingURL:     d.TrackingURL,
	}, nil
}
