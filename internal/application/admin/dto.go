package admin

import (
	"time"

	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/billing/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// ListParams holds the order list request
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	OrderBy  string
	OrderDir string
	Filters  map[string]string
}

// StatusOut is a status code with its label
type StatusOut struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// OrderRow is one row of the admin order list.
// Metadata and tracking URL are left out of list rows.
type OrderRow struct {
	ID              uuid.UUID   `json:"id"`
	OrderID         uuid.UUID   `json:"order_id"`
	CustomerEmail   string      `json:"customer_email"`
	Items           []uuid.UUID `json:"items"`
	Status          StatusOut   `json:"status"`
	TotalPrice      float64     `json:"total_price"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	BillingAddress  string      `json:"billing_address,omitempty"`
}

// OrderDetail is the full admin view of an order
type OrderDetail struct {
	OrderRow
	ShippingAddressFields *valueobject.Address `json:"shipping_address_fields,omitempty"`
	BillingAddressFields  *valueobject.Address `json:"billing_address_fields,omitempty"`
	Metadata              map[string]any       `json:"metadata"`
	TrackingURL           string               `json:"tracking_url,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
}

// FilterInfo describes an available list filter
type FilterInfo struct {
	Name      string `json:"name"`
	Operation string `json:"operation"`
}

// StatusChoices lists the statuses an order can be set to
func StatusChoices() []StatusOut {
	out := make([]StatusOut, len(trade.OrderStatuses))
	for i, s := range trade.OrderStatuses {
		out[i] = StatusOut{Code: s.String(), Label: s.Label()}
	}
	return out
}

func toRow(o *trade.Order) OrderRow {
	shipping, _ := o.FullShippingAddress()
	billing, _ := o.FullBillingAddress()
	items := o.Items
	if items == nil {
		items = []uuid.UUID{}
	}
	return OrderRow{
		ID:              o.ID,
		OrderID:         o.OrderID,
		CustomerEmail:   o.CustomerEmail,
		Items:           items,
		Status:          StatusOut{Code: o.Status.String(), Label: o.Status.Label()},
		TotalPrice:      o.TotalPrice,
		ShippingAddress: shipping,
		BillingAddress:  billing,
	}
}

func toDetail(o *trade.Order) OrderDetail {
	metadata := o.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return OrderDetail{
		OrderRow:              toRow(o),
		ShippingAddressFields: o.ShippingAddress,
		BillingAddressFields:  o.BillingAddress,
		Metadata:              metadata,
		TrackingURL:           o.TrackingURL,
		CreatedAt:             o.CreatedAt,
	}
}
