package trade

import (
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/billing/backend/internal/domain/trade"
)

// ExtraFieldDefault is the static value of the decorative extra_field
const ExtraFieldDefault = "Anup Dhabarde"

// AddressOut is the nested address representation
type AddressOut struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code"`
}

// OrderOut is the public order representation. Absent values are omitted.
type OrderOut struct {
	ID              string      `json:"id"`
	OrderID         string      `json:"order_id,omitempty"`
	Items           []string    `json:"items,omitempty"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	Status          string      `json:"status,omitempty"`
	TotalPrice      *float64    `json:"total_price,omitempty"`
	TrackingURL     string      `json:"tracking_url,omitempty"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	BillingAddress  *AddressOut `json:"billing_address,omitempty"`
	ExtraField      string      `json:"extra_field"`
}

// ToOrderOut maps an order to its public representation
func ToOrderOut(o *trade.Order) OrderOut {
	total := o.TotalPrice
	out := OrderOut{
		ID:            o.ID.String(),
		OrderID:       o.OrderID.String(),
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status.Label(),
		TotalPrice:    &total,
		TrackingURL:   o.TrackingURL,
		ExtraField:    ExtraFieldDefault,
	}
	if len(o.Items) > 0 {
		out.Items = make([]string, len(o.Items))
		for i, id := range o.Items {
			out.Items[i] = id.String()
		}
	}
	if o.ShippingAddress != nil {
		out.ShippingAddress = o.ShippingAddress.FullAddress()
	}
	if o.BillingAddress != nil {
		out.BillingAddress = toAddressOut(*o.BillingAddress)
	}
	return out
}

// ToOrderOuts maps a list of orders
func ToOrderOuts(orders []trade.Order) []OrderOut {
	out := make([]OrderOut, len(orders))
	for i := range orders {
		out[i] = ToOrderOut(&orders[i])
	}
	return out
}

func toAddressOut(a valueobject.Address) *AddressOut {
	return &AddressOut{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
	}
}
