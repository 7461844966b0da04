package trade

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// OrderStatus is the short code stored for an order's status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "p"
	OrderStatusProcessing OrderStatus = "r"
	OrderStatusShipped    OrderStatus = "s"
	OrderStatusDelivered  OrderStatus = "d"
)

// OrderStatuses lists every status in display order
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
}

var statusLabels = map[OrderStatus]string{
	OrderStatusPending:    "PENDING",
	OrderStatusProcessing: "PROCESSING",
	OrderStatusShipped:    "SHIPPED",
	OrderStatusDelivered:  "DELIVERED",
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable status name, or the raw code if unknown
func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// String returns the status code
func (s OrderStatus) String() string {
	return string(s)
}

// ParseOrderStatus accepts either a status code or its label
func ParseOrderStatus(value string) (OrderStatus, error) {
	s := OrderStatus(strings.TrimSpace(value))
	if s.IsValid() {
		return s, nil
	}
	for code, label := range statusLabels {
		if strings.EqualFold(label, string(s)) {
			return code, nil
		}
	}
	return "", shared.FieldError("status", MsgStatusNotAllowed)
}

// Validation messages specific to orders
var (
	MsgStatusNotAllowed = "Value must be one of " + formatStatusChoices()
)

// MsgInvalidEmail formats the invalid email message
func MsgInvalidEmail(value string) string {
	return "Invalid email address: " + value
}

// MsgInvalidURL formats the invalid URL message
func MsgInvalidURL(value string) string {
	return "Invalid URL: " + value
}

// MsgNotNumeric formats the type mismatch message for numeric fields
func MsgNotNumeric(field string) string {
	return field + " only accepts float and integer values"
}

// TrackingURLSchemes lists the schemes accepted for tracking links
var TrackingURLSchemes = []string{"http", "https", "ftp", "ftps"}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("tracking_url", isTrackingURL)
	return v
}

// isTrackingURL accepts absolute URLs with a host and an allowed scheme
func isTrackingURL(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil || u.Host == "" {
		return false
	}
	return slices.Contains(TrackingURLSchemes, strings.ToLower(u.Scheme))
}

// Order is a customer order.
// Items reference products by ID; the references are neither owned nor checked.
type Order struct {
	shared.BaseEntity
	OrderID         uuid.UUID
	CustomerEmail   string
	ShippingAddress *valueobject.Address
	BillingAddress  *valueobject.Address
	Items           []uuid.UUID
	Status          OrderStatus
	TotalPrice      float64
	Metadata        map[string]any
	TrackingURL     string
}

// NewOrder creates a pending order with a fresh order token
func NewOrder(customerEmail string, totalPrice float64, items ...uuid.UUID) *Order {
	if items == nil {
		items = []uuid.UUID{}
	}
	return &Order{
		BaseEntity:    shared.NewBaseEntity(),
		OrderID:       uuid.New(),
		CustomerEmail: strings.TrimSpace(customerEmail),
		Items:         items,
		Status:        OrderStatusPending,
		TotalPrice:    totalPrice,
		Metadata:      map[string]any{},
	}
}

// Validate checks every order rule and returns a *shared.ValidationError
// holding all violations, or nil. Item references are not checked.
func (o *Order) Validate() error {
	errs := shared.NewValidationError()

	switch {
	case o.CustomerEmail == "":
		errs.Add("customer_email", shared.MsgRequired)
	case validate.Var(o.CustomerEmail, "email") != nil:
		errs.Add("customer_email", MsgInvalidEmail(o.CustomerEmail))
	}

	if o.ShippingAddress != nil {
		errs.AddNested("shipping_address", o.ShippingAddress.Violations())
	}
	if o.BillingAddress != nil {
		errs.AddNested("billing_address", o.BillingAddress.Violations())
	}

	switch {
	case o.Status == "":
		errs.Add("status", shared.MsgRequired)
	case !o.Status.IsValid():
		errs.Add("status", MsgStatusNotAllowed)
	}

	if o.TrackingURL != "" && validate.Var(o.TrackingURL, "url,tracking_url") != nil {
		errs.Add("tracking_url", MsgInvalidURL(o.TrackingURL))
	}

	return errs.Err()
}

// SetStatus changes the status to any valid code. No transition rules apply.
func (o *Order) SetStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.FieldError("status", MsgStatusNotAllowed)
	}
	o.Status = status
	return nil
}

// FullShippingAddress returns the formatted shipping address.
// ok is false when the order has no shipping address.
func (o *Order) FullShippingAddress() (string, bool) {
	if o.ShippingAddress == nil {
		return "", false
	}
	return o.ShippingAddress.FullAddress(), true
}

// FullBillingAddress returns the formatted billing address, falling back to
// the shipping address when no billing address is set.
func (o *Order) FullBillingAddress() (string, bool) {
	if o.BillingAddress == nil {
		return o.FullShippingAddress()
	}
	return o.BillingAddress.FullAddress(), true
}

// String returns the order token
func (o *Order) String() string {
	return o.OrderID.String()
}

func formatStatusChoices() string {
	quoted := make([]string, len(OrderStatuses))
	for i, s := range OrderStatuses {
		quoted[i] = fmt.Sprintf("'%s'", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
