package trade

import (
	"encoding/json"
	"fmt"

	"github.com/billing/backend/internal/domain/shared"
	"github.com/billing/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Type mismatch messages used when building orders from untyped input
const (
	MsgNotString  = "StringField only accepts string values"
	MsgNotList    = "Only lists and tuples may be used in a list field"
	MsgNotMapping = "Only dictionaries may be used in a DictField"
	MsgNotUUID    = "Could not convert to UUID"
	MsgNotAddress = "Invalid embedded document instance provided to an EmbeddedDocumentField"
)

// BuildOrder constructs an order from loosely typed field values, as decoded
// from JSON or YAML. Type mismatches and rule violations are reported
// together in one *shared.ValidationError. Unknown keys are ignored.
func BuildOrder(fields map[string]any) (*Order, error) {
	o := NewOrder("", 0)
	errs := shared.NewValidationError()

	if v, ok := fields["order_id"]; ok && v != nil {
		if id, ok := toUUID(v); ok {
			o.OrderID = id
		} else {
			errs.Add("order_id", MsgNotUUID)
		}
	}

	if v, ok := fields["customer_email"]; ok && v != nil {
		if s, ok := v.(string); ok {
			o.CustomerEmail = s
		} else {
			errs.Add("customer_email", MsgNotString)
		}
	}

	if v, ok := fields["total_price"]; ok && v != nil {
		if f, ok := toFloat(v); ok {
			o.TotalPrice = f
		} else {
			errs.Add("total_price", MsgNotNumeric("total_price"))
		}
	} else {
		errs.Add("total_price", shared.MsgRequired)
	}

	if v, ok := fields["status"]; ok && v != nil {
		if s, ok := v.(string); ok {
			o.Status = OrderStatus(s)
		} else {
			errs.Add("status", MsgNotString)
		}
	}

	if v, ok := fields["tracking_url"]; ok && v != nil {
		if s, ok := v.(string); ok {
			o.TrackingURL = s
		} else {
			errs.Add("tracking_url", MsgNotString)
		}
	}

	if v, ok := fields["items"]; ok && v != nil {
		items, ok := toList(v)
		if !ok {
			errs.Add("items", MsgNotList)
		}
		for i, item := range items {
			id, ok := toUUID(item)
			if !ok {
				errs.AddIndexed("items", i, MsgNotUUID)
				continue
			}
			o.Items = append(o.Items, id)
		}
	}

	if v, ok := fields["metadata"]; ok && v != nil {
		if m, ok := toMapping(v); ok {
			o.Metadata = m
		} else {
			errs.Add("metadata", MsgNotMapping)
		}
	}

	for _, key := range []string{"shipping_address", "billing_address"} {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		addr, ok := toAddress(v)
		if !ok {
			errs.Add(key, MsgNotAddress)
			continue
		}
		if key == "shipping_address" {
			o.ShippingAddress = addr
		} else {
			o.BillingAddress = addr
		}
	}

	if err := o.Validate(); err != nil {
		if verr, ok := err.(*shared.ValidationError); ok {
			errs.Merge(verr)
		}
	}
	if !errs.Empty() {
		return nil, errs
	}
	return o, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func toUUID(v any) (uuid.UUID, bool) {
	switch id := v.(type) {
	case uuid.UUID:
		return id, true
	case string:
		parsed, err := uuid.Parse(id)
		return parsed, err == nil
	default:
		return uuid.Nil, false
	}
}

func toList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []string:
		out := make([]any, len(l))
		for i, s := range l {
			out[i] = s
		}
		return out, true
	case []uuid.UUID:
		out := make([]any, len(l))
		for i, id := range l {
			out[i] = id
		}
		return out, true
	default:
		return nil, false
	}
}

func toMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func toAddress(v any) (*valueobject.Address, bool) {
	switch a := v.(type) {
	case valueobject.Address:
		return &a, true
	case *valueobject.Address:
		return a, a != nil
	}
	m, ok := toMapping(v)
	if !ok {
		return nil, false
	}
	addr := &valueobject.Address{}
	for key, dst := range map[string]*string{
		"street":   &addr.Street,
		"city":     &addr.City,
		"state":    &addr.State,
		"zip_code": &addr.ZipCode,
	} {
		switch val := m[key].(type) {
		case nil:
		case string:
			*dst = val
		default:
			*dst = fmt.Sprint(val)
		}
	}
	return addr, true
}
