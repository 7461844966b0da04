package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/billing/backend/internal/domain/catalog"
	"github.com/billing/backend/internal/domain/shared"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Schema level messages for input that cannot be coerced to the field type
const (
	MsgMissingData  = "Missing data for required field."
	MsgNotNull      = "Field may not be null."
	MsgNotString    = "Not a valid string."
	MsgNotNumber    = "Not a valid number."
	MsgNotInteger   = "Not a valid integer."
	MsgNotBoolean   = "Not a valid boolean."
	MsgNotList      = "Not a valid list."
	MsgInvalidInput = "Invalid input type."
)

// SchemaKey is the key under which payload level errors are reported
const SchemaKey = "_schema"

// productInput carries decoded fields. Nil pointers are fields absent from the payload.
type productInput struct {
	Name        *string          `json:"name" validate:"required,max=100,ne=not_supported_name"`
	Description *string          `json:"description" validate:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required,gte=0"`
	Quantity    *int             `json:"quantity" validate:"required,gte=0"`
	Categories  []string         `json:"categories" validate:"omitempty,dive,oneof=electronics clothing toys"`
	Available   *bool            `json:"available"`
}

// ProductOut is the wire representation of a product
type ProductOut struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Categories  []string  `json:"categories"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// ProductSchema translates between JSON payloads and products.
// Unknown keys are ignored; id, created_at and last_updated are output only.
type ProductSchema struct {
	validate *validator.Validate
}

// NewProductSchema creates a product schema
func NewProductSchema() *ProductSchema {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Round(catalog.PricePrecision).Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return &ProductSchema{validate: v}
}

// Load decodes a creation payload into a new, validated product
func (s *ProductSchema) Load(data []byte) (*catalog.Product, error) {
	in, _, errs := s.decode(data)
	if errs.Has(SchemaKey) {
		return nil, errs
	}
	errs.Merge(s.check(in, nil))

	p := catalog.NewProduct("", decimal.Zero, 0)
	apply(p, in)
	if err := p.Validate(); err != nil {
		errs.Merge(asValidation(err))
	}
	if !errs.Empty() {
		return nil, errs
	}
	return p, nil
}

// Update applies only the fields present in data to p and re-validates it
func (s *ProductSchema) Update(p *catalog.Product, data []byte) error {
	in, present, errs := s.decode(data)
	if errs.Has(SchemaKey) {
		return errs
	}
	errs.Merge(s.check(in, present))

	apply(p, in)
	if err := p.Validate(); err != nil {
		errs.Merge(asValidation(err))
	}
	return errs.Err()
}

// Dump converts a product to its wire representation
func (s *ProductSchema) Dump(p *catalog.Product) ProductOut {
	price, _ := p.Price.Float64()
	categories := make([]string, len(p.Categories))
	for i, c := range p.Categories {
		categories[i] = string(c)
	}
	return ProductOut{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		Quantity:    p.Quantity,
		Categories:  categories,
		Available:   p.Available,
		CreatedAt:   p.CreatedAt,
		LastUpdated: p.LastUpdated(),
	}
}

// DumpMany converts a list of products
func (s *ProductSchema) DumpMany(products []catalog.Product) []ProductOut {
	out := make([]ProductOut, len(products))
	for i := range products {
		out[i] = s.Dump(&products[i])
	}
	return out
}

// decode coerces each known key of the payload to its field type.
// It returns the names of the struct fields that were present.
func (s *ProductSchema) decode(data []byte) (productInput, []string, *shared.ValidationError) {
	var in productInput
	errs := shared.NewValidationError()

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		errs.Add(SchemaKey, MsgInvalidInput)
		return in, nil, errs
	}

	present := make([]string, 0, len(raw))
	for key, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			if _, known := fieldNames[key]; known {
				errs.Add(key, MsgNotNull)
			}
			continue
		}
		switch key {
		case "name":
			if v, ok := decodeString(value); ok {
				in.Name = &v
			} else {
				errs.Add(key, MsgNotString)
			}
		case "description":
			if v, ok := decodeString(value); ok {
				in.Description = &v
			} else {
				errs.Add(key, MsgNotString)
			}
		case "price":
			if v, ok := decodeDecimal(value); ok {
				in.Price = &v
			} else {
				errs.Add(key, MsgNotNumber)
			}
		case "quantity":
			if v, ok := decodeInteger(value); ok {
				in.Quantity = &v
			} else {
				errs.Add(key, MsgNotInteger)
			}
		case "categories":
			var items []json.RawMessage
			if err := json.Unmarshal(value, &items); err != nil {
				errs.Add(key, MsgNotList)
				continue
			}
			in.Categories = make([]string, 0, len(items))
			for i, item := range items {
				v, ok := decodeString(item)
				if !ok {
					errs.AddIndexed(key, i, MsgNotString)
				}
				in.Categories = append(in.Categories, v)
			}
		case "available":
			if v, ok := decodeBool(value); ok {
				in.Available = &v
			} else {
				errs.Add(key, MsgNotBoolean)
			}
		default:
			continue
		}
		present = append(present, fieldNames[key])
	}
	return in, present, errs
}

// check runs the declared field rules. When partial is non-nil only the
// listed struct fields are checked.
func (s *ProductSchema) check(in productInput, partial []string) *shared.ValidationError {
	errs := shared.NewValidationError()

	var err error
	if partial == nil {
		err = s.validate.Struct(in)
	} else {
		if len(partial) == 0 {
			return errs
		}
		err = s.validate.StructPartial(in, partial...)
	}
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add(SchemaKey, MsgInvalidInput)
		return errs
	}
	for _, fe := range verrs {
		field, index, indexed := splitIndex(fe.Field())
		msg := schemaMessage(fe)
		if indexed {
			errs.AddIndexed(field, index, msg)
		} else {
			errs.Add(field, msg)
		}
	}
	return errs
}

// fieldNames maps payload keys to productInput struct field names
var fieldNames = map[string]string{
	"name":        "Name",
	"description": "Description",
	"price":       "Price",
	"quantity":    "Quantity",
	"categories":  "Categories",
	"available":   "Available",
}

// schemaMessage maps a rule failure to the message used by entity validation
func schemaMessage(fe validator.FieldError) string {
	field, _, _ := splitIndex(fe.Field())
	switch fe.Tag() {
	case "required":
		return MsgMissingData
	case "max":
		return shared.MsgStringTooLong
	case "ne":
		return catalog.MsgReservedName
	case "gte":
		if field == "price" {
			return shared.MsgDecimalTooLow
		}
		return shared.MsgIntegerTooLow
	case "oneof":
		return catalog.MsgCategoryNotAllowed
	default:
		return "Invalid value."
	}
}

func apply(p *catalog.Product, in productInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.SetPrice(*in.Price)
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.Categories != nil {
		categories := make([]catalog.Category, len(in.Categories))
		for i, c := range in.Categories {
			categories[i] = catalog.Category(c)
		}
		p.Categories = categories
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
}

func asValidation(err error) *shared.ValidationError {
	if verr, ok := err.(*shared.ValidationError); ok {
		return verr
	}
	return shared.FieldError(SchemaKey, err.Error())
}

func splitIndex(field string) (string, int, bool) {
	name, rest, found := strings.Cut(field, "[")
	if !found {
		return field, 0, false
	}
	index, err := strconv.Atoi(strings.TrimSuffix(rest, "]"))
	if err != nil {
		return name, 0, false
	}
	return name, index, true
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// decodeDecimal accepts a JSON number or a numeric string
func decodeDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var (
	maxInteger = decimal.NewFromInt(math.MaxInt)
	minInteger = decimal.NewFromInt(math.MinInt)
)

// decodeInteger accepts integral JSON numbers or strings that fit in an int
func decodeInteger(raw json.RawMessage) (int, bool) {
	d, ok := decodeDecimal(raw)
	if !ok || !d.IsInteger() {
		return 0, false
	}
	if d.GreaterThan(maxInteger) || d.LessThan(minInteger) {
		return 0, false
	}
	return int(d.IntPart()), true
}

var boolLiterals = map[string]bool{
	"true": true, "t": true, "yes": true, "y": true, "on": true, "1": true,
	"false": false, "f": false, "no": false, "n": false, "off": false, "0": false,
}

// decodeBool accepts JSON booleans, 0 and 1, and common truthy or falsy strings
func decodeBool(raw json.RawMessage) (bool, bool) {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		v, ok := boolLiterals[n.String()]
		return v, ok
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		v, ok := boolLiterals[strings.ToLower(strings.TrimSpace(s))]
		return v, ok
	}
	return false, false
}
